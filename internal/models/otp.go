package models

type OTPDispatchRequest struct {
	Recipient string `json:"recipient"`
}

type OTPValidationRequest struct {
	Recipient string `json:"recipient"`
	OTP       string `json:"otp"`
}

type OTPValidationResponse struct {
	Valid bool `json:"valid"`
}
