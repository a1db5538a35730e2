package service

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/memberhub/memberhub/internal/models"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks a submission. Fields keeps struct declaration order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var fieldLabels = map[string]string{
	"firstName":                     "First name",
	"lastName":                      "Last name",
	"email":                         "Email",
	"phoneNumber":                   "Phone number",
	"password":                      "Password",
	"confirmPassword":               "Confirm password",
	"profilePictureUrl":             "Profile picture URL",
	"dateOfBirth":                   "Date of birth",
	"gender":                        "Gender",
	"address":                       "Address",
	"city":                          "City",
	"state":                         "State",
	"country":                       "Country",
	"zipCode":                       "Zip code",
	"emailOTP":                      "Email OTP",
	"phoneOTP":                      "Phone OTP",
	"skillLevel":                    "Skill level",
	"preferredTime":                 "Preferred time",
	"paymentDetails.cardNumber":     "Card number",
	"paymentDetails.cvv":            "CVV",
	"paymentDetails.expiryDate":     "Expiry date",
	"paymentDetails.cardHolderName": "Cardholder name",
	"paymentDetails.cardTypeEnum":   "Card type",
}

// keyed by "<field>|<tag>"
var messageOverrides = map[string]string{
	"email|email":                       "Invalid email address",
	"phoneNumber|min":                   "Phone number is required",
	"password|min":                      "Password must be at least 6 characters",
	"confirmPassword|min":               "Please confirm your password",
	"confirmPassword|eqfield":           "Passwords do not match",
	"profilePictureUrl|url":             "Invalid URL",
	"paymentDetails.cardNumber|min":     "Card number must be 16 digits",
	"paymentDetails.cvv|min":            "CVV must be at least 3 digits",
	"paymentDetails.cvv|max":            "CVV must be at most 4 digits",
	"paymentDetails.expiryDate|min":     "Expiry date is required",
	"paymentDetails.cardTypeEnum|oneof": "Card type must be VISA, MASTERCARD or AMEX",
}

// FormValidator evaluates the rule set declared in the registration form's struct tags.
type FormValidator struct {
	validate  *validator.Validate
	otpLength int
}

func NewFormValidator(otpLength int) *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	fv := &FormValidator{validate: v, otpLength: otpLength}
	// RegisterValidation only fails for an empty tag or a nil func
	_ = v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return fv.IsOTP(fl.Field().String())
	})
	return fv
}

// IsOTP reports whether code has the configured length and is all digits.
func (v *FormValidator) IsOTP(code string) bool {
	if utf8.RuneCountInString(code) != v.otpLength {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (v *FormValidator) OTPLength() int {
	return v.otpLength
}

// Validate returns nil when the form satisfies every rule.
func (v *FormValidator) Validate(form models.RegistrationForm) []FieldError {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "form", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		path := fieldPath(fe.Namespace())
		fields = append(fields, FieldError{Field: path, Message: v.message(path, fe.Tag())})
	}
	return fields
}

func (v *FormValidator) message(field, tag string) string {
	if msg, ok := messageOverrides[field+"|"+tag]; ok {
		return msg
	}
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	switch tag {
	case "required":
		return label + " is required"
	case "otp":
		return fmt.Sprintf("%s must be %d digits", label, v.otpLength)
	default:
		return label + " is invalid"
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
