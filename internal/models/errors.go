package models

import "errors"

var (
	ErrSessionNotFound = errors.New("signup session not found or expired")
	ErrUnknownField    = errors.New("unknown form field")
	ErrUnknownChannel  = errors.New("unknown verification channel")

	ErrContactMissing = errors.New("contact value is required before sending an OTP")
	ErrOTPAlreadySent = errors.New("OTP already sent on this channel")
	ErrDispatchFailed = errors.New("failed to send OTP")

	ErrSubmissionFailed = errors.New("member registration failed")
)
