package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/memberhub/memberhub/internal/config"
	"github.com/memberhub/memberhub/internal/metrics"
	"github.com/memberhub/memberhub/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	msgEmailMissing     = "Enter a valid email first."
	msgPhoneMissing     = "Enter a valid phone number first."
	msgEmailOTPSent     = "OTP sent to email!"
	msgPhoneOTPSent     = "OTP sent to phone!"
	msgDispatchFailed   = "Failed to send OTP."
	msgOTPVerified      = "OTP verified"
	msgOTPInvalid       = "Invalid OTP"
	msgOTPCheckFailed   = "Could not verify OTP."
	msgMemberCreated    = "Member created!"
	msgSubmissionFailed = "Error while creating member"

	labelOTPSent      = "OTP Sent"
	labelSendEmailOTP = "Send Email OTP"
	labelSendPhoneOTP = "Send OTP"
)

// OTPFlow dispatches and checks codes for a verification channel.
type OTPFlow interface {
	Dispatch(ctx context.Context, channel models.Channel, recipient string) error
	Verify(ctx context.Context, channel models.Channel, recipient, otp string) (bool, error)
}

// MemberRegistrar persists the assembled member record.
type MemberRegistrar interface {
	SignupMember(ctx context.Context, payload models.SignupPayload) error
}

// Outcome is what the signup page shows after an operation.
type Outcome struct {
	Notifications []models.Notification `json:"notifications"`
	Redirect      *models.Redirect      `json:"redirect,omitempty"`
}

func (o *Outcome) success(message string) {
	o.Notifications = append(o.Notifications, models.Notification{Level: models.NotificationSuccess, Message: message})
}

func (o *Outcome) failure(message string) {
	o.Notifications = append(o.Notifications, models.Notification{Level: models.NotificationError, Message: message})
}

// ControlState is the enabled flag and label of one dispatch button.
type ControlState struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

// Controls holds the dispatch buttons of both channels.
type Controls struct {
	SendEmailOTP ControlState `json:"sendEmailOtp"`
	SendPhoneOTP ControlState `json:"sendPhoneOtp"`
}

// SignupController drives the registration workflow for one session at a time.
// It mutates the session it is given; persisting it is the caller's job.
type SignupController struct {
	otp       OTPFlow
	members   MemberRegistrar
	validator *FormValidator
	cfg       *config.SignupConfig
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

func NewSignupController(
	otp OTPFlow,
	members MemberRegistrar,
	cfg *config.SignupConfig,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *SignupController {
	return &SignupController{
		otp:       otp,
		members:   members,
		validator: NewFormValidator(cfg.OTPLength),
		cfg:       cfg,
		metrics:   m,
		logger:    logger,
	}
}

// UpdateField sets one form field. Editing a contact or code field clears the
// channel's verdict, and a code reaching the configured length is checked at once.
func (c *SignupController) UpdateField(ctx context.Context, s *models.SignupSession, field, value string) (Outcome, error) {
	var out Outcome

	set, ok := formFields[field]
	if !ok {
		return out, fmt.Errorf("%w: %q", models.ErrUnknownField, field)
	}

	before := s.Form
	set(&s.Form, value)
	if s.Form == before {
		return out, nil
	}

	switch field {
	case "email":
		s.Verification.Email.Reset()
	case "phoneNumber":
		s.Verification.Phone.Reset()
	case "emailOTP":
		c.codeChanged(ctx, s, models.ChannelEmail, value, &out)
	case "phoneOTP":
		c.codeChanged(ctx, s, models.ChannelPhone, value, &out)
	}

	return out, nil
}

func (c *SignupController) codeChanged(ctx context.Context, s *models.SignupSession, channel models.Channel, code string, out *Outcome) {
	status := s.Verification.Channel(channel)
	status.Reset()

	if utf8.RuneCountInString(code) != c.cfg.OTPLength {
		return
	}

	recipient := contactFor(s.Form, channel)
	valid, err := c.otp.Verify(ctx, channel, recipient, code)
	if err != nil {
		status.Record(code, false)
		out.failure(msgOTPCheckFailed)
		return
	}

	status.Record(code, valid)
	if valid {
		out.success(msgOTPVerified)
		return
	}
	out.failure(msgOTPInvalid)
}

// DispatchOTP asks the OTP service to send a code to the channel's contact value.
// The channel is locked once a send succeeds; failures leave it open for retry.
func (c *SignupController) DispatchOTP(ctx context.Context, s *models.SignupSession, channel models.Channel) (Outcome, error) {
	var out Outcome

	status := s.Verification.Channel(channel)
	if status.Sent() {
		return out, models.ErrOTPAlreadySent
	}

	recipient := contactFor(s.Form, channel)
	if strings.TrimSpace(recipient) == "" {
		if channel == models.ChannelPhone {
			out.failure(msgPhoneMissing)
		} else {
			out.failure(msgEmailMissing)
		}
		return out, models.ErrContactMissing
	}

	if err := c.otp.Dispatch(ctx, channel, recipient); err != nil {
		out.failure(msgDispatchFailed)
		return out, fmt.Errorf("%w: %w", models.ErrDispatchFailed, err)
	}

	status.MarkSent()
	if channel == models.ChannelPhone {
		out.success(msgPhoneOTPSent)
	} else {
		out.success(msgEmailOTPSent)
	}
	return out, nil
}

// Submit validates the form and forwards the assembled payload. A *ValidationError
// means nothing was sent.
func (c *SignupController) Submit(ctx context.Context, s *models.SignupSession) (Outcome, error) {
	var out Outcome

	fields := c.validator.Validate(s.Form)
	if c.cfg.RequireVerifiedOTP {
		fields = append(fields, unverifiedChannels(s)...)
	}
	if len(fields) > 0 {
		c.metrics.ObserveSubmission("invalid")
		return out, &ValidationError{Fields: fields}
	}

	payload := BuildPayload(s.Form, s.Club)
	if err := c.members.SignupMember(ctx, payload); err != nil {
		c.metrics.ObserveSubmission("error")
		c.logger.WithError(err).WithField("session_id", s.ID).Error("Member signup failed")
		out.failure(msgSubmissionFailed)
		return out, fmt.Errorf("%w: %w", models.ErrSubmissionFailed, err)
	}

	c.metrics.ObserveSubmission("created")
	c.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"club_id":    s.Club.ClubID.String(),
	}).Info("Member created")

	out.success(msgMemberCreated)
	out.Redirect = &models.Redirect{
		Route:   c.cfg.RedirectRoute,
		DelayMS: c.cfg.RedirectDelay.Milliseconds(),
	}
	return out, nil
}

// Controls reports the dispatch buttons for the session's current state.
func (c *SignupController) Controls(s *models.SignupSession) Controls {
	return Controls{
		SendEmailOTP: dispatchControl(s.Verification.Email, labelSendEmailOTP),
		SendPhoneOTP: dispatchControl(s.Verification.Phone, labelSendPhoneOTP),
	}
}

func dispatchControl(status models.ChannelStatus, idleLabel string) ControlState {
	if status.Sent() {
		return ControlState{Enabled: false, Label: labelOTPSent}
	}
	return ControlState{Enabled: true, Label: idleLabel}
}

func unverifiedChannels(s *models.SignupSession) []FieldError {
	var fields []FieldError
	if s.Verification.Email.Validity != models.ValidityValid || s.Verification.Email.CheckedCode != s.Form.EmailOTP {
		fields = append(fields, FieldError{Field: "emailOTP", Message: "Email OTP has not been verified"})
	}
	if s.Form.PhoneOTP != "" &&
		(s.Verification.Phone.Validity != models.ValidityValid || s.Verification.Phone.CheckedCode != s.Form.PhoneOTP) {
		fields = append(fields, FieldError{Field: "phoneOTP", Message: "Phone OTP has not been verified"})
	}
	return fields
}

// BuildPayload combines the form with the club context. It is a pure function of
// its inputs.
func BuildPayload(form models.RegistrationForm, club models.ClubContext) models.SignupPayload {
	return models.SignupPayload{
		RegistrationForm:    form,
		Name:                form.FirstName + " " + form.LastName,
		CurrentActiveClubID: club.ClubID,
		MembershipTypeID:    club.MembershipID,
	}
}
