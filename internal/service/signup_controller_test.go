package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/memberhub/memberhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *models.SignupSession {
	return models.NewSignupSession("sess-1", testClub(), time.Hour)
}

func messages(out Outcome) []string {
	msgs := make([]string, 0, len(out.Notifications))
	for _, n := range out.Notifications {
		msgs = append(msgs, n.Message)
	}
	return msgs
}

func TestEmailDispatchThenAutoVerify(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{valid: true}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()

	_, err := c.UpdateField(ctx, s, "email", "a@b.com")
	require.NoError(t, err)

	out, err := c.DispatchOTP(ctx, s, models.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, []string{"OTP sent to email!"}, messages(out))
	assert.Equal(t, []string{"a@b.com"}, gw.emailSends)

	controls := c.Controls(s)
	assert.False(t, controls.SendEmailOTP.Enabled)
	assert.Equal(t, "OTP Sent", controls.SendEmailOTP.Label)

	out, err = c.UpdateField(ctx, s, "emailOTP", "123456")
	require.NoError(t, err)
	assert.Equal(t, []validationCall{{Recipient: "a@b.com", OTP: "123456"}}, gw.validations)
	assert.Equal(t, []string{"OTP verified"}, messages(out))
	assert.Equal(t, models.ValidityValid, s.Verification.Email.Validity)
}

func TestPartialCodesDoNotTriggerValidation(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{valid: true}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()
	s.Form.Email = "a@b.com"

	for _, code := range []string{"1", "12", "123", "1234", "12345"} {
		out, err := c.UpdateField(ctx, s, "emailOTP", code)
		require.NoError(t, err)
		assert.Empty(t, out.Notifications)
	}
	assert.Empty(t, gw.validations)

	_, err := c.UpdateField(ctx, s, "emailOTP", "123456")
	require.NoError(t, err)
	assert.Len(t, gw.validations, 1)

	// same value again is not an edit
	_, err = c.UpdateField(ctx, s, "emailOTP", "123456")
	require.NoError(t, err)
	assert.Len(t, gw.validations, 1)
}

func TestPhoneCodeValidatesAgainstPhoneNumber(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{valid: true}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()
	s.Form.Email = "a@b.com"
	s.Form.PhoneNumber = "5551234567"

	_, err := c.UpdateField(ctx, s, "phoneOTP", "654321")
	require.NoError(t, err)
	assert.Equal(t, []validationCall{{Recipient: "5551234567", OTP: "654321"}}, gw.validations)
	assert.Equal(t, models.ValidityValid, s.Verification.Phone.Validity)
	assert.Equal(t, models.ValidityUnknown, s.Verification.Email.Validity)
}

func TestRejectedCodeIsReported(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{valid: false}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()
	s.Form.Email = "a@b.com"

	out, err := c.UpdateField(ctx, s, "emailOTP", "000000")
	require.NoError(t, err)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, models.NotificationError, out.Notifications[0].Level)
	assert.Equal(t, "Invalid OTP", out.Notifications[0].Message)
	assert.Equal(t, models.ValidityInvalid, s.Verification.Email.Validity)
}

func TestValidationTransportFailure(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{verifyErr: errors.New("connection reset")}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()
	s.Form.Email = "a@b.com"

	out, err := c.UpdateField(ctx, s, "emailOTP", "123456")
	require.NoError(t, err)
	assert.Equal(t, []string{"Could not verify OTP."}, messages(out))
	assert.Equal(t, models.ValidityInvalid, s.Verification.Email.Validity)
	assert.Equal(t, "123456", s.Form.EmailOTP)
}

func TestEditingContactResetsVerdict(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{valid: true}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()
	s.Form.Email = "a@b.com"

	_, err := c.UpdateField(ctx, s, "emailOTP", "123456")
	require.NoError(t, err)
	require.Equal(t, models.ValidityValid, s.Verification.Email.Validity)

	_, err = c.UpdateField(ctx, s, "email", "c@d.com")
	require.NoError(t, err)
	assert.Equal(t, models.ValidityUnknown, s.Verification.Email.Validity)
	assert.Empty(t, s.Verification.Email.CheckedCode)
}

func TestDispatchWithEmptyContact(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()

	out, err := c.DispatchOTP(ctx, s, models.ChannelEmail)
	assert.ErrorIs(t, err, models.ErrContactMissing)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, models.NotificationError, out.Notifications[0].Level)
	assert.Equal(t, "Enter a valid email first.", out.Notifications[0].Message)

	s.Form.PhoneNumber = "   "
	out, err = c.DispatchOTP(ctx, s, models.ChannelPhone)
	assert.ErrorIs(t, err, models.ErrContactMissing)
	assert.Equal(t, []string{"Enter a valid phone number first."}, messages(out))

	assert.Zero(t, gw.sends())
	assert.True(t, c.Controls(s).SendEmailOTP.Enabled)
	assert.True(t, c.Controls(s).SendPhoneOTP.Enabled)
}

func TestDispatchLocksChannelAfterSuccess(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()
	s.Form.Email = "a@b.com"
	s.Form.PhoneNumber = "5551234567"

	_, err := c.DispatchOTP(ctx, s, models.ChannelEmail)
	require.NoError(t, err)

	out, err := c.DispatchOTP(ctx, s, models.ChannelEmail)
	assert.ErrorIs(t, err, models.ErrOTPAlreadySent)
	assert.Empty(t, out.Notifications)
	assert.Len(t, gw.emailSends, 1)

	// the phone channel is independent
	controls := c.Controls(s)
	assert.True(t, controls.SendPhoneOTP.Enabled)
	assert.Equal(t, "Send OTP", controls.SendPhoneOTP.Label)

	out, err = c.DispatchOTP(ctx, s, models.ChannelPhone)
	require.NoError(t, err)
	assert.Equal(t, []string{"OTP sent to phone!"}, messages(out))
	assert.Equal(t, []string{"5551234567"}, gw.phoneSends)
	assert.False(t, c.Controls(s).SendPhoneOTP.Enabled)
}

func TestDispatchFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{sendErr: errors.New("upstream down")}
	c := newTestController(gw, &fakeRegistrar{}, testSignupConfig())
	s := newSession()
	s.Form.Email = "a@b.com"

	out, err := c.DispatchOTP(ctx, s, models.ChannelEmail)
	assert.ErrorIs(t, err, models.ErrDispatchFailed)
	assert.Equal(t, []string{"Failed to send OTP."}, messages(out))
	assert.True(t, c.Controls(s).SendEmailOTP.Enabled)

	gw.sendErr = nil
	_, err = c.DispatchOTP(ctx, s, models.ChannelEmail)
	require.NoError(t, err)
	assert.Len(t, gw.emailSends, 2)
}

func TestInitialControls(t *testing.T) {
	c := newTestController(&fakeGateway{}, &fakeRegistrar{}, testSignupConfig())
	controls := c.Controls(newSession())
	assert.Equal(t, ControlState{Enabled: true, Label: "Send Email OTP"}, controls.SendEmailOTP)
	assert.Equal(t, ControlState{Enabled: true, Label: "Send OTP"}, controls.SendPhoneOTP)
}

func TestUpdateUnknownField(t *testing.T) {
	c := newTestController(&fakeGateway{}, &fakeRegistrar{}, testSignupConfig())
	s := newSession()

	_, err := c.UpdateField(context.Background(), s, "nickname", "ada")
	assert.ErrorIs(t, err, models.ErrUnknownField)
	assert.Equal(t, models.NewRegistrationForm(), s.Form)
}

func TestUpdateNestedPaymentField(t *testing.T) {
	c := newTestController(&fakeGateway{}, &fakeRegistrar{}, testSignupConfig())
	s := newSession()

	_, err := c.UpdateField(context.Background(), s, "paymentDetails.cardTypeEnum", "AMEX")
	require.NoError(t, err)
	assert.Equal(t, models.CardTypeAmex, s.Form.PaymentDetails.CardType)
}

func TestSubmitBlockedWithoutNetworkCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *models.RegistrationForm)
	}{
		{"password mismatch", func(f *models.RegistrationForm) { f.ConfirmPassword = "different" }},
		{"empty required field", func(f *models.RegistrationForm) { f.City = "" }},
		{"short email otp", func(f *models.RegistrationForm) { f.EmailOTP = "12345" }},
		{"short card number", func(f *models.RegistrationForm) { f.PaymentDetails.CardNumber = "4111" }},
		{"cvv too short", func(f *models.RegistrationForm) { f.PaymentDetails.CVV = "12" }},
		{"cvv too long", func(f *models.RegistrationForm) { f.PaymentDetails.CVV = "12345" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistrar{}
			c := newTestController(&fakeGateway{}, reg, testSignupConfig())
			s := newSession()
			s.Form = validForm()
			tt.mutate(&s.Form)

			out, err := c.Submit(context.Background(), s)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Fields)
			assert.Empty(t, out.Notifications)
			assert.Nil(t, out.Redirect)
			assert.Zero(t, reg.calls())
		})
	}
}

func TestSubmitCreatesMember(t *testing.T) {
	reg := &fakeRegistrar{}
	c := newTestController(&fakeGateway{}, reg, testSignupConfig())
	s := newSession()
	s.Form = validForm()

	out, err := c.Submit(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, []string{"Member created!"}, messages(out))
	require.NotNil(t, out.Redirect)
	assert.Equal(t, "/home", out.Redirect.Route)
	assert.Equal(t, int64(1000), out.Redirect.DelayMS)

	require.Equal(t, 1, reg.calls())
	payload := reg.payloads[0]
	assert.Equal(t, "Ada Lovelace", payload.Name)
	assert.Equal(t, models.NumericClubID(42), payload.CurrentActiveClubID)
	assert.Equal(t, models.StringClubID("7"), payload.MembershipTypeID)
	assert.Equal(t, "a@b.com", payload.Email)
}

func TestSubmitTransportFailure(t *testing.T) {
	reg := &fakeRegistrar{err: errors.New("dial tcp: connection refused")}
	c := newTestController(&fakeGateway{}, reg, testSignupConfig())
	s := newSession()
	s.Form = validForm()

	out, err := c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, models.ErrSubmissionFailed)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, models.NotificationError, out.Notifications[0].Level)
	assert.Equal(t, "Error while creating member", out.Notifications[0].Message)
	assert.Nil(t, out.Redirect)
}

func TestSubmitRequiresVerifiedCodesWhenConfigured(t *testing.T) {
	ctx := context.Background()
	cfg := testSignupConfig()
	cfg.RequireVerifiedOTP = true

	gw := &fakeGateway{valid: true}
	reg := &fakeRegistrar{}
	c := newTestController(gw, reg, cfg)
	s := newSession()
	s.Form = validForm()

	_, err := c.Submit(ctx, s)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"emailOTP"}, fieldNames(verr.Fields))
	assert.Zero(t, reg.calls())

	// re-entering the code triggers a successful check
	_, err = c.UpdateField(ctx, s, "emailOTP", "")
	require.NoError(t, err)
	_, err = c.UpdateField(ctx, s, "emailOTP", "123456")
	require.NoError(t, err)

	_, err = c.Submit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.calls())
}

func TestBuildPayload(t *testing.T) {
	form := validForm()
	club := testClub()

	first := BuildPayload(form, club)
	second := BuildPayload(form, club)
	assert.Equal(t, first, second)
	assert.Equal(t, "Ada Lovelace", first.Name)

	form.FirstName, form.LastName = "", ""
	assert.Equal(t, " ", BuildPayload(form, club).Name)

	data, err := json.Marshal(first)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "Ada Lovelace", body["name"])
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, float64(42), body["currentActiveClubId"])
	assert.Equal(t, "7", body["membershipTypeId"])
	assert.Contains(t, body, "paymentDetails")
}

func TestBuildPayloadWithoutClub(t *testing.T) {
	data, err := json.Marshal(BuildPayload(validForm(), models.ClubContext{}))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.NotContains(t, body, "currentActiveClubId")
	assert.NotContains(t, body, "membershipTypeId")
}

func TestBuildPayloadKeepsIdentifierShape(t *testing.T) {
	var club models.ClubContext
	require.NoError(t, json.Unmarshal([]byte(`{"clubId":42,"membershipId":"7","clubName":"Riverside"}`), &club))

	data, err := json.Marshal(BuildPayload(validForm(), club))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentActiveClubId":42`)
	assert.Contains(t, string(data), `"membershipTypeId":"7"`)

	require.NoError(t, json.Unmarshal([]byte(`{"clubId":"42","membershipId":7}`), &club))
	data, err = json.Marshal(BuildPayload(validForm(), club))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentActiveClubId":"42"`)
	assert.Contains(t, string(data), `"membershipTypeId":7`)
}
