package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/memberhub/memberhub/internal/config"
	"github.com/memberhub/memberhub/internal/metrics"
	"github.com/memberhub/memberhub/internal/models"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testSignupConfig() *config.SignupConfig {
	return &config.SignupConfig{
		OTPLength:     6,
		RedirectRoute: "/home",
		RedirectDelay: time.Second,
	}
}

type validationCall struct {
	Recipient string
	OTP       string
}

type fakeGateway struct {
	mu          sync.Mutex
	emailSends  []string
	phoneSends  []string
	validations []validationCall

	sendErr   error
	verifyErr error
	valid     bool
}

func (g *fakeGateway) SendEmailOTP(_ context.Context, recipient string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.emailSends = append(g.emailSends, recipient)
	return g.sendErr
}

func (g *fakeGateway) SendPhoneOTP(_ context.Context, recipient string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.phoneSends = append(g.phoneSends, recipient)
	return g.sendErr
}

func (g *fakeGateway) ValidateOTP(_ context.Context, recipient, otp string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.validations = append(g.validations, validationCall{Recipient: recipient, OTP: otp})
	return g.valid, g.verifyErr
}

func (g *fakeGateway) sends() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.emailSends) + len(g.phoneSends)
}

type fakeRegistrar struct {
	mu       sync.Mutex
	payloads []models.SignupPayload
	err      error
}

func (r *fakeRegistrar) SignupMember(_ context.Context, payload models.SignupPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
	return r.err
}

func (r *fakeRegistrar) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func newTestController(gw *fakeGateway, reg *fakeRegistrar, cfg *config.SignupConfig) *SignupController {
	logger := quietLogger()
	m := metrics.NewNop()
	return NewSignupController(NewOTPService(gw, m, logger), reg, cfg, m, logger)
}

func testClub() models.ClubContext {
	return models.ClubContext{
		ClubID:       models.NumericClubID(42),
		ClubName:     "Riverside Tennis",
		MembershipID: models.StringClubID("7"),
	}
}

func validForm() models.RegistrationForm {
	return models.RegistrationForm{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "a@b.com",
		PhoneNumber:     "5551234567",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		DateOfBirth:     "1990-12-10",
		Gender:          "female",
		Address:         "12 St James's Square",
		City:            "London",
		State:           "Greater London",
		Country:         "UK",
		ZipCode:         "SW1Y 4JH",
		EmailOTP:        "123456",
		SkillLevel:      "intermediate",
		PreferredTime:   "morning",
		PaymentDetails: models.PaymentDetails{
			CardNumber:     "4111111111111111",
			CVV:            "123",
			ExpiryDate:     "12/28",
			CardHolderName: "Ada Lovelace",
			CardType:       models.CardTypeVisa,
		},
	}
}
