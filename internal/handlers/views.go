package handlers

import (
	"time"

	"github.com/memberhub/memberhub/internal/models"
	"github.com/memberhub/memberhub/internal/service"
)

// FormView is the registration form as shown back to the browser. Secrets are
// reported only as being present.
type FormView struct {
	FirstName          string          `json:"firstName"`
	LastName           string          `json:"lastName"`
	Email              string          `json:"email"`
	PhoneNumber        string          `json:"phoneNumber"`
	PasswordSet        bool            `json:"passwordSet"`
	ConfirmPasswordSet bool            `json:"confirmPasswordSet"`
	ProfilePictureURL  string          `json:"profilePictureUrl,omitempty"`
	DateOfBirth        string          `json:"dateOfBirth"`
	Gender             string          `json:"gender"`
	Address            string          `json:"address"`
	City               string          `json:"city"`
	State              string          `json:"state"`
	Country            string          `json:"country"`
	ZipCode            string          `json:"zipCode"`
	EmailOTP           string          `json:"emailOTP"`
	PhoneOTP           string          `json:"phoneOTP,omitempty"`
	SkillLevel         string          `json:"skillLevel"`
	PreferredTime      string          `json:"preferredTime"`
	PaymentDetails     PaymentCardView `json:"paymentDetails"`
}

type PaymentCardView struct {
	CardNumberSet  bool            `json:"cardNumberSet"`
	CVVSet         bool            `json:"cvvSet"`
	ExpiryDate     string          `json:"expiryDate"`
	CardHolderName string          `json:"cardHolderName"`
	CardType       models.CardType `json:"cardTypeEnum"`
}

type ChannelView struct {
	Dispatch models.DispatchState `json:"dispatch"`
	Validity models.Validity      `json:"validity"`
}

type VerificationView struct {
	Email ChannelView `json:"email"`
	Phone ChannelView `json:"phone"`
}

type SessionView struct {
	ID           string             `json:"id"`
	Club         models.ClubContext `json:"club"`
	DisplayName  string             `json:"displayName"`
	Form         FormView           `json:"form"`
	Verification VerificationView   `json:"verification"`
	Controls     service.Controls   `json:"controls"`
	ExpiresAt    time.Time          `json:"expires_at"`
}

// SessionResponse is returned by every operation that changes a session.
type SessionResponse struct {
	Session       *SessionView          `json:"session,omitempty"`
	Notifications []models.Notification `json:"notifications"`
	Redirect      *models.Redirect      `json:"redirect,omitempty"`
}

func newSessionView(s *models.SignupSession, controls service.Controls) *SessionView {
	f := s.Form
	return &SessionView{
		ID:          s.ID,
		Club:        s.Club,
		DisplayName: s.Club.DisplayName(),
		Form: FormView{
			FirstName:          f.FirstName,
			LastName:           f.LastName,
			Email:              f.Email,
			PhoneNumber:        f.PhoneNumber,
			PasswordSet:        f.Password != "",
			ConfirmPasswordSet: f.ConfirmPassword != "",
			ProfilePictureURL:  f.ProfilePictureURL,
			DateOfBirth:        f.DateOfBirth,
			Gender:             f.Gender,
			Address:            f.Address,
			City:               f.City,
			State:              f.State,
			Country:            f.Country,
			ZipCode:            f.ZipCode,
			EmailOTP:           f.EmailOTP,
			PhoneOTP:           f.PhoneOTP,
			SkillLevel:         f.SkillLevel,
			PreferredTime:      f.PreferredTime,
			PaymentDetails: PaymentCardView{
				CardNumberSet:  f.PaymentDetails.CardNumber != "",
				CVVSet:         f.PaymentDetails.CVV != "",
				ExpiryDate:     f.PaymentDetails.ExpiryDate,
				CardHolderName: f.PaymentDetails.CardHolderName,
				CardType:       f.PaymentDetails.CardType,
			},
		},
		Verification: VerificationView{
			Email: ChannelView{Dispatch: s.Verification.Email.Dispatch, Validity: s.Verification.Email.Validity},
			Phone: ChannelView{Dispatch: s.Verification.Phone.Dispatch, Validity: s.Verification.Phone.Validity},
		},
		Controls:  controls,
		ExpiresAt: s.ExpiresAt,
	}
}

func notificationsOf(out service.Outcome) []models.Notification {
	if out.Notifications == nil {
		return []models.Notification{}
	}
	return out.Notifications
}
