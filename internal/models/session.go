package models

import "time"

// SignupSession is the server-side state of one open signup page.
type SignupSession struct {
	ID           string             `json:"id" dynamodbav:"id"`
	Club         ClubContext        `json:"club" dynamodbav:"club"`
	Form         RegistrationForm   `json:"form" dynamodbav:"form"`
	Verification VerificationStatus `json:"verification" dynamodbav:"verification"`
	CreatedAt    time.Time          `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt    time.Time          `json:"expires_at" dynamodbav:"expires_at"`
}

func NewSignupSession(id string, club ClubContext, ttl time.Duration) *SignupSession {
	now := time.Now()
	return &SignupSession{
		ID:           id,
		Club:         club,
		Form:         NewRegistrationForm(),
		Verification: NewVerificationStatus(),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

func (s *SignupSession) GetPK() string {
	return "SIGNUP!" + s.ID
}

func (s *SignupSession) GetSK() string {
	return "SESSION"
}

func (s *SignupSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

type Redirect struct {
	Route   string `json:"route"`
	DelayMS int64  `json:"delay_ms"`
}
