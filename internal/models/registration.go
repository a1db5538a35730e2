package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type CardType string

const (
	CardTypeVisa       CardType = "VISA"
	CardTypeMastercard CardType = "MASTERCARD"
	CardTypeAmex       CardType = "AMEX"
)

type PaymentDetails struct {
	CardNumber     string   `json:"cardNumber" dynamodbav:"card_number" validate:"min=16"`
	CVV            string   `json:"cvv" dynamodbav:"cvv" validate:"min=3,max=4"`
	ExpiryDate     string   `json:"expiryDate" dynamodbav:"expiry_date" validate:"min=5"`
	CardHolderName string   `json:"cardHolderName" dynamodbav:"card_holder_name" validate:"required"`
	CardType       CardType `json:"cardTypeEnum" dynamodbav:"card_type" validate:"oneof=VISA MASTERCARD AMEX"`
}

// RegistrationForm holds everything the member fills in on the signup page.
type RegistrationForm struct {
	FirstName         string         `json:"firstName" dynamodbav:"first_name" validate:"required"`
	LastName          string         `json:"lastName" dynamodbav:"last_name" validate:"required"`
	Email             string         `json:"email" dynamodbav:"email" validate:"required,email"`
	PhoneNumber       string         `json:"phoneNumber" dynamodbav:"phone_number" validate:"min=10"`
	Password          string         `json:"password" dynamodbav:"password" validate:"min=6"`
	ConfirmPassword   string         `json:"confirmPassword" dynamodbav:"confirm_password" validate:"min=6,eqfield=Password"`
	ProfilePictureURL string         `json:"profilePictureUrl,omitempty" dynamodbav:"profile_picture_url,omitempty" validate:"omitempty,url"`
	DateOfBirth       string         `json:"dateOfBirth" dynamodbav:"date_of_birth" validate:"required"`
	Gender            string         `json:"gender" dynamodbav:"gender" validate:"required"`
	Address           string         `json:"address" dynamodbav:"address" validate:"required"`
	City              string         `json:"city" dynamodbav:"city" validate:"required"`
	State             string         `json:"state" dynamodbav:"state" validate:"required"`
	Country           string         `json:"country" dynamodbav:"country" validate:"required"`
	ZipCode           string         `json:"zipCode" dynamodbav:"zip_code" validate:"required"`
	EmailOTP          string         `json:"emailOTP" dynamodbav:"email_otp" validate:"required,otp"`
	PhoneOTP          string         `json:"phoneOTP,omitempty" dynamodbav:"phone_otp,omitempty" validate:"omitempty,otp"`
	SkillLevel        string         `json:"skillLevel" dynamodbav:"skill_level" validate:"required"`
	PreferredTime     string         `json:"preferredTime" dynamodbav:"preferred_time" validate:"required"`
	PaymentDetails    PaymentDetails `json:"paymentDetails" dynamodbav:"payment_details"`
}

// NewRegistrationForm returns an empty form with the card type preselected.
func NewRegistrationForm() RegistrationForm {
	return RegistrationForm{
		PaymentDetails: PaymentDetails{CardType: CardTypeVisa},
	}
}

// ClubID keeps a club or membership identifier as the raw JSON token it arrived
// in. Routers upstream of the signup page hand identifiers over as strings or as
// numbers, and the member API receives them in the same shape.
type ClubID []byte

func StringClubID(s string) ClubID {
	b, _ := json.Marshal(s)
	return ClubID(b)
}

func NumericClubID(n int64) ClubID {
	return ClubID(strconv.FormatInt(n, 10))
}

func (id ClubID) IsNumeric() bool {
	return len(id) > 0 && id[0] != '"'
}

func (id ClubID) String() string {
	if len(id) > 0 && id[0] == '"' {
		var s string
		if err := json.Unmarshal(id, &s); err == nil {
			return s
		}
	}
	return string(id)
}

func (id ClubID) MarshalJSON() ([]byte, error) {
	if len(id) == 0 {
		return []byte("null"), nil
	}
	return []byte(id), nil
}

func (id *ClubID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringClubID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("club identifier must be a string or number: %w", err)
	}
	*id = ClubID(n.String())
	return nil
}

type ClubContext struct {
	ClubID       ClubID `json:"clubId,omitempty" dynamodbav:"club_id,omitempty"`
	ClubName     string `json:"clubName,omitempty" dynamodbav:"club_name,omitempty"`
	MembershipID ClubID `json:"membershipId,omitempty" dynamodbav:"membership_id,omitempty"`
}

const DefaultClubDisplayName = "Company Name"

func (c ClubContext) DisplayName() string {
	if c.ClubName == "" {
		return DefaultClubDisplayName
	}
	return c.ClubName
}

// SignupPayload is the body sent to the member signup endpoint: every form field
// at the top level plus the derived name and the club identifiers.
type SignupPayload struct {
	RegistrationForm
	Name                string `json:"name"`
	CurrentActiveClubID ClubID `json:"currentActiveClubId,omitempty"`
	MembershipTypeID    ClubID `json:"membershipTypeId,omitempty"`
}
