package models

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelEmail, ChannelPhone:
		return Channel(s), nil
	}
	return "", ErrUnknownChannel
}

type DispatchState string

const (
	DispatchNotSent DispatchState = "not_sent"
	DispatchSent    DispatchState = "sent"
)

type Validity string

const (
	ValidityUnknown Validity = "unknown"
	ValidityValid   Validity = "valid"
	ValidityInvalid Validity = "invalid"
)

// ChannelStatus tracks one verification channel. Dispatch only moves forward;
// validity is independent of it and refers to CheckedCode.
type ChannelStatus struct {
	Dispatch    DispatchState `json:"dispatch" dynamodbav:"dispatch"`
	Validity    Validity      `json:"validity" dynamodbav:"validity"`
	CheckedCode string        `json:"checked_code,omitempty" dynamodbav:"checked_code,omitempty"`
}

func NewChannelStatus() ChannelStatus {
	return ChannelStatus{Dispatch: DispatchNotSent, Validity: ValidityUnknown}
}

func (s ChannelStatus) Sent() bool {
	return s.Dispatch == DispatchSent
}

func (s *ChannelStatus) MarkSent() {
	s.Dispatch = DispatchSent
}

func (s *ChannelStatus) Record(code string, valid bool) {
	s.CheckedCode = code
	if valid {
		s.Validity = ValidityValid
		return
	}
	s.Validity = ValidityInvalid
}

func (s *ChannelStatus) Reset() {
	s.Validity = ValidityUnknown
	s.CheckedCode = ""
}

type VerificationStatus struct {
	Email ChannelStatus `json:"email" dynamodbav:"email"`
	Phone ChannelStatus `json:"phone" dynamodbav:"phone"`
}

func NewVerificationStatus() VerificationStatus {
	return VerificationStatus{Email: NewChannelStatus(), Phone: NewChannelStatus()}
}

func (v *VerificationStatus) Channel(c Channel) *ChannelStatus {
	if c == ChannelPhone {
		return &v.Phone
	}
	return &v.Email
}
