package models

// FormSecrets are the form values kept out of every session store.
type FormSecrets struct {
	Password        string
	ConfirmPassword string
	CardNumber      string
	CVV             string
}

func (f RegistrationForm) Secrets() FormSecrets {
	return FormSecrets{
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		CardNumber:      f.PaymentDetails.CardNumber,
		CVV:             f.PaymentDetails.CVV,
	}
}

func (f *RegistrationForm) RestoreSecrets(s FormSecrets) {
	f.Password = s.Password
	f.ConfirmPassword = s.ConfirmPassword
	f.PaymentDetails.CardNumber = s.CardNumber
	f.PaymentDetails.CVV = s.CVV
}

// Redacted returns a copy of the session with the form secrets cleared.
func (s *SignupSession) Redacted() *SignupSession {
	c := *s
	c.Form.RestoreSecrets(FormSecrets{})
	return &c
}
