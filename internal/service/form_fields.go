package service

import "github.com/memberhub/memberhub/internal/models"

type fieldSetter func(f *models.RegistrationForm, value string)

// formFields maps the JSON path of every editable field to its setter.
var formFields = map[string]fieldSetter{
	"firstName":         func(f *models.RegistrationForm, v string) { f.FirstName = v },
	"lastName":          func(f *models.RegistrationForm, v string) { f.LastName = v },
	"email":             func(f *models.RegistrationForm, v string) { f.Email = v },
	"phoneNumber":       func(f *models.RegistrationForm, v string) { f.PhoneNumber = v },
	"password":          func(f *models.RegistrationForm, v string) { f.Password = v },
	"confirmPassword":   func(f *models.RegistrationForm, v string) { f.ConfirmPassword = v },
	"profilePictureUrl": func(f *models.RegistrationForm, v string) { f.ProfilePictureURL = v },
	"dateOfBirth":       func(f *models.RegistrationForm, v string) { f.DateOfBirth = v },
	"gender":            func(f *models.RegistrationForm, v string) { f.Gender = v },
	"address":           func(f *models.RegistrationForm, v string) { f.Address = v },
	"city":              func(f *models.RegistrationForm, v string) { f.City = v },
	"state":             func(f *models.RegistrationForm, v string) { f.State = v },
	"country":           func(f *models.RegistrationForm, v string) { f.Country = v },
	"zipCode":           func(f *models.RegistrationForm, v string) { f.ZipCode = v },
	"emailOTP":          func(f *models.RegistrationForm, v string) { f.EmailOTP = v },
	"phoneOTP":          func(f *models.RegistrationForm, v string) { f.PhoneOTP = v },
	"skillLevel":        func(f *models.RegistrationForm, v string) { f.SkillLevel = v },
	"preferredTime":     func(f *models.RegistrationForm, v string) { f.PreferredTime = v },

	"paymentDetails.cardNumber":     func(f *models.RegistrationForm, v string) { f.PaymentDetails.CardNumber = v },
	"paymentDetails.cvv":            func(f *models.RegistrationForm, v string) { f.PaymentDetails.CVV = v },
	"paymentDetails.expiryDate":     func(f *models.RegistrationForm, v string) { f.PaymentDetails.ExpiryDate = v },
	"paymentDetails.cardHolderName": func(f *models.RegistrationForm, v string) { f.PaymentDetails.CardHolderName = v },
	"paymentDetails.cardTypeEnum":   func(f *models.RegistrationForm, v string) { f.PaymentDetails.CardType = models.CardType(v) },
}

func contactFor(f models.RegistrationForm, channel models.Channel) string {
	if channel == models.ChannelPhone {
		return f.PhoneNumber
	}
	return f.Email
}
