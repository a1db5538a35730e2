package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClubIDKeepsShape(t *testing.T) {
	tests := []struct {
		in      string
		str     string
		numeric bool
	}{
		{`42`, "42", true},
		{`"42"`, "42", false},
		{`"club-a"`, "club-a", false},
		{`1.5e3`, "1.5e3", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id ClubID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.str, id.String())
			assert.Equal(t, tt.numeric, id.IsNumeric())

			out, err := json.Marshal(id)
			require.NoError(t, err)
			assert.Equal(t, tt.in, string(out))
		})
	}
}

func TestClubIDRejectsOtherShapes(t *testing.T) {
	var id ClubID
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &id))
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestClubContextOmitsMissingIdentifiers(t *testing.T) {
	var club ClubContext
	require.NoError(t, json.Unmarshal([]byte(`{"clubId":null,"clubName":"Riverside"}`), &club))
	assert.Empty(t, club.ClubID)
	assert.Equal(t, "Riverside", club.DisplayName())

	out, err := json.Marshal(club)
	require.NoError(t, err)
	assert.JSONEq(t, `{"clubName":"Riverside"}`, string(out))

	assert.Equal(t, DefaultClubDisplayName, ClubContext{}.DisplayName())
	assert.Equal(t, `"7"`, string(StringClubID("7")))
	assert.Equal(t, `7`, string(NumericClubID(7)))
}

func TestRedactedClearsSecrets(t *testing.T) {
	s := NewSignupSession("sess-1", ClubContext{}, 0)
	s.Form.Email = "a@b.com"
	s.Form.Password = "secret1"
	s.Form.ConfirmPassword = "secret1"
	s.Form.PaymentDetails.CardNumber = "4111111111111111"
	s.Form.PaymentDetails.CVV = "123"

	redacted := s.Redacted()
	assert.Equal(t, "a@b.com", redacted.Form.Email)
	assert.Empty(t, redacted.Form.Password)
	assert.Empty(t, redacted.Form.ConfirmPassword)
	assert.Empty(t, redacted.Form.PaymentDetails.CardNumber)
	assert.Empty(t, redacted.Form.PaymentDetails.CVV)

	// the original is untouched
	assert.Equal(t, "4111111111111111", s.Form.PaymentDetails.CardNumber)

	form := redacted.Form
	form.RestoreSecrets(s.Form.Secrets())
	assert.Equal(t, s.Form, form)
}
