package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "legacy_backend/internals/features/registrations/model"
)

func strPtr(s string) *string { return &s }

func sampleRequest() CreateRegistrationRequest {
	return CreateRegistrationRequest{
		ProgramID:    uuid.New(),
		ContactName:  "  Budi Santoso  ",
		ContactEmail: " Budi@Example.COM ",
		ContactPhone: " 081234567890 ",
		Participants: []ParticipantInput{
			{
				Name:         " Ani ",
				Email:        " ANI@example.com ",
				Phone:        "0811111111",
				ReferralCode: strPtr(" welcome10 "),
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	req := sampleRequest()
	req.Normalize()

	assert.Equal(t, "Budi Santoso", req.ContactName)
	assert.Equal(t, "budi@example.com", req.ContactEmail)
	assert.Equal(t, "081234567890", req.ContactPhone)
	assert.Equal(t, model.PaymentMethodGateway, req.PaymentMethod) // default

	p := req.Participants[0]
	assert.Equal(t, "Ani", p.Name)
	assert.Equal(t, "ani@example.com", p.Email)
	require.NotNil(t, p.ReferralCode)
	assert.Equal(t, "WELCOME10", *p.ReferralCode)
}

func TestNormalizeKodeReferralKosongJadiNil(t *testing.T) {
	req := sampleRequest()
	req.Participants[0].ReferralCode = strPtr("   ")
	req.Normalize()

	assert.Nil(t, req.Participants[0].ReferralCode)
}

func TestNormalizeMetodeEksplisitTidakDitimpa(t *testing.T) {
	req := sampleRequest()
	req.PaymentMethod = model.PaymentMethodBankTransfer
	req.Normalize()

	assert.Equal(t, model.PaymentMethodBankTransfer, req.PaymentMethod)
}

func TestFieldErrors(t *testing.T) {
	t.Run("bersih", func(t *testing.T) {
		req := sampleRequest()
		req.Normalize()
		assert.Nil(t, req.FieldErrors())
	})

	t.Run("email kontak rusak", func(t *testing.T) {
		req := sampleRequest()
		req.ContactEmail = "bukan-email"
		req.Normalize()

		errs := req.FieldErrors()
		require.NotNil(t, errs)
		assert.Contains(t, errs, "contact_email")
	})

	t.Run("email peserta rusak", func(t *testing.T) {
		req := sampleRequest()
		req.Participants[0].Email = "tanpa-at.example.com"
		req.Normalize()

		errs := req.FieldErrors()
		require.NotNil(t, errs)
		require.Contains(t, errs, "participants.email")
		assert.Contains(t, errs["participants.email"][0], "peserta ke-1")
	})
}
