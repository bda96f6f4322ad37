package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "legacy_backend/internals/features/registrations/model"
)

const testServerKey = "SB-Mid-server-testkey"

func validNotification() *Notification {
	n := &Notification{
		OrderID:           "ORDER-a1b2c3d4-1756382400000",
		StatusCode:        "200",
		GrossAmount:       "2109000.00",
		TransactionStatus: "settlement",
		TransactionID:     "trx-123",
		PaymentType:       "bank_transfer",
	}
	n.SignatureKey = ComputeSignature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

/* =======================================================================
   Signature
======================================================================= */

func TestVerifySignatureValid(t *testing.T) {
	assert.True(t, VerifySignature(validNotification(), testServerKey))
}

func TestVerifySignatureDitolak(t *testing.T) {
	t.Run("signature kosong", func(t *testing.T) {
		n := validNotification()
		n.SignatureKey = ""
		assert.False(t, VerifySignature(n, testServerKey))
	})

	t.Run("order_id diubah", func(t *testing.T) {
		n := validNotification()
		n.OrderID = "ORDER-lain-123"
		assert.False(t, VerifySignature(n, testServerKey))
	})

	t.Run("gross_amount diubah", func(t *testing.T) {
		n := validNotification()
		n.GrossAmount = "1.00"
		assert.False(t, VerifySignature(n, testServerKey))
	})

	t.Run("server key salah", func(t *testing.T) {
		assert.False(t, VerifySignature(validNotification(), "key-lain"))
	})

	t.Run("signature uppercase ditolak (exact match)", func(t *testing.T) {
		n := validNotification()
		n.SignatureKey = "ABCDEF" + n.SignatureKey[6:]
		assert.False(t, VerifySignature(n, testServerKey))
	})
}

func TestComputeSignatureDeterministik(t *testing.T) {
	a := ComputeSignature("order", "200", "1000.00", "key")
	b := ComputeSignature("order", "200", "1000.00", "key")
	assert.Equal(t, a, b)
	assert.Len(t, a, 128) // hex SHA-512
}

/* =======================================================================
   Status mapping
======================================================================= */

func TestMapPaymentStatus(t *testing.T) {
	tests := []struct {
		transactionStatus string
		fraudStatus       string
		want              string
	}{
		{"capture", "accept", model.PaymentStatusPaid},
		{"capture", "challenge", model.PaymentStatusPending},
		{"capture", "", model.PaymentStatusPending},
		{"settlement", "", model.PaymentStatusPaid},
		{"pending", "", model.PaymentStatusPending},
		{"deny", "", model.PaymentStatusFailed},
		{"cancel", "", model.PaymentStatusFailed},
		{"expire", "", model.PaymentStatusFailed},
		{"failure", "", model.PaymentStatusFailed},
		{"refund", "", model.PaymentStatusPending}, // tak dikenal: jangan pindah state
		{"", "", model.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.transactionStatus+"/"+tt.fraudStatus, func(t *testing.T) {
			assert.Equal(t, tt.want, MapPaymentStatus(tt.transactionStatus, tt.fraudStatus))
		})
	}
}

func TestMapPaymentStatusCaseInsensitive(t *testing.T) {
	assert.Equal(t, model.PaymentStatusPaid, MapPaymentStatus("SETTLEMENT", ""))
	assert.Equal(t, model.PaymentStatusPaid, MapPaymentStatus("Capture", "ACCEPT"))
}

/* =======================================================================
   Terminal state
======================================================================= */

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, model.IsTerminalStatus(model.PaymentStatusPaid))
	assert.True(t, model.IsTerminalStatus(model.PaymentStatusFailed))
	assert.True(t, model.IsTerminalStatus(model.PaymentStatusCancelled))
	assert.True(t, model.IsTerminalStatus(model.PaymentStatusExpired))
	assert.False(t, model.IsTerminalStatus(model.PaymentStatusPending))
	assert.False(t, model.IsTerminalStatus(""))
}
