package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* ===================== Payment Log ===================== */

// Append-only: setiap notifikasi gateway / transisi status dicatat di sini
// untuk kebutuhan audit & sengketa. Tidak pernah di-update atau dihapus
// oleh alur normal; kolom registration_id sengaja tanpa FK supaya id tetap
// tersimpan walau registrasinya sudah dihapus.
type PaymentLog struct {
	PaymentLogID uuid.UUID `gorm:"column:payment_log_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_log_id"`

	PaymentLogRegistrationID *uuid.UUID `gorm:"column:payment_log_registration_id;type:uuid;index" json:"payment_log_registration_id,omitempty"`
	PaymentLogOrderID        string     `gorm:"column:payment_log_order_id;type:varchar(100);not null;index" json:"payment_log_order_id"`

	PaymentLogEvent      string  `gorm:"column:payment_log_event;type:varchar(50);not null" json:"payment_log_event"` // created | notification | manual_sync | cancel | proof_uploaded | verified
	PaymentLogFromStatus *string `gorm:"column:payment_log_from_status;type:varchar(20)" json:"payment_log_from_status,omitempty"`
	PaymentLogToStatus   *string `gorm:"column:payment_log_to_status;type:varchar(20)" json:"payment_log_to_status,omitempty"`

	PaymentLogTransactionStatus *string `gorm:"column:payment_log_transaction_status;type:varchar(30)" json:"payment_log_transaction_status,omitempty"`
	PaymentLogFraudStatus       *string `gorm:"column:payment_log_fraud_status;type:varchar(20)" json:"payment_log_fraud_status,omitempty"`
	PaymentLogPaymentType       *string `gorm:"column:payment_log_payment_type;type:varchar(50)" json:"payment_log_payment_type,omitempty"`

	// Payload mentah dari gateway, disimpan apa adanya
	PaymentLogPayload datatypes.JSON `gorm:"column:payment_log_payload;type:jsonb" json:"payment_log_payload,omitempty"`

	PaymentLogNote *string `gorm:"column:payment_log_note" json:"payment_log_note,omitempty"`

	CreatedAt time.Time `gorm:"column:payment_log_created_at;autoCreateTime" json:"payment_log_created_at"`
}

func (PaymentLog) TableName() string { return "payment_logs" }
