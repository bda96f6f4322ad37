package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusExpired   = "expired"
)

const (
	PaymentMethodGateway      = "gateway"
	PaymentMethodBankTransfer = "bank_transfer"
)

/* ===================== Model ===================== */

type Registration struct {
	RegistrationID uuid.UUID `gorm:"column:registration_id;type:uuid;default:gen_random_uuid();primaryKey" json:"registration_id"`

	// Kode yang dilihat user, mis. REG-1724820000000-a1b2c3d4
	RegistrationCode string `gorm:"column:registration_code;type:varchar(50);not null;uniqueIndex" json:"registration_code"`

	RegistrationProgramID uuid.UUID `gorm:"column:registration_program_id;type:uuid;not null;index" json:"registration_program_id"`

	// Kontak pemesan (bukan peserta)
	RegistrationContactName  string `gorm:"column:registration_contact_name;type:varchar(100);not null" json:"registration_contact_name"`
	RegistrationContactEmail string `gorm:"column:registration_contact_email;type:varchar(255);not null" json:"registration_contact_email"`
	RegistrationContactPhone string `gorm:"column:registration_contact_phone;type:varchar(30);not null" json:"registration_contact_phone"`

	RegistrationParticipantCount int `gorm:"column:registration_participant_count;not null;check:registration_participant_count > 0" json:"registration_participant_count"`

	// Harga dikunci saat submit; tidak pernah dihitung ulang
	RegistrationUnitPriceIDR int  `gorm:"column:registration_unit_price_idr;not null" json:"registration_unit_price_idr"`
	RegistrationUsedPromo    bool `gorm:"column:registration_used_promo;not null;default:false" json:"registration_used_promo"`
	RegistrationSubtotalIDR  int  `gorm:"column:registration_subtotal_idr;not null;default:0" json:"registration_subtotal_idr"`
	RegistrationTaxIDR       int  `gorm:"column:registration_tax_idr;not null;default:0" json:"registration_tax_idr"`
	RegistrationTotalIDR     int  `gorm:"column:registration_total_idr;not null;default:0" json:"registration_total_idr"`

	RegistrationPaymentStatus string `gorm:"column:registration_payment_status;type:varchar(20);not null;default:'pending';index" json:"registration_payment_status"`
	RegistrationPaymentMethod string `gorm:"column:registration_payment_method;type:varchar(20);not null;default:'gateway'" json:"registration_payment_method"`

	// Sisi gateway
	RegistrationOrderID       *string `gorm:"column:registration_order_id;type:varchar(100);uniqueIndex" json:"registration_order_id,omitempty"`
	RegistrationTransactionID *string `gorm:"column:registration_transaction_id;type:varchar(100)" json:"registration_transaction_id,omitempty"`
	RegistrationPaymentType   *string `gorm:"column:registration_payment_type;type:varchar(50)" json:"registration_payment_type,omitempty"`
	RegistrationPaymentURL    *string `gorm:"column:registration_payment_url" json:"registration_payment_url,omitempty"`
	RegistrationPaymentToken  *string `gorm:"column:registration_payment_token" json:"registration_payment_token,omitempty"`

	// Bukti transfer manual (metode bank_transfer)
	RegistrationTransferProofURL *string `gorm:"column:registration_transfer_proof_url" json:"registration_transfer_proof_url,omitempty"`

	RegistrationExpiresAt *time.Time `gorm:"column:registration_expires_at" json:"registration_expires_at,omitempty"`
	RegistrationPaidAt    *time.Time `gorm:"column:registration_paid_at" json:"registration_paid_at,omitempty"`

	Participants []Participant `gorm:"foreignKey:ParticipantRegistrationID;references:RegistrationID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`

	CreatedAt time.Time      `gorm:"column:registration_created_at;autoCreateTime" json:"registration_created_at"`
	UpdatedAt time.Time      `gorm:"column:registration_updated_at;autoUpdateTime" json:"registration_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:registration_deleted_at;index" json:"registration_deleted_at,omitempty"`
}

func (Registration) TableName() string { return "registrations" }

/* ===================== Helpers ===================== */

func (r *Registration) IsPaid() bool {
	return r.RegistrationPaymentStatus == PaymentStatusPaid
}

func (r *Registration) IsPending() bool {
	return r.RegistrationPaymentStatus == PaymentStatusPending
}

// IsTerminal: status final, tidak boleh ditransisikan lagi oleh webhook.
func IsTerminalStatus(status string) bool {
	switch status {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusExpired:
		return true
	default:
		return false
	}
}

/* ===================== Participant ===================== */

// Dimiliki penuh oleh Registration (ikut terhapus saat registrasi dihapus).
type Participant struct {
	ParticipantID uuid.UUID `gorm:"column:participant_id;type:uuid;default:gen_random_uuid();primaryKey" json:"participant_id"`

	ParticipantRegistrationID uuid.UUID `gorm:"column:participant_registration_id;type:uuid;not null;index" json:"participant_registration_id"`

	ParticipantName  string  `gorm:"column:participant_name;type:varchar(100);not null" json:"participant_name"`
	ParticipantEmail string  `gorm:"column:participant_email;type:varchar(255);not null" json:"participant_email"`
	ParticipantPhone string  `gorm:"column:participant_phone;type:varchar(30);not null" json:"participant_phone"`
	ParticipantCity  *string `gorm:"column:participant_city;type:varchar(100)" json:"participant_city,omitempty"`

	// Referensi lemah ke kode referral (by string, bukan FK)
	ParticipantReferralCode *string `gorm:"column:participant_referral_code;type:varchar(50)" json:"participant_referral_code,omitempty"`
	ParticipantDiscountIDR  int     `gorm:"column:participant_discount_idr;not null;default:0" json:"participant_discount_idr"`

	CreatedAt time.Time `gorm:"column:participant_created_at;autoCreateTime" json:"participant_created_at"`
}

func (Participant) TableName() string { return "participants" }
