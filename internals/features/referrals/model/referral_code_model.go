package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	DiscountTypeFixed      = "fixed"
	DiscountTypePercent    = "percent"
	DiscountTypePercentage = "percentage" // alias lama dari frontend, diperlakukan sama dengan percent
)

/* ===================== Model ===================== */

type ReferralCode struct {
	ReferralCodeID uuid.UUID `gorm:"column:referral_code_id;type:uuid;default:gen_random_uuid();primaryKey" json:"referral_code_id"`

	// Kode selalu disimpan uppercase
	ReferralCodeCode string `gorm:"column:referral_code_code;type:varchar(50);not null;uniqueIndex" json:"referral_code_code"`

	ReferralCodeDiscountType string `gorm:"column:referral_code_discount_type;type:varchar(20);not null;default:'fixed'" json:"referral_code_discount_type"`
	ReferralCodeDiscountIDR  int    `gorm:"column:referral_code_discount_idr;not null;check:referral_code_discount_idr >= 0" json:"referral_code_discount_idr"`

	// Opsional: kode hanya berlaku untuk satu program
	ReferralCodeProgramID *uuid.UUID `gorm:"column:referral_code_program_id;type:uuid" json:"referral_code_program_id,omitempty"`

	ReferralCodeUsageLimit *int `gorm:"column:referral_code_usage_limit;check:referral_code_usage_limit > 0" json:"referral_code_usage_limit,omitempty"`
	ReferralCodeUsedCount  int  `gorm:"column:referral_code_used_count;not null;default:0" json:"referral_code_used_count"`

	ReferralCodeIsActive  bool       `gorm:"column:referral_code_is_active;not null;default:true" json:"referral_code_is_active"`
	ReferralCodeExpiresAt *time.Time `gorm:"column:referral_code_expires_at" json:"referral_code_expires_at,omitempty"`

	ReferralCodeOwnerName *string `gorm:"column:referral_code_owner_name;type:varchar(100)" json:"referral_code_owner_name,omitempty"`

	CreatedAt time.Time      `gorm:"column:referral_code_created_at;autoCreateTime" json:"referral_code_created_at"`
	UpdatedAt time.Time      `gorm:"column:referral_code_updated_at;autoUpdateTime" json:"referral_code_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:referral_code_deleted_at;index" json:"referral_code_deleted_at,omitempty"`
}

func (ReferralCode) TableName() string { return "referral_codes" }

/* ===================== Helpers ===================== */

func (r *ReferralCode) IsExpired(now time.Time) bool {
	return r.ReferralCodeExpiresAt != nil && now.After(*r.ReferralCodeExpiresAt)
}

func (r *ReferralCode) IsLimitReached() bool {
	return r.ReferralCodeUsageLimit != nil && r.ReferralCodeUsedCount >= *r.ReferralCodeUsageLimit
}

/* ===================== Usage History ===================== */

// Append-only: jejak audit pemakaian kode per registrasi.
type ReferralUsageHistory struct {
	ReferralUsageID uuid.UUID `gorm:"column:referral_usage_id;type:uuid;default:gen_random_uuid();primaryKey" json:"referral_usage_id"`

	ReferralUsageCodeID         uuid.UUID `gorm:"column:referral_usage_code_id;type:uuid;not null;index" json:"referral_usage_code_id"`
	ReferralUsageCode           string    `gorm:"column:referral_usage_code;type:varchar(50);not null;index" json:"referral_usage_code"`
	ReferralUsageRegistrationID uuid.UUID `gorm:"column:referral_usage_registration_id;type:uuid;not null;index" json:"referral_usage_registration_id"`

	ReferralUsageDiscountIDR int `gorm:"column:referral_usage_discount_idr;not null" json:"referral_usage_discount_idr"`

	CreatedAt time.Time `gorm:"column:referral_usage_created_at;autoCreateTime" json:"referral_usage_created_at"`
}

func (ReferralUsageHistory) TableName() string { return "referral_usage_histories" }
