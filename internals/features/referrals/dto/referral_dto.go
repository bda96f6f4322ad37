// file: internals/features/referrals/dto/referral_dto.go
package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	model "legacy_backend/internals/features/referrals/model"
)

/* ===================== Requests ===================== */

type CheckReferralRequest struct {
	ReferralCode string    `json:"referral_code" validate:"required,min=2,max=50"`
	ProgramID    uuid.UUID `json:"program_id" validate:"required"`
}

type CreateReferralCodeRequest struct {
	ReferralCodeCode         string     `json:"referral_code_code" validate:"required,min=2,max=50"`
	ReferralCodeDiscountType string     `json:"referral_code_discount_type" validate:"required,oneof=fixed percent percentage"`
	ReferralCodeDiscountIDR  int        `json:"referral_code_discount_idr" validate:"required,gt=0"`
	ReferralCodeProgramID    *uuid.UUID `json:"referral_code_program_id"`
	ReferralCodeUsageLimit   *int       `json:"referral_code_usage_limit" validate:"omitempty,gt=0"`
	ReferralCodeExpiresAt    *time.Time `json:"referral_code_expires_at"`
	ReferralCodeOwnerName    *string    `json:"referral_code_owner_name" validate:"omitempty,max=100"`
}

func (r *CreateReferralCodeRequest) Validate() error {
	t := strings.ToLower(r.ReferralCodeDiscountType)
	if (t == model.DiscountTypePercent || t == model.DiscountTypePercentage) && r.ReferralCodeDiscountIDR > 100 {
		return errors.New("diskon persentase tidak boleh lebih dari 100")
	}
	return nil
}

func (r *CreateReferralCodeRequest) ToModel() *model.ReferralCode {
	return &model.ReferralCode{
		ReferralCodeCode:         strings.ToUpper(strings.TrimSpace(r.ReferralCodeCode)),
		ReferralCodeDiscountType: strings.ToLower(r.ReferralCodeDiscountType),
		ReferralCodeDiscountIDR:  r.ReferralCodeDiscountIDR,
		ReferralCodeProgramID:    r.ReferralCodeProgramID,
		ReferralCodeUsageLimit:   r.ReferralCodeUsageLimit,
		ReferralCodeExpiresAt:    r.ReferralCodeExpiresAt,
		ReferralCodeOwnerName:    r.ReferralCodeOwnerName,
		ReferralCodeIsActive:     true,
	}
}

type UpdateReferralCodeRequest struct {
	ReferralCodeDiscountType *string    `json:"referral_code_discount_type" validate:"omitempty,oneof=fixed percent percentage"`
	ReferralCodeDiscountIDR  *int       `json:"referral_code_discount_idr" validate:"omitempty,gt=0"`
	ReferralCodeProgramID    *uuid.UUID `json:"referral_code_program_id"`
	ReferralCodeUsageLimit   *int       `json:"referral_code_usage_limit" validate:"omitempty,gt=0"`
	ReferralCodeExpiresAt    *time.Time `json:"referral_code_expires_at"`
	ReferralCodeIsActive     *bool      `json:"referral_code_is_active"`
	ReferralCodeOwnerName    *string    `json:"referral_code_owner_name" validate:"omitempty,max=100"`
}

func (r *UpdateReferralCodeRequest) Apply(m *model.ReferralCode) error {
	if r.ReferralCodeDiscountType != nil {
		m.ReferralCodeDiscountType = strings.ToLower(*r.ReferralCodeDiscountType)
	}
	if r.ReferralCodeDiscountIDR != nil {
		m.ReferralCodeDiscountIDR = *r.ReferralCodeDiscountIDR
	}
	if r.ReferralCodeProgramID != nil {
		m.ReferralCodeProgramID = r.ReferralCodeProgramID
	}
	if r.ReferralCodeUsageLimit != nil {
		m.ReferralCodeUsageLimit = r.ReferralCodeUsageLimit
	}
	if r.ReferralCodeExpiresAt != nil {
		m.ReferralCodeExpiresAt = r.ReferralCodeExpiresAt
	}
	if r.ReferralCodeIsActive != nil {
		m.ReferralCodeIsActive = *r.ReferralCodeIsActive
	}
	if r.ReferralCodeOwnerName != nil {
		m.ReferralCodeOwnerName = r.ReferralCodeOwnerName
	}

	t := m.ReferralCodeDiscountType
	if (t == model.DiscountTypePercent || t == model.DiscountTypePercentage) && m.ReferralCodeDiscountIDR > 100 {
		return errors.New("diskon persentase tidak boleh lebih dari 100")
	}
	return nil
}

/* ===================== Responses ===================== */

type CheckReferralResponse struct {
	ReferralCodeCode string `json:"referral_code_code"`
	DiscountType     string `json:"discount_type"`
	DiscountIDR      int    `json:"discount_idr"` // nominal potongan untuk harga program saat ini
	UnitPriceIDR     int    `json:"unit_price_idr"`
	NetPriceIDR      int    `json:"net_price_idr"`
}

type ReferralCodeWithUsage struct {
	model.ReferralCode
	ActualUsageCount int64 `json:"actual_usage_count"`
	RemainingQuota   *int  `json:"remaining_quota,omitempty"`
}
