// file: internals/features/programs/dto/program_dto.go
package dto

import (
	"errors"
	"strings"
	"time"

	model "legacy_backend/internals/features/programs/model"
)

/* ===================== Requests ===================== */

type CreateProgramRequest struct {
	ProgramTitle       string  `json:"program_title" validate:"required,min=3,max=255"`
	ProgramDescription *string `json:"program_description" validate:"omitempty"`
	ProgramDuration    *string `json:"program_duration" validate:"omitempty,max=100"`

	ProgramPriceIDR      int        `json:"program_price_idr" validate:"required,gt=0"`
	ProgramPromoPriceIDR *int       `json:"program_promo_price_idr" validate:"omitempty,gt=0"`
	ProgramPromoEndsAt   *time.Time `json:"program_promo_ends_at" validate:"omitempty"`

	ProgramIsActive *bool `json:"program_is_active"`
}

// Validate aturan bisnis yang tidak tertangkap tag validator:
// promo price < harga normal, promo wajib punya tanggal berakhir di masa depan.
func (r *CreateProgramRequest) Validate(now time.Time) error {
	if r.ProgramPromoPriceIDR != nil {
		if *r.ProgramPromoPriceIDR >= r.ProgramPriceIDR {
			return errors.New("harga promo harus lebih kecil dari harga normal")
		}
		if r.ProgramPromoEndsAt == nil {
			return errors.New("harga promo membutuhkan tanggal berakhir promo")
		}
		if !r.ProgramPromoEndsAt.After(now) {
			return errors.New("tanggal berakhir promo harus di masa depan")
		}
	}
	return nil
}

func (r *CreateProgramRequest) ToModel() *model.Program {
	m := &model.Program{
		ProgramTitle:         strings.TrimSpace(r.ProgramTitle),
		ProgramDescription:   r.ProgramDescription,
		ProgramDuration:      r.ProgramDuration,
		ProgramPriceIDR:      r.ProgramPriceIDR,
		ProgramPromoPriceIDR: r.ProgramPromoPriceIDR,
		ProgramPromoEndsAt:   r.ProgramPromoEndsAt,
		ProgramIsActive:      true,
	}
	if r.ProgramIsActive != nil {
		m.ProgramIsActive = *r.ProgramIsActive
	}
	return m
}

type UpdateProgramRequest struct {
	ProgramTitle       *string `json:"program_title" validate:"omitempty,min=3,max=255"`
	ProgramDescription *string `json:"program_description"`
	ProgramDuration    *string `json:"program_duration" validate:"omitempty,max=100"`

	ProgramPriceIDR      *int       `json:"program_price_idr" validate:"omitempty,gt=0"`
	ProgramPromoPriceIDR *int       `json:"program_promo_price_idr" validate:"omitempty,gt=0"`
	ProgramPromoEndsAt   *time.Time `json:"program_promo_ends_at"`

	ProgramIsActive *bool `json:"program_is_active"`
}

// Apply menerapkan field yang terisi ke model, lalu cek invariant promo
// terhadap harga normal efektif (yang baru bila ikut diubah).
func (r *UpdateProgramRequest) Apply(m *model.Program, now time.Time) error {
	if r.ProgramTitle != nil {
		m.ProgramTitle = strings.TrimSpace(*r.ProgramTitle)
	}
	if r.ProgramDescription != nil {
		m.ProgramDescription = r.ProgramDescription
	}
	if r.ProgramDuration != nil {
		m.ProgramDuration = r.ProgramDuration
	}
	if r.ProgramPriceIDR != nil {
		m.ProgramPriceIDR = *r.ProgramPriceIDR
	}
	if r.ProgramPromoPriceIDR != nil {
		m.ProgramPromoPriceIDR = r.ProgramPromoPriceIDR
	}
	if r.ProgramPromoEndsAt != nil {
		m.ProgramPromoEndsAt = r.ProgramPromoEndsAt
	}
	if r.ProgramIsActive != nil {
		m.ProgramIsActive = *r.ProgramIsActive
	}

	if m.ProgramPromoPriceIDR != nil {
		if *m.ProgramPromoPriceIDR >= m.ProgramPriceIDR {
			return errors.New("harga promo harus lebih kecil dari harga normal")
		}
		if m.ProgramPromoEndsAt == nil {
			return errors.New("harga promo membutuhkan tanggal berakhir promo")
		}
	}
	return nil
}

/* ===================== Responses ===================== */

type ProgramResponse struct {
	model.Program
	Pricing model.PricingInfo `json:"pricing"`
}

func FromModel(m *model.Program, now time.Time) ProgramResponse {
	return ProgramResponse{
		Program: *m,
		Pricing: m.Pricing(now),
	}
}

func FromModels(ms []model.Program, now time.Time) []ProgramResponse {
	out := make([]ProgramResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i], now))
	}
	return out
}

// ProgramStats ringkasan per program untuk dashboard admin.
type ProgramStats struct {
	ProgramID         string `json:"program_id"`
	ProgramTitle      string `json:"program_title"`
	RegistrationCount int64  `json:"registration_count"`
	PaidCount         int64  `json:"paid_count"`
	ParticipantCount  int64  `json:"participant_count"`
	TotalRevenueIDR   int64  `json:"total_revenue_idr"`
	PendingRevenueIDR int64  `json:"pending_revenue_idr"`
}
