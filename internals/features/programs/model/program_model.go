package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Model ===================== */

type Program struct {
	ProgramID uuid.UUID `gorm:"column:program_id;type:uuid;default:gen_random_uuid();primaryKey" json:"program_id"`

	ProgramTitle       string  `gorm:"column:program_title;type:varchar(255);not null" json:"program_title"`
	ProgramDescription *string `gorm:"column:program_description;type:text" json:"program_description,omitempty"`
	ProgramDuration    *string `gorm:"column:program_duration;type:varchar(100)" json:"program_duration,omitempty"`

	// Harga dalam rupiah utuh
	ProgramPriceIDR      int        `gorm:"column:program_price_idr;not null;check:program_price_idr >= 0" json:"program_price_idr"`
	ProgramPromoPriceIDR *int       `gorm:"column:program_promo_price_idr;check:program_promo_price_idr >= 0" json:"program_promo_price_idr,omitempty"`
	ProgramPromoEndsAt   *time.Time `gorm:"column:program_promo_ends_at" json:"program_promo_ends_at,omitempty"`

	ProgramIsActive bool `gorm:"column:program_is_active;not null;default:true" json:"program_is_active"`

	CreatedAt time.Time      `gorm:"column:program_created_at;autoCreateTime" json:"program_created_at"`
	UpdatedAt time.Time      `gorm:"column:program_updated_at;autoUpdateTime" json:"program_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:program_deleted_at;index" json:"program_deleted_at,omitempty"`
}

func (Program) TableName() string { return "programs" }

/* ===================== Pricing Engine ===================== */

type PricingInfo struct {
	EffectivePriceIDR int  `json:"effective_price_idr"`
	RegularPriceIDR   int  `json:"regular_price_idr"`
	IsPromoActive     bool `json:"is_promo_active"`
	SavingsIDR        int  `json:"savings_idr"`
	PromoDaysLeft     *int `json:"promo_days_left,omitempty"`
}

// Pricing menghitung harga efektif program pada waktu `now`.
// Promo berlaku bila promo price terisi dan now ≤ promo_ends_at.
// Pure function: tidak menyentuh DB.
func (p *Program) Pricing(now time.Time) PricingInfo {
	info := PricingInfo{
		EffectivePriceIDR: p.ProgramPriceIDR,
		RegularPriceIDR:   p.ProgramPriceIDR,
	}

	if p.ProgramPromoPriceIDR == nil || p.ProgramPromoEndsAt == nil {
		return info
	}
	if now.After(*p.ProgramPromoEndsAt) {
		return info
	}

	info.IsPromoActive = true
	info.EffectivePriceIDR = *p.ProgramPromoPriceIDR
	info.SavingsIDR = p.ProgramPriceIDR - *p.ProgramPromoPriceIDR

	// sisa hari promo: ceil selisih waktu dalam hari
	days := int(math.Ceil(p.ProgramPromoEndsAt.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	info.PromoDaysLeft = &days

	return info
}

// EffectivePrice shortcut untuk pemanggil yang hanya butuh angka harga.
func (p *Program) EffectivePrice(now time.Time) int {
	return p.Pricing(now).EffectivePriceIDR
}
