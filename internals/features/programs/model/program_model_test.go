package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPricingTanpaPromo(t *testing.T) {
	p := Program{ProgramPriceIDR: 2_500_000}

	info := p.Pricing(time.Now())

	assert.False(t, info.IsPromoActive)
	assert.Equal(t, 2_500_000, info.EffectivePriceIDR)
	assert.Equal(t, 2_500_000, info.RegularPriceIDR)
	assert.Equal(t, 0, info.SavingsIDR)
	assert.Nil(t, info.PromoDaysLeft)
}

func TestPricingPromoAktif(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ends := now.Add(48 * time.Hour)

	p := Program{
		ProgramPriceIDR:      2_500_000,
		ProgramPromoPriceIDR: intPtr(1_750_000),
		ProgramPromoEndsAt:   &ends,
	}

	info := p.Pricing(now)

	assert.True(t, info.IsPromoActive)
	assert.Equal(t, 1_750_000, info.EffectivePriceIDR)
	assert.Equal(t, 750_000, info.SavingsIDR)
	require.NotNil(t, info.PromoDaysLeft)
	assert.Equal(t, 2, *info.PromoDaysLeft)
}

func TestPricingPromoKedaluwarsa(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	ends := now.Add(-time.Minute)

	p := Program{
		ProgramPriceIDR:      2_500_000,
		ProgramPromoPriceIDR: intPtr(1_750_000),
		ProgramPromoEndsAt:   &ends,
	}

	info := p.Pricing(now)

	assert.False(t, info.IsPromoActive)
	assert.Equal(t, 2_500_000, info.EffectivePriceIDR)
}

// Batas promo inklusif: tepat di promo_ends_at masih berlaku.
func TestPricingTepatDiBatasPromo(t *testing.T) {
	ends := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)

	p := Program{
		ProgramPriceIDR:      1_000_000,
		ProgramPromoPriceIDR: intPtr(800_000),
		ProgramPromoEndsAt:   &ends,
	}

	assert.Equal(t, 800_000, p.EffectivePrice(ends))
	assert.Equal(t, 1_000_000, p.EffectivePrice(ends.Add(time.Second)))
}

// Promo price tanpa tanggal berakhir tidak dianggap promo.
func TestPricingPromoTanpaTanggal(t *testing.T) {
	p := Program{
		ProgramPriceIDR:      1_000_000,
		ProgramPromoPriceIDR: intPtr(800_000),
	}

	info := p.Pricing(time.Now())
	assert.False(t, info.IsPromoActive)
	assert.Equal(t, 1_000_000, info.EffectivePriceIDR)
}
