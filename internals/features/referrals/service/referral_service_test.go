package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	model "legacy_backend/internals/features/referrals/model"
)

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name         string
		discountType string
		value        int
		unitPrice    int
		want         int
	}{
		{"fixed biasa", model.DiscountTypeFixed, 100_000, 1_000_000, 100_000},
		{"fixed melebihi harga dicap", model.DiscountTypeFixed, 2_000_000, 1_000_000, 1_000_000},
		{"percent floor", model.DiscountTypePercent, 15, 999_999, 149_999},
		{"percent 10%", model.DiscountTypePercent, 10, 1_000_000, 100_000},
		{"percentage alias", model.DiscountTypePercentage, 10, 1_000_000, 100_000},
		{"percent di atas 100 dicap", model.DiscountTypePercent, 150, 1_000_000, 1_000_000},
		{"nilai nol", model.DiscountTypeFixed, 0, 1_000_000, 0},
		{"nilai negatif", model.DiscountTypeFixed, -5, 1_000_000, 0},
		{"harga nol", model.DiscountTypePercent, 10, 0, 0},
		{"tipe tidak dikenal", "voucher", 50, 1_000_000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDiscount(tt.discountType, tt.value, tt.unitPrice)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Tipe dibandingkan case-insensitive.
func TestComputeDiscountCaseInsensitive(t *testing.T) {
	assert.Equal(t, 100_000, ComputeDiscount("FIXED", 100_000, 1_000_000))
	assert.Equal(t, 100_000, ComputeDiscount("Percent", 10, 1_000_000))
}

func TestIsBusinessRejection(t *testing.T) {
	assert.True(t, IsBusinessRejection(ErrCodeNotFound))
	assert.True(t, IsBusinessRejection(ErrCodeExpired))
	assert.True(t, IsBusinessRejection(ErrProgramMismatch))
	assert.True(t, IsBusinessRejection(ErrUsageLimitExceeded))
	assert.False(t, IsBusinessRejection(nil))
	assert.False(t, IsBusinessRejection(fiber.NewError(fiber.StatusInternalServerError, "db down")))
}
