package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* =======================================================================
   Money math
======================================================================= */

func TestComputeTax(t *testing.T) {
	assert.Equal(t, 110_000, ComputeTax(1_000_000))
	assert.Equal(t, 209_000, ComputeTax(1_900_000))
	assert.Equal(t, 0, ComputeTax(0))

	// pembulatan ke rupiah terdekat: 11% × 95 = 10.45 → 10
	assert.Equal(t, 10, ComputeTax(95))
	// 11% × 50 = 5.5 → 6 (round half away from zero)
	assert.Equal(t, 6, ComputeTax(50))
}

func TestComputeTotalsDuaPesertaSatuDiskon(t *testing.T) {
	// Harga 1.000.000 × 2 peserta, satu peserta diskon 100.000:
	// subtotal 1.900.000, PPN 209.000, total 2.109.000
	subtotal, tax, total := ComputeTotals(1_000_000, []int{100_000, 0})

	assert.Equal(t, 1_900_000, subtotal)
	assert.Equal(t, 209_000, tax)
	assert.Equal(t, 2_109_000, total)
}

func TestComputeTotalsDiskonPenuh(t *testing.T) {
	subtotal, tax, total := ComputeTotals(500_000, []int{500_000})
	assert.Equal(t, 0, subtotal)
	assert.Equal(t, 0, tax)
	assert.Equal(t, 0, total)
}

// Diskon melebihi harga tidak boleh membuat baris negatif.
func TestComputeTotalsDiskonMelebihiHarga(t *testing.T) {
	subtotal, _, _ := ComputeTotals(500_000, []int{900_000, 0})
	assert.Equal(t, 500_000, subtotal)
}

func TestComputeTotalsTanpaPeserta(t *testing.T) {
	subtotal, tax, total := ComputeTotals(1_000_000, nil)
	assert.Zero(t, subtotal)
	assert.Zero(t, tax)
	assert.Zero(t, total)
}

/* =======================================================================
   ID generators
======================================================================= */

func TestGenerateRegistrationCodeFormat(t *testing.T) {
	now := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)
	code := GenerateRegistrationCode(now)

	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "REG", parts[0])
	assert.Equal(t, "1756382400000", parts[1]) // unix millis
	assert.Len(t, parts[2], 8)
}

func TestGenerateOrderIDFormat(t *testing.T) {
	regID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	now := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)

	orderID := GenerateOrderID(regID, now)

	assert.True(t, strings.HasPrefix(orderID, "ORDER-a1b2c3d4-"))
	assert.True(t, strings.HasSuffix(orderID, "-1756382400000"))
}

func TestGenerateRegistrationCodeUnik(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := GenerateRegistrationCode(now)
		assert.False(t, seen[code], "kode duplikat: %s", code)
		seen[code] = true
	}
}
