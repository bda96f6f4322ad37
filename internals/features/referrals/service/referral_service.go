// file: internals/features/referrals/service/referral_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "legacy_backend/internals/features/referrals/model"
)

/* =======================================================================
   Error taksonomi ledger — pemanggil membedakan business rejection
   dari system error lewat errors.Is.
======================================================================= */

var (
	ErrCodeNotFound       = errors.New("kode referral tidak ditemukan atau tidak aktif")
	ErrCodeExpired        = errors.New("kode referral sudah kedaluwarsa")
	ErrProgramMismatch    = errors.New("kode referral tidak berlaku untuk program ini")
	ErrUsageLimitExceeded = errors.New("kuota pemakaian kode referral sudah habis")
)

// IsBusinessRejection: true bila error berasal dari aturan bisnis kode
// referral, bukan kegagalan sistem.
func IsBusinessRejection(err error) bool {
	return errors.Is(err, ErrCodeNotFound) ||
		errors.Is(err, ErrCodeExpired) ||
		errors.Is(err, ErrProgramMismatch) ||
		errors.Is(err, ErrUsageLimitExceeded)
}

/* =======================================================================
   Service
======================================================================= */

type ReferralService struct {
	DB *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{DB: db}
}

/* =======================================================================
   Discount — satu-satunya sumber kebenaran perhitungan diskon
======================================================================= */

// ComputeDiscount menghitung nominal diskon untuk satu peserta.
// - percent/percentage: floor(harga × nilai / 100)
// - fixed: nominal apa adanya
// Hasil selalu di-cap pada harga satuan (harga bersih tidak pernah negatif).
func ComputeDiscount(discountType string, value int, unitPriceIDR int) int {
	if value <= 0 || unitPriceIDR <= 0 {
		return 0
	}

	var discount int
	switch strings.ToLower(discountType) {
	case model.DiscountTypePercent, model.DiscountTypePercentage:
		if value > 100 {
			value = 100
		}
		discount = unitPriceIDR * value / 100 // pembagian integer = floor
	case model.DiscountTypeFixed:
		discount = value
	default:
		return 0
	}

	if discount > unitPriceIDR {
		discount = unitPriceIDR
	}
	return discount
}

/* =======================================================================
   Validate
======================================================================= */

// Validate memeriksa kelayakan kode untuk program & harga satuan tertentu.
// Mengembalikan model kode + nominal diskon bila lolos semua aturan.
func (s *ReferralService) Validate(db *gorm.DB, code string, programID uuid.UUID, unitPriceIDR int, now time.Time) (*model.ReferralCode, int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, 0, ErrCodeNotFound
	}

	var rc model.ReferralCode
	if err := db.
		First(&rc, "referral_code_code = ? AND referral_code_is_active = ?", normalized, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCodeNotFound
		}
		return nil, 0, err
	}

	if rc.IsExpired(now) {
		return nil, 0, ErrCodeExpired
	}
	if rc.ReferralCodeProgramID != nil && *rc.ReferralCodeProgramID != programID {
		return nil, 0, ErrProgramMismatch
	}
	if rc.IsLimitReached() {
		return nil, 0, ErrUsageLimitExceeded
	}

	discount := ComputeDiscount(rc.ReferralCodeDiscountType, rc.ReferralCodeDiscountIDR, unitPriceIDR)
	return &rc, discount, nil
}

/* =======================================================================
   Apply / Reverse — selalu dipanggil di dalam transaksi registrasi
======================================================================= */

// ApplyTx menaikkan used_count secara atomik (guarded UPDATE, bukan
// read-then-write) lalu menulis baris riwayat pemakaian. RowsAffected = 0
// berarti kuota keburu habis oleh request lain → LimitExceeded.
func (s *ReferralService) ApplyTx(tx *gorm.DB, rc *model.ReferralCode, registrationID uuid.UUID, discountIDR int) error {
	res := tx.Exec(`
		UPDATE referral_codes
		   SET referral_code_used_count = referral_code_used_count + 1,
		       referral_code_updated_at = NOW()
		 WHERE referral_code_id = ?
		   AND referral_code_is_active = TRUE
		   AND referral_code_deleted_at IS NULL
		   AND (referral_code_usage_limit IS NULL
		        OR referral_code_used_count < referral_code_usage_limit)
	`, rc.ReferralCodeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUsageLimitExceeded
	}

	usage := model.ReferralUsageHistory{
		ReferralUsageCodeID:         rc.ReferralCodeID,
		ReferralUsageCode:           rc.ReferralCodeCode,
		ReferralUsageRegistrationID: registrationID,
		ReferralUsageDiscountIDR:    discountIDR,
	}
	return tx.Create(&usage).Error
}

// ReverseTx kompensasi saat registrasi pending dibatalkan: turunkan
// used_count sebanyak baris riwayat yang terhapus, lalu hapus riwayatnya.
func (s *ReferralService) ReverseTx(tx *gorm.DB, registrationID uuid.UUID) error {
	var usages []model.ReferralUsageHistory
	if err := tx.Find(&usages, "referral_usage_registration_id = ?", registrationID).Error; err != nil {
		return err
	}
	if len(usages) == 0 {
		return nil
	}

	perCode := map[uuid.UUID]int{}
	for _, u := range usages {
		perCode[u.ReferralUsageCodeID]++
	}

	for codeID, n := range perCode {
		if err := tx.Exec(`
			UPDATE referral_codes
			   SET referral_code_used_count = GREATEST(referral_code_used_count - ?, 0),
			       referral_code_updated_at = NOW()
			 WHERE referral_code_id = ?
		`, n, codeID).Error; err != nil {
			return err
		}
	}

	return tx.
		Where("referral_usage_registration_id = ?", registrationID).
		Delete(&model.ReferralUsageHistory{}).Error
}

/* =======================================================================
   Discrepancy report — audit drift used_count vs riwayat aktual
======================================================================= */

type UsageDiscrepancy struct {
	ReferralCodeID   uuid.UUID `json:"referral_code_id"`
	ReferralCodeCode string    `json:"referral_code_code"`
	RecordedCount    int       `json:"recorded_count"`
	ActualCount      int       `json:"actual_count"`
	Drift            int       `json:"drift"` // recorded - actual; 0 = sehat
}

func (s *ReferralService) UsageDiscrepancies(db *gorm.DB) ([]UsageDiscrepancy, error) {
	var rows []UsageDiscrepancy
	err := db.Raw(`
		SELECT rc.referral_code_id,
		       rc.referral_code_code,
		       rc.referral_code_used_count AS recorded_count,
		       COUNT(ruh.referral_usage_id) AS actual_count,
		       rc.referral_code_used_count - COUNT(ruh.referral_usage_id) AS drift
		FROM referral_codes rc
		LEFT JOIN referral_usage_histories ruh
		       ON ruh.referral_usage_code_id = rc.referral_code_id
		WHERE rc.referral_code_deleted_at IS NULL
		GROUP BY rc.referral_code_id, rc.referral_code_code, rc.referral_code_used_count
		ORDER BY ABS(rc.referral_code_used_count - COUNT(ruh.referral_usage_id)) DESC,
		         rc.referral_code_code
	`).Scan(&rows).Error
	return rows, err
}
