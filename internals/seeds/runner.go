package seeds

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"legacy_backend/internals/configs"
	"legacy_backend/internals/constants"
	programModel "legacy_backend/internals/features/programs/model"
	referralModel "legacy_backend/internals/features/referrals/model"
	userModel "legacy_backend/internals/features/users/model"
)

// RunAllSeeds mengisi data awal: admin, program contoh, kode referral contoh.
// Idempotent: record yang sudah ada dilewati.
func RunAllSeeds(db *gorm.DB) {
	seedAdminUser(db)
	seedPrograms(db)
	seedReferralCodes(db)
}

func seedAdminUser(db *gorm.DB) {
	email := configs.GetEnv("SEED_ADMIN_EMAIL", "admin@localhost")

	var count int64
	db.Model(&userModel.User{}).Where("user_email = ?", email).Count(&count)
	if count > 0 {
		log.Printf("⏭️ Admin %s sudah ada, skip", email)
		return
	}

	password := configs.GetEnv("SEED_ADMIN_PASSWORD", "admin12345")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Gagal hash password admin: %v", err)
		return
	}

	admin := userModel.User{
		UserName:     "Administrator",
		UserEmail:    email,
		UserPassword: string(hash),
		UserRole:     constants.RoleAdmin,
		UserIsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("❌ Gagal seed admin: %v", err)
		return
	}
	log.Printf("✅ Admin %s dibuat", email)
}

func seedPrograms(db *gorm.DB) {
	var count int64
	db.Model(&programModel.Program{}).Count(&count)
	if count > 0 {
		log.Println("⏭️ Programs sudah terisi, skip")
		return
	}

	promoPrice := 1_750_000
	promoEnd := time.Now().AddDate(0, 1, 0)
	descBootcamp := "Program intensif dengan mentoring mingguan."
	durBootcamp := "3 bulan"
	descReguler := "Program reguler dengan jadwal fleksibel."
	durReguler := "6 bulan"

	programs := []programModel.Program{
		{
			ProgramTitle:         "Bootcamp Intensif 3 Bulan",
			ProgramDescription:   &descBootcamp,
			ProgramDuration:      &durBootcamp,
			ProgramPriceIDR:      2_500_000,
			ProgramPromoPriceIDR: &promoPrice,
			ProgramPromoEndsAt:   &promoEnd,
			ProgramIsActive:      true,
		},
		{
			ProgramTitle:       "Kelas Reguler 6 Bulan",
			ProgramDescription: &descReguler,
			ProgramDuration:    &durReguler,
			ProgramPriceIDR:    1_000_000,
			ProgramIsActive:    true,
		},
	}
	if err := db.Create(&programs).Error; err != nil {
		log.Printf("❌ Gagal seed programs: %v", err)
		return
	}
	log.Printf("✅ %d program contoh dibuat", len(programs))
}

func seedReferralCodes(db *gorm.DB) {
	var count int64
	db.Model(&referralModel.ReferralCode{}).Count(&count)
	if count > 0 {
		log.Println("⏭️ Referral codes sudah terisi, skip")
		return
	}

	limit := 50
	owner := "Tim Marketing"
	expiry := time.Now().AddDate(0, 3, 0)

	codes := []referralModel.ReferralCode{
		{
			ReferralCodeCode:         "WELCOME10",
			ReferralCodeDiscountType: referralModel.DiscountTypePercent,
			ReferralCodeDiscountIDR:  10,
			ReferralCodeUsageLimit:   &limit,
			ReferralCodeIsActive:     true,
			ReferralCodeExpiresAt:    &expiry,
			ReferralCodeOwnerName:    &owner,
		},
		{
			ReferralCodeCode:         "HEMAT100K",
			ReferralCodeDiscountType: referralModel.DiscountTypeFixed,
			ReferralCodeDiscountIDR:  100_000,
			ReferralCodeIsActive:     true,
		},
	}
	if err := db.Create(&codes).Error; err != nil {
		log.Printf("❌ Gagal seed referral codes: %v", err)
		return
	}
	log.Printf("✅ %d kode referral contoh dibuat", len(codes))
}
