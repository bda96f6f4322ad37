package database

import (
	"log"

	"gorm.io/gorm"

	programModel "legacy_backend/internals/features/programs/model"
	referralModel "legacy_backend/internals/features/referrals/model"
	registrationModel "legacy_backend/internals/features/registrations/model"
	userModel "legacy_backend/internals/features/users/model"
)

// AutoMigrate semua tabel. Urutan penting: parent dulu baru child (FK).
func MigrateAll(db *gorm.DB) {
	log.Println("🛠️ Menjalankan auto-migrate...")

	if err := db.AutoMigrate(
		&userModel.User{},
		&programModel.Program{},
		&referralModel.ReferralCode{},
		&registrationModel.Registration{},
		&registrationModel.Participant{},
		&referralModel.ReferralUsageHistory{},
		&registrationModel.PaymentLog{},
	); err != nil {
		log.Fatalf("❌ Auto-migrate gagal: %v", err)
	}

	log.Println("✅ Auto-migrate selesai.")
}
