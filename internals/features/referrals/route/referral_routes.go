package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	referralCtrl "legacy_backend/internals/features/referrals/controller"
)

// ReferralPublicRoutes: cek kode dari form pendaftaran (tanpa auth)
func ReferralPublicRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctrl := referralCtrl.NewReferralController(db, v)

	g := r.Group("/referral")
	g.Post("/check", ctrl.CheckReferral)
	g.Get("/usage/:referral_code", ctrl.GetReferralUsage)
}

// ReferralAdminRoutes: kelola kode referral (auth + role admin)
func ReferralAdminRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctrl := referralCtrl.NewReferralController(db, v)

	g := r.Group("/referral-codes")
	g.Get("/", ctrl.ListReferralCodes)
	g.Get("/discrepancies", ctrl.GetUsageDiscrepancies)
	g.Post("/", ctrl.CreateReferralCode)
	g.Get("/:id", ctrl.GetReferralCode)
	g.Patch("/:id", ctrl.UpdateReferralCode)
	g.Delete("/:id", ctrl.DeleteReferralCode)
}
