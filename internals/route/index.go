// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"legacy_backend/internals/configs"
	"legacy_backend/internals/constants"
	participantRoute "legacy_backend/internals/features/participants/route"
	programRoute "legacy_backend/internals/features/programs/route"
	referralRoute "legacy_backend/internals/features/referrals/route"
	registrationRoute "legacy_backend/internals/features/registrations/route"
	registrationService "legacy_backend/internals/features/registrations/service"
	userRoute "legacy_backend/internals/features/users/route"
	authMiddleware "legacy_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	v := validator.New()

	// Shared services: gateway + mailer diinject sekali dan dipakai
	// di semua route pendaftaran/pembayaran.
	gateway := registrationService.NewMidtransGateway(
		configs.MidtransServerKey,
		configs.MidtransIsProduction,
	)
	mailer := registrationService.NewSMTPMailer()
	regSvc := registrationService.NewRegistrationService(
		db, gateway, mailer,
		configs.MidtransServerKey,
		configs.FrontendURL,
	)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Mounting public routes...")
	api := app.Group("/api")

	programRoute.ProgramPublicRoutes(api, db, v)
	referralRoute.ReferralPublicRoutes(api, db, v)
	registrationRoute.RegistrationPublicRoutes(api, regSvc, v)
	userRoute.AuthPublicRoutes(api, db, v)

	// ===================== AUTHENTICATED =====================
	log.Println("[INFO] Mounting authenticated routes...")
	authed := app.Group("/api", authMiddleware.AuthMiddleware(db))
	userRoute.AuthProtectedRoutes(authed, db, v)

	// ===================== ADMIN =====================
	log.Println("[INFO] Mounting admin routes...")
	admin := app.Group("/api/admin",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(
			constants.RoleErrorAdmin("back-office"),
			constants.AdminAndAbove...,
		),
	)

	programRoute.ProgramAdminRoutes(admin, db, v)
	referralRoute.ReferralAdminRoutes(admin, db, v)
	registrationRoute.RegistrationAdminRoutes(admin, regSvc, v)
	participantRoute.ParticipantAdminRoutes(admin, db)
	userRoute.UserAdminRoutes(admin, db)
}
