package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	registrationCtrl "legacy_backend/internals/features/registrations/controller"
	service "legacy_backend/internals/features/registrations/service"
)

// RegistrationPublicRoutes: alur pendaftaran + pembayaran dari landing page
func RegistrationPublicRoutes(r fiber.Router, svc *service.RegistrationService, v *validator.Validate) {
	regCtrl := registrationCtrl.NewRegistrationController(svc, v)
	payCtrl := registrationCtrl.NewPaymentController(svc)

	r.Post("/register", regCtrl.CreateRegistration)

	reg := r.Group("/registration")
	reg.Get("/:registrationId", regCtrl.GetRegistration)
	reg.Delete("/:registrationId/cancel", regCtrl.CancelRegistration)
	reg.Post("/:registrationId/transfer-proof", regCtrl.UploadTransferProof)

	pay := r.Group("/payment")
	pay.Post("/notification", payCtrl.MidtransNotification) // webhook gateway
	pay.Get("/status/:registrationId", payCtrl.GetPaymentStatus)
	pay.Post("/check/:registrationId", payCtrl.CheckPaymentStatus)
}

// RegistrationAdminRoutes: back-office (auth + role admin)
func RegistrationAdminRoutes(r fiber.Router, svc *service.RegistrationService, v *validator.Validate) {
	regCtrl := registrationCtrl.NewRegistrationController(svc, v)

	g := r.Group("/registrations")
	g.Get("/", regCtrl.ListRegistrations)
	g.Get("/stats", regCtrl.GetRegistrationStats)
	g.Post("/:registrationId/verify-transfer", regCtrl.VerifyTransfer)
}
