package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	participantCtrl "legacy_backend/internals/features/participants/controller"
)

// ParticipantAdminRoutes: view peserta untuk back-office
func ParticipantAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := participantCtrl.NewParticipantController(db)

	g := r.Group("/participants")
	g.Get("/", ctrl.ListParticipants)
	g.Get("/:id", ctrl.GetParticipant)
}
