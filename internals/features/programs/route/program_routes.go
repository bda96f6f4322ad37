package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	programCtrl "legacy_backend/internals/features/programs/controller"
)

// ProgramPublicRoutes: endpoint katalog untuk landing page (tanpa auth)
func ProgramPublicRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctrl := programCtrl.NewProgramController(db, v)

	g := r.Group("/programs")
	g.Get("/", ctrl.ListPrograms)
	g.Get("/:id", ctrl.GetProgram)
	g.Get("/:id/price", ctrl.GetProgramPrice)
}

// ProgramAdminRoutes: kelola program (auth + role admin)
func ProgramAdminRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctrl := programCtrl.NewProgramController(db, v)

	g := r.Group("/programs")
	g.Get("/", ctrl.ListPrograms)
	g.Get("/stats", ctrl.GetProgramStats)
	g.Post("/", ctrl.CreateProgram)
	g.Patch("/:id", ctrl.UpdateProgram)
	g.Post("/:id/duplicate", ctrl.DuplicateProgram)
	g.Delete("/:id", ctrl.DeleteProgram)
}
