package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userCtrl "legacy_backend/internals/features/users/controller"
	"legacy_backend/internals/middlewares"
)

// AuthPublicRoutes: endpoint auth tanpa login
func AuthPublicRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctrl := userCtrl.NewAuthController(db, v)

	g := r.Group("/auth")
	g.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	g.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	g.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	g.Post("/refresh", ctrl.RefreshToken)
}

// AuthProtectedRoutes: endpoint auth yang butuh access token
func AuthProtectedRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctrl := userCtrl.NewAuthController(db, v)

	g := r.Group("/auth")
	g.Get("/me", ctrl.Me)
	g.Post("/change-password", ctrl.ChangePassword)
	g.Post("/logout", ctrl.Logout)
}

// UserAdminRoutes: manajemen user untuk back-office
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := userCtrl.NewUserAdminController(db)

	g := r.Group("/users")
	g.Get("/", ctrl.ListUsers)
	g.Get("/:id", ctrl.GetUser)
	g.Patch("/:id/active", ctrl.SetUserActive)
	g.Delete("/:id", ctrl.DeleteUser)
}
