package route

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/users/auth/controller"
	"kizuna_web/internals/features/users/auth/service"
	authMiddleware "kizuna_web/internals/middlewares/auth"
)

// AuthAPIRoutes mounts /api/auth. loginLimiter guards the password check.
func AuthAPIRoutes(app *fiber.App, sm *service.SessionManager, loginLimiter fiber.Handler) {
	ctrl := controller.NewAuthController(sm)
	requireAdmin := authMiddleware.RequireAdminAPI(sm)

	g := app.Group("/api/auth")
	g.Post("/login", loginLimiter, ctrl.Login)
	g.Post("/logout", requireAdmin, ctrl.Logout)
	g.Get("/me", requireAdmin, ctrl.Me)
}

// AuthPageRoutes mounts the login form and the logout button on /admin.
// The gate is attached per route so the login page itself stays open.
func AuthPageRoutes(admin fiber.Router, sm *service.SessionManager, loginLimiter, gate fiber.Handler, secure bool) {
	ctrl := controller.NewLoginPageController(sm, secure)

	admin.Get("/login", ctrl.Show)
	admin.Post("/login", loginLimiter, ctrl.Submit)
	admin.Post("/logout", gate, ctrl.Logout)
}
