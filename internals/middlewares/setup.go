package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/configs"
	"kizuna_web/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide chain. Route-specific limiters and
// gates are attached by the route setup.
func SetupMiddlewares(app *fiber.App, s *configs.Settings, limiterStorage fiber.Storage) {
	app.Use(RecoveryMiddleware(s.IsDevelopment()))
	app.Use(logger.LoggerMiddleware())
	app.Use("/api", CorsMiddleware(s.CORSAllowedOrigins))
	app.Use(GlobalRateLimiter(limiterStorage))
}
