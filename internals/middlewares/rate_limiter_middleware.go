package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Storage may be nil, in which case the limiter keeps counters in memory.

// Global limiter for all regular endpoints
func GlobalRateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: limitReached("リクエストが多すぎます。しばらくしてから再度お試しください。"),
	})
}

// Login route (stricter)
func LoginRateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		LimitReached: limitReached("ログインの試行回数が多すぎます。しばらくしてから再度お試しください。"),
	})
}

// Job board password attempts
func UnlockRateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 5 * time.Minute,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "unlock:" + c.IP()
		},
		LimitReached: limitReached("パスワードの試行回数が多すぎます。しばらくしてから再度お試しください。"),
	})
}

func limitReached(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMETextHTML {
			return c.Status(fiber.StatusTooManyRequests).SendString(message)
		}
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success":    false,
			"message":    message,
			"error_code": "RATE_LIMITED",
		})
	}
}
