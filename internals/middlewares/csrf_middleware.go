package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/utils"
)

const CSRFContextKey = "csrf"

// CSRFMiddleware protects the cookie-authenticated admin forms. Templates
// put the token from c.Locals(CSRFContextKey) in a hidden _csrf field.
func CSRFMiddleware(secure bool) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:_csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		CookieHTTPOnly: true,
		Expiration:     2 * time.Hour,
		KeyGenerator:   utils.UUID,
		ContextKey:     CSRFContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusForbidden).SendString("フォームの有効期限が切れました。ページを再読み込みしてください。")
		},
	})
}
