package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/users/auth/service"
	"kizuna_web/internals/features/users/auth/session"
	helper "kizuna_web/internals/helpers"
)

const LoginPath = "/admin/login"

// RequireAdminPage gates the HTML admin area on the session cookie. Missing or
// invalid sessions are sent to the login page.
func RequireAdminPage(sm *service.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(service.SessionCookie)
		user, err := sm.Resolve(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, service.ErrNoSession) {
				log.Printf("[ERROR] resolve session: %v", err)
				return fiber.NewError(fiber.StatusBadGateway, "セッションを確認できませんでした。")
			}
			if token != "" {
				ClearCookie(c, service.SessionCookie)
			}
			return c.Redirect(LoginPath, fiber.StatusSeeOther)
		}
		session.Attach(c, session.New(user, token))
		return c.Next()
	}
}

// RequireAdminAPI gates /api/a on a bearer token. Cookies are not accepted
// here, so the JSON API needs no CSRF token.
func RequireAdminAPI(sm *service.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - No token provided")
		}
		user, err := sm.Resolve(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrNoSession) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or expired token")
			}
			log.Printf("[ERROR] resolve session: %v", err)
			return helper.JsonError(c, fiber.StatusBadGateway, "cannot verify session")
		}
		session.Attach(c, session.New(user, token))
		return c.Next()
	}
}

func ClearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   -1,
	})
}
