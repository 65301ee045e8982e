package views

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/users/auth/session"
)

const (
	siteLayout  = "layouts/site"
	adminLayout = "layouts/admin"
)

// csrfLocalsKey must match the csrf middleware's ContextKey.
const csrfLocalsKey = "csrf"

// Site renders a public page. nav marks the active header link.
func Site(c *fiber.Ctx, name, nav string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Nav"] = nav
	return c.Render("site/"+name, data, siteLayout)
}

// Admin renders an admin page with the CSRF token and, when signed in, the
// admin's email for the header.
func Admin(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if tok, ok := c.Locals(csrfLocalsKey).(string); ok {
		data["CSRF"] = tok
	}
	if user, ok := session.From(c).CurrentUser(); ok {
		data["AdminEmail"] = user.Email
	}
	return c.Render("admin/"+name, data, adminLayout)
}

// Error renders the plain error page with the given status.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).Render("errors/error", fiber.Map{
		"Nav":     "",
		"Title":   "エラー",
		"Status":  status,
		"Message": message,
	}, siteLayout)
}
