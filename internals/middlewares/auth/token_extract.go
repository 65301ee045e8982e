package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// bearerToken reads "Authorization: Bearer <token>", tolerating odd spacing,
// case and stray quotes.
func bearerToken(c *fiber.Ctx) string {
	fields := strings.Fields(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return strings.Trim(strings.TrimSpace(fields[1]), "\"'")
}
