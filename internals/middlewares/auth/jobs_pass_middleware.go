package auth

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/users/auth/service"
	helper "kizuna_web/internals/helpers"
)

// HasJobsPass reports whether the request carries a valid job board pass,
// either as the cookie set on unlock or in the X-Jobs-Pass header.
func HasJobsPass(c *fiber.Ctx, p *service.JobsPass) bool {
	if p.Valid(c.Cookies(service.JobsPassCookie)) {
		return true
	}
	return p.Valid(c.Get(service.JobsPassHeader))
}

func RequireJobsPassAPI(p *service.JobsPass) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !HasJobsPass(c, p) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "job board is locked")
		}
		return c.Next()
	}
}
