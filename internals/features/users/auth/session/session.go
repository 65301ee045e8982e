// Package session carries the signed-in admin through a request explicitly,
// instead of a process-wide "current user".
package session

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/users/auth/model"
)

const localsKey = "admin_session"

type Context struct {
	user  *model.AdminUserModel
	token string
}

func New(user *model.AdminUserModel, token string) Context {
	return Context{user: user, token: token}
}

// CurrentUser reports the signed-in admin, if any.
func (s Context) CurrentUser() (*model.AdminUserModel, bool) {
	return s.user, s.user != nil
}

func (s Context) Token() string { return s.token }

func Attach(c *fiber.Ctx, s Context) { c.Locals(localsKey, s) }

// From returns the request's session. The zero Context has no user.
func From(c *fiber.Ctx) Context {
	if s, ok := c.Locals(localsKey).(Context); ok {
		return s
	}
	return Context{}
}
