package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/users/auth/dto"
	"kizuna_web/internals/features/users/auth/service"
	"kizuna_web/internals/features/users/auth/session"
	helper "kizuna_web/internals/helpers"
	authMiddleware "kizuna_web/internals/middlewares/auth"
	"kizuna_web/internals/views"
)

// LoginPageController handles the HTML login form and logout button. The
// session lives in an HttpOnly cookie.
type LoginPageController struct {
	Sessions     *service.SessionManager
	SecureCookie bool
}

func NewLoginPageController(sm *service.SessionManager, secure bool) *LoginPageController {
	return &LoginPageController{Sessions: sm, SecureCookie: secure}
}

func (ctrl *LoginPageController) render(c *fiber.Ctx, email, msg string) error {
	return views.Admin(c, "login", fiber.Map{
		"Title": "ログイン",
		"Email": email,
		"Error": msg,
	})
}

// GET /admin/login
func (ctrl *LoginPageController) Show(c *fiber.Ctx) error {
	if _, err := ctrl.Sessions.Resolve(c.UserContext(), c.Cookies(service.SessionCookie)); err == nil {
		return c.Redirect(helper.DashboardPath, fiber.StatusSeeOther)
	}
	return ctrl.render(c, "", "")
}

// POST /admin/login
func (ctrl *LoginPageController) Submit(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ctrl.render(c, "", service.ErrInvalidCredentials.Error())
	}
	req.Normalize()
	if err := validateLogin.Struct(&req); err != nil {
		return ctrl.render(c, req.Email, service.ErrInvalidCredentials.Error())
	}

	s, err := ctrl.Sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Printf("[ERROR] login: %v", err)
		}
		return ctrl.render(c, req.Email, service.ErrInvalidCredentials.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     service.SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HTTPOnly: true,
		Secure:   ctrl.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(helper.DashboardPath, fiber.StatusSeeOther)
}

// POST /admin/logout
func (ctrl *LoginPageController) Logout(c *fiber.Ctx) error {
	if err := ctrl.Sessions.Logout(c.UserContext(), session.From(c).Token()); err != nil {
		log.Printf("[WARN] logout: %v", err)
	}
	authMiddleware.ClearCookie(c, service.SessionCookie)
	return c.Redirect(authMiddleware.LoginPath, fiber.StatusSeeOther)
}
