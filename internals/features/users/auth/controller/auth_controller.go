package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/users/auth/dto"
	"kizuna_web/internals/features/users/auth/service"
	"kizuna_web/internals/features/users/auth/session"
	helper "kizuna_web/internals/helpers"
)

var validateLogin = validator.New()

// AuthController is the JSON side of the admin session: bearer tokens only.
type AuthController struct {
	Sessions *service.SessionManager
}

func NewAuthController(sm *service.SessionManager) *AuthController {
	return &AuthController{Sessions: sm}
}

// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validateLogin.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	}

	s, err := ctrl.Sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		log.Printf("[ERROR] api login: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}
	return helper.JsonOK(c, "login success", dto.LoginResponse{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		ExpiresAt:   s.ExpiresAt,
		User:        dto.FromAdmin(s.User),
	})
}

// POST /api/auth/logout (behind RequireAdminAPI)
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	if err := ctrl.Sessions.Logout(c.UserContext(), session.From(c).Token()); err != nil {
		log.Printf("[ERROR] api logout: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "logout failed")
	}
	return helper.JsonOK(c, "logout success", nil)
}

// GET /api/auth/me (behind RequireAdminAPI)
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	user, ok := session.From(c).CurrentUser()
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return helper.JsonOK(c, "ok", dto.FromAdmin(user))
}
