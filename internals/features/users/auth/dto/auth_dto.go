package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"kizuna_web/internals/features/users/auth/model"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Normalize trims the email only. Passwords are compared as typed.
func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func FromAdmin(m *model.AdminUserModel) AdminResponse {
	return AdminResponse{ID: m.ID, Email: m.Email, LastLoginAt: m.LastLoginAt}
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        AdminResponse `json:"user"`
}
