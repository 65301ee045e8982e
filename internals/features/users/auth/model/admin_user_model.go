package model

import (
	"time"

	"github.com/google/uuid"

	"kizuna_web/internals/store"
)

type AdminUserModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:id" json:"id"`
	Email        string     `gorm:"type:varchar(255);not null;unique;column:email" json:"email"`
	PasswordHash string     `gorm:"type:text;not null;column:password_hash" json:"-"`
	IsActive     bool       `gorm:"not null;column:is_active" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"type:timestamptz;column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (AdminUserModel) TableName() string { return "admin_users" }

var AdminSpec = store.Spec{
	Table:      "admin_users",
	Sortable:   []string{"email", "created_at"},
	Filterable: []string{"email", "is_active"},
}
