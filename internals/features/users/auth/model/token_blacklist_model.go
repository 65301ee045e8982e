package model

import "time"

// TokenBlacklist holds revoked session tokens until they would have expired
// anyway. Only the SHA-256 of the token is stored.
type TokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"type:char(64);not null;unique;column:token_hash" json:"-"`
	ExpiredAt time.Time `gorm:"type:timestamptz;not null;index;column:expired_at" json:"expired_at"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
