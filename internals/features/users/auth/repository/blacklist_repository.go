package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kizuna_web/internals/features/users/auth/model"
)

// Blacklist records logged-out tokens until their natural expiry.
type Blacklist interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Purge drops entries that expired before the cutoff and reports how many.
	Purge(ctx context.Context, before time.Time) (int64, error)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

/* ====================== GORM ====================== */

type GormBlacklist struct {
	db *gorm.DB
}

func NewGormBlacklist(db *gorm.DB) *GormBlacklist { return &GormBlacklist{db: db} }

func (r *GormBlacklist) Revoke(ctx context.Context, token string, until time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.TokenBlacklist{TokenHash: hashToken(token), ExpiredAt: until}).Error
}

func (r *GormBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	var row model.TokenBlacklist
	err := r.db.WithContext(ctx).
		Select("id").
		Where("token_hash = ?", hashToken(token)).
		Take(&row).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *GormBlacklist) Purge(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expired_at < ?", before).Delete(&model.TokenBlacklist{})
	return res.RowsAffected, res.Error
}

/* ====================== MEMORY ====================== */

type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: map[string]time.Time{}}
}

func (r *MemoryBlacklist) Revoke(ctx context.Context, token string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := hashToken(token)
	if _, ok := r.entries[h]; !ok {
		r.entries[h] = until
	}
	return nil
}

func (r *MemoryBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[hashToken(token)]
	return ok, nil
}

func (r *MemoryBlacklist) Purge(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, exp := range r.entries {
		if exp.Before(before) {
			delete(r.entries, k)
			n++
		}
	}
	return n, nil
}
