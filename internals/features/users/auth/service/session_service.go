package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"kizuna_web/internals/features/users/auth/model"
	"kizuna_web/internals/features/users/auth/repository"
	"kizuna_web/internals/store"
)

const (
	SessionCookie   = "admin_session"
	sessionTokenTyp = "admin_session"
)

var (
	// ErrInvalidCredentials never says which half was wrong.
	ErrInvalidCredentials = errors.New("メールアドレスまたはパスワードをご確認ください。")
	ErrNoSession          = errors.New("no valid session")
)

// Compared against when the email is unknown so both paths cost one bcrypt run.
var dummyHash, _ = HashPassword("kizuna-dummy-password")

type sessionClaims struct {
	Typ   string `json:"typ"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.AdminUserModel
}

type SessionManager struct {
	admins  store.Table[model.AdminUserModel]
	revoked repository.Blacklist
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewSessionManager(admins store.Table[model.AdminUserModel], revoked repository.Blacklist, secret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{admins: admins, revoked: revoked, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

/* ==========================
   LOGIN
========================== */

func (m *SessionManager) Login(ctx context.Context, email, password string) (*Session, error) {
	if len(m.secret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := m.findByEmail(ctx, email)
	if err != nil {
		if store.IsNotFound(err) {
			_ = CheckPasswordHash(dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPasswordHash(user.PasswordHash, password); err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	now := m.now()
	if _, err := m.admins.Update(ctx, user.ID, map[string]any{"last_login_at": &now}); err != nil {
		log.Printf("[WARN] update last_login_at for %s: %v", user.Email, err)
	}

	exp := now.Add(m.ttl)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Typ:   sessionTokenTyp,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	log.Printf("[INFO] admin %s signed in", user.Email)
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

/* ==========================
   RESOLVE
========================== */

// Resolve maps a token to its active, non-revoked admin.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*model.AdminUserModel, error) {
	claims, err := m.parse(token, true)
	if err != nil {
		return nil, ErrNoSession
	}
	revoked, err := m.revoked.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, ErrNoSession
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrNoSession
	}
	user, err := m.admins.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrNoSession
	}
	return user, nil
}

/* ==========================
   LOGOUT
========================== */

// Logout revokes the token until it would have expired. Unparseable or
// already expired tokens need no revocation.
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	claims, err := m.parse(token, false)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	until := claims.ExpiresAt.Time
	if !until.After(m.now()) {
		return nil
	}
	return m.revoked.Revoke(ctx, token, until)
}

/* ==========================
   SEED
========================== */

// EnsureAdmin creates the account if the email is not registered yet.
// Existing accounts are left alone, including their password.
func (m *SessionManager) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if _, err := m.findByEmail(ctx, email); err == nil {
		return nil
	} else if !store.IsNotFound(err) {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := m.admins.Insert(ctx, &model.AdminUserModel{Email: email, PasswordHash: hash, IsActive: true}); err != nil {
		return err
	}
	log.Printf("[INFO] seeded admin account %s", email)
	return nil
}

/* ==========================
   UTIL
========================== */

func (m *SessionManager) findByEmail(ctx context.Context, email string) (*model.AdminUserModel, error) {
	rows, err := m.admins.List(ctx, store.ListOptions{Eq: map[string]any{"email": email}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &store.Error{Op: "get", Kind: store.KindNotFound, Message: "record not found"}
	}
	return &rows[0], nil
}

func (m *SessionManager) parse(token string, validate bool) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoSession
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if !validate {
		parser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	}
	claims := &sessionClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}); err != nil {
		return nil, err
	}
	if claims.Typ != sessionTokenTyp {
		return nil, ErrNoSession
	}
	if validate && claims.ExpiresAt != nil && !m.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrNoSession
	}
	return claims, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
