package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kizuna_web/internals/features/users/auth/model"
	"kizuna_web/internals/features/users/auth/repository"
	"kizuna_web/internals/store"
)

const testSecret = "test-secret"

func newManager(t *testing.T) (*SessionManager, *store.MemoryTable[model.AdminUserModel], *repository.MemoryBlacklist) {
	t.Helper()
	admins := store.NewMemoryTable[model.AdminUserModel](model.AdminSpec)
	bl := repository.NewMemoryBlacklist()
	m := NewSessionManager(admins, bl, testSecret, time.Hour)
	require.NoError(t, m.EnsureAdmin(context.Background(), " Admin@Kizuna.test ", "correct horse"))
	return m, admins, bl
}

func TestSessionManager_LoginAndResolve(t *testing.T) {
	ctx := context.Background()
	m, admins, _ := newManager(t)

	s, err := m.Login(ctx, "admin@kizuna.test", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, 5*time.Second)

	user, err := m.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@kizuna.test", user.Email)

	stored, err := admins.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestSessionManager_LoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	m, admins, _ := newManager(t)

	_, errWrongPass := m.Login(ctx, "admin@kizuna.test", "nope")
	_, errUnknown := m.Login(ctx, "ghost@kizuna.test", "correct horse")
	_, errEmpty := m.Login(ctx, "", "")
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errEmpty, ErrInvalidCredentials)

	rows, err := admins.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	_, err = admins.Update(ctx, rows[0].ID, map[string]any{"is_active": false})
	require.NoError(t, err)
	_, errInactive := m.Login(ctx, "admin@kizuna.test", "correct horse")
	assert.ErrorIs(t, errInactive, ErrInvalidCredentials)
}

func TestSessionManager_LogoutRevokes(t *testing.T) {
	ctx := context.Background()
	m, _, bl := newManager(t)

	s, err := m.Login(ctx, "admin@kizuna.test", "correct horse")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx, s.Token))

	_, err = m.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	revoked, err := bl.IsRevoked(ctx, s.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Garbage tokens are ignored rather than stored.
	require.NoError(t, m.Logout(ctx, "not-a-jwt"))
}

func TestSessionManager_RejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	_, err := m.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)

	other := NewSessionManager(store.NewMemoryTable[model.AdminUserModel](model.AdminSpec), repository.NewMemoryBlacklist(), "other-secret", time.Hour)
	require.NoError(t, other.EnsureAdmin(ctx, "admin@kizuna.test", "pw"))
	s, err := other.Login(ctx, "admin@kizuna.test", "pw")
	require.NoError(t, err)
	_, err = m.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	pass, _, err := NewJobsPass("secret", testSecret, time.Hour).Unlock("secret")
	require.NoError(t, err)
	_, err = m.Resolve(ctx, pass)
	assert.ErrorIs(t, err, ErrNoSession, "a jobs pass is not an admin session")
}

func TestSessionManager_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	s, err := m.Login(ctx, "admin@kizuna.test", "correct horse")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionManager_EnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, admins, _ := newManager(t)

	require.NoError(t, m.EnsureAdmin(ctx, "admin@kizuna.test", "another password"))
	rows, err := admins.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// The original password still works.
	_, err = m.Login(ctx, "admin@kizuna.test", "correct horse")
	assert.NoError(t, err)
}

func TestJobsPass(t *testing.T) {
	p := NewJobsPass("toyo119", testSecret, 24*time.Hour)

	_, _, err := p.Unlock("toyo11")
	assert.ErrorIs(t, err, ErrWrongJobsPassword)
	_, _, err = p.Unlock(" toyo119")
	assert.ErrorIs(t, err, ErrWrongJobsPassword)

	token, exp, err := p.Unlock("toyo119")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now().Add(23*time.Hour)))
	assert.True(t, p.Valid(token))

	assert.False(t, p.Valid(""))
	assert.False(t, p.Valid(token+"x"))
	assert.False(t, NewJobsPass("toyo119", "other", time.Hour).Valid(token))
}

func TestJobsPass_UnsetPasswordNeverUnlocks(t *testing.T) {
	p := NewJobsPass("", testSecret, time.Hour)
	_, _, err := p.Unlock("")
	assert.ErrorIs(t, err, ErrWrongJobsPassword)
}

func TestJobsPass_ExpiredPassIsInvalid(t *testing.T) {
	p := NewJobsPass("pw", testSecret, time.Hour)
	p.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token, _, err := p.Unlock("pw")
	require.NoError(t, err)
	assert.False(t, p.Valid(token))
}

func TestJobsPass_PasswordChangeRelocks(t *testing.T) {
	token, _, err := NewJobsPass("old-members", testSecret, time.Hour).Unlock("old-members")
	require.NoError(t, err)

	assert.True(t, NewJobsPass("old-members", testSecret, time.Hour).Valid(token))
	assert.False(t, NewJobsPass("new-members", testSecret, time.Hour).Valid(token))
	assert.False(t, NewJobsPass("", testSecret, time.Hour).Valid(token))
}

func TestJobsPass_RejectsPassWithoutFingerprint(t *testing.T) {
	p := NewJobsPass("pw", testSecret, time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ": jobsPassTyp,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	assert.False(t, p.Valid(token))
}
