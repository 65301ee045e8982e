package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kizuna_web/internals/features/users/auth/repository"
)

func TestPurgeExpiredTokens(t *testing.T) {
	ctx := context.Background()
	bl := repository.NewMemoryBlacklist()
	require.NoError(t, bl.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	require.NoError(t, bl.Revoke(ctx, "live", time.Now().Add(time.Hour)))

	PurgeExpiredTokens(bl)

	old, _ := bl.IsRevoked(ctx, "old")
	live, _ := bl.IsRevoked(ctx, "live")
	assert.False(t, old)
	assert.True(t, live)
}

func TestStartBlacklistCleanupScheduler(t *testing.T) {
	c, err := StartBlacklistCleanupScheduler(repository.NewMemoryBlacklist(), "@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()

	_, err = StartBlacklistCleanupScheduler(repository.NewMemoryBlacklist(), "not a spec")
	assert.Error(t, err)
}
