package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"kizuna_web/internals/features/users/auth/repository"
)

// StartBlacklistCleanupScheduler purges expired blacklist entries on the given
// cron spec (default "@daily"). Stop the returned cron on shutdown.
func StartBlacklistCleanupScheduler(bl repository.Blacklist, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = "@daily"
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { PurgeExpiredTokens(bl) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[CLEANUP] token_blacklist purge scheduled (%s)", spec)
	return c, nil
}

func PurgeExpiredTokens(bl repository.Blacklist) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("[CLEANUP] Purging token_blacklist...")
	n, err := bl.Purge(ctx, time.Now())
	if err != nil {
		log.Printf("[CLEANUP ERROR] purge failed: %v", err)
		return
	}
	if n == 0 {
		log.Println("[CLEANUP] Nothing to purge")
		return
	}
	log.Printf("[CLEANUP] %d expired tokens removed", n)
}
