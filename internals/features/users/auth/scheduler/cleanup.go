package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ministryhub_backend/internals/features/users/auth/service"
)

// RegisterBlacklistCleanup purges expired blacklist rows on schedule. An
// empty schedule registers nothing.
func RegisterBlacklistCleanup(c *cron.Cron, schedule string, bl *service.BlacklistService, log *zap.Logger) error {
	if schedule == "" {
		return nil
	}
	log = log.Named("cleanup")
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := bl.PurgeExpired(ctx)
		if err != nil {
			log.Error("token_blacklist purge failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("token_blacklist purged", zap.Int64("deleted", n))
		}
	})
	return err
}
