package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ministryhub_backend/internals/features/calendar/meetings/repository"
	"ministryhub_backend/internals/features/calendar/meetings/service"
	"ministryhub_backend/internals/helpers/dbtime"
)

// HorizonWarmer materializes [today, today+horizon] for every church with an
// active pattern, so the first read of the coming weeks finds rows in place.
type HorizonWarmer struct {
	repo    repository.MeetingRepository
	mat     *service.Materializer
	horizon int
	log     *zap.Logger
	now     func() time.Time
}

func NewHorizonWarmer(repo repository.MeetingRepository, mat *service.Materializer, horizonDays int, log *zap.Logger) *HorizonWarmer {
	if horizonDays <= 0 {
		horizonDays = 28
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HorizonWarmer{repo: repo, mat: mat, horizon: horizonDays, log: log.Named("warmer"), now: time.Now}
}

// Run makes one pass. A failing church is logged and the pass moves on.
func (w *HorizonWarmer) Run(ctx context.Context) (service.MaterializeResult, error) {
	var total service.MaterializeResult

	churches, err := w.repo.ListChurchesWithActivePatterns(ctx)
	if err != nil {
		return total, err
	}

	start := dbtime.DateOf(w.now())
	end := start.AddDays(w.horizon)
	for _, churchID := range churches {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := w.mat.Materialize(ctx, churchID, start, end)
		total.Patterns += res.Patterns
		total.Created += res.Created
		total.Existing += res.Existing
		total.Failed += res.Failed
		if err != nil {
			w.log.Warn("warm-up failed for church",
				zap.String("church_id", churchID.String()),
				zap.Error(err),
			)
		}
	}

	w.log.Info("horizon warm-up done",
		zap.Int("churches", len(churches)),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.Int("created", total.Created),
		zap.Int("failed", total.Failed),
	)
	return total, nil
}

// Register adds the warmer to c. An empty schedule registers nothing.
func (w *HorizonWarmer) Register(c *cron.Cron, schedule string) error {
	if schedule == "" {
		return nil
	}
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := w.Run(ctx); err != nil {
			w.log.Error("horizon warm-up aborted", zap.Error(err))
		}
	}))
	_, err := c.AddJob(schedule, job)
	return err
}
