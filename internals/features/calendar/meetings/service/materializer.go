package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/features/calendar/meetings/repository"
	"ministryhub_backend/internals/helpers/dbtime"
)

const defaultMaxRangeDays = 366

type MaterializeOptions struct {
	// EnforceRepeatUntil stops a pattern's walk at its repeat_until date.
	EnforceRepeatUntil bool
	// Transactional wraps one pass in a transaction and aborts on the first
	// failed insert. Off, each day commits on its own and the walk continues.
	Transactional bool
	MaxRangeDays  int
}

type MaterializeResult struct {
	Patterns int `json:"patterns"`
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Failed   int `json:"failed"`
}

// Materializer turns weekly patterns into dated instances on demand.
type Materializer struct {
	repo repository.MeetingRepository
	opts MaterializeOptions
	log  *zap.Logger
}

func NewMaterializer(repo repository.MeetingRepository, opts MaterializeOptions, log *zap.Logger) *Materializer {
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = defaultMaxRangeDays
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Materializer{repo: repo, opts: opts, log: log.Named("materializer")}
}

// DayOfWeek maps a date to the stored convention 0=Sunday..6=Saturday.
// time.Weekday already counts from Sunday, so no shift is applied.
func DayOfWeek(d dbtime.Date) int {
	return int(d.Weekday())
}

// CheckRange validates an inclusive date range against the configured cap.
func (m *Materializer) CheckRange(start, end dbtime.Date) error {
	if start.IsZero() || end.IsZero() {
		return validationf("start and end are required")
	}
	if end.Before(start) {
		return validationf("end (%s) is before start (%s)", end, start)
	}
	if days := start.DaysUntil(end) + 1; days > m.opts.MaxRangeDays {
		return validationf("range of %d days exceeds the maximum of %d", days, m.opts.MaxRangeDays)
	}
	return nil
}

// Materialize ensures an instance exists for every active pattern of the
// church on every matching date in [start, end]. Running it twice is a no-op
// the second time.
func (m *Materializer) Materialize(ctx context.Context, churchID uuid.UUID, start, end dbtime.Date) (MaterializeResult, error) {
	if err := m.CheckRange(start, end); err != nil {
		return MaterializeResult{}, err
	}

	if !m.opts.Transactional {
		return m.walk(ctx, m.repo, churchID, start, end, false)
	}

	var res MaterializeResult
	err := m.repo.WithTx(ctx, func(tx repository.MeetingRepository) error {
		var err error
		res, err = m.walk(ctx, tx, churchID, start, end, true)
		return err
	})
	if err != nil {
		// rolled back
		res.Created, res.Existing = 0, 0
		return res, err
	}
	return res, nil
}

func (m *Materializer) walk(ctx context.Context, repo repository.MeetingRepository, churchID uuid.UUID, start, end dbtime.Date, failFast bool) (MaterializeResult, error) {
	var res MaterializeResult

	patterns, err := repo.ListActivePatterns(ctx, churchID)
	if err != nil {
		return res, fmt.Errorf("load active patterns: %w", err)
	}
	res.Patterns = len(patterns)

	var errs []error
	for _, p := range patterns {
		loc, err := time.LoadLocation(p.Timezone)
		if err != nil {
			errs = append(errs, fmt.Errorf("pattern %s: timezone %q: %w", p.ID, p.Timezone, err))
			if failFast {
				break
			}
			continue
		}

		last := end
		if m.opts.EnforceRepeatUntil && p.RepeatUntil != nil && p.RepeatUntil.Before(last) {
			last = *p.RepeatUntil
		}

		for d := start; !d.After(last); d = d.AddDays(1) {
			if DayOfWeek(d) != p.DayOfWeek {
				continue
			}
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				return res, m.joined(churchID, res, errs)
			}

			inst := BuildInstance(p, d, loc)
			created, err := repo.InsertInstance(ctx, &inst)
			if err != nil {
				res.Failed++
				errs = append(errs, fmt.Errorf("pattern %s on %s: %w", p.ID, d, err))
				if failFast {
					return res, m.joined(churchID, res, errs)
				}
				continue
			}
			if created {
				res.Created++
			} else {
				res.Existing++
			}
		}
	}

	if len(errs) > 0 {
		return res, m.joined(churchID, res, errs)
	}
	if res.Created > 0 {
		m.log.Debug("instances materialized",
			zap.String("church_id", churchID.String()),
			zap.String("start", start.String()),
			zap.String("end", end.String()),
			zap.Int("created", res.Created),
		)
	}
	return res, nil
}

func (m *Materializer) joined(churchID uuid.UUID, res MaterializeResult, errs []error) error {
	err := errors.Join(errs...)
	m.log.Warn("materialize finished with errors",
		zap.String("church_id", churchID.String()),
		zap.Int("created", res.Created),
		zap.Int("failed", res.Failed),
		zap.Error(err),
	)
	return err
}

// BuildInstance places the pattern's wall-clock times on date d in loc and
// normalizes them to UTC. An end time earlier than the start rolls to the
// next day.
func BuildInstance(p model.ActivePattern, d dbtime.Date, loc *time.Location) model.MeetingInstanceModel {
	start, end := occurrenceBounds(p.RecurrencePatternModel, d, loc)
	return model.MeetingInstanceModel{
		ChurchID:         p.ChurchID,
		MeetingID:        p.MeetingID,
		InstanceDate:     d,
		StartDatetimeUTC: start.UTC(),
		EndDatetimeUTC:   end.UTC(),
		Status:           model.InstanceStatusScheduled,
	}
}

func occurrenceBounds(p model.RecurrencePatternModel, d dbtime.Date, loc *time.Location) (time.Time, time.Time) {
	start := p.StartTime.On(d, loc)
	end := p.EndTime.On(d, loc)
	if end.Before(start) {
		end = p.EndTime.On(d.AddDays(1), loc)
	}
	return start, end
}
