package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/helpers/dbtime"
)

const maxPreviewCount = 52

// indexed by the stored day_of_week (0=Sunday)
var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

type Occurrence struct {
	Date     dbtime.Date `json:"date"`
	StartUTC time.Time   `json:"start_datetime_utc"`
	EndUTC   time.Time   `json:"end_datetime_utc"`
}

// PatternRule expresses the pattern as an RFC 5545 weekly rule anchored at
// from. UNTIL is set only when repeat_until is enforced.
func PatternRule(p model.RecurrencePatternModel, from dbtime.Date, loc *time.Location, enforceUntil bool, count int) (*rrule.RRule, error) {
	if p.DayOfWeek < 0 || p.DayOfWeek > 6 {
		return nil, fmt.Errorf("day_of_week %d out of range", p.DayOfWeek)
	}
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   p.StartTime.On(from, loc),
		Byweekday: []rrule.Weekday{rruleWeekdays[p.DayOfWeek]},
		Count:     count,
	}
	if enforceUntil && p.RepeatUntil != nil {
		opt.Until = dbtime.NewTod(23, 59, 59).On(*p.RepeatUntil, loc)
	}
	return rrule.NewRRule(opt)
}

// Preview lists the next count occurrences of one active pattern on or
// after from, without writing anything.
func (m *Materializer) Preview(ctx context.Context, churchID, patternID uuid.UUID, from dbtime.Date, count int) ([]Occurrence, error) {
	if count <= 0 {
		count = 4
	}
	if count > maxPreviewCount {
		count = maxPreviewCount
	}

	p, err := m.repo.GetActivePattern(ctx, churchID, patternID)
	if err != nil {
		return nil, fmt.Errorf("get pattern: %w", err)
	}
	if p == nil {
		return nil, notFound("pattern not found")
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, validationf("pattern timezone %q is invalid", p.Timezone)
	}

	rule, err := PatternRule(p.RecurrencePatternModel, from, loc, m.opts.EnforceRepeatUntil, count)
	if err != nil {
		return nil, validationf("pattern cannot be expanded: %v", err)
	}

	out := make([]Occurrence, 0, count)
	for _, t := range rule.All() {
		d := dbtime.DateOf(t)
		start, end := occurrenceBounds(p.RecurrencePatternModel, d, loc)
		out = append(out, Occurrence{Date: d, StartUTC: start.UTC(), EndUTC: end.UTC()})
	}
	return out, nil
}
