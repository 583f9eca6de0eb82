package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/features/calendar/meetings/repository"
	"ministryhub_backend/internals/helpers/dbtime"
)

const (
	icsProductID   = "-//ministryhub//calendar//EN"
	rosterSheet    = "Roster"
	icsUIDInstance = "%s@instances.ministryhub"
	icsUIDSeries   = "%s@patterns.ministryhub"
)

// Exporter renders a church calendar range as iCalendar or a spreadsheet.
// Both exports read through Reader, so the range is materialized first.
type Exporter struct {
	repo   repository.MeetingRepository
	reader *Reader
	mat    *Materializer
	now    func() time.Time
}

func NewExporter(repo repository.MeetingRepository, reader *Reader, mat *Materializer) *Exporter {
	return &Exporter{repo: repo, reader: reader, mat: mat, now: time.Now}
}

func icsStatus(status string) ics.ObjectStatus {
	switch status {
	case model.InstanceStatusCancelled:
		return ics.ObjectStatusCancelled
	case model.InstanceStatusScheduled:
		return ics.ObjectStatusTentative
	default:
		return ics.ObjectStatusConfirmed
	}
}

// InstancesICS returns one VEVENT per materialized instance in the range.
func (e *Exporter) InstancesICS(ctx context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]byte, error) {
	rows, err := e.reader.GetInstances(ctx, churchID, start, end)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetName("Meetings " + start.String() + " - " + end.String())

	stamp := e.now().UTC()
	for _, r := range rows {
		ev := cal.AddEvent(fmt.Sprintf(icsUIDInstance, r.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(r.StartDatetimeUTC)
		ev.SetEndAt(r.EndDatetimeUTC)
		ev.SetSummary(r.Title)
		ev.SetStatus(icsStatus(r.Status))
		if r.Location != nil {
			ev.SetLocation(*r.Location)
		}
		if r.Description != nil {
			ev.SetDescription(*r.Description)
		}
	}
	return []byte(cal.Serialize()), nil
}

// SeriesICS returns one recurring VEVENT per active pattern, anchored at
// the first matching date on or after from, with DTSTART in the pattern's
// own zone so clients expand it across DST correctly.
func (e *Exporter) SeriesICS(ctx context.Context, churchID uuid.UUID, from dbtime.Date) ([]byte, error) {
	patterns, err := e.repo.ListActivePatterns(ctx, churchID)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	stamp := e.now().UTC()
	for _, p := range patterns {
		loc, err := time.LoadLocation(p.Timezone)
		if err != nil {
			continue
		}
		first := from
		for DayOfWeek(first) != p.DayOfWeek {
			first = first.AddDays(1)
		}
		rule, err := PatternRule(p.RecurrencePatternModel, first, loc, e.mat.opts.EnforceRepeatUntil, 0)
		if err != nil {
			continue
		}
		start, end := occurrenceBounds(p.RecurrencePatternModel, first, loc)
		tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{p.Timezone}}

		ev := cal.AddEvent(fmt.Sprintf(icsUIDSeries, p.ID))
		ev.SetDtStampTime(stamp)
		ev.SetProperty(ics.ComponentPropertyDtStart, start.Format("20060102T150405"), tzid)
		ev.SetProperty(ics.ComponentPropertyDtEnd, end.Format("20060102T150405"), tzid)
		ev.SetSummary(p.MeetingTitle)
		ev.AddRrule(rule.OrigOptions.RRuleString())
	}
	return []byte(cal.Serialize()), nil
}

var rosterHeader = []string{"Date", "Start (UTC)", "End (UTC)", "Meeting", "Status", "Member", "Role", "Instrument", "Assignment"}

// RosterXLSX lays out every team slot of the range, one row each; instances
// without a team still get one row.
func (e *Exporter) RosterXLSX(ctx context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]byte, error) {
	if _, err := e.mat.Materialize(ctx, churchID, start, end); err != nil {
		return nil, err
	}
	rows, err := e.repo.ListRoster(ctx, churchID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range rosterHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(rosterSheet, cell, h)
	}
	last, _ := excelize.ColumnNumberToName(len(rosterHeader))
	_ = f.SetCellStyle(rosterSheet, "A1", last+"1", headerStyle)
	_ = f.SetColWidth(rosterSheet, "A", "C", 18)
	_ = f.SetColWidth(rosterSheet, "D", "D", 28)
	_ = f.SetColWidth(rosterSheet, "E", last, 16)

	for i, r := range rows {
		values := []any{
			r.InstanceDate.String(),
			r.StartDatetimeUTC.UTC().Format("2006-01-02 15:04"),
			r.EndDatetimeUTC.UTC().Format("2006-01-02 15:04"),
			r.Title,
			r.Status,
			deref(r.MemberName),
			deref(r.Role),
			deref(r.InstrumentName),
			deref(r.AssignmentStatus),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(rosterSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write roster row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
