package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ministryhub_backend/internals/constants"
	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/features/calendar/meetings/repository"
	"ministryhub_backend/internals/helpers/dbtime"
)

type RecurrenceInput struct {
	DayOfWeek   int
	StartTime   dbtime.Tod
	EndTime     dbtime.Tod
	Timezone    string
	RepeatUntil *dbtime.Date
}

// OccurrenceInput schedules the single instance of a special meeting.
type OccurrenceInput struct {
	Date      dbtime.Date
	StartTime dbtime.Tod
	EndTime   dbtime.Tod
	Timezone  string
}

type CreateMeetingInput struct {
	Title       string
	Description *string
	MeetingType string
	Location    *string
	Recurrence  *RecurrenceInput
	Occurrence  *OccurrenceInput
}

// Meetings owns meeting and pattern creation.
type Meetings struct {
	repo      repository.MeetingRepository
	activity  ActivityLogger
	defaultTZ string
	log       *zap.Logger
}

func NewMeetings(repo repository.MeetingRepository, activity ActivityLogger, defaultTZ string, log *zap.Logger) *Meetings {
	if defaultTZ == "" {
		defaultTZ = "UTC"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Meetings{repo: repo, activity: activity, defaultTZ: defaultTZ, log: log.Named("meetings")}
}

func (s *Meetings) timezone(tz string) (string, *time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = s.defaultTZ
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", nil, validationf("unknown timezone %q", tz)
	}
	return tz, loc, nil
}

func (s *Meetings) buildPattern(in RecurrenceInput) (*model.RecurrencePatternModel, error) {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return nil, validationf("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}
	tz, _, err := s.timezone(in.Timezone)
	if err != nil {
		return nil, err
	}
	return &model.RecurrencePatternModel{
		DayOfWeek:   in.DayOfWeek,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Timezone:    tz,
		RepeatUntil: in.RepeatUntil,
		Active:      true,
	}, nil
}

// CreateMeeting stores the meeting together with its pattern (recurrent)
// or its single instance (special) in one transaction.
func (s *Meetings) CreateMeeting(ctx context.Context, actor Actor, in CreateMeetingInput) (*model.MeetingModel, error) {
	if !constants.HasRole(actor.Role, constants.OwnerRoles) {
		return nil, forbidden(constants.RoleErrorOwner("meeting creation"))
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if in.MeetingType != model.MeetingTypeSpecial && in.MeetingType != model.MeetingTypeRecurrent {
		return nil, validationf("meeting_type must be special or recurrent")
	}

	createdBy := actor.UserID
	meeting := &model.MeetingModel{
		ChurchID:    actor.ChurchID,
		Title:       title,
		Description: in.Description,
		MeetingType: in.MeetingType,
		Status:      model.MeetingStatusActive,
		Location:    in.Location,
		CreatedBy:   &createdBy,
	}

	var (
		pattern *model.RecurrencePatternModel
		inst    *model.MeetingInstanceModel
		err     error
	)
	switch {
	case in.MeetingType == model.MeetingTypeRecurrent && in.Recurrence != nil:
		if pattern, err = s.buildPattern(*in.Recurrence); err != nil {
			return nil, err
		}
	case in.MeetingType == model.MeetingTypeSpecial && in.Occurrence != nil:
		if inst, err = s.buildOccurrence(*in.Occurrence); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateMeeting(ctx, meeting, pattern, inst); err != nil {
		s.log.Error("create meeting failed, rolled back",
			zap.String("church_id", actor.ChurchID.String()),
			zap.String("title", title),
			zap.Error(err),
		)
		return nil, &Error{Kind: ErrStorage, Msg: "failed to create meeting"}
	}

	newValues := map[string]any{"meeting": meeting}
	if pattern != nil {
		newValues["pattern"] = pattern
	}
	if inst != nil {
		newValues["instance"] = inst
	}
	if err := s.activity.Log(ctx, actor.ChurchID, actor.UserID, ActivityCreateMeeting, "meeting", meeting.ID, nil, newValues); err != nil {
		s.log.Warn("activity log failed", zap.Error(err))
	}
	return meeting, nil
}

func (s *Meetings) buildOccurrence(in OccurrenceInput) (*model.MeetingInstanceModel, error) {
	if in.Date.IsZero() {
		return nil, validationf("date is required for a special meeting occurrence")
	}
	_, loc, err := s.timezone(in.Timezone)
	if err != nil {
		return nil, err
	}
	start, end := occurrenceBounds(model.RecurrencePatternModel{StartTime: in.StartTime, EndTime: in.EndTime}, in.Date, loc)
	return &model.MeetingInstanceModel{
		InstanceDate:     in.Date,
		StartDatetimeUTC: start.UTC(),
		EndDatetimeUTC:   end.UTC(),
		Status:           model.InstanceStatusScheduled,
	}, nil
}

// CreatePattern attaches a new active weekly rule to an existing meeting of
// the caller's church.
func (s *Meetings) CreatePattern(ctx context.Context, actor Actor, meetingID uuid.UUID, in RecurrenceInput) (*model.RecurrencePatternModel, error) {
	if !constants.HasRole(actor.Role, constants.OwnerRoles) {
		return nil, forbidden(constants.RoleErrorOwner("pattern creation"))
	}
	meeting, err := s.repo.GetMeeting(ctx, actor.ChurchID, meetingID)
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if meeting == nil {
		return nil, notFound("meeting not found")
	}

	p, err := s.buildPattern(in)
	if err != nil {
		return nil, err
	}
	p.MeetingID = meeting.ID
	if err := s.repo.CreatePattern(ctx, p); err != nil {
		return nil, fmt.Errorf("create pattern: %w", err)
	}

	if err := s.activity.Log(ctx, actor.ChurchID, actor.UserID, ActivityCreatePattern, "meeting", meeting.ID, nil, p); err != nil {
		s.log.Warn("activity log failed", zap.Error(err))
	}
	return p, nil
}

// ActivePatterns lists the church's active rules with their meeting title.
func (s *Meetings) ActivePatterns(ctx context.Context, churchID uuid.UUID) ([]model.ActivePattern, error) {
	rows, err := s.repo.ListActivePatterns(ctx, churchID)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	return rows, nil
}
