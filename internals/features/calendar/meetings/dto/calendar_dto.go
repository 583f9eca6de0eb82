package dto

import (
	"strings"

	"github.com/google/uuid"

	"ministryhub_backend/internals/features/calendar/meetings/service"
	"ministryhub_backend/internals/helpers/dbtime"
)

// ================== QUERY ==================

type RangeQuery struct {
	Start string `query:"start" validate:"required,datetime=2006-01-02"`
	End   string `query:"end" validate:"required,datetime=2006-01-02"`
}

// Dates assumes the struct passed validation.
func (q RangeQuery) Dates() (dbtime.Date, dbtime.Date, error) {
	start, err := dbtime.ParseDate(q.Start)
	if err != nil {
		return dbtime.Date{}, dbtime.Date{}, err
	}
	end, err := dbtime.ParseDate(q.End)
	if err != nil {
		return dbtime.Date{}, dbtime.Date{}, err
	}
	return start, end, nil
}

type PreviewQuery struct {
	ID    string `query:"id" validate:"required,uuid"`
	From  string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	Count int    `query:"count" validate:"omitempty,min=1,max=52"`
}

// ================== REQUEST ==================

type AssignTeamRequest struct {
	MeetingInstanceID string  `json:"meeting_instance_id" validate:"required,uuid"`
	MemberID          string  `json:"member_id" validate:"required,uuid"`
	Role              string  `json:"role" validate:"required,max=60"`
	InstrumentID      *string `json:"instrument_id" validate:"omitempty,uuid"`
	IsReplacement     bool    `json:"is_replacement"`
	Status            string  `json:"status" validate:"omitempty,oneof=assigned confirmed declined"`
}

func (r *AssignTeamRequest) ToInput() service.AssignTeamInput {
	in := service.AssignTeamInput{
		MeetingInstanceID: uuid.MustParse(r.MeetingInstanceID),
		MemberID:          uuid.MustParse(r.MemberID),
		Role:              strings.TrimSpace(r.Role),
		IsReplacement:     r.IsReplacement,
		Status:            r.Status,
	}
	if r.InstrumentID != nil && *r.InstrumentID != "" {
		id := uuid.MustParse(*r.InstrumentID)
		in.InstrumentID = &id
	}
	return in
}

type AssignSetlistRequest struct {
	MeetingInstanceID string `json:"meeting_instance_id" validate:"required,uuid"`
	SetlistID         string `json:"setlist_id" validate:"required,uuid"`
}

func (r *AssignSetlistRequest) ToInput() service.AssignSetlistInput {
	return service.AssignSetlistInput{
		MeetingInstanceID: uuid.MustParse(r.MeetingInstanceID),
		SetlistID:         uuid.MustParse(r.SetlistID),
	}
}

type RecurrenceRequest struct {
	DayOfWeek   *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Timezone    string `json:"timezone" validate:"omitempty,timezone"`
	RepeatUntil string `json:"repeat_until" validate:"omitempty,datetime=2006-01-02"`
}

func (r *RecurrenceRequest) ToInput() (service.RecurrenceInput, error) {
	start, err := dbtime.ParseTod(r.StartTime)
	if err != nil {
		return service.RecurrenceInput{}, err
	}
	end, err := dbtime.ParseTod(r.EndTime)
	if err != nil {
		return service.RecurrenceInput{}, err
	}
	in := service.RecurrenceInput{
		DayOfWeek: *r.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		Timezone:  r.Timezone,
	}
	if r.RepeatUntil != "" {
		d, err := dbtime.ParseDate(r.RepeatUntil)
		if err != nil {
			return service.RecurrenceInput{}, err
		}
		in.RepeatUntil = &d
	}
	return in, nil
}

type CreateMeetingRequest struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description *string            `json:"description"`
	MeetingType string             `json:"meeting_type" validate:"required,oneof=special recurrent"`
	Location    *string            `json:"location" validate:"omitempty,max=255"`
	Recurrence  *RecurrenceRequest `json:"recurrence"`

	// special meetings
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone" validate:"omitempty,timezone"`
}

func (r *CreateMeetingRequest) ToInput() (service.CreateMeetingInput, error) {
	in := service.CreateMeetingInput{
		Title:       r.Title,
		Description: r.Description,
		MeetingType: r.MeetingType,
		Location:    r.Location,
	}
	if r.Recurrence != nil {
		rec, err := r.Recurrence.ToInput()
		if err != nil {
			return in, err
		}
		in.Recurrence = &rec
	}
	if r.Date != "" && r.StartTime != "" && r.EndTime != "" {
		d, err := dbtime.ParseDate(r.Date)
		if err != nil {
			return in, err
		}
		start, err := dbtime.ParseTod(r.StartTime)
		if err != nil {
			return in, err
		}
		end, err := dbtime.ParseTod(r.EndTime)
		if err != nil {
			return in, err
		}
		in.Occurrence = &service.OccurrenceInput{Date: d, StartTime: start, EndTime: end, Timezone: r.Timezone}
	}
	return in, nil
}

type CreatePatternRequest struct {
	MeetingID string `json:"meeting_id" validate:"required,uuid"`
	RecurrenceRequest
}
