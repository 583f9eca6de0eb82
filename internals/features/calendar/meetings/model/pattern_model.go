package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ministryhub_backend/internals/helpers/dbtime"
)

// RecurrencePatternModel is a weekly rule. DayOfWeek uses 0=Sunday..6=Saturday;
// StartTime and EndTime are wall-clock times in Timezone.
type RecurrencePatternModel struct {
	ID          uuid.UUID    `gorm:"column:id;primaryKey" json:"id"`
	MeetingID   uuid.UUID    `gorm:"column:meeting_id;not null" json:"meeting_id"`
	DayOfWeek   int          `gorm:"column:day_of_week;not null" json:"day_of_week"`
	StartTime   dbtime.Tod   `gorm:"column:start_time;not null" json:"start_time"`
	EndTime     dbtime.Tod   `gorm:"column:end_time;not null" json:"end_time"`
	Timezone    string       `gorm:"column:timezone;size:64;not null" json:"timezone"`
	RepeatUntil *dbtime.Date `gorm:"column:repeat_until" json:"repeat_until"`
	Active      bool         `gorm:"column:active;not null" json:"active"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RecurrencePatternModel) TableName() string { return "meeting_recurring_patterns" }

func (p *RecurrencePatternModel) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}
	return nil
}

// ActivePattern is an active rule joined with its meeting.
type ActivePattern struct {
	RecurrencePatternModel
	ChurchID     uuid.UUID `gorm:"column:church_id" json:"church_id"`
	MeetingTitle string    `gorm:"column:meeting_title" json:"meeting_title"`
}
