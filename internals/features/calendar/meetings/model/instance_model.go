package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ministryhub_backend/internals/helpers/dbtime"
)

const (
	InstanceStatusScheduled = "scheduled"
	InstanceStatusConfirmed = "confirmed"
	InstanceStatusCancelled = "cancelled"
	InstanceStatusCompleted = "completed"
)

// MeetingInstanceModel is one dated occurrence. (meeting_id, instance_date)
// is unique.
type MeetingInstanceModel struct {
	ID               uuid.UUID   `gorm:"column:id;primaryKey" json:"id"`
	ChurchID         uuid.UUID   `gorm:"column:church_id;not null" json:"church_id"`
	MeetingID        uuid.UUID   `gorm:"column:meeting_id;not null" json:"meeting_id"`
	InstanceDate     dbtime.Date `gorm:"column:instance_date;not null" json:"instance_date"`
	StartDatetimeUTC time.Time   `gorm:"column:start_datetime_utc;not null" json:"start_datetime_utc"`
	EndDatetimeUTC   time.Time   `gorm:"column:end_datetime_utc;not null" json:"end_datetime_utc"`
	Status           string      `gorm:"column:status;size:20;not null" json:"status"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MeetingInstanceModel) TableName() string { return "meeting_instances" }

func (i *MeetingInstanceModel) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Status == "" {
		i.Status = InstanceStatusScheduled
	}
	return nil
}

// InstanceRow is an instance joined with its meeting plus assignment counts.
type InstanceRow struct {
	ID               uuid.UUID   `gorm:"column:id" json:"id"`
	ChurchID         uuid.UUID   `gorm:"column:church_id" json:"church_id"`
	MeetingID        uuid.UUID   `gorm:"column:meeting_id" json:"meeting_id"`
	InstanceDate     dbtime.Date `gorm:"column:instance_date" json:"instance_date"`
	StartDatetimeUTC time.Time   `gorm:"column:start_datetime_utc" json:"start_datetime_utc"`
	EndDatetimeUTC   time.Time   `gorm:"column:end_datetime_utc" json:"end_datetime_utc"`
	Status           string      `gorm:"column:status" json:"status"`
	Title            string      `gorm:"column:title" json:"title"`
	Description      *string     `gorm:"column:description" json:"description"`
	MeetingType      string      `gorm:"column:meeting_type" json:"meeting_type"`
	Location         *string     `gorm:"column:location" json:"location"`
	TeamCount        int64       `gorm:"column:team_count" json:"team_count"`
	SetlistCount     int64       `gorm:"column:setlist_count" json:"setlist_count"`
}

type InstanceSetlistRow struct {
	ID           uuid.UUID  `gorm:"column:id" json:"id"`
	SetlistID    uuid.UUID  `gorm:"column:setlist_id" json:"setlist_id"`
	PlaylistName *string    `gorm:"column:playlist_name" json:"playlist_name"`
	AssignedBy   *uuid.UUID `gorm:"column:assigned_by" json:"assigned_by"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
}

type InstanceTeamRow struct {
	ID             uuid.UUID  `gorm:"column:id" json:"id"`
	MemberID       uuid.UUID  `gorm:"column:member_id" json:"member_id"`
	MemberName     *string    `gorm:"column:member_name" json:"member_name"`
	Role           string     `gorm:"column:role" json:"role"`
	InstrumentID   *uuid.UUID `gorm:"column:instrument_id" json:"instrument_id"`
	InstrumentName *string    `gorm:"column:instrument_name" json:"instrument_name"`
	IsReplacement  bool       `gorm:"column:is_replacement" json:"is_replacement"`
	Status         string     `gorm:"column:status" json:"status"`
}

// InstanceDetail is an instance with its nested setlists and team.
type InstanceDetail struct {
	InstanceRow
	Setlists []InstanceSetlistRow `json:"setlists"`
	Team     []InstanceTeamRow    `json:"team"`
}

// RosterRow is one team slot of one instance, flattened for export.
type RosterRow struct {
	InstanceID       uuid.UUID   `gorm:"column:instance_id" json:"instance_id"`
	InstanceDate     dbtime.Date `gorm:"column:instance_date" json:"instance_date"`
	StartDatetimeUTC time.Time   `gorm:"column:start_datetime_utc" json:"start_datetime_utc"`
	EndDatetimeUTC   time.Time   `gorm:"column:end_datetime_utc" json:"end_datetime_utc"`
	Title            string      `gorm:"column:title" json:"title"`
	Status           string      `gorm:"column:status" json:"status"`
	MemberName       *string     `gorm:"column:member_name" json:"member_name"`
	Role             *string     `gorm:"column:role" json:"role"`
	InstrumentName   *string     `gorm:"column:instrument_name" json:"instrument_name"`
	AssignmentStatus *string     `gorm:"column:assignment_status" json:"assignment_status"`
}
