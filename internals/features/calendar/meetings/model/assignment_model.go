package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusConfirmed = "confirmed"
	AssignmentStatusDeclined  = "declined"
)

type TeamAssignmentModel struct {
	ID                uuid.UUID  `gorm:"column:id;primaryKey" json:"id"`
	ChurchID          uuid.UUID  `gorm:"column:church_id;not null" json:"church_id"`
	MeetingInstanceID uuid.UUID  `gorm:"column:meeting_instance_id;not null" json:"meeting_instance_id"`
	MemberID          uuid.UUID  `gorm:"column:member_id;not null" json:"member_id"`
	Role              string     `gorm:"column:role;size:60;not null" json:"role"`
	InstrumentID      *uuid.UUID `gorm:"column:instrument_id" json:"instrument_id,omitempty"`
	IsReplacement     bool       `gorm:"column:is_replacement;not null" json:"is_replacement"`
	Status            string     `gorm:"column:status;size:20;not null" json:"status"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TeamAssignmentModel) TableName() string { return "meeting_team_assignments" }

func (a *TeamAssignmentModel) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AssignmentStatusAssigned
	}
	return nil
}

type SetlistAssignmentModel struct {
	ID                uuid.UUID  `gorm:"column:id;primaryKey" json:"id"`
	ChurchID          uuid.UUID  `gorm:"column:church_id;not null" json:"church_id"`
	MeetingInstanceID uuid.UUID  `gorm:"column:meeting_instance_id;not null" json:"meeting_instance_id"`
	SetlistID         uuid.UUID  `gorm:"column:setlist_id;not null" json:"setlist_id"`
	AssignedBy        *uuid.UUID `gorm:"column:assigned_by" json:"assigned_by,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SetlistAssignmentModel) TableName() string { return "meeting_setlists" }

func (a *SetlistAssignmentModel) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
