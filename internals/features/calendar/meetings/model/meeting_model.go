package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MeetingTypeSpecial   = "special"
	MeetingTypeRecurrent = "recurrent"

	MeetingStatusActive   = "active"
	MeetingStatusArchived = "archived"
)

type MeetingModel struct {
	ID          uuid.UUID  `gorm:"column:id;primaryKey" json:"id"`
	ChurchID    uuid.UUID  `gorm:"column:church_id;not null" json:"church_id"`
	Title       string     `gorm:"column:title;size:200;not null" json:"title"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	MeetingType string     `gorm:"column:meeting_type;size:20;not null" json:"meeting_type"`
	Status      string     `gorm:"column:status;size:20;not null" json:"status"`
	Location    *string    `gorm:"column:location;size:255" json:"location,omitempty"`
	CreatedBy   *uuid.UUID `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MeetingModel) TableName() string { return "meetings" }

func (m *MeetingModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MeetingStatusActive
	}
	return nil
}
