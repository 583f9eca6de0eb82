package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLogModel is one append-only audit entry. OldValues and NewValues
// hold the entity snapshot before and after the change.
type ActivityLogModel struct {
	ID         uuid.UUID      `gorm:"column:id;primaryKey" json:"id"`
	ChurchID   uuid.UUID      `gorm:"column:church_id;not null" json:"church_id"`
	ActorID    *uuid.UUID     `gorm:"column:actor_id" json:"actor_id"`
	Action     string         `gorm:"column:action;size:60;not null" json:"action"`
	EntityType string         `gorm:"column:entity_type;size:60;not null" json:"entity_type"`
	EntityID   *uuid.UUID     `gorm:"column:entity_id" json:"entity_id"`
	OldValues  datatypes.JSON `gorm:"column:old_values" json:"old_values"`
	NewValues  datatypes.JSON `gorm:"column:new_values" json:"new_values"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

func (a *ActivityLogModel) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
