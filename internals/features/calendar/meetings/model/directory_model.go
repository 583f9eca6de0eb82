package model

import (
	"time"

	"github.com/google/uuid"
)

// Directory tables joined for display names on the roster.

type MemberModel struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey" json:"id"`
	ChurchID  uuid.UUID `gorm:"column:church_id;not null" json:"church_id"`
	Name      string    `gorm:"column:name;size:150;not null" json:"name"`
	Email     *string   `gorm:"column:email;size:190" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MemberModel) TableName() string { return "members" }

type InstrumentModel struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey" json:"id"`
	ChurchID  uuid.UUID `gorm:"column:church_id;not null" json:"church_id"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (InstrumentModel) TableName() string { return "instruments" }

type PlaylistModel struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey" json:"id"`
	ChurchID  uuid.UUID `gorm:"column:church_id;not null" json:"church_id"`
	Name      string    `gorm:"column:name;size:150;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PlaylistModel) TableName() string { return "playlists" }
