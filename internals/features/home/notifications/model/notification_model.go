package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationModel struct {
	ID        uuid.UUID  `gorm:"column:id;primaryKey" json:"id"`
	ChurchID  uuid.UUID  `gorm:"column:church_id;not null" json:"church_id"`
	MemberID  uuid.UUID  `gorm:"column:member_id;not null" json:"member_id"`
	Type      string     `gorm:"column:type;size:40;not null" json:"type"`
	Message   string     `gorm:"column:message;not null" json:"message"`
	Link      *string    `gorm:"column:link;size:255" json:"link"`
	IsRead    bool       `gorm:"column:is_read;not null" json:"is_read"`
	ReadAt    *time.Time `gorm:"column:read_at" json:"read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (n *NotificationModel) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
