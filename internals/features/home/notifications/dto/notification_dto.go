package dto

import (
	"github.com/google/uuid"

	"ministryhub_backend/internals/features/home/notifications/model"
)

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	ReadAt    *string   `json:"read_at,omitempty"`
	CreatedAt string    `json:"created_at"`
}

func ToNotificationResponse(m *model.NotificationModel) NotificationResponse {
	var readAt *string
	if m.ReadAt != nil {
		formatted := m.ReadAt.UTC().Format("2006-01-02 15:04:05")
		readAt = &formatted
	}
	return NotificationResponse{
		ID:        m.ID,
		Type:      m.Type,
		Message:   m.Message,
		Link:      m.Link,
		IsRead:    m.IsRead,
		ReadAt:    readAt,
		CreatedAt: m.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

func ToNotificationResponseList(models []model.NotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(models))
	for i := range models {
		out = append(out, ToNotificationResponse(&models[i]))
	}
	return out
}
