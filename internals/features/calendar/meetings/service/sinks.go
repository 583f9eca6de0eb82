package service

import (
	"context"

	"github.com/google/uuid"
)

// Actor is the authenticated caller as seen by the calendar services.
type Actor struct {
	UserID   uuid.UUID
	ChurchID uuid.UUID
	Role     string
}

// NotificationSink delivers in-app notifications. The boolean is the only
// signal inspected; a failed delivery never undoes the triggering write.
type NotificationSink interface {
	Create(ctx context.Context, churchID, memberID uuid.UUID, typ, message, link string) bool
}

// ActivityLogger appends to the audit trail after successful writes.
type ActivityLogger interface {
	Log(ctx context.Context, churchID, actorID uuid.UUID, action, entityType string, entityID uuid.UUID, oldValues, newValues any) error
}

const (
	NotificationTypeAssignment = "meeting_assignment"
	NotificationTypeSetlist    = "meeting_setlist"

	ActivityCreateMeeting = "create_meeting"
	ActivityCreatePattern = "create_pattern"
	ActivityAssignSetlist = "assign_setlist"
)
