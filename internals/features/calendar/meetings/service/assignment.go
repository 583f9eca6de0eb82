package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ministryhub_backend/internals/constants"
	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/features/calendar/meetings/repository"
)

type AssignTeamInput struct {
	MeetingInstanceID uuid.UUID
	MemberID          uuid.UUID
	Role              string
	InstrumentID      *uuid.UUID
	IsReplacement     bool
	Status            string
}

type AssignSetlistInput struct {
	MeetingInstanceID uuid.UUID
	SetlistID         uuid.UUID
}

// Assignments attaches people and setlists to instances. Side effects run
// only after the insert succeeded and never roll it back.
type Assignments struct {
	repo     repository.MeetingRepository
	notifier NotificationSink
	activity ActivityLogger
	log      *zap.Logger
}

func NewAssignments(repo repository.MeetingRepository, notifier NotificationSink, activity ActivityLogger, log *zap.Logger) *Assignments {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assignments{repo: repo, notifier: notifier, activity: activity, log: log.Named("assignments")}
}

func (s *Assignments) instanceOf(ctx context.Context, churchID, instanceID uuid.UUID) (*model.InstanceRow, error) {
	inst, err := s.repo.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("get instance: %w", err)
	}
	if inst == nil || inst.ChurchID != churchID {
		return nil, notFound("instance not found")
	}
	return inst, nil
}

func (s *Assignments) AssignTeamMember(ctx context.Context, actor Actor, in AssignTeamInput) (*model.TeamAssignmentModel, error) {
	if !constants.HasRole(actor.Role, constants.SchedulerRoles) {
		return nil, forbidden(constants.RoleErrorScheduler("team assignment"))
	}
	if in.MeetingInstanceID == uuid.Nil || in.MemberID == uuid.Nil {
		return nil, validationf("meeting_instance_id and member_id are required")
	}

	inst, err := s.instanceOf(ctx, actor.ChurchID, in.MeetingInstanceID)
	if err != nil {
		return nil, err
	}

	row := &model.TeamAssignmentModel{
		ChurchID:          actor.ChurchID,
		MeetingInstanceID: in.MeetingInstanceID,
		MemberID:          in.MemberID,
		Role:              in.Role,
		InstrumentID:      in.InstrumentID,
		IsReplacement:     in.IsReplacement,
		Status:            in.Status,
	}
	if err := s.repo.InsertTeamAssignment(ctx, row); err != nil {
		return nil, fmt.Errorf("insert team assignment: %w", err)
	}

	msg := fmt.Sprintf("You have been scheduled for %s on %s.", inst.Title, inst.InstanceDate)
	if !s.notifier.Create(ctx, actor.ChurchID, in.MemberID, NotificationTypeAssignment, msg, instanceLink(inst.ID)) {
		s.log.Warn("assignment notification not delivered",
			zap.String("member_id", in.MemberID.String()),
			zap.String("instance_id", inst.ID.String()),
		)
	}
	return row, nil
}

func (s *Assignments) AssignSetlist(ctx context.Context, actor Actor, in AssignSetlistInput) (*model.SetlistAssignmentModel, error) {
	if !constants.HasRole(actor.Role, constants.SchedulerRoles) {
		return nil, forbidden(constants.RoleErrorScheduler("setlist assignment"))
	}
	if in.MeetingInstanceID == uuid.Nil || in.SetlistID == uuid.Nil {
		return nil, validationf("meeting_instance_id and setlist_id are required")
	}

	inst, err := s.instanceOf(ctx, actor.ChurchID, in.MeetingInstanceID)
	if err != nil {
		return nil, err
	}

	assignedBy := actor.UserID
	row := &model.SetlistAssignmentModel{
		ChurchID:          actor.ChurchID,
		MeetingInstanceID: in.MeetingInstanceID,
		SetlistID:         in.SetlistID,
		AssignedBy:        &assignedBy,
	}
	if err := s.repo.InsertSetlistAssignment(ctx, row); err != nil {
		return nil, fmt.Errorf("insert setlist assignment: %w", err)
	}

	if err := s.activity.Log(ctx, actor.ChurchID, actor.UserID, ActivityAssignSetlist, "meeting_instance", inst.ID,
		nil, map[string]any{"setlist_id": in.SetlistID}); err != nil {
		s.log.Warn("activity log failed", zap.Error(err))
	}

	team, err := s.repo.ListInstanceTeam(ctx, inst.ID)
	if err != nil {
		s.log.Warn("setlist fan-out skipped", zap.String("instance_id", inst.ID.String()), zap.Error(err))
		return row, nil
	}
	msg := fmt.Sprintf("A setlist was added to %s on %s.", inst.Title, inst.InstanceDate)
	for _, member := range team {
		if !s.notifier.Create(ctx, actor.ChurchID, member.MemberID, NotificationTypeSetlist, msg, instanceLink(inst.ID)) {
			s.log.Warn("setlist notification not delivered", zap.String("member_id", member.MemberID.String()))
		}
	}
	return row, nil
}

func instanceLink(id uuid.UUID) string {
	return "/calendar?action=details&id=" + id.String()
}
