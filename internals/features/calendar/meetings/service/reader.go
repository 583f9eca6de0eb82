package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/features/calendar/meetings/repository"
	"ministryhub_backend/internals/helpers/dbtime"
)

// Reader serves instance reads. Every range read syncs the range first.
type Reader struct {
	repo repository.MeetingRepository
	mat  *Materializer
}

func NewReader(repo repository.MeetingRepository, mat *Materializer) *Reader {
	return &Reader{repo: repo, mat: mat}
}

// GetInstances materializes [start, end] and returns the church's instances
// in it ordered by date then UTC start.
func (r *Reader) GetInstances(ctx context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]model.InstanceRow, error) {
	if _, err := r.mat.Materialize(ctx, churchID, start, end); err != nil {
		return nil, err
	}
	rows, err := r.repo.ListInstances(ctx, churchID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return rows, nil
}

// GetInstanceDetails returns nil, nil when the instance does not exist.
func (r *Reader) GetInstanceDetails(ctx context.Context, instanceID uuid.UUID) (*model.InstanceDetail, error) {
	inst, err := r.repo.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("get instance: %w", err)
	}
	if inst == nil {
		return nil, nil
	}

	setlists, err := r.repo.ListInstanceSetlists(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list setlists: %w", err)
	}
	team, err := r.repo.ListInstanceTeam(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list team: %w", err)
	}

	return &model.InstanceDetail{
		InstanceRow: *inst,
		Setlists:    setlists,
		Team:        team,
	}, nil
}

// GetChurchInstanceDetails hides instances of other churches as not found.
func (r *Reader) GetChurchInstanceDetails(ctx context.Context, churchID, instanceID uuid.UUID) (*model.InstanceDetail, error) {
	d, err := r.GetInstanceDetails(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.ChurchID != churchID {
		return nil, notFound("instance not found")
	}
	return d, nil
}
