package service

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ministryhub_backend/internals/features/home/activity_logs/model"
)

type ActivityLogService struct {
	db *gorm.DB
}

func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{db: db}
}

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// Log appends one audit entry. Nil ids are stored as NULL.
func (s *ActivityLogService) Log(ctx context.Context, churchID, actorID uuid.UUID, action, entityType string, entityID uuid.UUID, oldValues, newValues any) error {
	oldJSON, err := toJSON(oldValues)
	if err != nil {
		return fmt.Errorf("encode old values: %w", err)
	}
	newJSON, err := toJSON(newValues)
	if err != nil {
		return fmt.Errorf("encode new values: %w", err)
	}

	row := &model.ActivityLogModel{
		ChurchID:   churchID,
		Action:     action,
		EntityType: entityType,
		OldValues:  oldJSON,
		NewValues:  newJSON,
	}
	if actorID != uuid.Nil {
		row.ActorID = &actorID
	}
	if entityID != uuid.Nil {
		row.EntityID = &entityID
	}
	return s.db.WithContext(ctx).Create(row).Error
}

type ListFilter struct {
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Offset     int
	Limit      int
}

func (s *ActivityLogService) List(ctx context.Context, churchID uuid.UUID, f ListFilter) ([]model.ActivityLogModel, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.ActivityLogModel{}).Where("church_id = ?", churchID)
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]model.ActivityLogModel, 0)
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
