package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ministryhub_backend/internals/features/home/notifications/model"
)

// NotificationService is the in-app notification store. Create satisfies the
// calendar's notification sink.
type NotificationService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewNotificationService(db *gorm.DB, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{db: db, log: log.Named("notifications")}
}

// Create records one notification. Failures are logged and reported as
// false; the caller's write stands either way.
func (s *NotificationService) Create(ctx context.Context, churchID, memberID uuid.UUID, typ, message, link string) bool {
	n := &model.NotificationModel{
		ChurchID: churchID,
		MemberID: memberID,
		Type:     typ,
		Message:  message,
	}
	if l := strings.TrimSpace(link); l != "" {
		n.Link = &l
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		s.log.Warn("notification insert failed",
			zap.String("member_id", memberID.String()),
			zap.String("type", typ),
			zap.Error(err),
		)
		return false
	}
	return true
}

type ListFilter struct {
	UnreadOnly bool
	Offset     int
	Limit      int
}

func (s *NotificationService) ListForMember(ctx context.Context, churchID, memberID uuid.UUID, f ListFilter) ([]model.NotificationModel, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("church_id = ? AND member_id = ?", churchID, memberID)
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]model.NotificationModel, 0)
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkRead returns false when no unread notification of that member matched.
func (s *NotificationService) MarkRead(ctx context.Context, memberID, id uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("id = ? AND member_id = ? AND is_read = ?", id, memberID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
