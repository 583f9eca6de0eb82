package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/helpers/dbtime"
)

// MeetingRepository is the storage port of the calendar feature.
type MeetingRepository interface {
	// patterns
	ListActivePatterns(ctx context.Context, churchID uuid.UUID) ([]model.ActivePattern, error)
	GetActivePattern(ctx context.Context, churchID, patternID uuid.UUID) (*model.ActivePattern, error)
	ListChurchesWithActivePatterns(ctx context.Context) ([]uuid.UUID, error)
	CreatePattern(ctx context.Context, p *model.RecurrencePatternModel) error

	// meetings
	GetMeeting(ctx context.Context, churchID, meetingID uuid.UUID) (*model.MeetingModel, error)
	CreateMeeting(ctx context.Context, m *model.MeetingModel, p *model.RecurrencePatternModel, inst *model.MeetingInstanceModel) error

	// instances
	InsertInstance(ctx context.Context, inst *model.MeetingInstanceModel) (bool, error)
	ListInstances(ctx context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]model.InstanceRow, error)
	GetInstance(ctx context.Context, instanceID uuid.UUID) (*model.InstanceRow, error)
	ListInstanceSetlists(ctx context.Context, instanceID uuid.UUID) ([]model.InstanceSetlistRow, error)
	ListInstanceTeam(ctx context.Context, instanceID uuid.UUID) ([]model.InstanceTeamRow, error)
	ListRoster(ctx context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]model.RosterRow, error)

	// assignments
	InsertTeamAssignment(ctx context.Context, a *model.TeamAssignmentModel) error
	InsertSetlistAssignment(ctx context.Context, a *model.SetlistAssignmentModel) error

	// WithTx runs fn against a repository bound to one transaction.
	WithTx(ctx context.Context, fn func(tx MeetingRepository) error) error
}

type meetingRepo struct {
	db *gorm.DB
}

func NewMeetingRepo(db *gorm.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) WithTx(ctx context.Context, fn func(tx MeetingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&meetingRepo{db: tx})
	})
}

/* =========================
   Patterns
========================= */

const activePatternSelect = `
SELECT p.id, p.meeting_id, p.day_of_week, p.start_time, p.end_time,
       p.timezone, p.repeat_until, p.active, p.created_at,
       m.church_id, m.title AS meeting_title
FROM meeting_recurring_patterns p
JOIN meetings m ON m.id = p.meeting_id
WHERE m.church_id = ? AND p.active = ?`

func (r *meetingRepo) ListActivePatterns(ctx context.Context, churchID uuid.UUID) ([]model.ActivePattern, error) {
	var rows []model.ActivePattern
	err := r.db.WithContext(ctx).
		Raw(activePatternSelect+" ORDER BY p.created_at, p.id", churchID, true).
		Scan(&rows).Error
	return rows, err
}

func (r *meetingRepo) GetActivePattern(ctx context.Context, churchID, patternID uuid.UUID) (*model.ActivePattern, error) {
	var rows []model.ActivePattern
	if err := r.db.WithContext(ctx).
		Raw(activePatternSelect+" AND p.id = ? LIMIT 1", churchID, true, patternID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *meetingRepo) ListChurchesWithActivePatterns(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT m.church_id
FROM meetings m
JOIN meeting_recurring_patterns p ON p.meeting_id = m.id
WHERE p.active = ?`, true).
		Scan(&ids).Error
	return ids, err
}

func (r *meetingRepo) CreatePattern(ctx context.Context, p *model.RecurrencePatternModel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

/* =========================
   Meetings
========================= */

func (r *meetingRepo) GetMeeting(ctx context.Context, churchID, meetingID uuid.UUID) (*model.MeetingModel, error) {
	var m model.MeetingModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND church_id = ?", meetingID, churchID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMeeting writes the meeting and its optional pattern or single
// instance atomically.
func (r *meetingRepo) CreateMeeting(ctx context.Context, m *model.MeetingModel, p *model.RecurrencePatternModel, inst *model.MeetingInstanceModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if p != nil {
			p.MeetingID = m.ID
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		if inst != nil {
			inst.MeetingID = m.ID
			inst.ChurchID = m.ChurchID
			if err := tx.Create(inst).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

/* =========================
   Instances
========================= */

// InsertInstance reports false when (meeting_id, instance_date) already
// exists; the existing row is left untouched.
func (r *meetingRepo) InsertInstance(ctx context.Context, inst *model.MeetingInstanceModel) (bool, error) {
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "instance_date"}},
			DoNothing: true,
		}).
		Create(inst)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

const instanceSelect = `
SELECT mi.id, mi.church_id, mi.meeting_id, mi.instance_date,
       mi.start_datetime_utc, mi.end_datetime_utc, mi.status,
       m.title, m.description, m.meeting_type, m.location,
       (SELECT COUNT(*) FROM meeting_team_assignments ta WHERE ta.meeting_instance_id = mi.id) AS team_count,
       (SELECT COUNT(*) FROM meeting_setlists ms WHERE ms.meeting_instance_id = mi.id) AS setlist_count
FROM meeting_instances mi
JOIN meetings m ON m.id = mi.meeting_id`

func (r *meetingRepo) ListInstances(ctx context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]model.InstanceRow, error) {
	rows := make([]model.InstanceRow, 0)
	err := r.db.WithContext(ctx).
		Raw(instanceSelect+`
WHERE mi.church_id = ? AND mi.instance_date BETWEEN ? AND ?
ORDER BY mi.instance_date ASC, mi.start_datetime_utc ASC`, churchID, start, end).
		Scan(&rows).Error
	return rows, err
}

func (r *meetingRepo) GetInstance(ctx context.Context, instanceID uuid.UUID) (*model.InstanceRow, error) {
	var rows []model.InstanceRow
	if err := r.db.WithContext(ctx).
		Raw(instanceSelect+"\nWHERE mi.id = ? LIMIT 1", instanceID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *meetingRepo) ListInstanceSetlists(ctx context.Context, instanceID uuid.UUID) ([]model.InstanceSetlistRow, error) {
	rows := make([]model.InstanceSetlistRow, 0)
	err := r.db.WithContext(ctx).
		Raw(`SELECT ms.id, ms.setlist_id, pl.name AS playlist_name, ms.assigned_by, ms.created_at
FROM meeting_setlists ms
LEFT JOIN playlists pl ON pl.id = ms.setlist_id
WHERE ms.meeting_instance_id = ?
ORDER BY ms.created_at, ms.id`, instanceID).
		Scan(&rows).Error
	return rows, err
}

func (r *meetingRepo) ListInstanceTeam(ctx context.Context, instanceID uuid.UUID) ([]model.InstanceTeamRow, error) {
	rows := make([]model.InstanceTeamRow, 0)
	err := r.db.WithContext(ctx).
		Raw(`SELECT ta.id, ta.member_id, mb.name AS member_name, ta.role,
       ta.instrument_id, ins.name AS instrument_name, ta.is_replacement, ta.status
FROM meeting_team_assignments ta
LEFT JOIN members mb ON mb.id = ta.member_id
LEFT JOIN instruments ins ON ins.id = ta.instrument_id
WHERE ta.meeting_instance_id = ?
ORDER BY ta.created_at, ta.id`, instanceID).
		Scan(&rows).Error
	return rows, err
}

func (r *meetingRepo) ListRoster(ctx context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]model.RosterRow, error) {
	rows := make([]model.RosterRow, 0)
	err := r.db.WithContext(ctx).
		Raw(`SELECT mi.id AS instance_id, mi.instance_date, mi.start_datetime_utc, mi.end_datetime_utc,
       m.title, mi.status, mb.name AS member_name, ta.role,
       ins.name AS instrument_name, ta.status AS assignment_status
FROM meeting_instances mi
JOIN meetings m ON m.id = mi.meeting_id
LEFT JOIN meeting_team_assignments ta ON ta.meeting_instance_id = mi.id
LEFT JOIN members mb ON mb.id = ta.member_id
LEFT JOIN instruments ins ON ins.id = ta.instrument_id
WHERE mi.church_id = ? AND mi.instance_date BETWEEN ? AND ?
ORDER BY mi.instance_date, mi.start_datetime_utc, mb.name`, churchID, start, end).
		Scan(&rows).Error
	return rows, err
}

/* =========================
   Assignments
========================= */

func (r *meetingRepo) InsertTeamAssignment(ctx context.Context, a *model.TeamAssignmentModel) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *meetingRepo) InsertSetlistAssignment(ctx context.Context, a *model.SetlistAssignmentModel) error {
	return r.db.WithContext(ctx).Create(a).Error
}
