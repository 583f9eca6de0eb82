package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/features/calendar/meetings/repository"
	"ministryhub_backend/internals/helpers/dbtime"
)

// fakeRepo is an in-memory MeetingRepository. The instance map is keyed by
// meeting id and date, mirroring the unique index.
type fakeRepo struct {
	mu sync.Mutex

	meetings  map[uuid.UUID]model.MeetingModel
	patterns  []model.RecurrencePatternModel
	instances map[string]model.MeetingInstanceModel
	team      []model.TeamAssignmentModel
	setlists  []model.SetlistAssignmentModel
	members   map[uuid.UUID]string

	failInsert       func(inst *model.MeetingInstanceModel) error
	createMeetingErr error
	listTeamErr      error
	insertCalls      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		meetings:  map[uuid.UUID]model.MeetingModel{},
		instances: map[string]model.MeetingInstanceModel{},
		members:   map[uuid.UUID]string{},
	}
}

var _ repository.MeetingRepository = (*fakeRepo)(nil)

func instanceKey(meetingID uuid.UUID, d dbtime.Date) string {
	return meetingID.String() + "|" + d.String()
}

// addMeeting stores a meeting with an optional active pattern.
func (r *fakeRepo) addMeeting(churchID uuid.UUID, title string, p *model.RecurrencePatternModel) (model.MeetingModel, *model.RecurrencePatternModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := model.MeetingModel{
		ID:          uuid.New(),
		ChurchID:    churchID,
		Title:       title,
		MeetingType: model.MeetingTypeRecurrent,
		Status:      model.MeetingStatusActive,
	}
	r.meetings[m.ID] = m
	if p == nil {
		return m, nil
	}
	p.ID = uuid.New()
	p.MeetingID = m.ID
	p.Active = true
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}
	r.patterns = append(r.patterns, *p)
	return m, p
}

func (r *fakeRepo) instanceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

func (r *fakeRepo) activePattern(p model.RecurrencePatternModel) (model.ActivePattern, bool) {
	m, ok := r.meetings[p.MeetingID]
	if !ok || !p.Active {
		return model.ActivePattern{}, false
	}
	return model.ActivePattern{RecurrencePatternModel: p, ChurchID: m.ChurchID, MeetingTitle: m.Title}, true
}

func (r *fakeRepo) ListActivePatterns(_ context.Context, churchID uuid.UUID) ([]model.ActivePattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ActivePattern
	for _, p := range r.patterns {
		if ap, ok := r.activePattern(p); ok && ap.ChurchID == churchID {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetActivePattern(_ context.Context, churchID, patternID uuid.UUID) (*model.ActivePattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patterns {
		if p.ID != patternID {
			continue
		}
		if ap, ok := r.activePattern(p); ok && ap.ChurchID == churchID {
			return &ap, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListChurchesWithActivePatterns(context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, p := range r.patterns {
		ap, ok := r.activePattern(p)
		if !ok || seen[ap.ChurchID] {
			continue
		}
		seen[ap.ChurchID] = true
		out = append(out, ap.ChurchID)
	}
	return out, nil
}

func (r *fakeRepo) CreatePattern(_ context.Context, p *model.RecurrencePatternModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.patterns = append(r.patterns, *p)
	return nil
}

func (r *fakeRepo) GetMeeting(_ context.Context, churchID, meetingID uuid.UUID) (*model.MeetingModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[meetingID]
	if !ok || m.ChurchID != churchID {
		return nil, nil
	}
	return &m, nil
}

func (r *fakeRepo) CreateMeeting(_ context.Context, m *model.MeetingModel, p *model.RecurrencePatternModel, inst *model.MeetingInstanceModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createMeetingErr != nil {
		return r.createMeetingErr
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.meetings[m.ID] = *m
	if p != nil {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.MeetingID = m.ID
		r.patterns = append(r.patterns, *p)
	}
	if inst != nil {
		if inst.ID == uuid.Nil {
			inst.ID = uuid.New()
		}
		inst.MeetingID = m.ID
		inst.ChurchID = m.ChurchID
		r.instances[instanceKey(m.ID, inst.InstanceDate)] = *inst
	}
	return nil
}

func (r *fakeRepo) InsertInstance(_ context.Context, inst *model.MeetingInstanceModel) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertCalls++
	if r.failInsert != nil {
		if err := r.failInsert(inst); err != nil {
			return false, err
		}
	}
	key := instanceKey(inst.MeetingID, inst.InstanceDate)
	if _, ok := r.instances[key]; ok {
		return false, nil
	}
	if inst.ID == uuid.Nil {
		inst.ID = uuid.New()
	}
	inst.CreatedAt = time.Now()
	r.instances[key] = *inst
	return true, nil
}

func (r *fakeRepo) rowOf(inst model.MeetingInstanceModel) model.InstanceRow {
	m := r.meetings[inst.MeetingID]
	row := model.InstanceRow{
		ID:               inst.ID,
		ChurchID:         inst.ChurchID,
		MeetingID:        inst.MeetingID,
		InstanceDate:     inst.InstanceDate,
		StartDatetimeUTC: inst.StartDatetimeUTC,
		EndDatetimeUTC:   inst.EndDatetimeUTC,
		Status:           inst.Status,
		Title:            m.Title,
		Description:      m.Description,
		MeetingType:      m.MeetingType,
		Location:         m.Location,
	}
	for _, t := range r.team {
		if t.MeetingInstanceID == inst.ID {
			row.TeamCount++
		}
	}
	for _, s := range r.setlists {
		if s.MeetingInstanceID == inst.ID {
			row.SetlistCount++
		}
	}
	return row
}

func (r *fakeRepo) instancesIn(churchID uuid.UUID, start, end dbtime.Date) []model.MeetingInstanceModel {
	var out []model.MeetingInstanceModel
	for _, inst := range r.instances {
		if inst.ChurchID != churchID || inst.InstanceDate.Before(start) || inst.InstanceDate.After(end) {
			continue
		}
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].InstanceDate.Equal(out[j].InstanceDate.Time) {
			return out[i].InstanceDate.Before(out[j].InstanceDate)
		}
		return out[i].StartDatetimeUTC.Before(out[j].StartDatetimeUTC)
	})
	return out
}

func (r *fakeRepo) ListInstances(_ context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]model.InstanceRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]model.InstanceRow, 0)
	for _, inst := range r.instancesIn(churchID, start, end) {
		rows = append(rows, r.rowOf(inst))
	}
	return rows, nil
}

func (r *fakeRepo) GetInstance(_ context.Context, instanceID uuid.UUID) (*model.InstanceRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.ID == instanceID {
			row := r.rowOf(inst)
			return &row, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListInstanceSetlists(_ context.Context, instanceID uuid.UUID) ([]model.InstanceSetlistRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]model.InstanceSetlistRow, 0)
	for _, s := range r.setlists {
		if s.MeetingInstanceID == instanceID {
			rows = append(rows, model.InstanceSetlistRow{ID: s.ID, SetlistID: s.SetlistID, AssignedBy: s.AssignedBy, CreatedAt: s.CreatedAt})
		}
	}
	return rows, nil
}

func (r *fakeRepo) ListInstanceTeam(_ context.Context, instanceID uuid.UUID) ([]model.InstanceTeamRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listTeamErr != nil {
		return nil, r.listTeamErr
	}
	rows := make([]model.InstanceTeamRow, 0)
	for _, t := range r.team {
		if t.MeetingInstanceID != instanceID {
			continue
		}
		row := model.InstanceTeamRow{
			ID:            t.ID,
			MemberID:      t.MemberID,
			Role:          t.Role,
			InstrumentID:  t.InstrumentID,
			IsReplacement: t.IsReplacement,
			Status:        t.Status,
		}
		if name, ok := r.members[t.MemberID]; ok {
			row.MemberName = &name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *fakeRepo) ListRoster(_ context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]model.RosterRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]model.RosterRow, 0)
	for _, inst := range r.instancesIn(churchID, start, end) {
		base := model.RosterRow{
			InstanceID:       inst.ID,
			InstanceDate:     inst.InstanceDate,
			StartDatetimeUTC: inst.StartDatetimeUTC,
			EndDatetimeUTC:   inst.EndDatetimeUTC,
			Title:            r.meetings[inst.MeetingID].Title,
			Status:           inst.Status,
		}
		var slots []model.RosterRow
		for _, t := range r.team {
			if t.MeetingInstanceID != inst.ID {
				continue
			}
			row := base
			role, status := t.Role, t.Status
			row.Role, row.AssignmentStatus = &role, &status
			if name, ok := r.members[t.MemberID]; ok {
				row.MemberName = &name
			}
			slots = append(slots, row)
		}
		if len(slots) == 0 {
			slots = append(slots, base)
		}
		rows = append(rows, slots...)
	}
	return rows, nil
}

func (r *fakeRepo) InsertTeamAssignment(_ context.Context, a *model.TeamAssignmentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = model.AssignmentStatusAssigned
	}
	r.team = append(r.team, *a)
	return nil
}

func (r *fakeRepo) InsertSetlistAssignment(_ context.Context, a *model.SetlistAssignmentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.setlists = append(r.setlists, *a)
	return nil
}

// WithTx restores the instance and assignment tables when fn fails.
func (r *fakeRepo) WithTx(_ context.Context, fn func(tx repository.MeetingRepository) error) error {
	r.mu.Lock()
	instances := make(map[string]model.MeetingInstanceModel, len(r.instances))
	for k, v := range r.instances {
		instances[k] = v
	}
	team := append([]model.TeamAssignmentModel(nil), r.team...)
	setlists := append([]model.SetlistAssignmentModel(nil), r.setlists...)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.instances, r.team, r.setlists = instances, team, setlists
		r.mu.Unlock()
		return err
	}
	return nil
}

type notification struct {
	ChurchID uuid.UUID
	MemberID uuid.UUID
	Type     string
	Message  string
	Link     string
}

type recordingNotifier struct {
	mu    sync.Mutex
	fail  bool
	calls []notification
}

func (n *recordingNotifier) Create(_ context.Context, churchID, memberID uuid.UUID, typ, message, link string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{churchID, memberID, typ, message, link})
	return !n.fail
}

type activityEntry struct {
	ChurchID   uuid.UUID
	ActorID    uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	NewValues  any
}

type recordingActivity struct {
	mu      sync.Mutex
	err     error
	entries []activityEntry
}

func (a *recordingActivity) Log(_ context.Context, churchID, actorID uuid.UUID, action, entityType string, entityID uuid.UUID, _, newValues any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, activityEntry{churchID, actorID, action, entityType, entityID, newValues})
	return a.err
}

var errBoom = errors.New("boom")

func tod(s string) dbtime.Tod {
	t, err := dbtime.ParseTod(s)
	if err != nil {
		panic(err)
	}
	return t
}

func date(s string) dbtime.Date {
	d, err := dbtime.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func weekly(dow int, start, end, tz string) *model.RecurrencePatternModel {
	return &model.RecurrencePatternModel{
		DayOfWeek: dow,
		StartTime: tod(start),
		EndTime:   tod(end),
		Timezone:  tz,
	}
}
