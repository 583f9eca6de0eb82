package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ministryhub_backend/internals/constants"
	"ministryhub_backend/internals/features/calendar/meetings/model"
)

func TestCreateRecurrentMeeting(t *testing.T) {
	repo := newFakeRepo()
	activity := &recordingActivity{}
	svc := NewMeetings(repo, activity, "America/Argentina/Buenos_Aires", nil)
	actor := Actor{UserID: uuid.New(), ChurchID: uuid.New(), Role: constants.RolePastor}

	m, err := svc.CreateMeeting(context.Background(), actor, CreateMeetingInput{
		Title:       "  Sunday Service ",
		MeetingType: model.MeetingTypeRecurrent,
		Recurrence:  &RecurrenceInput{DayOfWeek: 0, StartTime: tod("10:00"), EndTime: tod("12:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunday Service", m.Title)
	assert.Equal(t, model.MeetingStatusActive, m.Status)
	require.NotNil(t, m.CreatedBy)
	assert.Equal(t, actor.UserID, *m.CreatedBy)

	patterns, err := svc.ActivePatterns(context.Background(), actor.ChurchID)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, m.ID, patterns[0].MeetingID)
	assert.Equal(t, "America/Argentina/Buenos_Aires", patterns[0].Timezone)
	assert.Equal(t, "Sunday Service", patterns[0].MeetingTitle)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, ActivityCreateMeeting, activity.entries[0].Action)
	assert.Equal(t, m.ID, activity.entries[0].EntityID)
}

func TestCreateSpecialMeetingWithOccurrence(t *testing.T) {
	repo := newFakeRepo()
	svc := NewMeetings(repo, &recordingActivity{}, "UTC", nil)
	actor := Actor{UserID: uuid.New(), ChurchID: uuid.New(), Role: constants.RoleMaster}

	_, err := svc.CreateMeeting(context.Background(), actor, CreateMeetingInput{
		Title:       "Easter Vigil",
		MeetingType: model.MeetingTypeSpecial,
		Occurrence: &OccurrenceInput{
			Date:      date("2025-04-19"),
			StartTime: tod("23:00"),
			EndTime:   tod("01:00"),
			Timezone:  "America/Argentina/Buenos_Aires",
		},
	})
	require.NoError(t, err)
	assert.Empty(t, repo.patterns)

	rows, err := repo.ListInstances(context.Background(), actor.ChurchID, date("2025-04-19"), date("2025-04-19"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, time.Date(2025, 4, 20, 2, 0, 0, 0, time.UTC), rows[0].StartDatetimeUTC)
	assert.Equal(t, time.Date(2025, 4, 20, 4, 0, 0, 0, time.UTC), rows[0].EndDatetimeUTC)
	assert.Equal(t, model.MeetingTypeSpecial, rows[0].MeetingType)
}

func TestCreateMeetingErrors(t *testing.T) {
	owner := Actor{UserID: uuid.New(), ChurchID: uuid.New(), Role: constants.RolePastor}

	cases := []struct {
		name  string
		actor Actor
		in    CreateMeetingInput
		kind  error
	}{
		{
			name:  "leader cannot create",
			actor: Actor{UserID: uuid.New(), ChurchID: owner.ChurchID, Role: constants.RoleLeader},
			in:    CreateMeetingInput{Title: "x", MeetingType: model.MeetingTypeSpecial},
			kind:  ErrForbidden,
		},
		{
			name:  "blank title",
			actor: owner,
			in:    CreateMeetingInput{Title: "  ", MeetingType: model.MeetingTypeSpecial},
			kind:  ErrValidation,
		},
		{
			name:  "bad type",
			actor: owner,
			in:    CreateMeetingInput{Title: "x", MeetingType: "weekly"},
			kind:  ErrValidation,
		},
		{
			name:  "bad day of week",
			actor: owner,
			in: CreateMeetingInput{Title: "x", MeetingType: model.MeetingTypeRecurrent,
				Recurrence: &RecurrenceInput{DayOfWeek: 7, StartTime: tod("10:00"), EndTime: tod("11:00")}},
			kind: ErrValidation,
		},
		{
			name:  "unknown timezone",
			actor: owner,
			in: CreateMeetingInput{Title: "x", MeetingType: model.MeetingTypeRecurrent,
				Recurrence: &RecurrenceInput{DayOfWeek: 1, StartTime: tod("10:00"), EndTime: tod("11:00"), Timezone: "Nowhere/City"}},
			kind: ErrValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			activity := &recordingActivity{}
			_, err := NewMeetings(repo, activity, "UTC", nil).CreateMeeting(context.Background(), tc.actor, tc.in)
			assert.ErrorIs(t, err, tc.kind)
			assert.Empty(t, repo.meetings)
			assert.Empty(t, activity.entries)
		})
	}
}

func TestCreateMeetingStorageFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createMeetingErr = errBoom
	activity := &recordingActivity{}
	actor := Actor{UserID: uuid.New(), ChurchID: uuid.New(), Role: constants.RolePastor}

	_, err := NewMeetings(repo, activity, "UTC", nil).CreateMeeting(context.Background(), actor, CreateMeetingInput{
		Title:       "Sunday Service",
		MeetingType: model.MeetingTypeRecurrent,
		Recurrence:  &RecurrenceInput{DayOfWeek: 0, StartTime: tod("10:00"), EndTime: tod("12:00")},
	})
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, repo.meetings)
	assert.Empty(t, repo.patterns)
	assert.Empty(t, activity.entries)
}

func TestCreatePattern(t *testing.T) {
	repo := newFakeRepo()
	activity := &recordingActivity{}
	svc := NewMeetings(repo, activity, "UTC", nil)
	church := uuid.New()
	meeting, _ := repo.addMeeting(church, "Prayer", nil)
	actor := Actor{UserID: uuid.New(), ChurchID: church, Role: constants.RolePastor}
	ctx := context.Background()

	until := date("2025-06-30")
	p, err := svc.CreatePattern(ctx, actor, meeting.ID, RecurrenceInput{
		DayOfWeek: 3, StartTime: tod("19:00"), EndTime: tod("20:00"), RepeatUntil: &until,
	})
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.Equal(t, meeting.ID, p.MeetingID)
	assert.Equal(t, "UTC", p.Timezone)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, ActivityCreatePattern, activity.entries[0].Action)

	t.Run("meeting of another church", func(t *testing.T) {
		other := Actor{UserID: uuid.New(), ChurchID: uuid.New(), Role: constants.RolePastor}
		_, err := svc.CreatePattern(ctx, other, meeting.ID, RecurrenceInput{DayOfWeek: 3, StartTime: tod("19:00"), EndTime: tod("20:00")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("leader", func(t *testing.T) {
		leader := Actor{UserID: uuid.New(), ChurchID: church, Role: constants.RoleLeader}
		_, err := svc.CreatePattern(ctx, leader, meeting.ID, RecurrenceInput{DayOfWeek: 3, StartTime: tod("19:00"), EndTime: tod("20:00")})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
