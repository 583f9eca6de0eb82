package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ministryhub_backend/internals/features/calendar/meetings/model"
)

func newReader(repo *fakeRepo) *Reader {
	return NewReader(repo, NewMaterializer(repo, MaterializeOptions{}, nil))
}

func TestGetInstancesMaterializesTheRange(t *testing.T) {
	repo := newFakeRepo()
	church := uuid.New()
	repo.addMeeting(church, "Sunday Service", weekly(0, "10:00", "12:00", "UTC"))
	repo.addMeeting(church, "Rehearsal", weekly(4, "20:00", "22:00", "UTC"))

	rows, err := newReader(repo).GetInstances(context.Background(), church, date("2025-01-01"), date("2025-01-12"))
	require.NoError(t, err)

	var got []string
	for _, r := range rows {
		got = append(got, r.InstanceDate.String()+" "+r.Title)
	}
	assert.Equal(t, []string{
		"2025-01-02 Rehearsal",
		"2025-01-05 Sunday Service",
		"2025-01-09 Rehearsal",
		"2025-01-12 Sunday Service",
	}, got)
}

func TestGetInstancesOrdersSameDayByStart(t *testing.T) {
	repo := newFakeRepo()
	church := uuid.New()
	repo.addMeeting(church, "Evening", weekly(0, "18:00", "19:00", "UTC"))
	repo.addMeeting(church, "Morning", weekly(0, "09:00", "10:00", "UTC"))

	rows, err := newReader(repo).GetInstances(context.Background(), church, date("2025-01-05"), date("2025-01-05"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Morning", rows[0].Title)
	assert.Equal(t, "Evening", rows[1].Title)
}

func TestGetInstancesCarriesAssignmentCounts(t *testing.T) {
	repo := newFakeRepo()
	church := uuid.New()
	repo.addMeeting(church, "Sunday Service", weekly(0, "10:00", "12:00", "UTC"))
	r := newReader(repo)

	rows, err := r.GetInstances(context.Background(), church, date("2025-01-05"), date("2025-01-05"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].TeamCount)

	ctx := context.Background()
	require.NoError(t, repo.InsertTeamAssignment(ctx, &model.TeamAssignmentModel{ChurchID: church, MeetingInstanceID: rows[0].ID, MemberID: uuid.New(), Role: "vocals"}))
	require.NoError(t, repo.InsertTeamAssignment(ctx, &model.TeamAssignmentModel{ChurchID: church, MeetingInstanceID: rows[0].ID, MemberID: uuid.New(), Role: "keys"}))
	require.NoError(t, repo.InsertSetlistAssignment(ctx, &model.SetlistAssignmentModel{ChurchID: church, MeetingInstanceID: rows[0].ID, SetlistID: uuid.New()}))

	rows, err = r.GetInstances(ctx, church, date("2025-01-05"), date("2025-01-05"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0].TeamCount)
	assert.EqualValues(t, 1, rows[0].SetlistCount)
}

func TestGetInstancesRejectsBadRange(t *testing.T) {
	_, err := newReader(newFakeRepo()).GetInstances(context.Background(), uuid.New(), date("2025-02-01"), date("2025-01-01"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetInstanceDetails(t *testing.T) {
	repo := newFakeRepo()
	church := uuid.New()
	repo.addMeeting(church, "Sunday Service", weekly(0, "10:00", "12:00", "UTC"))
	r := newReader(repo)
	ctx := context.Background()

	rows, err := r.GetInstances(ctx, church, date("2025-01-05"), date("2025-01-05"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	id := rows[0].ID

	member := uuid.New()
	repo.members[member] = "Ana"
	require.NoError(t, repo.InsertTeamAssignment(ctx, &model.TeamAssignmentModel{ChurchID: church, MeetingInstanceID: id, MemberID: member, Role: "vocals"}))

	t.Run("found", func(t *testing.T) {
		d, err := r.GetInstanceDetails(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "Sunday Service", d.Title)
		assert.Empty(t, d.Setlists)
		require.Len(t, d.Team, 1)
		require.NotNil(t, d.Team[0].MemberName)
		assert.Equal(t, "Ana", *d.Team[0].MemberName)
		assert.Equal(t, model.AssignmentStatusAssigned, d.Team[0].Status)
	})

	t.Run("missing is nil", func(t *testing.T) {
		d, err := r.GetInstanceDetails(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("other church is not found", func(t *testing.T) {
		_, err := r.GetChurchInstanceDetails(ctx, uuid.New(), id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("own church", func(t *testing.T) {
		d, err := r.GetChurchInstanceDetails(ctx, church, id)
		require.NoError(t, err)
		assert.Equal(t, id, d.ID)
	})
}
