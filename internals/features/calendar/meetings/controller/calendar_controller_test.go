package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ministryhub_backend/internals/constants"
	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/features/calendar/meetings/repository"
	"ministryhub_backend/internals/features/calendar/meetings/service"
	helper "ministryhub_backend/internals/helpers"
	"ministryhub_backend/internals/helpers/dbtime"
	authMw "ministryhub_backend/internals/middlewares/auth"
)

const testSecret = "calendar-test-secret"

// stubRepo serves a single church with one Sunday pattern. Calls the tests
// do not reach panic on the nil embedded interface.
type stubRepo struct {
	repository.MeetingRepository

	church   uuid.UUID
	pattern  model.ActivePattern
	inserted []model.MeetingInstanceModel
	instance *model.InstanceRow
}

func newStubRepo() *stubRepo {
	church := uuid.New()
	start, _ := dbtime.ParseTod("10:00")
	end, _ := dbtime.ParseTod("12:00")
	return &stubRepo{
		church: church,
		pattern: model.ActivePattern{
			RecurrencePatternModel: model.RecurrencePatternModel{
				ID: uuid.New(), MeetingID: uuid.New(), DayOfWeek: 0,
				StartTime: start, EndTime: end, Timezone: "UTC", Active: true,
			},
			ChurchID:     church,
			MeetingTitle: "Sunday Service",
		},
	}
}

func (s *stubRepo) ListActivePatterns(_ context.Context, churchID uuid.UUID) ([]model.ActivePattern, error) {
	if churchID != s.church {
		return nil, nil
	}
	return []model.ActivePattern{s.pattern}, nil
}

func (s *stubRepo) GetActivePattern(_ context.Context, churchID, patternID uuid.UUID) (*model.ActivePattern, error) {
	if churchID != s.church || patternID != s.pattern.ID {
		return nil, nil
	}
	p := s.pattern
	return &p, nil
}

func (s *stubRepo) InsertInstance(_ context.Context, inst *model.MeetingInstanceModel) (bool, error) {
	inst.ID = uuid.New()
	s.inserted = append(s.inserted, *inst)
	return true, nil
}

func (s *stubRepo) ListInstances(_ context.Context, churchID uuid.UUID, start, end dbtime.Date) ([]model.InstanceRow, error) {
	rows := make([]model.InstanceRow, 0)
	for _, inst := range s.inserted {
		if inst.ChurchID != churchID || inst.InstanceDate.Before(start) || inst.InstanceDate.After(end) {
			continue
		}
		rows = append(rows, model.InstanceRow{
			ID: inst.ID, ChurchID: inst.ChurchID, MeetingID: inst.MeetingID,
			InstanceDate: inst.InstanceDate, StartDatetimeUTC: inst.StartDatetimeUTC,
			EndDatetimeUTC: inst.EndDatetimeUTC, Status: inst.Status, Title: s.pattern.MeetingTitle,
		})
	}
	return rows, nil
}

func (s *stubRepo) GetInstance(_ context.Context, id uuid.UUID) (*model.InstanceRow, error) {
	if s.instance != nil && s.instance.ID == id {
		row := *s.instance
		return &row, nil
	}
	return nil, nil
}

func (s *stubRepo) ListInstanceSetlists(context.Context, uuid.UUID) ([]model.InstanceSetlistRow, error) {
	return []model.InstanceSetlistRow{}, nil
}

func (s *stubRepo) ListInstanceTeam(context.Context, uuid.UUID) ([]model.InstanceTeamRow, error) {
	return []model.InstanceTeamRow{}, nil
}

type nopNotifier struct{}

func (nopNotifier) Create(context.Context, uuid.UUID, uuid.UUID, string, string, string) bool {
	return true
}

type nopActivity struct{}

func (nopActivity) Log(context.Context, uuid.UUID, uuid.UUID, string, string, uuid.UUID, any, any) error {
	return nil
}

func newTestApp(repo *stubRepo) *fiber.App {
	log := zap.NewNop()
	mat := service.NewMaterializer(repo, service.MaterializeOptions{}, log)
	reader := service.NewReader(repo, mat)
	ctrl := NewCalendarController(
		reader,
		mat,
		service.NewAssignments(repo, nopNotifier{}, nopActivity{}, log),
		service.NewMeetings(repo, nopActivity{}, "UTC", log),
		service.NewExporter(repo, reader, mat),
		log,
	)

	app := fiber.New(fiber.Config{ErrorHandler: helper.FiberErrorHandler(log)})
	cal := app.Group("/api/calendar", authMw.AuthJWT(authMw.AuthJWTOpts{Secret: testSecret}))
	cal.Get("/", ctrl.Get)
	cal.Post("/", ctrl.Post)
	return app
}

func token(t *testing.T, church uuid.UUID, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        uuid.NewString(),
		"church_id": church.String(),
		"role":      role,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(t *testing.T, app *fiber.App, method, target, bearer string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestCalendarRequiresToken(t *testing.T) {
	app := newTestApp(newStubRepo())
	resp, body := do(t, app, http.MethodGet, "/api/calendar/?action=list&start=2025-01-01&end=2025-01-14", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestListMaterializesAndReturnsInstances(t *testing.T) {
	repo := newStubRepo()
	app := newTestApp(repo)

	resp, body := do(t, app, http.MethodGet, "/api/calendar/?action=list&start=2025-01-01&end=2025-01-14",
		token(t, repo.church, constants.RoleMember), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	instances, ok := body["instances"].([]any)
	require.True(t, ok)
	require.Len(t, instances, 2)
	first := instances[0].(map[string]any)
	assert.Equal(t, "2025-01-05", first["instance_date"])
	assert.Equal(t, "Sunday Service", first["title"])
	assert.Len(t, repo.inserted, 2)
}

func TestListRangeErrors(t *testing.T) {
	repo := newStubRepo()
	app := newTestApp(repo)
	bearer := token(t, repo.church, constants.RoleMember)

	cases := []struct {
		name  string
		query string
	}{
		{name: "missing end", query: "start=2025-01-01"},
		{name: "not a date", query: "start=2025-01-01&end=tomorrow"},
		{name: "reversed", query: "start=2025-02-01&end=2025-01-01"},
		{name: "too wide", query: "start=2025-01-01&end=2026-06-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, app, http.MethodGet, "/api/calendar/?action=list&"+tc.query, bearer, nil)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, false, body["success"])
		})
	}
	assert.Empty(t, repo.inserted)
}

func TestUnknownAction(t *testing.T) {
	repo := newStubRepo()
	app := newTestApp(repo)
	bearer := token(t, repo.church, constants.RoleMember)

	resp, body := do(t, app, http.MethodGet, "/api/calendar/?action=nope", bearer, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "unknown action", body["message"])

	resp, _ = do(t, app, http.MethodPost, "/api/calendar/", bearer, map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDetails(t *testing.T) {
	repo := newStubRepo()
	repo.instance = &model.InstanceRow{ID: uuid.New(), ChurchID: repo.church, Title: "Sunday Service", InstanceDate: dbtime.NewDate(2025, 1, 5)}
	app := newTestApp(repo)

	resp, body := do(t, app, http.MethodGet, "/api/calendar/?action=details&id="+repo.instance.ID.String(),
		token(t, repo.church, constants.RoleMember), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	inst := body["instance"].(map[string]any)
	assert.Equal(t, "Sunday Service", inst["title"])
	assert.NotNil(t, inst["team"])

	resp, _ = do(t, app, http.MethodGet, "/api/calendar/?action=details&id="+repo.instance.ID.String(),
		token(t, uuid.New(), constants.RoleMember), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/calendar/?action=details&id=abc",
		token(t, repo.church, constants.RoleMember), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPreview(t *testing.T) {
	repo := newStubRepo()
	app := newTestApp(repo)
	bearer := token(t, repo.church, constants.RoleMember)

	resp, body := do(t, app, http.MethodGet,
		"/api/calendar/?action=preview&id="+repo.pattern.ID.String()+"&from=2025-01-01&count=2", bearer, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "2025-01-05", data[0].(map[string]any)["date"])
	assert.Empty(t, repo.inserted)

	resp, _ = do(t, app, http.MethodGet, "/api/calendar/?action=preview&id="+uuid.NewString(), bearer, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, "/api/calendar/?action=preview", bearer, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])
}

func TestICSDownload(t *testing.T) {
	repo := newStubRepo()
	app := newTestApp(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/?action=ics&start=2025-01-01&end=2025-01-14", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token(t, repo.church, constants.RoleMember))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/calendar")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(raw), "BEGIN:VEVENT"))
}

func TestAssignTeamValidationAndRoles(t *testing.T) {
	repo := newStubRepo()
	app := newTestApp(repo)

	resp, body := do(t, app, http.MethodPost, "/api/calendar/?action=assign_team",
		token(t, repo.church, constants.RoleLeader), map[string]any{"member_id": "x"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])

	valid := map[string]any{
		"meeting_instance_id": uuid.NewString(),
		"member_id":           uuid.NewString(),
		"role":                "vocals",
	}
	resp, body = do(t, app, http.MethodPost, "/api/calendar/?action=assign_team",
		token(t, repo.church, constants.RoleMember), valid)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["error_code"])

	resp, _ = do(t, app, http.MethodPost, "/api/calendar/?action=assign_team",
		token(t, repo.church, constants.RoleLeader), valid)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateMeetingForbiddenForLeader(t *testing.T) {
	repo := newStubRepo()
	app := newTestApp(repo)

	resp, _ := do(t, app, http.MethodPost, "/api/calendar/?action=create_meeting",
		token(t, repo.church, constants.RoleLeader), map[string]any{
			"title":        "Prayer",
			"meeting_type": "recurrent",
			"recurrence":   map[string]any{"day_of_week": 3, "start_time": "19:00", "end_time": "20:00"},
		})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := do(t, app, http.MethodPost, "/api/calendar/?action=create_meeting",
		token(t, repo.church, constants.RolePastor), map[string]any{
			"title":        "Prayer",
			"meeting_type": "recurrent",
			"recurrence":   map[string]any{"day_of_week": 9, "start_time": "19:00", "end_time": "20:00"},
		})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])
}
