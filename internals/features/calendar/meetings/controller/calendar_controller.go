package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ministryhub_backend/internals/features/calendar/meetings/dto"
	"ministryhub_backend/internals/features/calendar/meetings/service"
	helper "ministryhub_backend/internals/helpers"
	helperAuth "ministryhub_backend/internals/helpers/auth"
	"ministryhub_backend/internals/helpers/dbtime"
)

var timeNow = time.Now

type CalendarController struct {
	Reader       *service.Reader
	Materializer *service.Materializer
	Assignments  *service.Assignments
	Meetings     *service.Meetings
	Exporter     *service.Exporter
	Log          *zap.Logger
}

func NewCalendarController(
	reader *service.Reader,
	mat *service.Materializer,
	assignments *service.Assignments,
	meetings *service.Meetings,
	exporter *service.Exporter,
	log *zap.Logger,
) *CalendarController {
	if log == nil {
		log = zap.NewNop()
	}
	return &CalendarController{
		Reader:       reader,
		Materializer: mat,
		Assignments:  assignments,
		Meetings:     meetings,
		Exporter:     exporter,
		Log:          log.Named("calendar"),
	}
}

func actorOf(c *fiber.Ctx) (service.Actor, error) {
	a, err := helperAuth.GetActor(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{UserID: a.UserID, ChurchID: a.ChurchID, Role: a.Role}, nil
}

// serviceError maps service error kinds to statuses; anything unknown is a
// logged 500 with a generic message.
func (ctrl *CalendarController) serviceError(c *fiber.Ctx, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		switch {
		case errors.Is(se.Kind, service.ErrValidation):
			return helper.JsonError(c, fiber.StatusBadRequest, se.Msg)
		case errors.Is(se.Kind, service.ErrForbidden):
			return helper.JsonError(c, fiber.StatusForbidden, se.Msg)
		case errors.Is(se.Kind, service.ErrNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, se.Msg)
		case errors.Is(se.Kind, service.ErrStorage):
			return helper.JsonError(c, fiber.StatusInternalServerError, se.Msg)
		}
	}
	if status, msg, ok := helper.MapDBError(err); ok {
		return helper.JsonError(c, status, msg)
	}
	ctrl.Log.Error("calendar request failed",
		zap.String("action", c.Query("action")),
		zap.Any("request_id", c.Locals("reqid")),
		zap.Error(err),
	)
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

// parseRange reads ?start=&end= as inclusive dates.
func parseRange(c *fiber.Ctx) (dbtime.Date, dbtime.Date, error) {
	q := dto.RangeQuery{Start: c.Query("start"), End: c.Query("end")}
	if err := helper.Validate.Struct(q); err != nil {
		return dbtime.Date{}, dbtime.Date{}, fiber.NewError(fiber.StatusBadRequest, "start and end are required as YYYY-MM-DD")
	}
	start, end, err := q.Dates()
	if err != nil {
		return dbtime.Date{}, dbtime.Date{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return start, end, nil
}

/* =========================
   GET /api/calendar?action=
========================= */

func (ctrl *CalendarController) Get(c *fiber.Ctx) error {
	switch strings.ToLower(strings.TrimSpace(c.Query("action"))) {
	case "list":
		return ctrl.list(c)
	case "details":
		return ctrl.details(c)
	case "patterns":
		return ctrl.patterns(c)
	case "preview":
		return ctrl.preview(c)
	case "ics":
		return ctrl.ics(c)
	case "export":
		return ctrl.export(c)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "unknown action")
	}
}

func (ctrl *CalendarController) list(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	rows, err := ctrl.Reader.GetInstances(c.UserContext(), actor.ChurchID, start, end)
	if err != nil {
		return ctrl.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "instances": rows})
}

func (ctrl *CalendarController) details(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Query("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be a UUID")
	}

	d, err := ctrl.Reader.GetChurchInstanceDetails(c.UserContext(), actor.ChurchID, id)
	if err != nil {
		return ctrl.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "instance": d})
}

func (ctrl *CalendarController) patterns(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	rows, err := ctrl.Meetings.ActivePatterns(c.UserContext(), actor.ChurchID)
	if err != nil {
		return ctrl.serviceError(c, err)
	}
	return helper.JsonOK(c, "active patterns", rows)
}

func (ctrl *CalendarController) preview(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var q dto.PreviewQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := helper.Validate.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}

	from := dbtime.DateOf(timeNow())
	if q.From != "" {
		if from, err = dbtime.ParseDate(q.From); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	occ, err := ctrl.Materializer.Preview(c.UserContext(), actor.ChurchID, uuid.MustParse(q.ID), from, q.Count)
	if err != nil {
		return ctrl.serviceError(c, err)
	}
	return helper.JsonOK(c, "upcoming occurrences", occ)
}

func (ctrl *CalendarController) ics(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var body []byte
	if c.Query("mode") == "series" {
		from := dbtime.DateOf(timeNow())
		if s := c.Query("start"); s != "" {
			if from, err = dbtime.ParseDate(s); err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
			}
		}
		body, err = ctrl.Exporter.SeriesICS(c.UserContext(), actor.ChurchID, from)
	} else {
		start, end, rerr := parseRange(c)
		if rerr != nil {
			return rerr
		}
		body, err = ctrl.Exporter.InstancesICS(c.UserContext(), actor.ChurchID, start, end)
	}
	if err != nil {
		return ctrl.serviceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="meetings.ics"`)
	return c.Send(body)
}

func (ctrl *CalendarController) export(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	body, err := ctrl.Exporter.RosterXLSX(c.UserContext(), actor.ChurchID, start, end)
	if err != nil {
		return ctrl.serviceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="roster_%s_%s.xlsx"`, start, end))
	return c.Send(body)
}

/* =========================
   POST /api/calendar?action=
========================= */

func (ctrl *CalendarController) Post(c *fiber.Ctx) error {
	switch strings.ToLower(strings.TrimSpace(c.Query("action"))) {
	case "assign_team":
		return ctrl.assignTeam(c)
	case "assign_setlist":
		return ctrl.assignSetlist(c)
	case "create_meeting":
		return ctrl.createMeeting(c)
	case "create_pattern":
		return ctrl.createPattern(c)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "unknown action")
	}
}

func (ctrl *CalendarController) assignTeam(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req dto.AssignTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctrl.Assignments.AssignTeamMember(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return ctrl.serviceError(c, err)
	}
	return helper.JsonCreated(c, "team member assigned", row)
}

func (ctrl *CalendarController) assignSetlist(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req dto.AssignSetlistRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctrl.Assignments.AssignSetlist(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return ctrl.serviceError(c, err)
	}
	return helper.JsonCreated(c, "setlist assigned", row)
}

func (ctrl *CalendarController) createMeeting(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := ctrl.Meetings.CreateMeeting(c.UserContext(), actor, in)
	if err != nil {
		return ctrl.serviceError(c, err)
	}
	return helper.JsonCreated(c, "meeting created", m)
}

func (ctrl *CalendarController) createPattern(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req dto.CreatePatternRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, err := req.RecurrenceRequest.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	p, err := ctrl.Meetings.CreatePattern(c.UserContext(), actor, uuid.MustParse(req.MeetingID), in)
	if err != nil {
		return ctrl.serviceError(c, err)
	}
	return helper.JsonCreated(c, "pattern created", p)
}
