package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ministryhub_backend/internals/features/home/activity_logs/dto"
	"ministryhub_backend/internals/features/home/activity_logs/service"
	helper "ministryhub_backend/internals/helpers"
	helperAuth "ministryhub_backend/internals/helpers/auth"
)

type ActivityLogController struct {
	Svc *service.ActivityLogService
	Log *zap.Logger
}

func NewActivityLogController(svc *service.ActivityLogService, log *zap.Logger) *ActivityLogController {
	return &ActivityLogController{Svc: svc, Log: log}
}

// GET /api/a/activity-logs?action=&entity_type=&entity_id=
func (ctrl *ActivityLogController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchID(c)
	if err != nil {
		return err
	}
	var q dto.ActivityLogQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := helper.Validate.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	f := service.ListFilter{
		Action:     q.Action,
		EntityType: q.EntityType,
		Offset:     p.Offset,
		Limit:      p.Limit,
	}
	if q.EntityID != "" {
		id := uuid.MustParse(q.EntityID)
		f.EntityID = &id
	}

	rows, total, err := ctrl.Svc.List(c.UserContext(), churchID, f)
	if err != nil {
		ctrl.Log.Error("list activity logs", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load activity logs")
	}
	return helper.JsonList(c, "activity logs", rows, helper.BuildPagination(total, p, len(rows)))
}
