package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ministryhub_backend/internals/features/home/notifications/dto"
	"ministryhub_backend/internals/features/home/notifications/service"
	helper "ministryhub_backend/internals/helpers"
	helperAuth "ministryhub_backend/internals/helpers/auth"
)

type UserNotificationController struct {
	Svc *service.NotificationService
	Log *zap.Logger
}

func NewUserNotificationController(svc *service.NotificationService, log *zap.Logger) *UserNotificationController {
	return &UserNotificationController{Svc: svc, Log: log}
}

// 🟢 GET /api/u/notifications?unread=true&page=&per_page=
func (ctrl *UserNotificationController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.GetActor(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctrl.Svc.ListForMember(c.UserContext(), actor.ChurchID, actor.UserID, service.ListFilter{
		UnreadOnly: c.QueryBool("unread", false),
		Offset:     p.Offset,
		Limit:      p.Limit,
	})
	if err != nil {
		ctrl.Log.Error("list notifications", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load notifications")
	}

	return helper.JsonList(c, "notifications", dto.ToNotificationResponseList(rows), helper.BuildPagination(total, p, len(rows)))
}

// 🟢 POST /api/u/notifications/:id/read
func (ctrl *UserNotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id must be a UUID")
	}

	ok, err := ctrl.Svc.MarkRead(c.UserContext(), userID, id)
	if err != nil {
		ctrl.Log.Error("mark notification read", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update notification")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "notification not found or already read")
	}
	return helper.JsonUpdated(c, "notification marked as read", fiber.Map{"id": id})
}
