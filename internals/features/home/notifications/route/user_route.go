package route

import (
	"github.com/gofiber/fiber/v2"

	"ministryhub_backend/internals/features/home/notifications/controller"
)

func NotificationUserRoutes(user fiber.Router, ctrl *controller.UserNotificationController) {
	notification := user.Group("/notifications")
	notification.Get("/", ctrl.List)
	notification.Post("/:id/read", ctrl.MarkRead)
}
