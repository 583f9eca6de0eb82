package route

import (
	"github.com/gofiber/fiber/v2"

	"ministryhub_backend/internals/features/home/activity_logs/controller"
)

func ActivityLogAdminRoutes(admin fiber.Router, ctrl *controller.ActivityLogController) {
	admin.Get("/activity-logs", ctrl.List)
}
