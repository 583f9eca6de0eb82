package route

import (
	"github.com/gofiber/fiber/v2"

	"ministryhub_backend/internals/features/calendar/meetings/controller"
	"ministryhub_backend/internals/middlewares"
)

// CalendarRoutes mounts the action-dispatched endpoint on an authenticated
// /calendar group.
func CalendarRoutes(cal fiber.Router, ctrl *controller.CalendarController) {
	cal.Get("/", middlewares.ExportRateLimiter(), ctrl.Get)
	cal.Post("/", ctrl.Post)
}
