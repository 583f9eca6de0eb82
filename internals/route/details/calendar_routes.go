package details

import (
	"github.com/gofiber/fiber/v2"

	calendarController "ministryhub_backend/internals/features/calendar/meetings/controller"
	calendarRoute "ministryhub_backend/internals/features/calendar/meetings/route"
)

// Example: GET /api/calendar?action=list&start=2025-01-01&end=2025-01-31
func CalendarRoutes(api fiber.Router, ctrl *calendarController.CalendarController) {
	calendarRoute.CalendarRoutes(api, ctrl)
}
