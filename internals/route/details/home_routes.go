package details

import (
	"github.com/gofiber/fiber/v2"

	activityController "ministryhub_backend/internals/features/home/activity_logs/controller"
	activityRoute "ministryhub_backend/internals/features/home/activity_logs/route"
	notificationController "ministryhub_backend/internals/features/home/notifications/controller"
	notificationRoute "ministryhub_backend/internals/features/home/notifications/route"
)

// Example: GET /api/u/notifications
func HomeUserRoutes(api fiber.Router, notif *notificationController.UserNotificationController) {
	notificationRoute.NotificationUserRoutes(api, notif)
}

// Example: GET /api/a/activity-logs
func HomeAdminRoutes(api fiber.Router, activity *activityController.ActivityLogController) {
	activityRoute.ActivityLogAdminRoutes(api, activity)
}
