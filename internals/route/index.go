package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ministryhub_backend/internals/constants"
	authMiddleware "ministryhub_backend/internals/middlewares/auth"
	routeDetails "ministryhub_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, d *Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB)

	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              d.Config.Auth.JWTSecret,
		BlacklistChecker:    d.Blacklist.Checker(),
		AllowCookieFallback: d.Config.Auth.AllowCookieFallback,
	})

	// ===================== PRIVATE (USER) =====================
	d.Log.Info("setting up routes", zap.String("group", "/api/u"))
	user := app.Group("/api/u", jwt)
	routeDetails.AuthUserRoutes(user, d.AuthCtrl)
	routeDetails.HomeUserRoutes(user, d.NotificationCtrl)

	// ===================== ADMIN (per church) =====================
	d.Log.Info("setting up routes", zap.String("group", "/api/a"))
	admin := app.Group("/api/a", jwt,
		authMiddleware.OnlyRoles(constants.RoleErrorOwner("the admin area"), constants.OwnerRoles...),
	)
	routeDetails.HomeAdminRoutes(admin, d.ActivityCtrl)

	// ===================== CALENDAR =====================
	d.Log.Info("setting up routes", zap.String("group", "/api/calendar"))
	calendar := app.Group("/api/calendar", jwt)
	routeDetails.CalendarRoutes(calendar, d.CalendarCtrl)
}
