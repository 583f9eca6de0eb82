package routes

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ministryhub_backend/internals/configs"
	database "ministryhub_backend/internals/databases"
	calendarController "ministryhub_backend/internals/features/calendar/meetings/controller"
	calendarRepo "ministryhub_backend/internals/features/calendar/meetings/repository"
	calendarScheduler "ministryhub_backend/internals/features/calendar/meetings/scheduler"
	calendarService "ministryhub_backend/internals/features/calendar/meetings/service"
	activityController "ministryhub_backend/internals/features/home/activity_logs/controller"
	activityService "ministryhub_backend/internals/features/home/activity_logs/service"
	notificationController "ministryhub_backend/internals/features/home/notifications/controller"
	notificationService "ministryhub_backend/internals/features/home/notifications/service"
	authController "ministryhub_backend/internals/features/users/auth/controller"
	authRepo "ministryhub_backend/internals/features/users/auth/repository"
	authService "ministryhub_backend/internals/features/users/auth/service"
)

// Deps is the wired object graph shared by the HTTP server, the cron jobs
// and the CLI commands.
type Deps struct {
	DB     *gorm.DB
	Config *configs.Config
	Log    *zap.Logger

	MeetingRepo   calendarRepo.MeetingRepository
	Materializer  *calendarService.Materializer
	Reader        *calendarService.Reader
	Assignments   *calendarService.Assignments
	Meetings      *calendarService.Meetings
	Exporter      *calendarService.Exporter
	Warmer        *calendarScheduler.HorizonWarmer
	Notifications *notificationService.NotificationService
	Activity      *activityService.ActivityLogService
	Blacklist     *authService.BlacklistService

	CalendarCtrl     *calendarController.CalendarController
	NotificationCtrl *notificationController.UserNotificationController
	ActivityCtrl     *activityController.ActivityLogController
	AuthCtrl         *authController.AuthController
}

// BuildDeps wires every feature. rdb may be nil; the blacklist then lives in
// the token_blacklist table.
func BuildDeps(db *gorm.DB, cfg *configs.Config, rdb *database.RedisClient, log *zap.Logger) *Deps {
	d := &Deps{DB: db, Config: cfg, Log: log}

	d.MeetingRepo = calendarRepo.NewMeetingRepo(db)
	d.Materializer = calendarService.NewMaterializer(d.MeetingRepo, calendarService.MaterializeOptions{
		EnforceRepeatUntil: cfg.Calendar.EnforceRepeatUntil,
		Transactional:      cfg.Calendar.Transactional,
		MaxRangeDays:       cfg.Calendar.MaxRangeDays,
	}, log)
	d.Reader = calendarService.NewReader(d.MeetingRepo, d.Materializer)
	d.Notifications = notificationService.NewNotificationService(db, log)
	d.Activity = activityService.NewActivityLogService(db)
	d.Assignments = calendarService.NewAssignments(d.MeetingRepo, d.Notifications, d.Activity, log)
	d.Meetings = calendarService.NewMeetings(d.MeetingRepo, d.Activity, cfg.Calendar.DefaultTimezone, log)
	d.Exporter = calendarService.NewExporter(d.MeetingRepo, d.Reader, d.Materializer)
	d.Warmer = calendarScheduler.NewHorizonWarmer(d.MeetingRepo, d.Materializer, cfg.Calendar.WarmHorizonDays, log)

	var store authService.TokenStore
	if rdb != nil {
		store = rdb
	}
	d.Blacklist = authService.NewBlacklistService(authRepo.NewBlacklistRepo(db), store, cfg.Auth.JWTSecret, log)

	d.CalendarCtrl = calendarController.NewCalendarController(d.Reader, d.Materializer, d.Assignments, d.Meetings, d.Exporter, log)
	d.NotificationCtrl = notificationController.NewUserNotificationController(d.Notifications, log)
	d.ActivityCtrl = activityController.NewActivityLogController(d.Activity, log)
	d.AuthCtrl = authController.NewAuthController(d.Blacklist, log)
	return d
}
