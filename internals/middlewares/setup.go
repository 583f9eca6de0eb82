package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"

	"ministryhub_backend/internals/configs"
	"ministryhub_backend/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App, cfg configs.ServerConfig, log *zap.Logger) {
	app.Use(RecoveryMiddleware(log))
	app.Use(RequestContext(cfg.RequestTimeout))
	app.Use(logger.LoggerMiddleware(log))
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter(cfg.RateLimitMax))
}
