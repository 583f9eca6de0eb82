package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	database "ministryhub_backend/internals/databases"
	authScheduler "ministryhub_backend/internals/features/users/auth/scheduler"
	helper "ministryhub_backend/internals/helpers"
	"ministryhub_backend/internals/middlewares"
	routes "ministryhub_backend/internals/route"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	rt, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer rt.close()
	log := rt.log

	if rt.cfg.Database.AutoMigrate {
		if err := database.RunMigrations(rt.db, rt.cfg.Database.Driver, log); err != nil {
			return err
		}
	}
	database.WarmUpQueries(rt.db, log)

	rdb, err := database.NewRedisClient(rt.cfg.Redis, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	deps := routes.BuildDeps(rt.db, rt.cfg, rdb, log)

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ErrorHandler:          helper.FiberErrorHandler(log),
		ReadTimeout:           rt.cfg.Server.ReadTimeout,
		WriteTimeout:          rt.cfg.Server.WriteTimeout,
		IdleTimeout:           rt.cfg.Server.IdleTimeout,
	})
	middlewares.SetupMiddlewares(app, rt.cfg.Server, log)
	routes.SetupRoutes(app, deps)

	// scheduler after DB is ready
	c := cron.New()
	if err := deps.Warmer.Register(c, rt.cfg.Calendar.WarmSchedule); err != nil {
		return err
	}
	if err := authScheduler.RegisterBlacklistCleanup(c, rt.cfg.Calendar.PurgeSchedule, deps.Blacklist, log); err != nil {
		return err
	}
	c.Start()

	addr := fmt.Sprintf("0.0.0.0:%d", rt.cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info("✅ listening", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		<-c.Stop().Done()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-c.Stop().Done()
	return app.ShutdownWithContext(shutdownCtx)
}
