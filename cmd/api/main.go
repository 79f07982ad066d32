package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/torah_tutor/configs"
	"github.com/anjiri1684/torah_tutor/database"
	"github.com/anjiri1684/torah_tutor/database/inmem"
	"github.com/anjiri1684/torah_tutor/handlers"
	"github.com/anjiri1684/torah_tutor/jobs"
	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/notifications"
	"github.com/anjiri1684/torah_tutor/routes"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/anjiri1684/torah_tutor/statements"
	"github.com/anjiri1684/torah_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func openStore() services.Store {
	dsn := config.Config("DATABASE_URL")
	if dsn == "" {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory store")
		return inmem.New()
	}
	if err := database.ConnectDB(dsn); err != nil {
		logger.Fatal().Err(err).Msg("database unavailable")
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	if err := database.SeedAdmin(database.DB); err != nil {
		logger.Error().Err(err).Msg("admin seed failed")
	}
	if err := database.SeedSalarySettings(database.DB, config.ConfigInt("DEFAULT_TEACHER_SHARE_BPS", 7000)); err != nil {
		logger.Error().Err(err).Msg("salary settings seed failed")
	}
	return database.NewStore(database.DB)
}

func events(ctx context.Context, hub *websocket.Hub) services.EventPublisher {
	url := config.Config("REDIS_URL")
	if url == "" {
		return hub
	}
	client, err := websocket.ConnectRedis(ctx, url)
	if err != nil {
		logger.Error().Err(err).Msg("redis unavailable, change events stay on this instance")
		return hub
	}
	bridge := websocket.NewRedisBridge(hub, client, config.ConfigOr("REDIS_CHANNEL", websocket.DefaultChannel))
	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Report(err, "redis bridge stopped", nil)
		}
	}()
	return bridge
}

func main() {
	logger.Configure(logger.Config{
		Level:  config.ConfigOr("LOG_LEVEL", "info"),
		Pretty: config.ConfigBool("LOG_PRETTY", true),
	})
	host, _ := os.Hostname()
	logger.EnableReporting(config.Config("ROLLBAR_TOKEN"), config.ConfigOr("APP_ENV", "development"), host)
	defer logger.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(config.ConfigOr("TIMEZONE", "UTC"))
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid TIMEZONE")
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	teacherBps := config.ConfigInt("DEFAULT_TEACHER_SHARE_BPS", 7000)
	cfg := services.Config{
		Notifier:     notifications.FromEnv(),
		Events:       events(ctx, hub),
		DefaultSplit: rules.Split{TeacherBps: teacherBps, AdminBps: 10000 - teacherBps},
		Location:     loc,
	}
	if url := config.Config("CLOUDINARY_URL"); url != "" {
		renderer, err := statements.New(url)
		if err != nil {
			logger.Error().Err(err).Msg("statement rendering disabled")
		} else {
			cfg.Statements = renderer
		}
	}
	svc := services.New(openStore(), cfg)
	handlers.Setup(svc)

	c := cron.New(cron.WithLocation(loc))
	if err := jobs.New(svc, loc).Register(c); err != nil {
		logger.Fatal().Err(err).Msg("scheduling jobs failed")
	}
	c.Start()
	defer c.Stop()
	logger.Info().Msg("cron jobs scheduled")

	app := fiber.New(fiber.Config{
		AppName:       "Torah Tutor",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.ConfigOr("CORS_ORIGINS", "*"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   loc.String(),
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Torah Tutor API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.Setup(app)
	routes.RealtimeRoutes(app, hub)

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	port := config.ConfigOr("PORT", "8080")
	logger.Info().Str("port", port).Msg("server is running")
	if err := app.Listen(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("server failed to start")
	}
}
