package main

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"doc-authorizer/internal/config"
	"doc-authorizer/internal/handler"
	"doc-authorizer/internal/middleware"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/repository"
	"doc-authorizer/internal/service"
	"doc-authorizer/internal/service/credential"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	securityDB, err := config.NewSecurityDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to security database", zap.Error(err))
	}
	defer securityDB.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to Redis, caches and webhook de-duplication disabled", zap.Error(err))
		redis = nil
	}
	if redis != nil {
		defer redis.Close()
	}

	var minioClient *minio.Client
	minioClient, err = config.NewMinIOClient(cfg)
	switch {
	case errors.Is(err, config.ErrMinIODisabled):
		minioClient = nil
	case err != nil:
		log.Warn("Failed to connect to MinIO, branding images will not be cached", zap.Error(err))
		minioClient = nil
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.TelegramBotToken, cfg.TelegramAPIEndpoint)
	if err != nil {
		log.Fatal("Failed to initialize Telegram bot", zap.Error(err))
	}
	log.Info("Telegram bot authorized", zap.String("username", bot.Self.UserName))

	repos := repository.NewRepositories(db, securityDB)
	services := service.NewServices(repos, redis, minioClient, bot, cfg, log)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Credential)

	log.Info("Server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, creds credential.Service) {
	app.Get("/health", h.Telegram.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	telegram := api.Group("/telegram")
	telegram.Post("/webhook", h.Telegram.Webhook)
	telegram.Get("/health", h.Telegram.Health)

	public := api.Group("/public")
	public.Get("/view/:token", h.Public.View)

	protected := api.Group("", middleware.AuthRequired(creds))

	notifications := protected.Group("/notification")
	notifications.Post("/send", h.Notification.Send)
	notifications.Get("/pending/:userId", h.Notification.ListPending)
	notifications.Get("/history", h.Notification.History)
	notifications.Get("/:id", h.Notification.GetStatus)
	notifications.Get("/:id/logs", h.Notification.Logs)

	writers := middleware.RequireAnyRole(credential.ServiceRole, "Admin")

	documentTypes := protected.Group("/documenttype")
	documentTypes.Get("/", h.DocumentType.List)
	documentTypes.Get("/code/:code", h.DocumentType.GetByCode)
	documentTypes.Get("/:id", h.DocumentType.Get)
	documentTypes.Post("/", writers, h.DocumentType.Create)
	documentTypes.Put("/:id", writers, h.DocumentType.Update)
	documentTypes.Delete("/:id", writers, h.DocumentType.Delete)
}
