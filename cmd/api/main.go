package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/fairhub-io/fairhub-api/internal/config"
	"github.com/fairhub-io/fairhub-api/internal/database"
	"github.com/fairhub-io/fairhub-api/internal/handler"
	"github.com/fairhub-io/fairhub-api/internal/middleware"
	"github.com/fairhub-io/fairhub-api/internal/models"
	"github.com/fairhub-io/fairhub-api/internal/repository"
	"github.com/fairhub-io/fairhub-api/internal/router"
	"github.com/fairhub-io/fairhub-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.SuperAdmin{},
		&models.SubAdmin{},
		&models.User{},
		&models.Event{},
		&models.Appointment{},
		&models.AdminLog{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	identityRepo := repository.NewIdentityRepository(db)
	eventRepo := repository.NewEventRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	adminLogRepo := repository.NewAdminLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	resolver := service.NewActorResolver(identityRepo, logger)
	auditService := service.NewAuditService(adminLogRepo, logger)
	emailDelivery := service.NewLogEmailDelivery(logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.ChannelBase, natsConn, emailDelivery, logger)
	moderationService := service.NewEventModerationService(eventRepo, resolver, auditService, notificationService, validate, logger)
	appointmentService := service.NewAppointmentService(appointmentRepo, resolver, auditService, notificationService, validate, logger)

	moderationHandler := handler.NewEventModerationHandler(moderationService, logger)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	adminLogHandler := handler.NewAdminLogHandler(auditService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EventModerationHandler: moderationHandler,
		AppointmentHandler:     appointmentHandler,
		NotificationHandler:    notificationHandler,
		AdminLogHandler:        adminLogHandler,
		JWTMiddleware:          middleware.JWTProtected(cfg.JWTSecret),
		AdminGuard:             middleware.RequireAdmin(resolver),
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationService.Start(rootCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-rootCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
