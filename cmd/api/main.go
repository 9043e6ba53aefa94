package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/triage-service/internal/api/http"
	"github.com/spec-kit/triage-service/internal/api/http/handlers"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/messaging"
	"github.com/spec-kit/triage-service/internal/observability"
	"github.com/spec-kit/triage-service/internal/persistence"
	"github.com/spec-kit/triage-service/internal/repository"
	"github.com/spec-kit/triage-service/internal/service"
	"github.com/spec-kit/triage-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	publisher := newPublisher(cfg, redis, logger)
	defer publisher.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	doctorRepo := repository.NewDoctorRepository(pool)
	nurseRepo := repository.NewNurseRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	patientRepo := repository.NewPatientRepository(pool, commentRepo)
	auditRepo := repository.NewAuditRepository(pool)
	vitalsRepo := repository.NewVitalsRepository(pool)

	metrics := observability.NewMetrics()

	bus := events.NewBus(logger)
	worker.RegisterObservers(bus,
		service.NewAuditObserver(auditRepo, logger),
		service.NewDoctorNotificationObserver(publisher, logger, cfg.Notification),
		service.NewMetricsObserver(metrics),
	)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		DoctorRepo: doctorRepo,
		NurseRepo:  nurseRepo,
	})
	patientService := service.NewPatientService(service.PatientDependencies{
		PatientRepo: patientRepo,
		UserRepo:    userRepo,
		CommentRepo: commentRepo,
		VitalsRepo:  vitalsRepo,
		Bus:         bus,
		Logger:      logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		PatientRepo: patientRepo,
		DoctorRepo:  doctorRepo,
		Bus:         bus,
		Logger:      logger,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis, logger),
		Auth:           handlers.NewAuthHandler(authService),
		Patients:       handlers.NewPatientsHandler(patientService, assignmentService),
		Doctors:        handlers.NewDoctorsHandler(assignmentService, patientService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// newPublisher selects the alert transport: RabbitMQ when AMQP_URL is
// set, Redis streams otherwise.
func newPublisher(cfg *config.Config, redis *persistence.Redis, logger *zap.Logger) messaging.Publisher {
	if cfg.AMQP.URL != "" {
		publisher, err := messaging.NewAMQPPublisher(cfg.AMQP.URL, logger)
		if err == nil {
			logger.Info("using amqp alert publisher")
			return publisher
		}
		logger.Warn("amqp unavailable, falling back to redis streams", zap.Error(err))
	}
	logger.Info("using redis stream alert publisher")
	return messaging.NewRedisStreamPublisher(redis.Client, logger)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
