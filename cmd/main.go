package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stagebook/internal/analytics"
	"stagebook/internal/caching"
	"stagebook/internal/common"
	"stagebook/internal/config"
	_ "stagebook/internal/docs"
	"stagebook/internal/handlers"
	"stagebook/internal/jobs"
	"stagebook/internal/jobs/background"
	"stagebook/internal/logger"
	"stagebook/internal/middleware"
	"stagebook/internal/repositories"
	"stagebook/internal/services"
	"stagebook/internal/storage"
	"stagebook/pkg/database"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const version = "1.0.0"

// @title Stagebook API
// @version 1.0
// @description Multi-tenant event management: venues, clients, performers, events, bookings and tasks.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger not configured yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: "stagebook",
		Development: cfg.Log.Development || cfg.IsDevelopment(),
	})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL, database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime.Duration,
	}, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, log); err != nil {
			return err
		}
	}

	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	cache := caching.NewRedisCacheService(redisClient, log)
	if err := cache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, caching degraded", zap.Error(err))
	}

	store, err := storage.NewMinioStorage(storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Warn("contract bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	venueRepo := repositories.NewVenueRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	performerRepo := repositories.NewPerformerRepository(pool)
	eventRepo := repositories.NewEventRepository(pool)
	bookingRepo := repositories.NewBookingRepository(pool)
	taskRepo := repositories.NewEventTaskRepository(pool)

	// Contract queue
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()
	contractQueue := jobs.NewContractQueue(queueClient, log)

	// Services
	tenantSvc := services.NewTenantService(tenantRepo, cache, log)
	userSvc := services.NewUserService(userRepo, log)
	authSvc := services.NewAuthService(userRepo, cache, services.AuthOptions{
		JWTSecret:       cfg.Auth.JWTSecret,
		Issuer:          cfg.Auth.Issuer,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL.Duration,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL.Duration,
	}, log)
	venueSvc := services.NewVenueService(venueRepo)
	clientSvc := services.NewClientService(clientRepo)
	performerSvc := services.NewPerformerService(performerRepo, cache, log)
	eventSvc := services.NewEventService(eventRepo, venueRepo, clientRepo, userRepo, cache, log)
	bookingSvc := services.NewBookingService(bookingRepo, eventRepo, performerRepo, cache, store, contractQueue, log)
	taskSvc := services.NewEventTaskService(taskRepo, eventRepo)
	contractSvc := services.NewContractService(tenantRepo, bookingRepo, eventRepo, performerRepo, venueRepo, clientRepo, store, log)
	analyticsSvc := analytics.NewAnalyticsService(eventRepo, bookingRepo, taskRepo, cache, log)

	worker := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Queue.Concurrency,
		Logger:      log.Named("asynq").Sugar(),
	})
	if err := worker.Start(jobs.NewServeMux(jobs.NewContractWorker(contractSvc, log))); err != nil {
		return err
	}
	defer worker.Shutdown()

	scheduler, err := background.NewJobScheduler(background.Dependencies{
		Tenants:    tenantRepo,
		Analytics:  analyticsSvc,
		Events:     eventRepo,
		Performers: performerRepo,
		Tasks:      taskRepo,
		Cache:      cache,
	}, log)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn("scheduler shutdown", zap.Error(err))
		}
	}()

	jwtAuth, err := middleware.NewJWTAuth(authSvc, middleware.JWTOptions{
		JWKSURL: cfg.Auth.JWKSURL,
		Issuer:  cfg.Auth.Issuer,
	}, log)
	if err != nil {
		return err
	}
	defer jwtAuth.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(log)

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{AllowOrigins: cfg.Server.CORSOrigins}))

	versions := middleware.NewVersionMiddleware()
	e.Use(versions.APIVersionResolver())

	handlers.RegisterRoutes(e, &handlers.Router{
		Auth:       handlers.NewAuthHandlers(authSvc, tenantSvc, userSvc, log),
		Tenants:    handlers.NewTenantHandlers(tenantSvc),
		Users:      handlers.NewUserHandlers(userSvc),
		Venues:     handlers.NewVenueHandlers(venueSvc),
		Clients:    handlers.NewClientHandlers(clientSvc),
		Performers: handlers.NewPerformerHandlers(performerSvc, bookingSvc),
		Events:     handlers.NewEventHandlers(eventSvc),
		Bookings:   handlers.NewBookingHandlers(bookingSvc),
		Tasks:      handlers.NewTaskHandlers(taskSvc),
		Analytics:  handlers.NewAnalyticsHandlers(analyticsSvc),
		Jobs:       handlers.NewJobHandlers(scheduler, analyticsSvc),
		Health:     handlers.NewHealthHandlers(handlers.PingFunc(pool.Ping), cache, store, version),
	}, jwtAuth.Middleware(), versions)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("version", version), zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
