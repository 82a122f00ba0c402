package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"livestock/internal/app"
	"livestock/internal/assist"
	"livestock/internal/config"
	"livestock/internal/handler"
	"livestock/internal/identity"
	"livestock/internal/maps"
	internalRedis "livestock/internal/redis"
	"livestock/internal/repository/document"
	"livestock/internal/service"
)

// @title        Livestock Transport API
// @version      1.0
// @description  Coordination backend for livestock transporters: jobs, notifications, earnings and profiles.

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before storage so we can instrument it).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	storage, err := app.NewStorage(ctx, cfg, redisClient, nrApp)
	if err != nil {
		log.Fatalf("failed to open document store: %v", err)
	}
	defer storage.Close()

	publisher, amqpConn, err := app.NewPushPublisher(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("failed to set up push relay: %v", err)
	}
	if amqpConn != nil {
		defer amqpConn.Close()
	}

	var pusher service.PushSender
	if publisher != nil {
		pusher = publisher
	} else {
		log.Println("RABBITMQ_URL not set, push relay disabled")
	}

	// Wire dependencies.
	server := wireServer(storage, redisClient, pusher, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	storage *app.Storage,
	redisClient *redis.Client,
	pusher service.PushSender,
	nrApp *newrelic.Application,
	cfg *config.Config,
) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)
	sessionStore := internalRedis.NewSessionStore(redisClient)

	// Initialize repositories.
	jobRepo := document.NewJobRepository(storage.Store)
	userRepo := document.NewUserRepository(storage.Store)
	notificationRepo := document.NewNotificationRepository(storage.Store)
	earningsRepo := document.NewEarningsRepository(storage.Store)
	credentialRepo := document.NewCredentialRepository(storage.Store)

	// Initialize services.
	notificationService := service.NewNotificationService(notificationRepo, userRepo, cacheStore, pusher, storage.Feed)
	earningsService := service.NewEarningsService(earningsRepo)
	jobService := service.NewJobService(
		jobRepo,
		userRepo,
		lockStore,
		notificationService,
		earningsService,
		storage.Feed,
		cfg.Jobs.EarningsOnCompletion,
	)
	profileService := service.NewProfileService(userRepo, cacheStore)

	tokens := identity.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	identityService := identity.NewService(credentialRepo, userRepo, sessionStore, tokens, identity.LogCodeSender{})

	previewer := maps.NewPreviewerFromAPIKey(cfg.Maps.APIKey)
	assistant := assist.NewFromAPIKey(cfg.Assist.OpenAIAPIKey)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:         handler.NewAuthHandler(identityService),
		JobHandler:          handler.NewJobHandler(jobService, previewer),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		EarningsHandler:     handler.NewEarningsHandler(earningsService),
		ProfileHandler:      handler.NewProfileHandler(profileService),
		AssistHandler:       handler.NewAssistHandler(assistant),
		StreamHandler:       handler.NewStreamHandler(jobService, notificationService, cfg.Server.AllowOrigins),
		Authenticator:       identityService,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
		AllowOrigins:        cfg.Server.AllowOrigins,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
