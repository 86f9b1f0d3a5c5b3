package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/georgeey123/ride-hailing-bot/internal/app"
	"github.com/georgeey123/ride-hailing-bot/internal/config"
	"github.com/georgeey123/ride-hailing-bot/internal/handler"
	internalRedis "github.com/georgeey123/ride-hailing-bot/internal/redis"
	"github.com/georgeey123/ride-hailing-bot/internal/repository/postgres"
	"github.com/georgeey123/ride-hailing-bot/internal/service"
	"github.com/georgeey123/ride-hailing-bot/internal/session"
	"github.com/georgeey123/ride-hailing-bot/internal/transport"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
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
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, simulator := wireServer(db, redisClient, nrApp, cfg)

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

	// In-flight ride simulations stop after the HTTP surface is drained.
	simulator.Shutdown()

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the
// ride simulator (for shutdown).
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.Simulator) {
	// Initialize Redis-backed stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	dedupStore := internalRedis.NewDedupStore(redisClient)
	sessionStore := session.NewRedisStore(redisClient, cfg.Session.TTL)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	// Initialize outbound transport.
	var messenger transport.Messenger
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		messenger = transport.NewTwilioMessenger(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.WhatsAppNumber)
		log.Println("Twilio transport enabled")
	} else {
		messenger = transport.NewLogMessenger()
		log.Println("Twilio credentials missing, logging outbound messages")
	}

	// Initialize services.
	assigner := service.NewRandomAssigner(time.Now().UnixNano())
	simulator := service.NewSimulator(rideRepo, messenger, lockStore, cfg.Simulation.StatusInterval)
	conversationService := service.NewConversationService(userRepo, rideRepo, sessionStore, assigner, simulator)
	dispatcher := service.NewDispatcher(userRepo, rideRepo, feedbackRepo, sessionStore, conversationService)

	// Initialize handlers.
	webhookHandler := handler.NewWebhookHandler(dispatcher)
	opsHandler := handler.NewOpsHandler(userRepo, rideRepo)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		WebhookHandler: webhookHandler,
		OpsHandler:     opsHandler,
		DedupStore:     dedupStore,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, simulator
}
