package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"stark-security/internal/config"
	"stark-security/internal/database"
	httpapi "stark-security/internal/http"
	"stark-security/internal/logger"
	"stark-security/internal/mqtt"
	"stark-security/internal/notifier"
	"stark-security/internal/repository"
	"stark-security/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "stark-security")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories: Postgres when available, in-memory fallback otherwise so
	// a plain `go run` still serves the full API.
	var db *sql.DB
	var sensorsRepo repository.SensorsRepository
	var eventsRepo repository.EventsRepository

	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for stark-security")
		} else {
			log.Warn("DB enabled but connection failed, falling back to in-memory repositories", zap.Error(err))
		}
	}
	if db != nil {
		if err := repository.EnsureSchema(ctx, db); err != nil {
			log.Fatal("Failed to apply schema", zap.Error(err))
		}
		sensorsRepo = repository.NewPostgresSensorsRepo(db)
		eventsRepo = repository.NewPostgresEventsRepo(db)
	} else {
		memSensors := repository.NewMemorySensorsRepo()
		sensorsRepo = memSensors
		eventsRepo = repository.NewMemoryEventsRepo(memSensors)
	}

	if err := service.SeedDemoSensors(ctx, sensorsRepo, log); err != nil {
		log.Fatal("Failed to seed demo sensors", zap.Error(err))
	}

	accounts := service.NewAccountStore()
	if err := service.SeedDefaultAccounts(accounts); err != nil {
		log.Fatal("Failed to seed accounts", zap.Error(err))
	}

	// Notification sinks are all optional; the notifier always logs alerts.
	var notifierOpts []notifier.Option
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		notifierOpts = append(notifierOpts, notifier.WithRedisStream(redisClient, cfg.Redis.AlertStream))
	}
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		if c, err := mqtt.NewClient(cfg); err == nil {
			mqttClient = c
			notifierOpts = append(notifierOpts, notifier.WithMQTT(c, cfg.MQTT.AlertTopic))
		} else {
			log.Warn("MQTT enabled but connection failed, alerts will not reach the broker", zap.Error(err))
		}
	}
	if cfg.Webhook.Enabled && cfg.Webhook.URL != "" {
		notifierOpts = append(notifierOpts, notifier.WithWebhook(
			cfg.Webhook.URL,
			time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second,
		))
	}
	alertNotifier := notifier.NewAlertNotifier(log, notifierOpts...)

	security := service.NewSecurityService(sensorsRepo, eventsRepo, alertNotifier, log)

	dispatcher := service.NewDispatcher(security, cfg.Dispatch.Workers, cfg.Dispatch.QueueSize, log)
	dispatcher.Start()

	authService := service.NewAuthService(accounts, log)

	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, log))
	router.RegisterSensorRoutes(httpapi.NewSensorHandler(sensorsRepo, dispatcher, log))
	router.RegisterEventRoutes(httpapi.NewEventHandler(eventsRepo, security, log))
	router.RegisterDebugRoutes()

	if cfg.DevMode {
		log.Warn("DEV_MODE is on: trusted-header authentication (X-User/X-Role) is accepted")
	}
	authMiddleware := httpapi.NewAuthMiddleware(accounts, cfg.DevMode, log)
	var handler http.Handler = router
	handler = authMiddleware.Wrap(handler)
	handler = httpapi.CORSMiddleware(handler)
	handler = httpapi.LoggingMiddleware(log, handler)

	srv := service.NewServer(cfg.HTTP.Addr, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		log.Error("HTTP server exited", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = dispatcher.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if mqttClient != nil {
		mqttClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
