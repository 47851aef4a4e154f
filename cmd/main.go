package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agri-transport-monitor/internal/alerting"
	"agri-transport-monitor/internal/config"
	"agri-transport-monitor/internal/geofencing"
	"agri-transport-monitor/internal/infrastructure/database/postgres"
	"agri-transport-monitor/internal/ingestion"
	"agri-transport-monitor/internal/logger"
	"agri-transport-monitor/internal/quality"
	"agri-transport-monitor/internal/routes"
	alertUsecase "agri-transport-monitor/internal/usecase/alert"
	deviceUsecase "agri-transport-monitor/internal/usecase/device"
	geofenceUsecase "agri-transport-monitor/internal/usecase/geofence"
	orderUsecase "agri-transport-monitor/internal/usecase/order"
	qualityUsecase "agri-transport-monitor/internal/usecase/quality"
	telemetryUsecase "agri-transport-monitor/internal/usecase/telemetry"
	pkgmqtt "agri-transport-monitor/pkg/mqtt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	deviceRepo := postgres.NewDeviceRepository(db)
	telemetryRepo := postgres.NewTelemetryRepository(db)
	geofenceRepo := postgres.NewGeofenceRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	shipmentRepo := postgres.NewShipmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	qualityRepo := postgres.NewQualityRepository(db)

	// Engine state lives in Redis when available so containment and breach
	// sequences survive restarts; otherwise it is held in process memory.
	var geofenceStates geofencing.StateStore = geofencing.NewMemoryStateStore()
	var breachStates alerting.StateStore = alerting.NewMemoryStateStore()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		geofenceStates = geofencing.NewRedisStateStore(redisClient, cfg.Geofence.StateTTL)
		breachStates = alerting.NewRedisStateStore(redisClient, cfg.Alerting.StateTTL)
		logger.Info("Engine state stores backed by Redis", zap.String("addr", cfg.Redis.Addr))
	}

	geofenceEngine := geofencing.NewEngine(geofenceRepo, geofenceStates, cfg.Geofence.CacheTTL)
	alertEngine := alerting.NewEngine(alertRepo, shipmentRepo, breachStates, alerting.Bands{
		LowMax:    cfg.Alerting.LowMax,
		MediumMax: cfg.Alerting.MediumMax,
		HighMax:   cfg.Alerting.HighMax,
	})

	processor := ingestion.NewProcessor(telemetryRepo, deviceRepo, geofenceRepo, geofenceEngine, alertEngine, ingestion.Config{
		WorkerCount:  cfg.Ingest.WorkerCount,
		BufferSize:   cfg.Ingest.BufferSize,
		BatchSize:    cfg.Ingest.BatchSize,
		BatchTimeout: cfg.Ingest.BatchTimeout,
		WriteTimeout: cfg.Ingest.WriteTimeout,
	})
	processor.Start()
	defer processor.Stop()

	if cfg.MQTT.Enabled {
		mqttClient, err := ingestion.NewMQTTIngestionClient(&ingestion.MQTTIngestionConfig{
			ClientConfig: &pkgmqtt.Config{
				Broker:               cfg.MQTT.Broker,
				ClientID:             cfg.MQTT.ClientID,
				Username:             cfg.MQTT.Username,
				Password:             cfg.MQTT.Password,
				CleanSession:         true,
				KeepAlive:            30,
				ConnectTimeout:       10,
				AutoReconnect:        true,
				MaxReconnectInterval: time.Minute,
			},
			TelemetryTopic: cfg.MQTT.TelemetryTopic,
			QoS:            byte(cfg.MQTT.QoS),
		}, processor)
		if err != nil {
			logger.Fatal("Failed to create MQTT ingestion client", zap.Error(err))
		}
		if err := mqttClient.Start(); err != nil {
			logger.Fatal("Failed to start MQTT ingestion client", zap.Error(err))
		}
		defer mqttClient.Stop()
	}

	aggregator := quality.NewAggregator(telemetryRepo, deviceRepo, qualityRepo, cfg.Quality.ReportIntervalSec)
	scheduler := quality.NewScheduler(aggregator, cfg.Quality.RunAt)

	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	go func() {
		if err := scheduler.Start(schedulerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Quality scheduler stopped", zap.Error(err))
		}
	}()

	services := &routes.Services{
		Device:    deviceUsecase.NewService(deviceRepo, cfg.Telemetry.FreshnessWindow),
		Telemetry: telemetryUsecase.NewService(processor, telemetryRepo, deviceRepo, cfg.Telemetry.FreshnessWindow),
		Geofence:  geofenceUsecase.NewService(geofenceRepo, telemetryRepo, deviceRepo, geofenceEngine),
		Alert:     alertUsecase.NewService(alertRepo),
		Order:     orderUsecase.NewService(orderRepo, orderUsecase.NewFirstAvailableDispatcher(userRepo)),
		Quality:   qualityUsecase.NewService(qualityRepo, aggregator),
	}

	router := routes.SetupRoutes(cfg, db, services)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	logger.Info("Server exited properly")
}
