package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	MQTT      MQTTConfig
	JWT       JWTConfig
	Ingest    IngestConfig
	Telemetry TelemetryConfig
	Geofence  GeofenceConfig
	Alerting  AlertingConfig
	Quality   QualityConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Enabled switches the engines' keyed state store from in-process
	// memory to Redis.
	Enabled bool
}

type MQTTConfig struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	TelemetryTopic string
	HeartbeatTopic string
	QoS            int
	Enabled        bool
}

type JWTConfig struct {
	Secret string
}

type IngestConfig struct {
	WorkerCount  int
	BufferSize   int
	BatchSize    int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

type TelemetryConfig struct {
	// FreshnessWindow bounds how old a reading may be and still count as
	// "current" for dashboard queries.
	FreshnessWindow time.Duration
}

type GeofenceConfig struct {
	// CacheTTL bounds how long the active geofence list is served from
	// memory before a reload.
	CacheTTL time.Duration
	StateTTL time.Duration
}

// AlertingConfig holds the breach-duration severity bands. A sustained
// breach shorter than LowMax is LOW, then MEDIUM up to MediumMax, HIGH up
// to HighMax, CRITICAL beyond.
type AlertingConfig struct {
	LowMax    time.Duration
	MediumMax time.Duration
	HighMax   time.Duration
	StateTTL  time.Duration
}

type QualityConfig struct {
	// RunAt is the local time of day ("HH:MM") the daily aggregation runs.
	RunAt string
	// ReportIntervalSec is the expected device reporting cycle, used to
	// derive expected readings and uptime per day.
	ReportIntervalSec int
}

type RateLimitConfig struct {
	GeneralRPS   float64
	GeneralBurst int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			if _, statErr := os.Stat(".env"); !os.IsNotExist(statErr) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			Enabled:  viper.GetBool("REDIS_ENABLED"),
		},
		MQTT: MQTTConfig{
			Broker:         viper.GetString("MQTT_BROKER"),
			ClientID:       viper.GetString("MQTT_CLIENT_ID"),
			Username:       viper.GetString("MQTT_USERNAME"),
			Password:       viper.GetString("MQTT_PASSWORD"),
			TelemetryTopic: viper.GetString("MQTT_TELEMETRY_TOPIC"),
			HeartbeatTopic: viper.GetString("MQTT_HEARTBEAT_TOPIC"),
			QoS:            viper.GetInt("MQTT_QOS"),
			Enabled:        viper.GetBool("MQTT_ENABLED"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		Ingest: IngestConfig{
			WorkerCount:  viper.GetInt("INGEST_WORKER_COUNT"),
			BufferSize:   viper.GetInt("INGEST_BUFFER_SIZE"),
			BatchSize:    viper.GetInt("INGEST_BATCH_SIZE"),
			BatchTimeout: viper.GetDuration("INGEST_BATCH_TIMEOUT"),
			WriteTimeout: viper.GetDuration("INGEST_WRITE_TIMEOUT"),
		},
		Telemetry: TelemetryConfig{
			FreshnessWindow: time.Duration(viper.GetInt("TELEMETRY_FRESHNESS_MINUTES")) * time.Minute,
		},
		Geofence: GeofenceConfig{
			CacheTTL: viper.GetDuration("GEOFENCE_CACHE_TTL"),
			StateTTL: viper.GetDuration("GEOFENCE_STATE_TTL"),
		},
		Alerting: AlertingConfig{
			LowMax:    time.Duration(viper.GetInt("ALERT_BAND_LOW_MAX_MINUTES")) * time.Minute,
			MediumMax: time.Duration(viper.GetInt("ALERT_BAND_MEDIUM_MAX_MINUTES")) * time.Minute,
			HighMax:   time.Duration(viper.GetInt("ALERT_BAND_HIGH_MAX_MINUTES")) * time.Minute,
			StateTTL:  viper.GetDuration("ALERT_STATE_TTL"),
		},
		Quality: QualityConfig{
			RunAt:             viper.GetString("QUALITY_RUN_AT"),
			ReportIntervalSec: viper.GetInt("QUALITY_REPORT_INTERVAL_SEC"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("INGEST_WORKER_COUNT", 8)
	viper.SetDefault("INGEST_BUFFER_SIZE", 1024)
	viper.SetDefault("INGEST_BATCH_SIZE", 200)
	viper.SetDefault("INGEST_BATCH_TIMEOUT", "5s")
	viper.SetDefault("INGEST_WRITE_TIMEOUT", "30s")
	viper.SetDefault("TELEMETRY_FRESHNESS_MINUTES", 30)
	viper.SetDefault("GEOFENCE_CACHE_TTL", "1m")
	viper.SetDefault("GEOFENCE_STATE_TTL", "168h")
	viper.SetDefault("ALERT_BAND_LOW_MAX_MINUTES", 5)
	viper.SetDefault("ALERT_BAND_MEDIUM_MAX_MINUTES", 15)
	viper.SetDefault("ALERT_BAND_HIGH_MAX_MINUTES", 30)
	viper.SetDefault("ALERT_STATE_TTL", "168h")
	viper.SetDefault("QUALITY_RUN_AT", "00:05")
	viper.SetDefault("QUALITY_REPORT_INTERVAL_SEC", 60)
	viper.SetDefault("MQTT_QOS", 1)
	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 50.0)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 100)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
