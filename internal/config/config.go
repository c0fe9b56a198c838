package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN builds the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Config stark-security (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}

	// DevMode enables the trusted-header identity shortcut (X-User/X-Role).
	// Lab-only: never enable this in a deployment that faces real clients.
	DevMode bool

	DBEnabled bool
	Database  DatabaseConfig

	Redis struct {
		Enabled     bool
		Addr        string
		Password    string
		DB          int
		AlertStream string
	}

	MQTT struct {
		Enabled    bool
		Broker     string
		ClientID   string
		Username   string
		Password   string
		AlertTopic string
	}

	Webhook struct {
		Enabled        bool
		URL            string
		TimeoutSeconds int
	}

	Dispatch struct {
		Workers   int
		QueueSize int
	}

	Log struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.DevMode = getEnv("DEV_MODE", "false") == "true"

	// Default to true for local dev: if DB is unavailable, stark-security
	// falls back to in-memory repositories.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "starksec")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)
	cfg.Redis.AlertStream = getEnv("REDIS_ALERT_STREAM", "security:alerts")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "stark-security")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.AlertTopic = getEnv("MQTT_ALERT_TOPIC", "security/alerts")

	cfg.Webhook.Enabled = getEnv("WEBHOOK_ENABLED", "false") == "true"
	cfg.Webhook.URL = getEnv("WEBHOOK_URL", "")
	cfg.Webhook.TimeoutSeconds = parseInt(getEnv("WEBHOOK_TIMEOUT_SECONDS", "10"), 10)

	cfg.Dispatch.Workers = parseInt(getEnv("DISPATCH_WORKERS", "10"), 10)
	cfg.Dispatch.QueueSize = parseInt(getEnv("DISPATCH_QUEUE_SIZE", "500"), 500)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
