package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.DevMode)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "starksec", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "security:alerts", cfg.Redis.AlertStream)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "security/alerts", cfg.MQTT.AlertTopic)
	assert.False(t, cfg.Webhook.Enabled)
	assert.Equal(t, 10, cfg.Dispatch.Workers)
	assert.Equal(t, 500, cfg.Dispatch.QueueSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("DISPATCH_WORKERS", "4")
	t.Setenv("DISPATCH_QUEUE_SIZE", "64")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.DevMode)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Dispatch.Workers)
	assert.Equal(t, 64, cfg.Dispatch.QueueSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("DISPATCH_WORKERS", "")

	cfg := Load()
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10, cfg.Dispatch.Workers)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "stark",
		Password: "secret",
		Database: "starksec",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=stark password=secret dbname=starksec sslmode=require",
		c.DSN())
}
