package config_test

import (
	"testing"
	"time"

	"kanboard/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORAGE", "JWT_EXPIRY_HOURS", "REDIS_ADDR", "SEED_SAMPLE_DATA", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("STORAGE", "memory")
	t.Setenv("JWT_EXPIRY_HOURS", "24")
	t.Setenv("SEED_SAMPLE_DATA", "true")

	cfg := config.Load()

	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry())
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SeedSampleData)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "kanban")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_NAME", "boards")
	t.Setenv("JWT_EXPIRY_HOURS", "not-a-number")
	t.Setenv("SEED_SAMPLE_DATA", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example.com, http://b.example.com,")

	cfg := config.Load()

	assert.Equal(t, config.StoragePostgres, cfg.Storage)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.False(t, cfg.SeedSampleData)
	assert.Equal(t, []string{"http://a.example.com", "http://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "host=db port=5432 user=kanban password=p@ss dbname=boards sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://kanban:p%40ss@db:5432/boards?sslmode=disable", cfg.DatabaseURL())
}
