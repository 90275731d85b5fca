package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "aieta", cfg.MongoDB)
	assert.Equal(t, "us-central1", cfg.GCPLocation)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, "reports", cfg.ReportsDir)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.TTSCacheTTL)
	assert.Equal(t, 2, cfg.PreprocessWorkers)
	assert.False(t, cfg.CodeRunnerEnabled)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRedisFallbacks(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URI", "")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://cache:6379/0", cfg.RedisAddr)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.AllowedOrigins)
}
