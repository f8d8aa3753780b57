package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
host = "localhost"
port = 9000
environment = "development"
log_level = "trace"
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fitprogress"
redis_host = "localhost"
redis_port = "6379"
cors_allowed_origins = ["http://localhost:4200"]
login_rate_limit_allowed_per_min = 5
evaluate_rate_limit_allowed_per_min = 10

[development.inference]
api_url = "http://localhost:8081/v1/chat/completions"
model = "primary-model"
fallback_model = "fallback-model"
timeout_seconds = 12
cache_size_mb = 8
cache_ttl_seconds = 600

[development.scheduler]
enabled = true
plans_regeneration_cron = "0 0 0 * * SUN"

[production]
host = "0.0.0.0"
port = 8080
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testToml), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "fitprogress", cfg.PostgresDBName)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.CorsAllowedOrigins)
	assert.Equal(t, 10, cfg.EvaluateRateLimitAllowedPerMin)
	assert.Equal(t, "primary-model", cfg.Inference.Model)
	assert.Equal(t, "fallback-model", cfg.Inference.FallbackModel)
	assert.Equal(t, 12*time.Second, cfg.Inference.Timeout())
	assert.Equal(t, 10*time.Minute, cfg.Inference.CacheTTL())
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 0 0 * * SUN", cfg.Scheduler.PlansRegenerationCron)
	// unset -> default
	assert.Equal(t, 2*time.Minute, cfg.EvaluationTimeout())

	prodCfg, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, 8080, prodCfg.Port)
	assert.Equal(t, 30*time.Second, prodCfg.Inference.Timeout())
}

func TestLoad_Errors(t *testing.T) {
	path := writeTestConfig(t)

	_, err := Load("staging", path)
	assert.ErrorContains(t, err, "unknown env")

	// docker section not present in file
	_, err = Load("dockerdev", path)
	assert.ErrorContains(t, err, "missing")

	_, err = Load("dev", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("INFERENCE_API_KEY", "sk-test")
	t.Setenv("REDIS_PASS", "redis-pass")
	t.Setenv("HONEYCOMB_ENABLED", "true")

	s, err := LoadSecrets()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", s.InferenceAPIKey)
	assert.Equal(t, "redis-pass", s.RedisPassword)
	assert.True(t, s.HoneycombEnabled)
}
