package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"
)

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// http
	CorsAllowedOrigins             []string `toml:"cors_allowed_origins"`
	LoginRateLimitAllowedPerMin    int      `toml:"login_rate_limit_allowed_per_min"`
	EvaluateRateLimitAllowedPerMin int      `toml:"evaluate_rate_limit_allowed_per_min"`

	Inference Inference `toml:"inference"`
	Scheduler Scheduler `toml:"scheduler"`

	// seconds a background evaluation is allowed to run
	EvaluationTimeoutSeconds int `toml:"evaluation_timeout_seconds"`
}

type Inference struct {
	APIURL          string `toml:"api_url"`
	Model           string `toml:"model"`
	FallbackModel   string `toml:"fallback_model"`
	Referer         string `toml:"referer"`
	Title           string `toml:"title"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	CacheSizeMB     int    `toml:"cache_size_mb"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
}

type Scheduler struct {
	Enabled                bool   `toml:"enabled"`
	PlansRegenerationCron  string `toml:"plans_regeneration_cron"`
	SessionsCleanupMinutes int    `toml:"sessions_cleanup_minutes"`
}

func (i Inference) Timeout() time.Duration {
	if i.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(i.TimeoutSeconds) * time.Second
}

func (i Inference) CacheTTL() time.Duration {
	return time.Duration(i.CacheTTLSeconds) * time.Second
}

func (c *Config) EvaluationTimeout() time.Duration {
	if c.EvaluationTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.EvaluationTimeoutSeconds) * time.Second
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
	Docker      *Config `toml:"docker"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev", "docker":
		cfg = t.Docker
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the config section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return t.Get(env)
}

// Secrets are never kept in the config file.
type Secrets struct {
	InferenceAPIKey  string `env:"INFERENCE_API_KEY"`
	RedisPassword    string `env:"REDIS_PASS"`
	PostgresPassword string `env:"POSTGRES_PASS"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED,default=false"`
	AdminSecret      string `env:"FITPROGRESS_ADMIN_SECRET"`
}

func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := envdecode.Decode(&s); err != nil {
		// envdecode refuses structs where nothing was set, which is fine locally
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return &s, nil
		}
		return nil, fmt.Errorf("decode secrets: %w", err)
	}
	return &s, nil
}
