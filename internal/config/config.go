package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Profile string

	HTTPAddr                     string
	HTTPReadHeaderTimeout        time.Duration
	HTTPReadTimeout              time.Duration
	HTTPWriteTimeout             time.Duration
	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration

	DatabaseURL string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisDialTimeout time.Duration
	RedisOpTimeout   time.Duration

	JWTIssuer        string
	JWTAudience      string
	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration

	LoginMaxFailures int
	LoginAttemptTTL  time.Duration
	LoginLockoutTTL  time.Duration

	AuthRateLimitRPM int
	APIRateLimitRPM  int

	OTELServiceName           string
	OTELEnvironment           string
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELMetricsEnabled        bool
	OTELTracesEnabled         bool
	OTELLogsEnabled           bool
	OTELMetricsExportInterval time.Duration
}

func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{
		Profile: getEnv("APP_PROFILE", "dev"),

		HTTPAddr:                     getEnv("HTTP_ADDR", ":8080"),
		HTTPReadHeaderTimeout:        5 * time.Second,
		ShutdownTimeout:              20 * time.Second,
		ShutdownHTTPDrainTimeout:     10 * time.Second,
		ShutdownObservabilityTimeout: 5 * time.Second,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTIssuer:        getEnv("JWT_ISSUER", "airline-backoffice"),
		JWTAudience:      getEnv("JWT_AUDIENCE", "airline-backoffice"),
		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),

		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "airline-backoffice"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", "dev"),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	var err error
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 15*time.Second); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.RedisDialTimeout, err = getDuration("REDIS_DIAL_TIMEOUT", 3*time.Second); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.RedisOpTimeout, err = getDuration("REDIS_OP_TIMEOUT", 2*time.Second); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.JWTAccessTTL, err = getDuration("JWT_ACCESS_TTL", 15*time.Minute); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.JWTRefreshTTL, err = getDuration("JWT_REFRESH_TTL", 720*time.Hour); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.LoginMaxFailures, err = getInt("LOGIN_MAX_FAILURES", 3); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.LoginAttemptTTL, err = getDuration("LOGIN_ATTEMPT_TTL", time.Hour); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.LoginLockoutTTL, err = getDuration("LOGIN_LOCKOUT_TTL", 5*time.Minute); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.AuthRateLimitRPM, err = getInt("AUTH_RATE_LIMIT_RPM", 30); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.APIRateLimitRPM, err = getInt("API_RATE_LIMIT_RPM", 600); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.OTELExporterOTLPInsecure, err = getBool("OTEL_EXPORTER_OTLP_INSECURE", true); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.OTELMetricsEnabled, err = getBool("OTEL_METRICS_ENABLED", false); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.OTELTracesEnabled, err = getBool("OTEL_TRACES_ENABLED", false); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.OTELLogsEnabled, err = getBool("OTEL_LOGS_ENABLED", false); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	if cfg.OTELMetricsExportInterval, err = getDuration("OTEL_METRICS_EXPORT_INTERVAL", 30*time.Second); err != nil {
		return fail(ctx, cfg.Profile, err)
	}

	if err := cfg.validate(); err != nil {
		return fail(ctx, cfg.Profile, err)
	}
	recordConfigValidationEvent(ctx, cfg.Profile, "success", "none")
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTAccessSecret == "" {
		missing = append(missing, "JWT_ACCESS_SECRET")
	}
	if c.JWTRefreshSecret == "" {
		missing = append(missing, "JWT_REFRESH_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("validate config: %s is required", strings.Join(missing, ", "))
	}
	if c.LoginMaxFailures < 1 {
		return fmt.Errorf("validate config: LOGIN_MAX_FAILURES must be positive")
	}
	if c.LoginAttemptTTL <= 0 || c.LoginLockoutTTL <= 0 {
		return fmt.Errorf("validate config: login guard TTLs must be positive")
	}
	return nil
}

func fail(ctx context.Context, profile string, err error) (*Config, error) {
	recordConfigValidationEvent(ctx, profile, "error", classifyConfigLoadError(err))
	return nil, err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
