package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	StatusPolicyStrict     = "strict"
	StatusPolicyPermissive = "permissive"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Identity  IdentityConfig
	Redis     RedisConfig
	Workflow  WorkflowConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
	LogFormat   string
}

type DatabaseConfig struct {
	Driver     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
	SlowQueryThreshold    time.Duration

	MigrationsDir string
	RunSeeders    bool
}

type IdentityConfig struct {
	TokenSecret string
	TokenIssuer string
	SyncSecret  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type WorkflowConfig struct {
	StatusPolicy string
}

type RateLimitConfig struct {
	RPS   int
	Burst int
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string) time.Duration {
		raw := opt(key)
		if raw == "" {
			return 0
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return 0
		}
		return d
	}
	optBool := func(key string) bool {
		raw := opt(key)
		if raw == "" {
			return false
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogLevel:    strings.ToLower(opt("LOG_LEVEL")),
		LogFormat:   strings.ToLower(opt("LOG_FORMAT")),
	}
	if cfg.App.LogFormat != "" && cfg.App.LogFormat != "json" && cfg.App.LogFormat != "text" {
		invalid = append(invalid, "LOG_FORMAT")
	}

	driver := strings.ToLower(opt("DB_DRIVER"))
	if driver == "" {
		driver = DriverPostgres
	}
	if driver != DriverPostgres && driver != DriverMemory {
		invalid = append(invalid, "DB_DRIVER")
	}

	cfg.Database = DatabaseConfig{
		Driver:                driver,
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
		SlowQueryThreshold:    optDuration("DB_SLOW_QUERY_THRESHOLD"),
		MigrationsDir:         opt("DB_MIGRATIONS_DIR"),
		RunSeeders:            optBool("DB_RUN_SEEDERS"),
	}
	if driver == DriverPostgres {
		for _, key := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER"} {
			req(key)
		}
		if cfg.Database.DBSSLMode == "" {
			cfg.Database.DBSSLMode = "disable"
		}
	}

	cfg.Identity = IdentityConfig{
		TokenSecret: req("IDENTITY_TOKEN_SECRET"),
		TokenIssuer: opt("IDENTITY_TOKEN_ISSUER"),
		SyncSecret:  req("IDENTITY_SYNC_SECRET"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      time.Duration(optInt("REDIS_TTL", 600)) * time.Second,
	}

	policy := strings.ToLower(opt("APPLICATION_STATUS_POLICY"))
	if policy == "" {
		policy = StatusPolicyStrict
	}
	if policy != StatusPolicyStrict && policy != StatusPolicyPermissive {
		invalid = append(invalid, "APPLICATION_STATUS_POLICY")
	}
	cfg.Workflow = WorkflowConfig{StatusPolicy: policy}

	cfg.RateLimit = RateLimitConfig{
		RPS:   optInt("RATE_LIMIT_RPS", 10),
		Burst: optInt("RATE_LIMIT_BURST", 20),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis host was configured.
func (c RedisConfig) RedisEnabled() bool {
	return strings.TrimSpace(c.Host) != ""
}
