package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
	StoreDriverLevelDB  = "leveldb"
)

// ErrMissingJWTSecret is returned by Load when AUTH_JWT_SECRET is not set.
var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET is required")

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	LevelDB  LevelDBConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Operator OperatorConfig
	Realtime RealtimeConfig
	Metrics  MetricsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	ServerID              string
	RequestTimeoutSeconds int
	// FailFast makes the process exit after a recovered panic.
	FailFast bool
}

// StoreConfig selects the Domain Store backend.
type StoreConfig struct {
	Driver string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	URL       string
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LevelDBConfig points at the embedded database directory.
type LevelDBConfig struct {
	Path string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level         string
	File          string
	FileMaxSizeMB int
	FileMaxBackup int
	FileMaxAgeDay int
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
	BcryptCost    int
}

// OperatorConfig is the fixed operator account checked before stored accounts.
// The values are read once at start; rotating them requires a restart.
type OperatorConfig struct {
	ID        string
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// RealtimeConfig configures the WebSocket endpoint.
type RealtimeConfig struct {
	Path                string
	WriteTimeoutSeconds int
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
	Path      string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "secops-service"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			ServerID:              os.Getenv("APP_SERVER_ID"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			FailFast:              getEnvAsBool("APP_FAIL_FAST", strings.EqualFold(env, "production")),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory)),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			URL:       os.Getenv("REDIS_URL"),
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "secops"),
		},
		LevelDB: LevelDBConfig{
			Path: getEnv("LEVELDB_PATH", "data/secops.ldb"),
		},
		Logger: LoggerConfig{
			Level:         getEnv("LOG_LEVEL", "info"),
			File:          os.Getenv("LOG_FILE"),
			FileMaxSizeMB: getEnvAsInt("LOG_FILE_MAX_SIZE_MB", 100),
			FileMaxBackup: getEnvAsInt("LOG_FILE_MAX_BACKUPS", 5),
			FileMaxAgeDay: getEnvAsInt("LOG_FILE_MAX_AGE_DAYS", 28),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
			TokenTTLHours: getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 168),
			BcryptCost:    getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Operator: OperatorConfig{
			ID:        getEnv("OPERATOR_ID", "operator"),
			Username:  getEnv("OPERATOR_USERNAME", "admin"),
			Password:  getEnv("OPERATOR_PASSWORD", "admin123"),
			Email:     getEnv("OPERATOR_EMAIL", "admin@secops.local"),
			FirstName: getEnv("OPERATOR_FIRST_NAME", "System"),
			LastName:  getEnv("OPERATOR_LAST_NAME", "Operator"),
			Role:      getEnv("OPERATOR_ROLE", "admin"),
		},
		Realtime: RealtimeConfig{
			Path:                getEnv("REALTIME_PATH", "/ws"),
			WriteTimeoutSeconds: getEnvAsInt("REALTIME_WRITE_TIMEOUT_SECONDS", 5),
		},
		Metrics: MetricsConfig{
			Enabled:   getEnvAsBool("METRICS_ENABLED", true),
			Namespace: getEnv("METRICS_NAMESPACE", "secops"),
			Path:      getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration errors that must stop the process at start.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverRedis, StoreDriverLevelDB:
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether the service runs with production semantics.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the validity window of issued session tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// WriteTimeout bounds a single WebSocket write.
func (r RealtimeConfig) WriteTimeout() time.Duration {
	if r.WriteTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.WriteTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
