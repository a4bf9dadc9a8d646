package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Throttle ThrottleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	Prefork               bool
	RequestTimeoutSeconds int
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	Host              string
	Username          string
	Password          string
	Database          string
	ConnectTimeoutSec int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. The admin account is the
// single privileged principal; its credentials are the root of trust for
// token signatures.
type AuthConfig struct {
	AdminUsername         string
	AdminPassword         string
	AdminPasswordHash     string
	JWTSecret             string
	AccessTokenTTLMinutes int
	MaxTokenTTLMinutes    int
}

// ThrottleConfig bounds failed login attempts against /token.
type ThrottleConfig struct {
	MaxAttempts   int
	WindowSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "stats-storage-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			Prefork:               getEnvAsBool("APP_PREFORK", false),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Mongo: MongoConfig{
			Host:              getEnv("MONGO_HOST", "localhost:27017"),
			Username:          os.Getenv("MONGO_USERNAME"),
			Password:          os.Getenv("MONGO_PASSWORD"),
			Database:          getEnv("MONGO_DATABASE", "freva-stats"),
			ConnectTimeoutSec: getEnvAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AdminUsername:         getEnv("API_USERNAME", "stats"),
			AdminPassword:         os.Getenv("API_PASSWORD"),
			AdminPasswordHash:     os.Getenv("API_PASSWORD_HASH"),
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 30),
			MaxTokenTTLMinutes:    getEnvAsInt("AUTH_MAX_TOKEN_TTL_MINUTES", 1440),
		},
		Throttle: ThrottleConfig{
			MaxAttempts:   getEnvAsInt("THROTTLE_MAX_ATTEMPTS", 10),
			WindowSeconds: getEnvAsInt("THROTTLE_WINDOW_SECONDS", 300),
		},
	}

	if cfg.Auth.AdminPassword == "" && cfg.Auth.AdminPasswordHash == "" {
		return nil, fmt.Errorf("API_PASSWORD or API_PASSWORD_HASH must be set")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// URL composes the mongodb connection string from host and credentials.
func (m MongoConfig) URL() string {
	host := m.Host
	if !strings.Contains(host, ":") {
		host += ":27017"
	}
	if m.Username == "" {
		return fmt.Sprintf("mongodb://%s", host)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s",
		url.QueryEscape(m.Username), url.QueryEscape(m.Password), host)
}

// ConnectTimeout returns the server selection timeout.
func (m MongoConfig) ConnectTimeout() time.Duration {
	if m.ConnectTimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(m.ConnectTimeoutSec) * time.Second
}

// AccessTokenTTL returns the default token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// MaxTokenTTL caps caller-requested token lifetimes.
func (a AuthConfig) MaxTokenTTL() time.Duration {
	if a.MaxTokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.MaxTokenTTLMinutes) * time.Minute
}

// Window returns the throttle window duration.
func (t ThrottleConfig) Window() time.Duration {
	if t.WindowSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(t.WindowSeconds) * time.Second
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
