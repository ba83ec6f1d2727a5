package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Token    TokenConfig
	Server   ServerConfig
	Auth     AuthConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds the optional token-revocation store settings. An empty
// Addr disables revocation entirely.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

func (c *RedisConfig) Enabled() bool { return c.Addr != "" }

// TokenConfig holds token issuance settings. The secret is the single
// shared value known to the issuing and validating sides.
type TokenConfig struct {
	Secret string //nolint:gosec // G117: token signing secret config
	TTL    time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// AuthConfig holds identity-resolution settings. AllowIdentityParam enables
// the legacy unauthenticated user_id request parameter as an identity
// fallback; it is off by default and should stay off outside development.
type AuthConfig struct {
	AllowIdentityParam bool
}

// Load reads configuration from environment variables. Defaults are safe
// for local development only; the token secret must always be set.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("CASHBOOK_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("CASHBOOK_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("CASHBOOK_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	tokenTTL, err := getEnvDuration("CASHBOOK_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("CASHBOOK_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("CASHBOOK_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	allowIdentityParam, err := getEnvBool("CASHBOOK_ALLOW_IDENTITY_PARAM", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("CASHBOOK_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("CASHBOOK_DB_USER", "cashbook"),
			Password: getEnv("CASHBOOK_DB_PASSWORD", ""),
			DBName:   getEnv("CASHBOOK_DB_NAME", "cashbook_dev"),
			SSLMode:  getEnv("CASHBOOK_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("CASHBOOK_REDIS_ADDR", ""),
			Password: getEnv("CASHBOOK_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Token: TokenConfig{
			Secret: getEnv("CASHBOOK_TOKEN_SECRET", ""),
			TTL:    tokenTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("CASHBOOK_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  getEnvList("CASHBOOK_CORS_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			AllowIdentityParam: allowIdentityParam,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// Token secret is required (no insecure default).
	if c.Token.Secret == "" {
		return errors.New("CASHBOOK_TOKEN_SECRET is required")
	}
	if len(c.Token.Secret) < 32 {
		return errors.New("CASHBOOK_TOKEN_SECRET must be at least 32 characters")
	}

	if c.Auth.AllowIdentityParam {
		log.Warn().Msg("CASHBOOK_ALLOW_IDENTITY_PARAM=true accepts unauthenticated client-asserted identities; do not enable in production")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("CASHBOOK_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("CASHBOOK_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Token.TTL <= 0 {
		return fmt.Errorf("CASHBOOK_TOKEN_TTL must be positive, got %s", c.Token.TTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("CASHBOOK_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("CASHBOOK_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
