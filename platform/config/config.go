// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

// RedisConfig provides settings for the Redis-backed session store.
type RedisConfig interface {
	GetRedisURL() string
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// MinIOConfig provides settings for MinIO S3-compatible document storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketLeadDocuments() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Config
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTAccessSecret string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	RedisURL         string
	AsynqQueueName   string
	AsynqConcurrency int

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinIOMaxFileSize         int64
	MinioBucketLeadDocuments string
}

// Load reads configuration from the environment, with .env support for
// development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTAccessSecret:          getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:           mustDuration(getEnv("JWT_ACCESS_TTL", "15m")),
		RefreshTokenTTL:          mustDuration(getEnv("REFRESH_TOKEN_TTL", "720h")),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:                 getEnv("REDIS_URL", ""),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		EmailEnabled:             strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true"),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Anchor CRM"),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", ""),
		MinIOEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:         mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "52428800")),
		MinioBucketLeadDocuments: getEnv("MINIO_BUCKET_LEAD_DOCUMENTS", "lead-documents"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && (cfg.SMTPHost == "" || cfg.EmailFromAddress == "") {
		return nil, fmt.Errorf("SMTP_HOST and EMAIL_FROM_ADDRESS are required when EMAIL_ENABLED is true")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string            { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string        { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }

func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetMinIOEndpoint() string            { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string           { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string           { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool                { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64          { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketLeadDocuments() string { return c.MinioBucketLeadDocuments }
func (c *Config) IsMinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustInt64(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
