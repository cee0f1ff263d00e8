// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
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

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// SiteConfig provides the public marketing site settings used by the
// share-link builder.
type SiteConfig interface {
	GetSiteOrigin() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// RedisConfig provides settings for the Redis render cache.
type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetCollageCacheTTL() time.Duration
	IsRedisEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketFlyers() string
	GetMinioBucketCollages() string
	IsMinIOEnabled() bool
}

// SMTPConfig provides settings for flyer email delivery.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// BrandingConfig locates the optional branding profile file.
type BrandingConfig interface {
	GetBrandingFile() string
}

// RenderConfig provides tuning knobs for the render pipeline.
type RenderConfig interface {
	GetImageFetchTimeout() time.Duration
	GetCollageJPEGQuality() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	SiteOrigin          string
	JWTAccessSecret     string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	DatabaseURL         string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	CollageCacheTTL     time.Duration
	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinioBucketFlyers   string
	MinioBucketCollages string
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	EmailFromName       string
	EmailFromAddress    string
	BrandingFile        string
	ImageFetchTimeout   time.Duration
	CollageJPEGQuality  int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// SiteConfig implementation
func (c *Config) GetSiteOrigin() string { return c.SiteOrigin }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

// RedisConfig implementation
func (c *Config) GetRedisAddr() string              { return c.RedisAddr }
func (c *Config) GetRedisPassword() string          { return c.RedisPassword }
func (c *Config) GetRedisDB() int                   { return c.RedisDB }
func (c *Config) GetCollageCacheTTL() time.Duration { return c.CollageCacheTTL }
func (c *Config) IsRedisEnabled() bool              { return c.RedisAddr != "" }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string       { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string      { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string      { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool           { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketFlyers() string   { return c.MinioBucketFlyers }
func (c *Config) GetMinioBucketCollages() string { return c.MinioBucketCollages }
func (c *Config) IsMinIOEnabled() bool           { return c.MinIOEndpoint != "" }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.EmailFromAddress != ""
}

// BrandingConfig implementation
func (c *Config) GetBrandingFile() string { return c.BrandingFile }

// RenderConfig implementation
func (c *Config) GetImageFetchTimeout() time.Duration { return c.ImageFetchTimeout }
func (c *Config) GetCollageJPEGQuality() int          { return c.CollageJPEGQuality }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		SiteOrigin:          strings.TrimRight(getEnv("SITE_ORIGIN", ""), "/"),
		JWTAccessSecret:     getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             mustInt(getEnv("REDIS_DB", "0")),
		CollageCacheTTL:     mustDuration(getEnv("COLLAGE_CACHE_TTL", "1h")),
		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:         strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketFlyers:   getEnv("MINIO_BUCKET_FLYERS", "broadcast-flyers"),
		MinioBucketCollages: getEnv("MINIO_BUCKET_COLLAGES", "broadcast-collages"),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Deal Desk"),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		BrandingFile:        getEnv("BRANDING_FILE", ""),
		ImageFetchTimeout:   mustDuration(getEnv("IMAGE_FETCH_TIMEOUT", "10s")),
		CollageJPEGQuality:  mustInt(getEnv("COLLAGE_JPEG_QUALITY", "90")),
	}

	if cfg.SiteOrigin == "" {
		return nil, fmt.Errorf("SITE_ORIGIN is required")
	}
	if parsed, err := url.Parse(cfg.SiteOrigin); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("SITE_ORIGIN must be an absolute URL, got %q", cfg.SiteOrigin)
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CollageJPEGQuality < 1 || cfg.CollageJPEGQuality > 100 {
		return nil, fmt.Errorf("COLLAGE_JPEG_QUALITY must be between 1 and 100")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
