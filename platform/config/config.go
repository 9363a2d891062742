// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net/http"
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

// CookieConfig provides settings for refresh token cookies.
type CookieConfig interface {
	GetRefreshCookieName() string
	GetRefreshCookieDomain() string
	GetRefreshCookiePath() string
	GetRefreshCookieSecure() bool
	GetRefreshCookieSameSite() http.SameSite
	GetRefreshTokenTTL() time.Duration
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetEmailProvider() string
	GetBrevoAPIKey() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
}

// AppURLConfig provides the public frontend base URL used in links and CTAs.
type AppURLConfig interface {
	GetAppBaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketVideos() string
	GetMinioBucketLogos() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for the asynq worker and periodic jobs.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetDigestCron() string
	GetReminderCron() string
	GetCleanupCron() string
}

// RateLimitConfig provides settings for the Redis-backed rate limiter.
type RateLimitConfig interface {
	GetRedisURL() string
	GetPublicRateLimitPerMinute() int
	GetAuthRateLimitPerMinute() int
}

// TranscriptionConfig provides settings for the Gemini transcription client.
type TranscriptionConfig interface {
	GetGeminiAPIKey() string
	GetTranscriptionModel() string
	IsTranscriptionEnabled() bool
}

// BillingConfig provides settings for the payment webhook.
type BillingConfig interface {
	GetPaymentWebhookSecret() string
}

// UnsubscribeConfig provides the signing secret for unsubscribe links.
type UnsubscribeConfig interface {
	GetUnsubscribeSecret() string
}

// ReminderConfig provides settings for contact reminder emails.
type ReminderConfig interface {
	GetReminderAfter() time.Duration
	GetReminderMaxCount() int
}

// RetentionConfig provides retention windows for the cleanup job.
type RetentionConfig interface {
	GetFailedVideoRetention() time.Duration
	GetPaymentEventRetention() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	JWTAccessSecret          string
	AccessTokenTTL           time.Duration
	RefreshTokenTTL          time.Duration
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	AppBaseURL               string
	EmailEnabled             bool
	EmailProvider            string
	BrevoAPIKey              string
	EmailFromName            string
	EmailFromAddress         string
	SMTPHost                 string
	SMTPPort                 int
	SMTPUsername             string
	SMTPPassword             string
	RefreshCookieName        string
	RefreshCookieDomain      string
	RefreshCookiePath        string
	RefreshCookieSecure      bool
	RefreshCookieSameSite    http.SameSite
	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinIOMaxFileSize         int64
	MinioBucketVideos        string
	MinioBucketLogos         string
	RedisURL                 string
	RedisTLSInsecure         bool
	AsynqQueueName           string
	AsynqConcurrency         int
	DigestCron               string
	ReminderCron             string
	CleanupCron              string
	PublicRateLimitPerMinute int
	AuthRateLimitPerMinute   int
	GeminiAPIKey             string
	TranscriptionModel       string
	PaymentWebhookSecret     string
	UnsubscribeSecret        string
	ReminderAfter            time.Duration
	ReminderMaxCount         int
	FailedVideoRetention     time.Duration
	PaymentEventRetention    time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }

// CookieConfig implementation
func (c *Config) GetRefreshCookieName() string            { return c.RefreshCookieName }
func (c *Config) GetRefreshCookieDomain() string          { return c.RefreshCookieDomain }
func (c *Config) GetRefreshCookiePath() string            { return c.RefreshCookiePath }
func (c *Config) GetRefreshCookieSecure() bool            { return c.RefreshCookieSecure }
func (c *Config) GetRefreshCookieSameSite() http.SameSite { return c.RefreshCookieSameSite }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetEmailProvider() string    { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }

// AppURLConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string     { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string    { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string    { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool         { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64   { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketVideos() string { return c.MinioBucketVideos }
func (c *Config) GetMinioBucketLogos() string  { return c.MinioBucketLogos }
func (c *Config) IsMinIOEnabled() bool         { return c.MinIOEndpoint != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) GetDigestCron() string     { return c.DigestCron }
func (c *Config) GetReminderCron() string   { return c.ReminderCron }
func (c *Config) GetCleanupCron() string    { return c.CleanupCron }

// RateLimitConfig implementation
func (c *Config) GetPublicRateLimitPerMinute() int { return c.PublicRateLimitPerMinute }
func (c *Config) GetAuthRateLimitPerMinute() int   { return c.AuthRateLimitPerMinute }

// TranscriptionConfig implementation
func (c *Config) GetGeminiAPIKey() string       { return c.GeminiAPIKey }
func (c *Config) GetTranscriptionModel() string { return c.TranscriptionModel }
func (c *Config) IsTranscriptionEnabled() bool  { return c.GeminiAPIKey != "" }

// BillingConfig implementation
func (c *Config) GetPaymentWebhookSecret() string { return c.PaymentWebhookSecret }

// UnsubscribeConfig implementation
func (c *Config) GetUnsubscribeSecret() string { return c.UnsubscribeSecret }

// ReminderConfig implementation
func (c *Config) GetReminderAfter() time.Duration { return c.ReminderAfter }
func (c *Config) GetReminderMaxCount() int        { return c.ReminderMaxCount }

// RetentionConfig implementation
func (c *Config) GetFailedVideoRetention() time.Duration  { return c.FailedVideoRetention }
func (c *Config) GetPaymentEventRetention() time.Duration { return c.PaymentEventRetention }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")
	emailProvider := strings.ToLower(getEnv("EMAIL_PROVIDER", "brevo"))

	refreshCookieSecure := strings.EqualFold(getEnv("REFRESH_COOKIE_SECURE", ""), "true")
	if getEnv("REFRESH_COOKIE_SECURE", "") == "" {
		refreshCookieSecure = strings.EqualFold(getEnv("APP_ENV", "development"), "production")
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTAccessSecret:          getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:           mustDuration(getEnv("JWT_ACCESS_TTL", "15m")),
		RefreshTokenTTL:          mustDuration(getEnv("JWT_REFRESH_TTL", "720h")),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AppBaseURL:               getEnv("APP_BASE_URL", "http://localhost:5173"),
		EmailEnabled:             emailEnabled,
		EmailProvider:            emailProvider,
		BrevoAPIKey:              getEnv("BREVO_API_KEY", ""),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Testimonials"),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", ""),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		RefreshCookieName:        getEnv("REFRESH_COOKIE_NAME", "testimonials_refresh"),
		RefreshCookieDomain:      getEnv("REFRESH_COOKIE_DOMAIN", ""),
		RefreshCookiePath:        getEnv("REFRESH_COOKIE_PATH", "/api/v1/auth"),
		RefreshCookieSecure:      refreshCookieSecure,
		RefreshCookieSameSite:    parseSameSite(getEnv("REFRESH_COOKIE_SAMESITE", "Lax")),
		MinIOEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:         mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "524288000")),
		MinioBucketVideos:        getEnv("MINIO_BUCKET_VIDEOS", "testimonial-videos"),
		MinioBucketLogos:         getEnv("MINIO_BUCKET_LOGOS", "organization-logos"),
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisTLSInsecure:         strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		DigestCron:               getEnv("DIGEST_CRON", "0 8 * * 1"),
		ReminderCron:             getEnv("REMINDER_CRON", "0 9 * * *"),
		CleanupCron:              getEnv("CLEANUP_CRON", "0 3 * * *"),
		PublicRateLimitPerMinute: mustInt(getEnv("PUBLIC_RATE_LIMIT_PER_MINUTE", "20")),
		AuthRateLimitPerMinute:   mustInt(getEnv("AUTH_RATE_LIMIT_PER_MINUTE", "5")),
		GeminiAPIKey:             getEnv("GEMINI_API_KEY", ""),
		TranscriptionModel:       getEnv("TRANSCRIPTION_MODEL", "gemini-2.5-flash"),
		PaymentWebhookSecret:     getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		UnsubscribeSecret:        getEnv("UNSUBSCRIBE_SECRET", ""),
		ReminderAfter:            mustDuration(getEnv("REMINDER_AFTER", "72h")),
		ReminderMaxCount:         mustInt(getEnv("REMINDER_MAX_COUNT", "2")),
		FailedVideoRetention:     mustDuration(getEnv("FAILED_VIDEO_RETENTION", "720h")),
		PaymentEventRetention:    mustDuration(getEnv("PAYMENT_EVENT_RETENTION", "2160h")),
	}

	if cfg.UnsubscribeSecret == "" {
		cfg.UnsubscribeSecret = cfg.JWTAccessSecret
	}
	if cfg.EmailEnabled && cfg.EmailProvider == "brevo" && cfg.BrevoAPIKey == "" {
		cfg.EmailEnabled = false
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.EmailEnabled && cfg.EmailProvider == "smtp" && cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER is smtp")
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
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
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

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
