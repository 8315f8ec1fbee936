package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	SessionExpiry time.Duration
	OTPExpiry     time.Duration
	StateSecret   string // signs the OAuth state parameter
	AdminEmail    string // the single account allowed to hold the admin role

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: Cloudflare R2, MinIO, AWS S3, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services (R2, MinIO)
	S3PublicURL string // Optional: public base URL in front of the bucket (CDN/custom domain)
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Aing Meong Shop"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL for OAuth redirects
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/shop.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		SessionExpiry: envDuration("SESSION_EXPIRY", 30*24*time.Hour), // 30 days
		OTPExpiry:     envDuration("OTP_EXPIRY", 10*time.Minute),      // 10 minutes
		StateSecret:   envRequired("STATE_SECRET"),
		AdminEmail:    envString("ADMIN_EMAIL", "aingmeongshop@gmail.com"),

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@aingmeong.shop"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage (S3-compatible - required for product image uploads)
		S3Region:    envString("S3_REGION", "auto"),
		S3Bucket:    envRequired("S3_BUCKET"),
		S3AccessKey: envRequired("S3_ACCESS_KEY"),
		S3SecretKey: envRequired("S3_SECRET_KEY"),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures required services are configured for production
// deployments. Development allows email to fall back to log mode for local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets and credentials are excluded. Safe to place in request context.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		EmailFrom:  c.EmailFrom,
		AdminEmail: c.AdminEmail,

		GoogleClientID: c.GoogleClientID,

		S3Endpoint:  c.S3Endpoint,
		S3PublicURL: c.S3PublicURL,
	}
}
