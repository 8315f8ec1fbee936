package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("STATE_SECRET", "test-secret")
	t.Setenv("S3_BUCKET", "shop-images")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, 10*time.Minute, cfg.OTPExpiry)
	assert.Equal(t, "aingmeongshop@gmail.com", cfg.AdminEmail)
	assert.Equal(t, "auto", cfg.S3Region)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_EXPIRY", "24h")
	t.Setenv("OTP_EXPIRY", "5m")
	t.Setenv("ADMIN_EMAIL", "owner@example.com")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, 5*time.Minute, cfg.OTPExpiry)
	assert.Equal(t, "owner@example.com", cfg.AdminEmail)
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OTP_EXPIRY", "not-a-duration")

	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.OTPExpiry)
}

func TestSanitizedStripsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:            "Shop",
		AppEnv:             "production",
		AdminEmail:         "owner@example.com",
		StateSecret:        "secret",
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		ResendAPIKey:       "resend-key",
		S3AccessKey:        "s3-key",
		S3SecretKey:        "s3-secret",
	}

	safe := cfg.Sanitized()

	assert.Equal(t, "Shop", safe.AppName)
	assert.Equal(t, "owner@example.com", safe.AdminEmail)
	assert.Equal(t, "client-id", safe.GoogleClientID)
	assert.Empty(t, safe.StateSecret)
	assert.Empty(t, safe.GoogleClientSecret)
	assert.Empty(t, safe.ResendAPIKey)
	assert.Empty(t, safe.S3AccessKey)
	assert.Empty(t, safe.S3SecretKey)
}
