package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const adminEmail = "aingmeongshop@gmail.com"

func TestUserRole(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isAdmin bool
		want    string
	}{
		{"admin flag and admin email", adminEmail, true, RoleAdmin},
		{"admin flag but wrong email", "other@example.com", true, RoleUser},
		{"admin email but no flag", adminEmail, false, RoleUser},
		{"neither", "other@example.com", false, RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Email: tt.email, IsAdmin: tt.isAdmin}
			assert.Equal(t, tt.want, u.Role(adminEmail))
		})
	}
}

func TestUserRole_EmptyAdminEmail(t *testing.T) {
	// With no admin email configured, nobody resolves to admin, not even a
	// flagged user with an empty email.
	u := &User{Email: "", IsAdmin: true}
	assert.Equal(t, RoleUser, u.Role(""))
}

func TestOTPValid(t *testing.T) {
	now := time.Now()
	code := "123456"
	future := now.Add(5 * time.Minute)
	past := now.Add(-1 * time.Minute)

	tests := []struct {
		name      string
		otpCode   *string
		expiresAt *time.Time
		tryCode   string
		want      bool
	}{
		{"matching code before expiry", &code, &future, "123456", true},
		{"wrong code", &code, &future, "654321", false},
		{"matching code after expiry", &code, &past, "123456", false},
		{"cleared code never matches", nil, nil, "123456", false},
		{"code without expiry", &code, nil, "123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{OTPCode: tt.otpCode, OTPExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, u.OTPValid(tt.tryCode, now))
		})
	}
}

func TestOTPExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-1 * time.Second)
	future := now.Add(1 * time.Second)

	assert.True(t, (&User{OTPExpiresAt: &past}).OTPExpired(now))
	assert.False(t, (&User{OTPExpiresAt: &future}).OTPExpired(now))
	assert.False(t, (&User{}).OTPExpired(now))
}

func TestHasPassword(t *testing.T) {
	hash := "$2a$12$something"
	empty := ""

	assert.True(t, (&User{PasswordHash: &hash}).HasPassword())
	assert.False(t, (&User{PasswordHash: &empty}).HasPassword())
	assert.False(t, (&User{}).HasPassword())
}
