package model

import (
	"time"
)

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash *string    `db:"password_hash" json:"-"` // Nullable for OAuth users
	Name         string     `db:"name" json:"name"`
	Provider     string     `db:"provider" json:"provider"`
	IsAdmin      bool       `db:"is_admin" json:"-"`
	IsVerified   bool       `db:"is_verified" json:"isVerified"`
	OTPCode      *string    `db:"otp_code" json:"-"`
	OTPExpiresAt *time.Time `db:"otp_expires_at" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Role resolves the coarse role for a user. Admin is granted only when the
// admin flag is set AND the email exactly matches the configured admin
// address; any other combination is downgraded to a regular user. The dual
// condition intentionally limits admin escalation to a single account.
func (u *User) Role(adminEmail string) string {
	if u.IsAdmin && u.Email == adminEmail {
		return RoleAdmin
	}
	return RoleUser
}

// OTPValid reports whether the given code matches the pending one and has
// not expired. A cleared code never matches.
func (u *User) OTPValid(code string, now time.Time) bool {
	if u.OTPCode == nil || u.OTPExpiresAt == nil {
		return false
	}
	if now.After(*u.OTPExpiresAt) {
		return false
	}
	return *u.OTPCode == code
}

// OTPExpired reports whether a pending code exists but is past its expiry.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OTPExpiresAt != nil && now.After(*u.OTPExpiresAt)
}
