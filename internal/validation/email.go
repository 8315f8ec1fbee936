package validation

import (
	"net/mail"
)

// ValidateEmail validates email format and length.
// Uses Go's built-in net/mail parser which follows RFC 5322.
func ValidateEmail(email string) error {
	// RFC 5321: local part max 64, domain max 255, total max 254 with @
	if len(email) > 254 {
		return fail("email address is too long (max 254 characters)")
	}

	if email == "" {
		return fail("email address is required")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return fail("invalid email address format")
	}

	return nil
}
