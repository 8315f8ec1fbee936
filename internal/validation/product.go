package validation

import (
	"strings"
)

const (
	maxProductPrice       = 999999.99
	maxProductNameLen     = 255
	maxProductDescription = 1000
)

// ValidateProduct validates product fields for create and update.
func ValidateProduct(name string, price float64, description string) error {
	if strings.TrimSpace(name) == "" {
		return fail("product name is required")
	}
	if len(name) > maxProductNameLen {
		return fail("product name must be less than 255 characters")
	}
	if price <= 0 {
		return fail("valid price is required")
	}
	if price > maxProductPrice {
		return fail("price cannot exceed 999999.99")
	}
	if len(description) > maxProductDescription {
		return fail("description must be less than 1000 characters")
	}
	return nil
}
