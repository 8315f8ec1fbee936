package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aingmeong/shop/internal/service"
	"github.com/aingmeong/shop/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// respondServiceError maps service errors onto HTTP statuses with messages
// safe to show a client. Anything unmapped logs and returns a generic 500;
// internal error text never leaves the server.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		respondError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		respondError(w, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrEmailNotVerified):
		respondError(w, http.StatusUnauthorized, "Please verify your email before logging in")
	case errors.Is(err, service.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, "Please provide a valid email address")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrAlreadyVerified):
		respondError(w, http.StatusBadRequest, "Account is already verified")
	case errors.Is(err, service.ErrOTPExpired):
		respondError(w, http.StatusBadRequest, "OTP has expired")
	case errors.Is(err, service.ErrOTPMismatch):
		respondError(w, http.StatusBadRequest, "Invalid OTP or email")
	case errors.Is(err, service.ErrEmailSendFailed):
		respondError(w, http.StatusInternalServerError, "Failed to send verification email. Please try again.")
	case errors.Is(err, service.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrCartItemNotFound):
		respondError(w, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "Quantity must be at least 1")
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "Order not found")
	default:
		slog.Error("unhandled service error", "error", err)
		respondError(w, http.StatusInternalServerError, "An error occurred. Please try again.")
	}
}

// NotFound is the fallback for unmatched paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Not found")
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(dst)
}
