package middleware

import (
	"net/http"

	"github.com/aingmeong/shop/internal/ctxkeys"
	"github.com/aingmeong/shop/internal/model"
	"github.com/aingmeong/shop/internal/service"
)

// AuthMiddleware resolves the session cookie to a user and adds both to the
// request context. Every failure mode (no cookie, unknown token, expired
// session, backend error) degrades to an unauthenticated request; the
// middleware never fails a request outright.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.SessionUser(cookie.Value)
			if err != nil {
				// Stale or invalid token: clear it and continue unauthenticated
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Security: never carry the password hash through the request
			user.PasswordHash = nil

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithSessionToken(ctx, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated API requests with a JSON 401.
// It duplicates the edge guard at the handler layer for defense in depth.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAdmin rejects requests whose resolved role is not admin.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		cfg := ctxkeys.Config(r.Context())
		adminEmail := ""
		if cfg != nil {
			adminEmail = cfg.AdminEmail
		}
		if user.Role(adminEmail) != model.RoleAdmin {
			writeJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
