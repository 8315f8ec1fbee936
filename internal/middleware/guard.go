package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aingmeong/shop/internal/ctxkeys"
	"github.com/aingmeong/shop/internal/model"
)

// routeClass is the guard's classification of an inbound path.
type routeClass int

const (
	routePublic routeClass = iota
	routeAuth              // login page; authenticated users get bounced away
	routeProtected
	routeAdmin // protected and admin-only
	routeSkip  // static assets and API routes are never intercepted
)

const (
	loginPath        = "/login"
	adminLandingPath = "/admin"
	userLandingPath  = "/products"
)

// classifyRoute implements the guard's path matcher. Static assets and all
// /api/ routes are excluded; API routes enforce their own checks and must
// not be redirected.
func classifyRoute(path string) routeClass {
	if strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/assets/") ||
		strings.HasPrefix(path, "/auth/google") || // OAuth flow manages its own redirects
		strings.Contains(path, ".") {
		return routeSkip
	}

	if path == loginPath {
		return routeAuth
	}

	if path == adminLandingPath || strings.HasPrefix(path, adminLandingPath+"/") {
		return routeAdmin
	}

	if path == "/checkout" || path == "/profile" {
		return routeProtected
	}

	return routePublic
}

// RouteGuard intercepts page requests before any handler runs:
//
//	ProtectedRoute + no session        -> redirect to login with return target
//	AdminRoute + non-admin session     -> redirect to the user landing page
//	AuthRoute + any session            -> redirect to the role landing page
//
// Session state comes from AuthMiddleware, which already treats every
// session-check failure as "unauthenticated", so the guard can never turn a
// backend hiccup into a 5xx.
func RouteGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := classifyRoute(r.URL.Path)
		if class == routeSkip || class == routePublic {
			next.ServeHTTP(w, r)
			return
		}

		user := ctxkeys.User(r.Context())

		adminEmail := ""
		if cfg := ctxkeys.Config(r.Context()); cfg != nil {
			adminEmail = cfg.AdminEmail
		}

		role := ""
		if user != nil {
			role = user.Role(adminEmail)
		}

		switch class {
		case routeAuth:
			if user != nil {
				redirect(w, r, landingFor(role))
				return
			}

		case routeAdmin:
			if user == nil {
				redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.Path))
				return
			}
			if role != model.RoleAdmin {
				redirect(w, r, userLandingPath)
				return
			}

		case routeProtected:
			if user == nil {
				redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.Path))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func landingFor(role string) string {
	if role == model.RoleAdmin {
		return adminLandingPath
	}
	return userLandingPath
}

// redirect issues the guard redirect with cache-busting headers so the
// browser never replays a stale authenticated or unauthenticated view from
// history.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	http.Redirect(w, r, target, http.StatusSeeOther)
}
