package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/aingmeong/shop/internal/config"
	"github.com/aingmeong/shop/internal/ctxkeys"
	"github.com/aingmeong/shop/internal/model"
	"github.com/aingmeong/shop/internal/service"
)

type authHandler struct {
	authService       *service.AuthService
	googleOAuthConfig *oauth2.Config
	stateSecret       []byte
	adminEmail        string
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: authService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		stateSecret: []byte(cfg.StateSecret),
		adminEmail:  cfg.AdminEmail,
	}
}

// userPayload is the client-visible projection of a user. The role is
// computed per response so a stale flag in the row can never outlive the
// admin email check.
func (h *authHandler) userPayload(user *model.User) map[string]any {
	return map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role(h.adminEmail),
	}
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":     "Registration successful. Please check your email for the verification code.",
		"userId":      user.ID,
		"email":       user.Email,
		"requiresOTP": true,
	})
}

func (h *authHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otpCode"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Email verified successfully. You can now log in.",
		"user":    h.userPayload(user),
	})
}

func (h *authHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.authService.ResendOTP(req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "A new verification code has been sent to your email.",
	})
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email)
		respondServiceError(w, err)
		return
	}

	session, err := h.authService.CreateSession(user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	h.authService.SetSessionCookie(w, session)

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    h.userPayload(user),
	})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ctxkeys.SessionToken(r.Context())
	if token != "" {
		err := h.authService.Logout(token)
		if err != nil {
			slog.Warn("failed to delete session", "error", err)
		}
	}

	h.authService.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Session reports the authenticated user for client-side hydration. The
// server session is the source of truth; clients never persist auth state
// beyond what this endpoint returns.
func (h *authHandler) Session(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
			"user":          nil,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          h.userPayload(user),
	})
}

// GoogleAuth redirects to the Google consent screen. The state parameter is
// a short-lived signed token rather than a stored nonce, so the callback can
// verify it without server-side state or an extra cookie.
func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	state, err := h.signOAuthState()
	if err != nil {
		slog.Error("failed to sign oauth state", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback verifies the state, exchanges the code, and signs the user
// in, provisioning an account on first arrival.
func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if !h.verifyOAuthState(state) {
		slog.Warn("google oauth state validation failed")
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	token, err := h.googleOAuthConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	client := h.googleOAuthConfig.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	user, err := h.authService.AuthenticateOAuth(userInfo.Email, userInfo.Name)
	if err != nil {
		slog.Error("oauth authentication failed", "error", err, "email", userInfo.Email)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	session, err := h.authService.CreateSession(user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	h.authService.SetSessionCookie(w, session)

	slog.Info("user logged in with google oauth", "user_id", user.ID, "email", user.Email)

	if user.Role(h.adminEmail) == model.RoleAdmin {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

const oauthStateTTL = 10 * time.Minute

func (h *authHandler) signOAuthState() (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    "oauth-state",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(oauthStateTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.stateSecret)
}

func (h *authHandler) verifyOAuthState(state string) bool {
	if state == "" {
		return false
	}
	token, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.stateSecret, nil
	}, jwt.WithIssuer("oauth-state"), jwt.WithExpirationRequired())
	return err == nil && token.Valid
}
