package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aingmeong/shop/internal/config"
	"github.com/aingmeong/shop/internal/ctxkeys"
	"github.com/aingmeong/shop/internal/model"
	"github.com/aingmeong/shop/internal/repository"
	"github.com/aingmeong/shop/internal/service"
)

const testAdminEmail = "aingmeongshop@gmail.com"

// --- fakes ---

type memUserRepo struct {
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Create(user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) ByID(id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) ByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) Update(user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

type memSessionRepo struct {
	sessions map[string]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*model.Session{}}
}

func (r *memSessionRepo) Create(session *model.Session) error {
	clone := *session
	r.sessions[session.Token] = &clone
	return nil
}

func (r *memSessionRepo) ByToken(token string) (*model.Session, error) {
	s, ok := r.sessions[token]
	if !ok || s.IsExpired() {
		return nil, repository.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memSessionRepo) DeleteByToken(token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *memSessionRepo) DeleteByUser(userID string) error { return nil }
func (r *memSessionRepo) DeleteExpired() (int64, error)    { return 0, nil }

type recordingMailer struct {
	codes []string
}

func (m *recordingMailer) SendOTPEmail(email, name, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *recordingMailer) SendWelcomeEmail(email, name string) error { return nil }

func (m *recordingMailer) lastCode() string {
	if len(m.codes) == 0 {
		return ""
	}
	return m.codes[len(m.codes)-1]
}

type authFixture struct {
	handler *authHandler
	svc     *service.AuthService
	users   *memUserRepo
	mailer  *recordingMailer
}

func newAuthFixture() *authFixture {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	mailer := &recordingMailer{}
	svc := service.NewAuthService(users, sessions, mailer, false, 30*24*time.Hour, 10*time.Minute)
	cfg := &config.Config{
		AppURL:      "http://localhost:8080",
		AdminEmail:  testAdminEmail,
		StateSecret: "test-state-secret",
	}
	return &authFixture{
		handler: NewAuthHandler(svc, cfg),
		svc:     svc,
		users:   users,
		mailer:  mailer,
	}
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- registration ---

func TestRegisterEndpoint(t *testing.T) {
	f := newAuthFixture()

	rec := postJSON(f.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"str0ng-and-long"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, true, body["requiresOTP"])
	assert.NotEmpty(t, body["userId"])
	assert.NotEmpty(t, body["message"])
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()

	payload := `{"name":"Alice","email":"alice@example.com","password":"str0ng-and-long"}`
	rec := postJSON(f.handler.Register, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(f.handler.Register, "/api/auth/register", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User with this email already exists", decodeBody(t, rec)["error"])
}

func TestRegisterEndpoint_BadBody(t *testing.T) {
	f := newAuthFixture()

	rec := postJSON(f.handler.Register, "/api/auth/register", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- otp ---

func TestVerifyOTPEndpoint(t *testing.T) {
	f := newAuthFixture()

	rec := postJSON(f.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"str0ng-and-long"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(f.handler.VerifyOTP, "/api/auth/verify-otp",
		`{"email":"alice@example.com","otpCode":"`+f.mailer.lastCode()+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
}

func TestVerifyOTPEndpoint_WrongCode(t *testing.T) {
	f := newAuthFixture()

	rec := postJSON(f.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"str0ng-and-long"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrong := "000000"
	if f.mailer.lastCode() == wrong {
		wrong = "000001"
	}
	rec = postJSON(f.handler.VerifyOTP, "/api/auth/verify-otp",
		`{"email":"alice@example.com","otpCode":"`+wrong+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP or email", decodeBody(t, rec)["error"])
}

func TestVerifyOTPEndpoint_Expired(t *testing.T) {
	f := newAuthFixture()

	rec := postJSON(f.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"str0ng-and-long"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	stored, err := f.users.ByEmail("alice@example.com")
	require.NoError(t, err)
	past := time.Now().Add(-1 * time.Minute)
	stored.OTPExpiresAt = &past
	require.NoError(t, f.users.Update(stored))

	rec = postJSON(f.handler.VerifyOTP, "/api/auth/verify-otp",
		`{"email":"alice@example.com","otpCode":"`+f.mailer.lastCode()+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "OTP has expired", decodeBody(t, rec)["error"])
}

// --- login ---

func registerAndVerify(t *testing.T, f *authFixture, email string) {
	t.Helper()
	rec := postJSON(f.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"`+email+`","password":"str0ng-and-long"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = postJSON(f.handler.VerifyOTP, "/api/auth/verify-otp",
		`{"email":"`+email+`","otpCode":"`+f.mailer.lastCode()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	f := newAuthFixture()
	registerAndVerify(t, f, "alice@example.com")

	rec := postJSON(f.handler.Login, "/api/auth/login",
		`{"email":"alice@example.com","password":"str0ng-and-long"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "user", user["role"])

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == service.SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Len(t, sessionCookie.Value, 64)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sessionCookie.SameSite)
	assert.False(t, sessionCookie.Secure) // development fixture
}

func TestLoginEndpoint_Unverified(t *testing.T) {
	f := newAuthFixture()

	rec := postJSON(f.handler.Register, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"str0ng-and-long"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(f.handler.Login, "/api/auth/login",
		`{"email":"alice@example.com","password":"str0ng-and-long"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Please verify your email before logging in", decodeBody(t, rec)["error"])
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	f := newAuthFixture()
	registerAndVerify(t, f, "alice@example.com")

	recUnknown := postJSON(f.handler.Login, "/api/auth/login",
		`{"email":"ghost@example.com","password":"whatever-pass"}`)
	recWrong := postJSON(f.handler.Login, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong-password"}`)

	// Identical status and message for unknown account and wrong password.
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, decodeBody(t, recUnknown)["error"], decodeBody(t, recWrong)["error"])
	assert.Equal(t, "Invalid email or password", decodeBody(t, recWrong)["error"])
}

func TestLoginEndpoint_AdminRole(t *testing.T) {
	f := newAuthFixture()
	registerAndVerify(t, f, testAdminEmail)

	stored, err := f.users.ByEmail(testAdminEmail)
	require.NoError(t, err)
	stored.IsAdmin = true
	require.NoError(t, f.users.Update(stored))

	rec := postJSON(f.handler.Login, "/api/auth/login",
		`{"email":"`+testAdminEmail+`","password":"str0ng-and-long"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
}

// --- session + logout ---

func TestSessionEndpoint(t *testing.T) {
	f := newAuthFixture()

	// Unauthenticated
	req := httptest.NewRequest("GET", "/api/auth/session", nil)
	rec := httptest.NewRecorder()
	f.handler.Session(rec, req)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["authenticated"])
	assert.Nil(t, body["user"])

	// Authenticated
	user := &model.User{ID: "u1", Email: "alice@example.com", Name: "Alice"}
	req = httptest.NewRequest("GET", "/api/auth/session", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), user))
	rec = httptest.NewRecorder()
	f.handler.Session(rec, req)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	payload := body["user"].(map[string]any)
	assert.Equal(t, "u1", payload["id"])
	assert.Equal(t, "user", payload["role"])
}

func TestLogoutEndpoint(t *testing.T) {
	f := newAuthFixture()
	registerAndVerify(t, f, "alice@example.com")

	stored, err := f.users.ByEmail("alice@example.com")
	require.NoError(t, err)
	session, err := f.svc.CreateSession(stored.ID)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req = req.WithContext(ctxkeys.WithSessionToken(req.Context(), session.Token))
	rec := httptest.NewRecorder()
	f.handler.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	// The session row is gone.
	_, err = f.svc.SessionUser(session.Token)
	assert.Error(t, err)

	// And the cookie is cleared.
	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == service.SessionCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()))
}

// --- oauth state ---

func TestOAuthStateRoundTrip(t *testing.T) {
	f := newAuthFixture()

	state, err := f.handler.signOAuthState()
	require.NoError(t, err)
	assert.True(t, f.handler.verifyOAuthState(state))
}

func TestOAuthStateRejectsForgeries(t *testing.T) {
	f := newAuthFixture()

	assert.False(t, f.handler.verifyOAuthState(""))
	assert.False(t, f.handler.verifyOAuthState("not-a-token"))

	// A state signed with a different secret must not verify.
	other := newAuthFixture()
	other.handler.stateSecret = []byte("different-secret")
	state, err := other.handler.signOAuthState()
	require.NoError(t, err)
	assert.False(t, f.handler.verifyOAuthState(state))
}

func TestGoogleAuthRedirects(t *testing.T) {
	f := newAuthFixture()

	req := httptest.NewRequest("GET", "/auth/google", nil)
	rec := httptest.NewRecorder()
	f.handler.GoogleAuth(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "state=")
}

func TestGoogleCallback_BadState(t *testing.T) {
	f := newAuthFixture()

	req := httptest.NewRequest("GET", "/auth/google/callback?state=forged&code=abc", nil)
	rec := httptest.NewRecorder()
	f.handler.GoogleCallback(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=oauth", rec.Header().Get("Location"))
}
