package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aingmeong/shop/internal/model"
	"github.com/aingmeong/shop/internal/repository"
	"github.com/aingmeong/shop/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrOTPExpired         = errors.New("otp has expired")
	ErrOTPMismatch        = errors.New("invalid otp")
	ErrEmailSendFailed    = errors.New("failed to send verification email")
)

const (
	bcryptCost        = 12
	sessionTokenBytes = 32 // 256 bits
	sessionCookieName = "session_token"
)

// Mailer is the slice of EmailService the auth flow needs. Kept as an
// interface so registration rollback can be tested without a mail client.
type Mailer interface {
	SendOTPEmail(email, name, code string) error
	SendWelcomeEmail(email, name string) error
}

type AuthService struct {
	userRepository    repository.UserRepository
	sessionRepository repository.SessionRepository
	mailer            Mailer
	isProduction      bool
	sessionExpiry     time.Duration
	otpExpiry         time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	sessionRepository repository.SessionRepository,
	mailer Mailer,
	isProduction bool,
	sessionExpiry time.Duration,
	otpExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		mailer:            mailer,
		isProduction:      isProduction,
		sessionExpiry:     sessionExpiry,
		otpExpiry:         otpExpiry,
	}
}

// Register creates an unverified credential user and mails the OTP.
// If the mail cannot be delivered the user row is rolled back: a pending
// account that can never receive its code is worse than asking the user
// to register again.
func (s *AuthService) Register(name, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	err := validation.ValidateName(name)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}

	now := time.Now()
	otpExpiry := now.Add(s.otpExpiry)
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		Name:         name,
		Provider:     model.ProviderEmail,
		IsVerified:   false,
		OTPCode:      &code,
		OTPExpiresAt: &otpExpiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = s.mailer.SendOTPEmail(user.Email, user.Name, code)
	if err != nil {
		slog.Error("otp email failed, rolling back registration", "error", err, "email", user.Email)
		delErr := s.userRepository.Delete(user.ID)
		if delErr != nil {
			slog.Error("failed to roll back user after email failure", "error", delErr, "user_id", user.ID)
		}
		return nil, ErrEmailSendFailed
	}

	slog.Info("user registered, otp sent", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// VerifyOTP transitions a user to verified exactly once. The code is
// cleared on success so a second call fails with ErrAlreadyVerified.
func (s *AuthService) VerifyOTP(email, code string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	now := time.Now()
	if user.OTPExpired(now) {
		return nil, ErrOTPExpired
	}
	if !user.OTPValid(code, now) {
		return nil, ErrOTPMismatch
	}

	user.IsVerified = true
	user.OTPCode = nil
	user.OTPExpiresAt = nil
	user.UpdatedAt = now

	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	err = s.mailer.SendWelcomeEmail(user.Email, user.Name)
	if err != nil {
		// Verification already succeeded; the welcome mail is best effort.
		slog.Warn("failed to send welcome email", "error", err, "email", user.Email)
	}

	slog.Info("user verified", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// ResendOTP regenerates the code and expiry. The previous code stops
// verifying the moment the new one is stored.
func (s *AuthService) ResendOTP(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	now := time.Now()
	otpExpiry := now.Add(s.otpExpiry)
	user.OTPCode = &code
	user.OTPExpiresAt = &otpExpiry
	user.UpdatedAt = now

	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	err = s.mailer.SendOTPEmail(user.Email, user.Name, code)
	if err != nil {
		return ErrEmailSendFailed
	}

	slog.Info("otp resent", "user_id", user.ID, "email", user.Email)
	return nil
}

// Login authenticates a credential user. Absent user, missing hash, and
// wrong password all collapse into ErrInvalidCredentials so responses
// cannot be used for account enumeration.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	return user, nil
}

// AuthenticateOAuth provisions or matches a user from a Google profile.
// OAuth users are verified on arrival; the provider already checked the
// mailbox.
func (s *AuthService) AuthenticateOAuth(email, name string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to lookup user: %w", err)
		}

		now := time.Now()
		user = &model.User{
			ID:         uuid.New().String(),
			Email:      email,
			Name:       strings.TrimSpace(name),
			Provider:   model.ProviderGoogle,
			IsVerified: true,
			CreatedAt:  now,
			UpdatedAt:  now,
			// password_hash stays NULL for OAuth accounts
		}

		err = s.userRepository.Create(user)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		slog.Info("new oauth user created", "user_id", user.ID, "email", email)
		return user, nil
	}

	// Existing account: the provider vouches for the mailbox.
	if !user.IsVerified {
		user.IsVerified = true
		user.OTPCode = nil
		user.OTPExpiresAt = nil
		user.UpdatedAt = time.Now()
		err = s.userRepository.Update(user)
		if err != nil {
			slog.Warn("failed to mark oauth user verified", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user authenticated via oauth", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// CreateSession issues and persists an opaque session token for the user.
func (s *AuthService) CreateSession(userID string) (*model.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionExpiry),
	}

	err = s.sessionRepository.Create(session)
	if err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return session, nil
}

// SessionUser resolves a session token to its user. Any failure means
// unauthenticated; callers must not treat it as fatal.
func (s *AuthService) SessionUser(token string) (*model.User, error) {
	session, err := s.sessionRepository.ByToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(session.UserID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Logout deletes the session for the given token.
func (s *AuthService) Logout(token string) error {
	return s.sessionRepository.DeleteByToken(token)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// SessionCookieName is exported for the middleware and handlers.
const SessionCookieName = sessionCookieName

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// GenerateOTP returns a 6-digit numeric code from the CSPRNG.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func generateSessionToken() (string, error) {
	bytes := make([]byte, sessionTokenBytes)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
