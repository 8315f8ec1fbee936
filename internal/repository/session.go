package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aingmeong/shop/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(session *model.Session) error
	ByToken(token string) (*model.Session, error)
	DeleteByToken(token string) error
	DeleteByUser(userID string) error
	DeleteExpired() (int64, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sessions (id, token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		session.ID,
		session.Token,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
	)
	return err
}

// ByToken returns the session for a token if it is still valid. An expired
// row is deleted on the way out so dead sessions do not accumulate.
func (r *sessionRepository) ByToken(token string) (*model.Session, error) {
	session := &model.Session{}
	query := `SELECT * FROM sessions WHERE token = $1`

	err := r.db.Get(session, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		_, _ = r.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (r *sessionRepository) DeleteByToken(token string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (r *sessionRepository) DeleteByUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// DeleteExpired removes expired sessions. Optional maintenance operation;
// lookup already ignores expired rows.
func (r *sessionRepository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
