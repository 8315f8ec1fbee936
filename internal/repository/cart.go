package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aingmeong/shop/internal/model"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartRepository interface {
	Upsert(userID, productID string, quantity int) error
	SetQuantity(userID, productID string, quantity int) error
	Remove(userID, productID string) error
	Clear(userID string) error
	Lines(userID string) ([]*model.CartLine, error)
}

type cartRepository struct {
	db *sqlx.DB
}

func NewCartRepository(db *sqlx.DB) CartRepository {
	return &cartRepository{db: db}
}

// Upsert adds quantity to an existing line or creates a new one. The
// (user_id, product_id) unique constraint keeps concurrent adds from
// producing duplicate lines.
func (r *cartRepository) Upsert(userID, productID string, quantity int) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + $4
	`
	_, err := r.db.Exec(query, uuid.New().String(), userID, productID, quantity, time.Now())
	return err
}

func (r *cartRepository) SetQuantity(userID, productID string, quantity int) error {
	result, err := r.db.Exec(
		`UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND product_id = $3`,
		quantity, userID, productID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepository) Remove(userID, productID string) error {
	result, err := r.db.Exec(
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepository) Clear(userID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (r *cartRepository) Lines(userID string) ([]*model.CartLine, error) {
	lines := []*model.CartLine{}
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at,
		       p.name AS product_name, p.price AS unit_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	err := r.db.Select(&lines, query, userID)
	if err == sql.ErrNoRows {
		return lines, nil
	}
	return lines, err
}
