package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aingmeong/shop/internal/model"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	// CreateWithItems persists the order, its items, and clears the user's
	// cart in a single transaction.
	CreateWithItems(order *model.Order) error
	ByID(id string) (*model.Order, error)
	ByUser(userID string) ([]*model.Order, error)
}

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(order *model.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO orders (id, user_id, order_number, status, subtotal, total_amount, currency, notes, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID,
		order.UserID,
		order.OrderNumber,
		order.Status,
		order.Subtotal,
		order.TotalAmount,
		order.Currency,
		order.Notes,
		order.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = order.ID

		_, err = tx.Exec(`
			INSERT INTO order_items (id, order_id, product_id, product_name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.UnitPrice,
			item.Quantity,
			item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	_, err = tx.Exec(`DELETE FROM cart_items WHERE user_id = $1`, order.UserID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit()
}

func (r *orderRepository) ByID(id string) (*model.Order, error) {
	order := &model.Order{}
	err := r.db.Get(order, `SELECT * FROM orders WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items := []model.OrderItem{}
	err = r.db.Select(&items, `SELECT * FROM order_items WHERE order_id = $1`, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) ByUser(userID string) ([]*model.Order, error) {
	orders := []*model.Order{}
	query := `SELECT * FROM orders WHERE user_id = $1 ORDER BY placed_at DESC`

	err := r.db.Select(&orders, query, userID)
	return orders, err
}
