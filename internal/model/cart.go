package model

import (
	"time"
)

type CartItem struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	ProductID string    `db:"product_id" json:"productId"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CartLine is a cart item joined with its product for display and totals.
type CartLine struct {
	CartItem
	ProductName string  `db:"product_name" json:"productName"`
	UnitPrice   float64 `db:"unit_price" json:"unitPrice"`
}

func (l *CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
