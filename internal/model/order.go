package model

import (
	"time"
)

const OrderStatusPending = "pending"

type Order struct {
	ID          string      `db:"id" json:"id"`
	UserID      string      `db:"user_id" json:"userId"`
	OrderNumber string      `db:"order_number" json:"orderNumber"`
	Status      string      `db:"status" json:"status"`
	Subtotal    float64     `db:"subtotal" json:"subtotal"`
	TotalAmount float64     `db:"total_amount" json:"totalAmount"`
	Currency    string      `db:"currency" json:"currency"`
	Notes       *string     `db:"notes" json:"notes"`
	PlacedAt    time.Time   `db:"placed_at" json:"placedAt"`
	Items       []OrderItem `db:"-" json:"items,omitempty"`
}

type OrderItem struct {
	ID          string  `db:"id" json:"id"`
	OrderID     string  `db:"order_id" json:"-"`
	ProductID   *string `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName"`
	UnitPrice   float64 `db:"unit_price" json:"unitPrice"`
	Quantity    int     `db:"quantity" json:"quantity"`
	LineTotal   float64 `db:"line_total" json:"lineTotal"`
}
