package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aingmeong/shop/internal/model"
	"github.com/aingmeong/shop/internal/repository"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

const orderCurrency = "IDR"

type OrderService struct {
	orderRepository repository.OrderRepository
	cartRepository  repository.CartRepository
}

func NewOrderService(orderRepository repository.OrderRepository, cartRepository repository.CartRepository) *OrderService {
	return &OrderService{
		orderRepository: orderRepository,
		cartRepository:  cartRepository,
	}
}

// Checkout snapshots the user's cart into a pending order with
// server-computed totals, then clears the cart. Item rows copy the product
// name and price at purchase time so later catalog edits don't rewrite
// history.
func (s *OrderService) Checkout(userID, notes string) (*model.Order, error) {
	lines, err := s.cartRepository.Lines(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &model.Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		OrderNumber: generateOrderNumber(),
		Status:      model.OrderStatusPending,
		Currency:    orderCurrency,
		PlacedAt:    time.Now(),
	}

	notes = strings.TrimSpace(notes)
	if notes != "" {
		order.Notes = &notes
	}

	for _, line := range lines {
		productID := line.ProductID
		item := model.OrderItem{
			ProductID:   &productID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal(),
		}
		order.Subtotal += item.LineTotal
		order.Items = append(order.Items, item)
	}
	order.TotalAmount = order.Subtotal

	err = s.orderRepository.CreateWithItems(order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	slog.Info("order placed", "order_id", order.ID, "order_number", order.OrderNumber,
		"user_id", userID, "total", order.TotalAmount)
	return order, nil
}

func (s *OrderService) ByUser(userID string) ([]*model.Order, error) {
	return s.orderRepository.ByUser(userID)
}

// ByID returns the order if the requester owns it or is an admin.
func (s *OrderService) ByID(id, requesterID string, requesterIsAdmin bool) (*model.Order, error) {
	order, err := s.orderRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != requesterID && !requesterIsAdmin {
		// Hidden rather than forbidden: don't confirm the order exists.
		return nil, ErrOrderNotFound
	}

	return order, nil
}

func generateOrderNumber() string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("ORD-%d-%s", time.Now().Unix(), strings.ToUpper(hex.EncodeToString(suffix)))
}
