package service

import (
	"errors"
	"fmt"

	"github.com/aingmeong/shop/internal/model"
	"github.com/aingmeong/shop/internal/repository"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

type CartService struct {
	cartRepository    repository.CartRepository
	productRepository repository.ProductRepository
}

func NewCartService(cartRepository repository.CartRepository, productRepository repository.ProductRepository) *CartService {
	return &CartService{
		cartRepository:    cartRepository,
		productRepository: productRepository,
	}
}

// Cart returns the user's cart lines and the server-computed total.
func (s *CartService) Cart(userID string) ([]*model.CartLine, float64, error) {
	lines, err := s.cartRepository.Lines(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load cart: %w", err)
	}

	var total float64
	for _, line := range lines {
		total += line.LineTotal()
	}

	return lines, total, nil
}

// Add puts a product in the cart; repeated adds accumulate quantity.
func (s *CartService) Add(userID, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	_, err := s.productRepository.ByID(productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	return s.cartRepository.Upsert(userID, productID, quantity)
}

// SetQuantity sets the line quantity; zero removes the line.
func (s *CartService) SetQuantity(userID, productID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	var err error
	if quantity == 0 {
		err = s.cartRepository.Remove(userID, productID)
	} else {
		err = s.cartRepository.SetQuantity(userID, productID, quantity)
	}
	if errors.Is(err, repository.ErrCartItemNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (s *CartService) Remove(userID, productID string) error {
	err := s.cartRepository.Remove(userID, productID)
	if errors.Is(err, repository.ErrCartItemNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (s *CartService) Clear(userID string) error {
	return s.cartRepository.Clear(userID)
}
