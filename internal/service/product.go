package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aingmeong/shop/internal/model"
	"github.com/aingmeong/shop/internal/repository"
	"github.com/aingmeong/shop/internal/storage"
	"github.com/aingmeong/shop/internal/validation"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService struct {
	productRepository repository.ProductRepository
	storage           storage.Storage
}

func NewProductService(productRepository repository.ProductRepository, storage storage.Storage) *ProductService {
	return &ProductService{
		productRepository: productRepository,
		storage:           storage,
	}
}

func (s *ProductService) All() ([]*model.Product, error) {
	return s.productRepository.All()
}

func (s *ProductService) ByID(id string) (*model.Product, error) {
	product, err := s.productRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Create(name string, price float64, description string) (*model.Product, error) {
	err := validation.ValidateProduct(name, price, description)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:  strings.TrimSpace(name),
		Price: price,
	}
	if description != "" {
		product.Description = &description
	}

	err = s.productRepository.Create(product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	slog.Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

func (s *ProductService) Update(id, name string, price float64, description string) (*model.Product, error) {
	err := validation.ValidateProduct(name, price, description)
	if err != nil {
		return nil, err
	}

	product, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(name)
	product.Price = price
	if description != "" {
		product.Description = &description
	} else {
		product.Description = nil
	}

	err = s.productRepository.Update(product)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes the product and its stored image. Storage cleanup is best
// effort; the record goes away regardless.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.ByID(id)
	if err != nil {
		return err
	}

	if product.ImageKey != nil && *product.ImageKey != "" {
		delErr := s.storage.Delete(ctx, *product.ImageKey)
		if delErr != nil {
			slog.Warn("failed to delete product image from storage", "error", delErr, "key", *product.ImageKey)
		}
	}

	err = s.productRepository.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	slog.Info("product deleted", "product_id", id)
	return nil
}

// AttachImage validates the upload, stores it under products/<id>/, removes
// the previous object if the image is being replaced, and persists the new
// URL/key/type on the product.
func (s *ProductService) AttachImage(ctx context.Context, id string, file multipart.File, header *multipart.FileHeader) (*model.Product, error) {
	product, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	contentType, err := validation.ValidateImage(header)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.New().String(), ext)

	err = s.storage.Save(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	oldKey := product.ImageKey
	url := s.storage.URL(key)
	product.ImageURL = &url
	product.ImageKey = &key
	product.ImageType = &contentType

	err = s.productRepository.Update(product)
	if err != nil {
		// Orphaned object cleanup; the record still points at the old image.
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to clean up orphaned image", "error", delErr, "key", key)
		}
		return nil, fmt.Errorf("failed to update product image: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		delErr := s.storage.Delete(ctx, *oldKey)
		if delErr != nil {
			slog.Warn("failed to delete replaced image", "error", delErr, "key", *oldKey)
		}
	}

	slog.Info("product image attached", "product_id", product.ID, "key", key)
	return product, nil
}
