package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aingmeong/shop/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Create(product *model.Product) error
	ByID(id string) (*model.Product, error)
	All() ([]*model.Product, error)
	Update(product *model.Product) error
	Delete(id string) error
}

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	query := `
		INSERT INTO products (id, name, price, description, image_url, image_key, image_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		product.ID,
		product.Name,
		product.Price,
		product.Description,
		product.ImageURL,
		product.ImageKey,
		product.ImageType,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return err
}

func (r *productRepository) ByID(id string) (*model.Product, error) {
	product := &model.Product{}
	query := `SELECT * FROM products WHERE id = $1`

	err := r.db.Get(product, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}

	return product, err
}

func (r *productRepository) All() ([]*model.Product, error) {
	products := []*model.Product{}
	query := `SELECT * FROM products ORDER BY created_at DESC`

	err := r.db.Select(&products, query)
	return products, err
}

func (r *productRepository) Update(product *model.Product) error {
	product.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = $1, price = $2, description = $3, image_url = $4, image_key = $5, image_type = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.db.Exec(query,
		product.Name,
		product.Price,
		product.Description,
		product.ImageURL,
		product.ImageKey,
		product.ImageType,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProductNotFound
	}

	return nil
}
