package model

import (
	"time"
)

type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Price       float64   `db:"price" json:"price"`
	Description *string   `db:"description" json:"description"`
	ImageURL    *string   `db:"image_url" json:"imageUrl"`
	ImageKey    *string   `db:"image_key" json:"-"`
	ImageType   *string   `db:"image_type" json:"imageType"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
