package model

import "time"

const (
	ProductStatusDraft    = "draft"
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

// Product is a sellable item belonging to a store.
type Product struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductRequest represents a product creation request. The store comes from the URL.
type CreateProductRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"max=5000"`
	PriceCents  int64  `json:"price_cents" validate:"min=0"`
	Status      string `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// UpdateProductRequest carries the product fields to change. Nil fields are left untouched.
type UpdateProductRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	PriceCents  *int64  `json:"price_cents" validate:"omitempty,min=0"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// DeleteProductsRequest removes several products at once.
type DeleteProductsRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=100,dive,uuid"`
}

// DeleteProductsResponse reports how many products were removed.
type DeleteProductsResponse struct {
	Deleted int64 `json:"deleted"`
}
