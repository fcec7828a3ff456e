package model

import "time"

// Collection groups products of one store.
type Collection struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ProductIDs  []string  `json:"product_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCollectionRequest represents a collection creation request.
type CreateCollectionRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,max=64"`
	Description string   `json:"description" validate:"max=5000"`
	ProductIDs  []string `json:"product_ids" validate:"omitempty,max=500,dive,uuid"`
}
