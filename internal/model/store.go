package model

import "time"

// ResourceKind names a guarded resource type.
type ResourceKind string

const (
	KindStore      ResourceKind = "store"
	KindProduct    ResourceKind = "product"
	KindCollection ResourceKind = "collection"
	KindCustomer   ResourceKind = "customer"
	KindOrder      ResourceKind = "order"
)

// Store is a shop owned by a single user.
type Store struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateStoreRequest represents a store creation request.
type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Currency    string `json:"currency" validate:"required,iso4217"`
}

// UpdateStoreRequest carries the store fields to change. Nil fields are left untouched.
type UpdateStoreRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Currency    *string `json:"currency" validate:"omitempty,iso4217"`
}
