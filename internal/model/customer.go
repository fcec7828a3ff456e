package model

import "time"

// Customer is a shopper registered with a store.
type Customer struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a purchase placed in a store.
type Order struct {
	ID         string    `json:"id"`
	StoreID    string    `json:"store_id"`
	CustomerID *string   `json:"customer_id"`
	Number     int64     `json:"number"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}
