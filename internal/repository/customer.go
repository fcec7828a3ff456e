package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
)

const customerColumns = `id, store_id, email, first_name, last_name, created_at`

// CustomerRepository reads the customers registered with a store.
type CustomerRepository struct {
	db DBTX
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByID retrieves a customer by its ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`

	c := &model.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.StoreID, &c.Email, &c.FirstName, &c.LastName, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning customer: %w", err)
	}

	return c, nil
}

// ListByStore returns one page of the store's customers, newest first, and the total count.
func (r *CustomerRepository) ListByStore(ctx context.Context, storeID string, page pagination.Params) ([]model.Customer, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers WHERE store_id = ?`, storeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting customers: %w", err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE store_id = ?
		ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Email, &c.FirstName, &c.LastName, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}

	return customers, total, rows.Err()
}
