package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
)

const orderColumns = `id, store_id, customer_id, number, status, total_cents, currency, created_at`

// OrderRepository reads the orders placed in a store.
type OrderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	o := &model.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.StoreID, &o.CustomerID, &o.Number, &o.Status, &o.TotalCents, &o.Currency, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning order: %w", err)
	}

	return o, nil
}

// ListByStore returns one page of the store's orders, highest number first, and the total count.
func (r *OrderRepository) ListByStore(ctx context.Context, storeID string, page pagination.Params) ([]model.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE store_id = ?`, storeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE store_id = ?
		ORDER BY number DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.StoreID, &o.CustomerID, &o.Number, &o.Status, &o.TotalCents, &o.Currency, &o.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}

	return orders, total, rows.Err()
}
