package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
)

const productColumns = `id, store_id, title, slug, description, price_cents, status, created_at, updated_at`

// ProductRepository handles product persistence operations.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product. A slug collision within the store returns ErrDuplicateSlug.
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)

	_, err := r.db.ExecContext(ctx, query,
		id, p.StoreID, p.Title, p.Slug, p.Description, p.PriceCents, p.Status, now, now,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("inserting product: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// SlugExists reports whether slug is taken by a product of storeID.
func (r *ProductRepository) SlugExists(ctx context.Context, storeID, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE store_id = ? AND slug = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, storeID, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking product slug: %w", err)
	}
	return exists, nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p := &model.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.StoreID, &p.Title, &p.Slug, &p.Description, &p.PriceCents, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}

	return p, nil
}

// ListByStore returns one page of the store's products, newest first, and the total count.
func (r *ProductRepository) ListByStore(ctx context.Context, storeID string, page pagination.Params) ([]model.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE store_id = ?`, storeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = ?
		ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.StoreID, &p.Title, &p.Slug, &p.Description, &p.PriceCents, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

// Update writes the editable fields of p.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products SET title = ?, description = ?, price_cents = ?, status = ?, updated_at = ? WHERE id = ?`

	now := time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx, query, p.Title, p.Description, p.PriceCents, p.Status, now, p.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	if err := requireRow(result, ErrNotFound); err != nil {
		return err
	}

	p.UpdatedAt = now
	return nil
}

// DeleteMany removes the given products and their collection memberships in
// one transaction and returns how many products were deleted.
func (r *ProductRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	in := placeholders(len(ids))
	args := stringArgs(ids)

	var deleted int64
	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM collection_products WHERE product_id IN (`+in+`)`, args...); err != nil {
			return fmt.Errorf("unlinking products: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id IN (`+in+`)`, args...)
		if err != nil {
			return fmt.Errorf("deleting products: %w", err)
		}

		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
