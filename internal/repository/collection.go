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

var ErrForeignProduct = errors.New("product does not belong to the store")

const collectionColumns = `id, store_id, title, slug, description, created_at`

// CollectionRepository handles collection persistence operations.
type CollectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create inserts a collection together with its product links. Every linked
// product must belong to the same store, otherwise nothing is written and
// ErrForeignProduct is returned.
func (r *CollectionRepository) Create(ctx context.Context, c *model.Collection) error {
	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)

	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO collections (`+collectionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			id, c.StoreID, c.Title, c.Slug, c.Description, now,
		)
		if err != nil {
			if isDuplicateEntryError(err) {
				return ErrDuplicateSlug
			}
			return fmt.Errorf("inserting collection: %w", err)
		}

		link := `INSERT INTO collection_products (collection_id, product_id, position)
			SELECT ?, p.id, ? FROM products p WHERE p.id = ? AND p.store_id = ?`
		for pos, productID := range c.ProductIDs {
			result, err := tx.ExecContext(ctx, link, id, pos, productID, c.StoreID)
			if err != nil {
				if isDuplicateEntryError(err) {
					continue
				}
				return fmt.Errorf("linking product: %w", err)
			}
			if err := requireRow(result, ErrForeignProduct); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	c.ID = id
	c.CreatedAt = now
	return nil
}

// SlugExists reports whether slug is taken by a collection of storeID.
func (r *CollectionRepository) SlugExists(ctx context.Context, storeID, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM collections WHERE store_id = ? AND slug = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, storeID, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking collection slug: %w", err)
	}
	return exists, nil
}

// GetByID retrieves a collection and the ordered IDs of its products.
func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*model.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = ?`

	c := &model.Collection{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.StoreID, &c.Title, &c.Slug, &c.Description, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning collection: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id FROM collection_products WHERE collection_id = ? ORDER BY position, product_id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing collection products: %w", err)
	}
	defer rows.Close()

	c.ProductIDs = []string{}
	for rows.Next() {
		var productID string
		if err := rows.Scan(&productID); err != nil {
			return nil, err
		}
		c.ProductIDs = append(c.ProductIDs, productID)
	}

	return c, rows.Err()
}

// ListByStore returns one page of the store's collections, newest first, and
// the total count. Product IDs are not loaded.
func (r *CollectionRepository) ListByStore(ctx context.Context, storeID string, page pagination.Params) ([]model.Collection, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collections WHERE store_id = ?`, storeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting collections: %w", err)
	}

	query := `SELECT ` + collectionColumns + ` FROM collections WHERE store_id = ?
		ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var collections []model.Collection
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Title, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		collections = append(collections, c)
	}

	return collections, total, rows.Err()
}
