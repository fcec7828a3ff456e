package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/shopdesk-go/internal/model"
)

const storeColumns = `id, owner_id, name, description, currency, created_at, updated_at`

// StoreRepository handles store persistence operations.
type StoreRepository struct {
	db DBTX
}

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(db DBTX) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create inserts a new store and sets the generated ID and timestamps on it.
func (r *StoreRepository) Create(ctx context.Context, store *model.Store) error {
	query := `INSERT INTO stores (` + storeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)

	_, err := r.db.ExecContext(ctx, query,
		id, store.OwnerID, store.Name, store.Description, store.Currency, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting store: %w", err)
	}

	store.ID = id
	store.CreatedAt = now
	store.UpdatedAt = now
	return nil
}

// GetByID retrieves a store by its ID.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*model.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = ?`

	s := &model.Store{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Currency, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning store: %w", err)
	}

	return s, nil
}

// ListByOwner returns every store owned by ownerID, oldest first.
func (r *StoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE owner_id = ? ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	defer rows.Close()

	var stores []model.Store
	for rows.Next() {
		var s model.Store
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Currency, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}

	return stores, rows.Err()
}

// Update writes the editable fields of store.
func (r *StoreRepository) Update(ctx context.Context, store *model.Store) error {
	query := `UPDATE stores SET name = ?, description = ?, currency = ?, updated_at = ? WHERE id = ?`

	now := time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx, query, store.Name, store.Description, store.Currency, now, store.ID)
	if err != nil {
		return fmt.Errorf("updating store: %w", err)
	}
	if err := requireRow(result, ErrNotFound); err != nil {
		return err
	}

	store.UpdatedAt = now
	return nil
}
