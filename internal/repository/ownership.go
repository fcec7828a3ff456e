package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopdesk/shopdesk-go/internal/model"
)

var ErrUnknownResourceKind = errors.New("unknown resource kind")

// ownerQueries resolve the owning user of each guarded resource kind. Stores
// carry the owner directly; everything else is one hop away through stores.
var ownerQueries = map[model.ResourceKind]string{
	model.KindStore:      `SELECT s.id, s.owner_id FROM stores s WHERE s.id IN (%s)`,
	model.KindProduct:    `SELECT p.id, s.owner_id FROM products p JOIN stores s ON s.id = p.store_id WHERE p.id IN (%s)`,
	model.KindCollection: `SELECT c.id, s.owner_id FROM collections c JOIN stores s ON s.id = c.store_id WHERE c.id IN (%s)`,
	model.KindCustomer:   `SELECT c.id, s.owner_id FROM customers c JOIN stores s ON s.id = c.store_id WHERE c.id IN (%s)`,
	model.KindOrder:      `SELECT o.id, s.owner_id FROM orders o JOIN stores s ON s.id = o.store_id WHERE o.id IN (%s)`,
}

// OwnershipRepository answers "who owns this resource" for the authorization guards.
type OwnershipRepository struct {
	db DBTX
}

// NewOwnershipRepository creates a new OwnershipRepository.
func NewOwnershipRepository(db DBTX) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

// OwnersOf maps every id of the given kind that exists to its owner's user ID.
// Ids that do not exist are absent from the result.
func (r *OwnershipRepository) OwnersOf(ctx context.Context, kind model.ResourceKind, ids []string) (map[string]string, error) {
	tmpl, ok := ownerQueries[kind]
	if !ok {
		return nil, ErrUnknownResourceKind
	}

	owners := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}

	query := fmt.Sprintf(tmpl, placeholders(len(ids)))
	rows, err := r.db.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("resolving %s owners: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, owner string
		if err := rows.Scan(&id, &owner); err != nil {
			return nil, err
		}
		owners[id] = owner
	}

	return owners, rows.Err()
}
