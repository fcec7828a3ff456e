package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopdesk/shopdesk-go/internal/logging"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
	"github.com/shopdesk/shopdesk-go/internal/repository"
	"github.com/shopdesk/shopdesk-go/internal/validate"
)

var ErrForeignProduct = errors.New("product does not belong to this store")

// CollectionStore persists collections.
type CollectionStore interface {
	Create(ctx context.Context, c *model.Collection) error
	SlugExists(ctx context.Context, storeID, slug string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Collection, error)
	ListByStore(ctx context.Context, storeID string, page pagination.Params) ([]model.Collection, int, error)
}

// CollectionService groups products of a store into collections.
type CollectionService struct {
	collections CollectionStore
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(collections CollectionStore) *CollectionService {
	return &CollectionService{collections: collections}
}

// Create adds a collection to storeID. Every listed product must belong to
// storeID. Slugs follow the same rules as products.
func (s *CollectionService) Create(ctx context.Context, storeID string, req model.CreateCollectionRequest) (*model.Collection, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	exists := func(ctx context.Context, candidate string) (bool, error) {
		return s.collections.SlugExists(ctx, storeID, candidate)
	}

	handle, err := allocateSlug(ctx, req.Slug, req.Title, exists)
	if err != nil {
		return nil, err
	}

	c := &model.Collection{
		StoreID:     storeID,
		Title:       strings.TrimSpace(req.Title),
		Slug:        handle,
		Description: req.Description,
		ProductIDs:  req.ProductIDs,
	}
	if c.ProductIDs == nil {
		c.ProductIDs = []string{}
	}

	if err := s.collections.Create(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrForeignProduct):
			return nil, ErrForeignProduct
		case errors.Is(err, repository.ErrDuplicateSlug):
			return nil, ErrSlugTaken
		default:
			return nil, err
		}
	}

	logging.FromContext(ctx).Info("collection created", "store_id", storeID, "collection_id", c.ID)
	return c, nil
}

// List returns one page of the collections of storeID.
func (s *CollectionService) List(ctx context.Context, storeID string, page pagination.Params) (pagination.Page[model.Collection], error) {
	page = page.Normalize()
	items, total, err := s.collections.ListByStore(ctx, storeID, page)
	if err != nil {
		return pagination.Page[model.Collection]{}, err
	}
	return pagination.NewPage(items, total, page), nil
}

// Get returns the collection id with its product IDs.
func (s *CollectionService) Get(ctx context.Context, id string) (*model.Collection, error) {
	c, err := s.collections.GetByID(ctx, id)
	return c, notFound(err)
}
