package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopdesk/shopdesk-go/internal/logging"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
	"github.com/shopdesk/shopdesk-go/internal/repository"
	"github.com/shopdesk/shopdesk-go/internal/slug"
	"github.com/shopdesk/shopdesk-go/internal/validate"
)

var ErrSlugTaken = errors.New("slug already in use")

// ProductStore persists products.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	SlugExists(ctx context.Context, storeID, slug string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	ListByStore(ctx context.Context, storeID string, page pagination.Params) ([]model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// ProductService manages the catalog of a store.
type ProductService struct {
	products ProductStore
}

// NewProductService creates a new ProductService.
func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

// Create adds a product to storeID. Without an explicit slug one is derived
// from the title and made unique within the store; an explicit slug that is
// already taken is an error.
func (s *ProductService) Create(ctx context.Context, storeID string, req model.CreateProductRequest) (*model.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	exists := func(ctx context.Context, candidate string) (bool, error) {
		return s.products.SlugExists(ctx, storeID, candidate)
	}
	handle, err := allocateSlug(ctx, req.Slug, req.Title, exists)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.ProductStatusDraft
	}

	p := &model.Product{
		StoreID:     storeID,
		Title:       strings.TrimSpace(req.Title),
		Slug:        handle,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Status:      status,
	}
	if err := s.products.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	logging.FromContext(ctx).Info("product created", "store_id", storeID, "product_id", p.ID)
	return p, nil
}

// allocateSlug returns explicit, normalized, when it is free and
// ErrSlugTaken when it is not. Without an explicit slug one is derived from
// title and suffixed until free.
func allocateSlug(ctx context.Context, explicit, title string, exists slug.ExistsFunc) (string, error) {
	if explicit == "" {
		return slug.Unique(ctx, title, exists)
	}

	handle := slug.Make(explicit)
	taken, err := exists(ctx, handle)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrSlugTaken
	}
	return handle, nil
}

// List returns one page of the products of storeID.
func (s *ProductService) List(ctx context.Context, storeID string, page pagination.Params) (pagination.Page[model.Product], error) {
	page = page.Normalize()
	items, total, err := s.products.ListByStore(ctx, storeID, page)
	if err != nil {
		return pagination.Page[model.Product]{}, err
	}
	return pagination.NewPage(items, total, page), nil
}

// Get returns the product id.
func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	return p, notFound(err)
}

// Update applies the non-nil fields of req to product id.
func (s *ProductService) Update(ctx context.Context, id string, req model.UpdateProductRequest) (*model.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// DeleteMany removes every listed product. The ownership guard has already
// checked that the caller owns all of them.
func (s *ProductService) DeleteMany(ctx context.Context, req model.DeleteProductsRequest) (model.DeleteProductsResponse, error) {
	if err := validate.Struct(req); err != nil {
		return model.DeleteProductsResponse{}, err
	}

	n, err := s.products.DeleteMany(ctx, req.ProductIDs)
	if err != nil {
		return model.DeleteProductsResponse{}, err
	}

	logging.FromContext(ctx).Info("products deleted", "requested", len(req.ProductIDs), "deleted", n)
	return model.DeleteProductsResponse{Deleted: n}, nil
}
