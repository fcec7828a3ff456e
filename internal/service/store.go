package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopdesk/shopdesk-go/internal/logging"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/repository"
	"github.com/shopdesk/shopdesk-go/internal/validate"
)

var ErrNotFound = errors.New("not found")

// StoreStore persists stores.
type StoreStore interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id string) (*model.Store, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Store, error)
	Update(ctx context.Context, store *model.Store) error
}

// StoreService manages the stores of a user. Ownership is checked by the
// guards in front of the handlers, not here.
type StoreService struct {
	stores StoreStore
}

// NewStoreService creates a new StoreService.
func NewStoreService(stores StoreStore) *StoreService {
	return &StoreService{stores: stores}
}

// Create opens a new store owned by ownerID.
func (s *StoreService) Create(ctx context.Context, ownerID string, req model.CreateStoreRequest) (*model.Store, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	store := &model.Store{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Currency:    strings.ToUpper(req.Currency),
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("store created", "store_id", store.ID)
	return store, nil
}

// ListMine returns every store owned by ownerID.
func (s *StoreService) ListMine(ctx context.Context, ownerID string) ([]model.Store, error) {
	stores, err := s.stores.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if stores == nil {
		stores = []model.Store{}
	}
	return stores, nil
}

// Get returns the store id.
func (s *StoreService) Get(ctx context.Context, id string) (*model.Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	return store, notFound(err)
}

// Update applies the non-nil fields of req to store id.
func (s *StoreService) Update(ctx context.Context, id string, req model.UpdateStoreRequest) (*model.Store, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Name != nil {
		store.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		store.Description = *req.Description
	}
	if req.Currency != nil {
		store.Currency = strings.ToUpper(*req.Currency)
	}

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, notFound(err)
	}
	return store, nil
}

// notFound translates the repository's not-found sentinel.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
