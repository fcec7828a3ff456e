package service

import (
	"context"

	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
)

// CustomerStore reads customers.
type CustomerStore interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	ListByStore(ctx context.Context, storeID string, page pagination.Params) ([]model.Customer, int, error)
}

// OrderStore reads orders.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByStore(ctx context.Context, storeID string, page pagination.Params) ([]model.Order, int, error)
}

// CustomerService exposes the customers and orders of a store to its owner.
type CustomerService struct {
	customers CustomerStore
	orders    OrderStore
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customers CustomerStore, orders OrderStore) *CustomerService {
	return &CustomerService{customers: customers, orders: orders}
}

func (s *CustomerService) ListCustomers(ctx context.Context, storeID string, page pagination.Params) (pagination.Page[model.Customer], error) {
	page = page.Normalize()
	items, total, err := s.customers.ListByStore(ctx, storeID, page)
	if err != nil {
		return pagination.Page[model.Customer]{}, err
	}
	return pagination.NewPage(items, total, page), nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	return c, notFound(err)
}

func (s *CustomerService) ListOrders(ctx context.Context, storeID string, page pagination.Params) (pagination.Page[model.Order], error) {
	page = page.Normalize()
	items, total, err := s.orders.ListByStore(ctx, storeID, page)
	if err != nil {
		return pagination.Page[model.Order]{}, err
	}
	return pagination.NewPage(items, total, page), nil
}

func (s *CustomerService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	return o, notFound(err)
}
