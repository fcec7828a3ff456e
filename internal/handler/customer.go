package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
	"github.com/shopdesk/shopdesk-go/internal/service"
)

// CustomerHandler serves the read-only customer and order endpoints.
type CustomerHandler struct {
	service *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: svc}
}

// HandleListCustomers handles GET /api/v1/stores/{storeId}/customers requests.
func (h *CustomerHandler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListCustomers(r.Context(), chi.URLParam(r, "storeId"), pagination.FromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGetCustomer handles GET /api/v1/customers/{customerId} requests.
func (h *CustomerHandler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleListOrders handles GET /api/v1/stores/{storeId}/orders requests.
func (h *CustomerHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListOrders(r.Context(), chi.URLParam(r, "storeId"), pagination.FromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGetOrder handles GET /api/v1/orders/{orderId} requests.
func (h *CustomerHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
