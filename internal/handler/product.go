package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopdesk/shopdesk-go/internal/middleware"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
	"github.com/shopdesk/shopdesk-go/internal/service"
)

// ProductHandler handles HTTP requests for products. Every route sits behind
// an ownership guard.
type ProductHandler struct {
	service *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{service: svc}
}

// HandleCreate handles POST /api/v1/stores/{storeId}/products requests.
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), chi.URLParam(r, "storeId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// HandleList handles GET /api/v1/stores/{storeId}/products requests.
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), chi.URLParam(r, "storeId"), pagination.FromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// HandleGet handles GET /api/v1/products/{productId} requests.
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// HandleUpdate handles PATCH /api/v1/products/{productId} requests.
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "productId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// HandleDeleteMany handles DELETE /api/v1/products requests. It deletes
// exactly the ids the ownership guard checked, never a second reading of the body.
func (h *ProductHandler) HandleDeleteMany(w http.ResponseWriter, r *http.Request) {
	args, ok := middleware.ArgsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}
	ids, ok := args.Strings("product_ids")
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	req := model.DeleteProductsRequest{ProductIDs: ids}

	resp, err := h.service.DeleteMany(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
