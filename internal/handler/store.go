package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/service"
)

// StoreHandler handles HTTP requests for stores.
type StoreHandler struct {
	service *service.StoreService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(svc *service.StoreService) *StoreHandler {
	return &StoreHandler{service: svc}
}

// HandleCreate handles POST /api/v1/stores requests.
func (h *StoreHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.CreateStoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	store, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, store)
}

// HandleList handles GET /api/v1/stores requests.
func (h *StoreHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stores, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stores)
}

// HandleGet handles GET /api/v1/stores/{storeId} requests.
func (h *StoreHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.Get(r.Context(), chi.URLParam(r, "storeId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, store)
}

// HandleUpdate handles PATCH /api/v1/stores/{storeId} requests.
func (h *StoreHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateStoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	store, err := h.service.Update(r.Context(), chi.URLParam(r, "storeId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, store)
}
