package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
	"github.com/shopdesk/shopdesk-go/internal/service"
)

// CollectionHandler handles HTTP requests for collections.
type CollectionHandler struct {
	service *service.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(svc *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{service: svc}
}

// HandleCreate handles POST /api/v1/stores/{storeId}/collections requests.
func (h *CollectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCollectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), chi.URLParam(r, "storeId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// HandleList handles GET /api/v1/stores/{storeId}/collections requests.
func (h *CollectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), chi.URLParam(r, "storeId"), pagination.FromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// HandleGet handles GET /api/v1/collections/{collectionId} requests.
func (h *CollectionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "collectionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}
