package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopdesk/shopdesk-go/internal/middleware"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/pagination"
	"github.com/shopdesk/shopdesk-go/internal/repository"
	"github.com/shopdesk/shopdesk-go/internal/service"
	"github.com/stretchr/testify/require"
)

type products struct {
	byID    map[string]*model.Product
	deleted []string
}

func (p *products) Create(_ context.Context, prod *model.Product) error {
	prod.ID = "p-new"
	p.byID[prod.ID] = prod
	return nil
}

func (p *products) SlugExists(_ context.Context, storeID, s string) (bool, error) {
	for _, prod := range p.byID {
		if prod.StoreID == storeID && prod.Slug == s {
			return true, nil
		}
	}
	return false, nil
}

func (p *products) GetByID(_ context.Context, id string) (*model.Product, error) {
	prod, ok := p.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return prod, nil
}

func (p *products) ListByStore(_ context.Context, storeID string, page pagination.Params) ([]model.Product, int, error) {
	var out []model.Product
	for _, prod := range p.byID {
		if prod.StoreID == storeID {
			out = append(out, *prod)
		}
	}
	return out, len(out), nil
}

func (p *products) Update(context.Context, *model.Product) error { return nil }

func (p *products) DeleteMany(_ context.Context, ids []string) (int64, error) {
	p.deleted = append(p.deleted, ids...)
	return int64(len(ids)), nil
}

// owners resolves product ownership from a fixed table.
type owners map[string]string

func (o owners) OwnersOf(_ context.Context, _ model.ResourceKind, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if owner, ok := o[id]; ok {
			out[id] = owner
		}
	}
	return out, nil
}

const (
	aliceProduct = "0b6f1c2e-4a43-4d3c-9f0e-1c2b3a4d5e6f"
	bobProduct   = "1c7a2d3f-5b54-4e4d-8a1f-2d3c4b5e6f70"
)

func newProductRouter() (http.Handler, *products) {
	store := &products{byID: map[string]*model.Product{
		"p1": {ID: "p1", StoreID: "s1", Title: "Mug", Slug: "mug"},
	}}
	h := NewProductHandler(service.NewProductService(store))
	resolver := owners{aliceProduct: "alice", bobProduct: "bob"}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithIdentity(req.Context(), middleware.Identity{UserID: "alice"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/stores/{storeId}/products", h.HandleCreate)
	r.Get("/stores/{storeId}/products", h.HandleList)
	r.Get("/products/{productId}", h.HandleGet)
	r.With(middleware.Guard(middleware.OwnsAllProducts(resolver))).Delete("/products", h.HandleDeleteMany)
	r.Delete("/unguarded/products", h.HandleDeleteMany)
	return r, store
}

func TestProductHandler(t *testing.T) {
	router, store := newProductRouter()

	got := do(router, http.MethodGet, "/products/p1", "", nil)
	require.Equal(t, http.StatusOK, got.Code)
	require.Contains(t, got.Body.String(), `"slug":"mug"`)

	missing := do(router, http.MethodGet, "/products/nope", "", nil)
	require.Equal(t, http.StatusNotFound, missing.Code)

	created := do(router, http.MethodPost, "/stores/s1/products", `{"title":"Tea Pot","price_cents":1200}`, nil)
	require.Equal(t, http.StatusCreated, created.Code)
	require.Contains(t, created.Body.String(), `"slug":"tea-pot"`)
	require.Contains(t, created.Body.String(), `"store_id":"s1"`)

	taken := do(router, http.MethodPost, "/stores/s1/products", `{"title":"Another","slug":"mug"}`, nil)
	require.Equal(t, http.StatusConflict, taken.Code)

	list := do(router, http.MethodGet, "/stores/s1/products?limit=500", "", nil)
	require.Equal(t, http.StatusOK, list.Code)
	require.Contains(t, list.Body.String(), `"limit":100`)

	deleted := do(router, http.MethodDelete, "/products", `{"product_ids":["`+aliceProduct+`"]}`, nil)
	require.Equal(t, http.StatusOK, deleted.Code)
	require.JSONEq(t, `{"deleted":1}`, deleted.Body.String())
	require.Equal(t, []string{aliceProduct}, store.deleted)
}

func TestProductHandler_DeleteManyActsOnCheckedIDs(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantIDs  []string
	}{
		{"nested input", `{"input":{"product_ids":["` + aliceProduct + `"]}}`, http.StatusOK, []string{aliceProduct}},
		{"input and top level disagree", `{"input":{"product_ids":["` + aliceProduct + `"]},"product_ids":["` + bobProduct + `"]}`, http.StatusUnauthorized, nil},
		{"case variant of the key", `{"product_ids":["` + aliceProduct + `"],"Product_IDs":["` + bobProduct + `"]}`, http.StatusUnauthorized, nil},
		{"case variant only", `{"Product_IDs":["` + bobProduct + `"]}`, http.StatusUnauthorized, nil},
		{"foreign id", `{"product_ids":["` + aliceProduct + `","` + bobProduct + `"]}`, http.StatusUnauthorized, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, store := newProductRouter()

			rec := do(router, http.MethodDelete, "/products", tt.body, nil)

			require.Equal(t, tt.wantCode, rec.Code)
			require.Equal(t, tt.wantIDs, store.deleted)
		})
	}
}

func TestProductHandler_DeleteManyRequiresGuard(t *testing.T) {
	router, store := newProductRouter()

	rec := do(router, http.MethodDelete, "/unguarded/products", `{"product_ids":["`+aliceProduct+`"]}`, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, store.deleted)
}
