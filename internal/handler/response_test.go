package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopdesk/shopdesk-go/internal/service"
	"github.com/shopdesk/shopdesk-go/internal/slug"
	"github.com/shopdesk/shopdesk-go/internal/validate"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", &validate.Error{Fields: map[string]string{"name": "required"}}, http.StatusBadRequest, `{"error":"validation failed","fields":{"name":"required"}}`},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{"session", fmt.Errorf("refresh: %w", service.ErrInvalidSession), http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{"not found", service.ErrNotFound, http.StatusNotFound, `{"error":"not found"}`},
		{"slug taken", service.ErrSlugTaken, http.StatusConflict, `{"error":"slug already in use"}`},
		{"slug exhausted", slug.ErrSlugExhausted, http.StatusConflict, `{"error":"could not allocate a slug, pick one explicitly"}`},
		{"foreign product", service.ErrForeignProduct, http.StatusUnprocessableEntity, `{"error":"product does not belong to this store"}`},
		{"internal", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			require.Equal(t, tt.wantCode, rec.Code)
			require.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode int
	}{
		{"valid", `{"name":"x"}`, true, http.StatusOK},
		{"empty", ``, false, http.StatusBadRequest},
		{"malformed", `{"name":`, false, http.StatusBadRequest},
		{"too large", `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, false, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ok := decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), &dst)

			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
