package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shopdesk/shopdesk-go/internal/logging"
	"github.com/shopdesk/shopdesk-go/internal/middleware"
	"github.com/shopdesk/shopdesk-go/internal/service"
	"github.com/shopdesk/shopdesk-go/internal/slug"
	"github.com/shopdesk/shopdesk-go/internal/validate"
)

const maxBodyBytes = 1 << 20 // 1MB

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) errorBody {
	return errorBody{Error: msg}
}

// decodeJSON reads the request body into dst. On failure it writes the error
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
		case errors.Is(err, io.EOF):
			writeJSON(w, http.StatusBadRequest, errorResponse("request body is empty"))
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		}
		return false
	}
	return true
}

// currentUser returns the authenticated user id, writing a 401 when there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return "", false
	}
	return id.UserID, true
}

// writeError maps a service error to a response. Anything unrecognised is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *validate.Error
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: invalid.Fields})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidSession):
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
	case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, service.ErrSlugTaken):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrForeignProduct):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err.Error()))
	case errors.Is(err, slug.ErrSlugExhausted):
		writeJSON(w, http.StatusConflict, errorResponse("could not allocate a slug, pick one explicitly"))
	default:
		logging.FromContext(r.Context()).Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
