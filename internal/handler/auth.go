package handler

import (
	"errors"
	"net/http"

	"github.com/shopdesk/shopdesk-go/internal/cookie"
	"github.com/shopdesk/shopdesk-go/internal/crypto"
	"github.com/shopdesk/shopdesk-go/internal/middleware"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
	cookies *cookie.Transport
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, cookies *cookie.Transport) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies}
}

// HandleSignup handles POST /api/v1/auth/signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusCreated, resp)
}

// HandleSignin handles POST /api/v1/auth/signin requests.
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req model.SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Signin(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, resp)
}

// HandleRefresh handles POST /api/v1/auth/refresh requests. It runs behind
// the refresh guard, which puts the presented token on the identity.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok || id.RefreshToken == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.Refresh(r.Context(), id.UserID, id.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			h.cookies.ClearSessionCookies(w)
		}
		writeError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, resp)
}

// HandleSignout handles POST /api/v1/auth/signout requests.
func (h *AuthHandler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Signout(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.ClearSessionCookies(w)
	writeJSON(w, http.StatusOK, model.SignoutResponse{Success: true})
}

// HandleMe handles GET /api/v1/auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateProfile handles PATCH /api/v1/auth/me requests.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleChangePassword handles POST /api/v1/auth/password requests.
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.ChangePassword(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, resp)
}

// writeSession sets the session cookies for resp and writes it as the body.
func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, resp model.AuthResponse) {
	pair := crypto.TokenPair{
		AccessToken:      resp.AccessToken,
		RefreshToken:     resp.RefreshToken,
		AccessExpiresAt:  resp.AccessExpiresAt,
		RefreshExpiresAt: resp.RefreshExpiresAt,
	}
	if err := h.cookies.SetSessionCookies(w, pair); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, status, resp)
}
