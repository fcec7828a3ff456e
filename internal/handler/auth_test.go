package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopdesk/shopdesk-go/internal/cookie"
	"github.com/shopdesk/shopdesk-go/internal/crypto"
	"github.com/shopdesk/shopdesk-go/internal/middleware"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/repository"
	"github.com/shopdesk/shopdesk-go/internal/service"
	"github.com/stretchr/testify/require"
)

// users is a minimal in-memory service.UserStore.
type users struct {
	mu   sync.Mutex
	byID map[string]*model.User
}

func (u *users) Create(_ context.Context, user *model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.byID {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(u.byID)+1)
	cp := *user
	u.byID[user.ID] = &cp
	return nil
}

func (u *users) find(match func(*model.User) bool) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.byID {
		if match(existing) {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (u *users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return u.find(func(x *model.User) bool { return x.Email == email })
}

func (u *users) GetByID(_ context.Context, id string) (*model.User, error) {
	return u.find(func(x *model.User) bool { return x.ID == id })
}

func (u *users) UpdateProfile(_ context.Context, user *model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	cp := *user
	u.byID[user.ID] = &cp
	return nil
}

func (u *users) UpdatePasswordHash(_ context.Context, id, hash string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.byID[id].PasswordHash = &hash
	return nil
}

func (u *users) SetRefreshTokenHash(_ context.Context, id string, hash *string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if existing, ok := u.byID[id]; ok {
		existing.RefreshTokenHash = hash
	}
	return nil
}

func (u *users) SwapRefreshTokenHash(_ context.Context, id, oldHash, newHash string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	existing, ok := u.byID[id]
	if !ok || existing.RefreshTokenHash == nil || *existing.RefreshTokenHash != oldHash {
		return repository.ErrStaleSession
	}
	existing.RefreshTokenHash = &newHash
	return nil
}

// newAuthRouter wires the auth routes the way the server does.
func newAuthRouter() http.Handler {
	hasher := crypto.NewHasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	tokens := crypto.NewTokenService("shopdesk",
		crypto.TokenConfig{Secret: "access-secret", TTL: 15 * time.Minute},
		crypto.TokenConfig{Secret: "refresh-secret", TTL: time.Hour},
	)
	cookies := cookie.New(cookie.Config{
		AccessName:  "Authentication",
		RefreshName: "Refresh",
		AccessTTL:   15 * time.Minute,
		RefreshTTL:  time.Hour,
		Secret:      "cookie-secret",
	})

	svc := service.NewAuthService(&users{byID: map[string]*model.User{}}, hasher, tokens)
	h := NewAuthHandler(svc, cookies)

	r := chi.NewRouter()
	r.Post("/signup", h.HandleSignup)
	r.Post("/signin", h.HandleSignin)
	r.With(middleware.AuthenticateRefresh(tokens, cookies)).Post("/refresh", h.HandleRefresh)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, cookies))
		r.Post("/signout", h.HandleSignout)
		r.Get("/me", h.HandleMe)
		r.Patch("/me", h.HandleUpdateProfile)
		r.Post("/password", h.HandleChangePassword)
	})
	return r
}

func do(router http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const signupBody = `{"email":"ada@example.com","password":"correct horse","first_name":"Ada","last_name":"Lovelace"}`

func TestSignup_SetsCookies(t *testing.T) {
	router := newAuthRouter()

	rec := do(router, http.MethodPost, "/signup", signupBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "ada@example.com", resp.User.Email)
	require.NotContains(t, rec.Body.String(), "password_hash")

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
		require.True(t, c.HttpOnly)
	}
	require.True(t, names["Authentication"])
	require.True(t, names["Refresh"])

	me := do(router, http.MethodGet, "/me", "", rec.Result().Cookies())
	require.Equal(t, http.StatusOK, me.Code)
	require.Contains(t, me.Body.String(), `"first_name":"Ada"`)
}

func TestSignup_Errors(t *testing.T) {
	router := newAuthRouter()
	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/signup", signupBody, nil).Code)

	dup := do(router, http.MethodPost, "/signup", signupBody, nil)
	require.Equal(t, http.StatusConflict, dup.Code)

	invalid := do(router, http.MethodPost, "/signup", `{"email":"nope","password":"short"}`, nil)
	require.Equal(t, http.StatusBadRequest, invalid.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(invalid.Body.Bytes(), &body))
	require.Equal(t, "email", body.Fields["email"])
	require.Equal(t, "min=8", body.Fields["password"])

	garbage := do(router, http.MethodPost, "/signup", `{`, nil)
	require.Equal(t, http.StatusBadRequest, garbage.Code)
}

func TestSignin_WrongPasswordIsGeneric(t *testing.T) {
	router := newAuthRouter()
	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/signup", signupBody, nil).Code)

	for _, body := range []string{
		`{"email":"ada@example.com","password":"wrong password"}`,
		`{"email":"nobody@example.com","password":"correct horse"}`,
	} {
		rec := do(router, http.MethodPost, "/signin", body, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
	}

	ok := do(router, http.MethodPost, "/signin", `{"email":"ada@example.com","password":"correct horse"}`, nil)
	require.Equal(t, http.StatusOK, ok.Code)
}

func TestRefresh_RotatesAndRejectsReplay(t *testing.T) {
	router := newAuthRouter()
	signup := do(router, http.MethodPost, "/signup", signupBody, nil)
	require.Equal(t, http.StatusCreated, signup.Code)
	original := signup.Result().Cookies()

	rotated := do(router, http.MethodPost, "/refresh", "", original)
	require.Equal(t, http.StatusOK, rotated.Code)

	replay := do(router, http.MethodPost, "/refresh", "", original)
	require.Equal(t, http.StatusUnauthorized, replay.Code)
	for _, c := range replay.Result().Cookies() {
		require.Equal(t, -1, c.MaxAge, "cookie %s must be cleared", c.Name)
	}

	again := do(router, http.MethodPost, "/refresh", "", rotated.Result().Cookies())
	require.Equal(t, http.StatusOK, again.Code)
}

func TestRefresh_WithoutToken(t *testing.T) {
	rec := do(newAuthRouter(), http.MethodPost, "/refresh", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignout_EndsSession(t *testing.T) {
	router := newAuthRouter()
	signup := do(router, http.MethodPost, "/signup", signupBody, nil)
	session := signup.Result().Cookies()

	out := do(router, http.MethodPost, "/signout", "", session)
	require.Equal(t, http.StatusOK, out.Code)
	require.JSONEq(t, `{"success":true}`, out.Body.String())
	require.Len(t, out.Result().Cookies(), 2)

	refresh := do(router, http.MethodPost, "/refresh", "", session)
	require.Equal(t, http.StatusUnauthorized, refresh.Code)
}

func TestUpdateProfileAndChangePassword(t *testing.T) {
	router := newAuthRouter()
	session := do(router, http.MethodPost, "/signup", signupBody, nil).Result().Cookies()

	patched := do(router, http.MethodPatch, "/me", `{"theme":"dark","time_zone":"UTC"}`, session)
	require.Equal(t, http.StatusOK, patched.Code)
	require.Contains(t, patched.Body.String(), `"theme":"dark"`)

	badTheme := do(router, http.MethodPatch, "/me", `{"theme":"neon"}`, session)
	require.Equal(t, http.StatusBadRequest, badTheme.Code)

	wrong := do(router, http.MethodPost, "/password", `{"current_password":"nope","new_password":"battery staple"}`, session)
	require.Equal(t, http.StatusUnauthorized, wrong.Code)

	changed := do(router, http.MethodPost, "/password", `{"current_password":"correct horse","new_password":"battery staple"}`, session)
	require.Equal(t, http.StatusOK, changed.Code)

	// The session from before the change can no longer refresh.
	stale := do(router, http.MethodPost, "/refresh", "", session)
	require.Equal(t, http.StatusUnauthorized, stale.Code)

	signin := do(router, http.MethodPost, "/signin", `{"email":"ada@example.com","password":"battery staple"}`, nil)
	require.Equal(t, http.StatusOK, signin.Code)
}

func TestMe_Unauthenticated(t *testing.T) {
	rec := do(newAuthRouter(), http.MethodGet, "/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
