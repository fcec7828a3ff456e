package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopdesk/shopdesk-go/internal/cookie"
	"github.com/shopdesk/shopdesk-go/internal/crypto"
	"github.com/shopdesk/shopdesk-go/internal/logging"
)

// Identity is the authenticated caller of a request. RefreshToken is only
// set by AuthenticateRefresh.
type Identity struct {
	UserID       string
	RefreshToken string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// Authenticate returns middleware that accepts an access token from the
// Authorization header or, failing that, from the signed access cookie.
func Authenticate(tokens *crypto.TokenService, cookies *cookie.Transport) func(http.Handler) http.Handler {
	return authenticate(tokens, crypto.KindAccess, cookies.AccessToken)
}

// AuthenticateRefresh is Authenticate for the refresh endpoint: it reads the
// refresh token and keeps the raw token on the identity.
func AuthenticateRefresh(tokens *crypto.TokenService, cookies *cookie.Transport) func(http.Handler) http.Handler {
	return authenticate(tokens, crypto.KindRefresh, cookies.RefreshToken)
}

func authenticate(tokens *crypto.TokenService, kind crypto.TokenKind, fromCookie func(*http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, source := extractToken(r, fromCookie)
			if token == "" {
				logging.FromContext(r.Context()).Debug("no session token", "kind", kind)
				writeUnauthorized(w)
				return
			}

			claims, err := tokens.Verify(token, kind)
			if err != nil {
				logging.FromContext(r.Context()).Debug("session token rejected", "kind", kind, "source", source)
				writeUnauthorized(w)
				return
			}

			id := Identity{UserID: claims.Subject}
			if kind == crypto.KindRefresh {
				id.RefreshToken = token
			}

			ctx := WithIdentity(r.Context(), id)
			ctx = logging.WithContext(ctx, logging.FromContext(ctx).With("user_id", id.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken prefers a Bearer header over the cookie.
func extractToken(r *http.Request, fromCookie func(*http.Request) (string, error)) (string, string) {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found && token != "" {
		return strings.TrimSpace(token), "header"
	}

	token, err := fromCookie(r)
	if err != nil {
		return "", ""
	}
	return token, "cookie"
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
