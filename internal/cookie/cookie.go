// Package cookie carries session tokens in signed, httpOnly cookies.
package cookie

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/shopdesk/shopdesk-go/internal/crypto"
)

var ErrNoCookie = errors.New("session cookie missing or invalid")

// Config describes the two session cookies.
type Config struct {
	AccessName  string
	RefreshName string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	Secret      string
	Domain      string
	Secure      bool
}

// Transport writes and reads the access and refresh cookies. Values are
// HMAC-signed with the cookie secret, which is independent of the JWT secrets.
type Transport struct {
	cfg   Config
	codec *securecookie.SecureCookie
}

// New creates a Transport. Signed values older than the refresh lifetime are
// rejected even if the browser still presents them.
func New(cfg Config) *Transport {
	codec := securecookie.New([]byte(cfg.Secret), nil)
	codec.SetSerializer(securecookie.NopEncoder{})
	codec.MaxAge(int(cfg.RefreshTTL / time.Second))

	return &Transport{cfg: cfg, codec: codec}
}

// SetSessionCookies writes both session cookies for pair.
func (t *Transport) SetSessionCookies(w http.ResponseWriter, pair crypto.TokenPair) error {
	access, err := t.codec.Encode(t.cfg.AccessName, []byte(pair.AccessToken))
	if err != nil {
		return err
	}
	refresh, err := t.codec.Encode(t.cfg.RefreshName, []byte(pair.RefreshToken))
	if err != nil {
		return err
	}

	http.SetCookie(w, t.cookie(t.cfg.AccessName, access, t.cfg.AccessTTL, pair.AccessExpiresAt))
	http.SetCookie(w, t.cookie(t.cfg.RefreshName, refresh, t.cfg.RefreshTTL, pair.RefreshExpiresAt))
	return nil
}

// ClearSessionCookies expires both session cookies.
func (t *Transport) ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{t.cfg.AccessName, t.cfg.RefreshName} {
		c := t.cookie(name, "", 0, time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

// AccessToken returns the access token carried by r's signed cookie.
func (t *Transport) AccessToken(r *http.Request) (string, error) {
	return t.read(r, t.cfg.AccessName)
}

// RefreshToken returns the refresh token carried by r's signed cookie.
func (t *Transport) RefreshToken(r *http.Request) (string, error) {
	return t.read(r, t.cfg.RefreshName)
}

func (t *Transport) read(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", ErrNoCookie
	}

	var value []byte
	if err := t.codec.Decode(name, c.Value, &value); err != nil {
		return "", ErrNoCookie
	}
	if len(value) == 0 {
		return "", ErrNoCookie
	}

	return string(value), nil
}

func (t *Transport) cookie(name, value string, ttl time.Duration, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   t.cfg.Domain,
		Expires:  expires,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   t.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
