package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenService() *TokenService {
	return NewTokenService("shopdesk",
		TokenConfig{Secret: "access-secret", TTL: 15 * time.Minute},
		TokenConfig{Secret: "refresh-secret", TTL: 7 * 24 * time.Hour},
	)
}

func TestSignAndVerifyAccess(t *testing.T) {
	svc := newTestTokenService()

	token, expiresAt, err := svc.Sign("user-1", KindAccess)
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("Sign() returned empty string")
	}
	if time.Until(expiresAt) > 15*time.Minute || time.Until(expiresAt) < 14*time.Minute {
		t.Errorf("Sign() expiresAt = %v, want about 15m from now", expiresAt)
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess() unexpected error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("VerifyAccess() Subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Kind != KindAccess {
		t.Errorf("VerifyAccess() Kind = %q, want %q", claims.Kind, KindAccess)
	}
}

func TestVerifyRejectsOtherKind(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair() unexpected error: %v", err)
	}

	if _, err := svc.VerifyRefresh(pair.AccessToken); err != ErrInvalidToken {
		t.Errorf("VerifyRefresh(access) error = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.VerifyAccess(pair.RefreshToken); err != ErrInvalidToken {
		t.Errorf("VerifyAccess(refresh) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsKindClaimUnderSameSecret(t *testing.T) {
	// Even if both secrets were equal, the typ claim keeps the kinds apart.
	svc := NewTokenService("shopdesk",
		TokenConfig{Secret: "shared", TTL: time.Minute},
		TokenConfig{Secret: "shared", TTL: time.Hour},
	)

	refresh, _, err := svc.Sign("user-1", KindRefresh)
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}
	if _, err := svc.VerifyAccess(refresh); err != ErrInvalidToken {
		t.Errorf("VerifyAccess(refresh) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyInvalid(t *testing.T) {
	svc := newTestTokenService()

	for _, token := range []string{"", "not-a-valid-token", "a.b.c"} {
		if _, err := svc.VerifyAccess(token); err != ErrInvalidToken {
			t.Errorf("VerifyAccess(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := newTestTokenService().Sign("user-1", KindAccess)
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}

	other := NewTokenService("shopdesk",
		TokenConfig{Secret: "another-secret", TTL: time.Minute},
		TokenConfig{Secret: "refresh-secret", TTL: time.Hour},
	)
	if _, err := other.VerifyAccess(token); err != ErrInvalidToken {
		t.Errorf("VerifyAccess() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := newTestTokenService()
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.Sign("user-1", KindAccess)
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.VerifyAccess(token); err != ErrInvalidToken {
		t.Errorf("VerifyAccess() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "wrong-issuer",
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Kind: KindAccess,
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := newTestTokenService().VerifyAccess(tokenString); err != ErrInvalidToken {
		t.Errorf("VerifyAccess() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyMissingExpiry(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  "shopdesk",
			Subject: "user-1",
		},
		Kind: KindAccess,
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := newTestTokenService().VerifyAccess(tokenString); err != ErrInvalidToken {
		t.Errorf("VerifyAccess() error = %v, want ErrInvalidToken", err)
	}
}

func TestIssuePairTokensDiffer(t *testing.T) {
	svc := newTestTokenService()

	first, err := svc.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair() unexpected error: %v", err)
	}
	second, err := svc.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair() unexpected error: %v", err)
	}

	if first.AccessToken == second.AccessToken {
		t.Error("IssuePair() returned the same access token twice")
	}
	if first.RefreshToken == second.RefreshToken {
		t.Error("IssuePair() returned the same refresh token twice")
	}
	if !first.RefreshExpiresAt.After(first.AccessExpiresAt) {
		t.Error("refresh token should outlive access token")
	}
}
