package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims represents the JWT claims for session tokens. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"typ"`
}

// TokenConfig holds the signing secret and lifetime of one token kind.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// TokenPair is an access token together with the refresh token minted alongside it.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService signs and verifies access and refresh tokens. Each kind has its
// own secret, so a token of one kind never verifies as the other.
type TokenService struct {
	issuer  string
	access  TokenConfig
	refresh TokenConfig
	now     func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(issuer string, access, refresh TokenConfig) *TokenService {
	return &TokenService{
		issuer:  issuer,
		access:  access,
		refresh: refresh,
		now:     time.Now,
	}
}

// AccessTTL returns the lifetime of access tokens.
func (s *TokenService) AccessTTL() time.Duration { return s.access.TTL }

// RefreshTTL returns the lifetime of refresh tokens.
func (s *TokenService) RefreshTTL() time.Duration { return s.refresh.TTL }

// Sign creates a signed token of the given kind for subject. The expiry is
// computed from the moment of signing.
func (s *TokenService) Sign(subject string, kind TokenKind) (string, time.Time, error) {
	cfg, err := s.config(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt := now.Add(cfg.TTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind: kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// SignAccess creates an access token for userID.
func (s *TokenService) SignAccess(userID string) (string, time.Time, error) {
	return s.Sign(userID, KindAccess)
}

// SignRefresh creates a refresh token for userID.
func (s *TokenService) SignRefresh(userID string) (string, time.Time, error) {
	return s.Sign(userID, KindRefresh)
}

// Verify parses tokenString as a token of the given kind. Bad signatures,
// malformed input, expiry and kind mismatches all return ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	cfg, err := s.config(kind)
	if err != nil || tokenString == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyAccess verifies an access token.
func (s *TokenService) VerifyAccess(tokenString string) (*Claims, error) {
	return s.Verify(tokenString, KindAccess)
}

// VerifyRefresh verifies a refresh token.
func (s *TokenService) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.Verify(tokenString, KindRefresh)
}

// IssuePair mints a fresh access and refresh token for userID.
func (s *TokenService) IssuePair(userID string) (TokenPair, error) {
	access, accessExp, err := s.SignAccess(userID)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, refreshExp, err := s.SignRefresh(userID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *TokenService) config(kind TokenKind) (TokenConfig, error) {
	switch kind {
	case KindAccess:
		return s.access, nil
	case KindRefresh:
		return s.refresh, nil
	default:
		return TokenConfig{}, ErrInvalidToken
	}
}
