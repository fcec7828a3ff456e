package service

import (
	"context"
	"errors"

	"github.com/shopdesk/shopdesk-go/internal/crypto"
	"github.com/shopdesk/shopdesk-go/internal/logging"
	"github.com/shopdesk/shopdesk-go/internal/model"
	"github.com/shopdesk/shopdesk-go/internal/repository"
	"github.com/shopdesk/shopdesk-go/internal/validate"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidSession     = errors.New("invalid session")
)

// UserStore persists users and their session state.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	SetRefreshTokenHash(ctx context.Context, id string, hash *string) error
	SwapRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) error
}

// PasswordHasher hashes secrets and checks them against stored hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}

// AuthService runs the session lifecycle: signup and signin start a session,
// refresh rotates it, signout ends it. Only a hash of the current refresh
// token is stored, so every refresh invalidates the token it consumed.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens *crypto.TokenService

	// dummyHash is verified against when the email is unknown, so that
	// signin takes the same time whether or not the account exists.
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens *crypto.TokenService) *AuthService {
	// On failure dummy stays empty and the equalizing verify returns early.
	dummy, _ := hasher.Hash("shopdesk-dummy-password")

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}
}

// Signup registers a new user and starts their first session.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return model.AuthResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return model.AuthResponse{}, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: &hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrDuplicateEmail
		}
		return model.AuthResponse{}, err
	}

	logging.FromContext(ctx).Info("user signed up", "user_id", user.ID)
	return s.startSession(ctx, user)
}

// Signin checks the credentials and starts a new session, replacing any
// previous one. Unknown emails, accounts without a password and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Signin(ctx context.Context, req model.SigninRequest) (model.AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		s.hasher.Verify(req.Password, s.dummyHash)
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(req.Password, s.dummyHash)
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	if user.PasswordHash == nil {
		s.hasher.Verify(req.Password, s.dummyHash)
		return model.AuthResponse{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(req.Password, *user.PasswordHash) {
		logging.FromContext(ctx).Info("signin rejected", "user_id", user.ID)
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// Refresh exchanges refreshToken for a new token pair. The token must match
// the hash stored for userID; the stored hash is then swapped for the new
// token's, so the presented token cannot be used again. Of two concurrent
// refreshes with the same token, exactly one succeeds.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (model.AuthResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidSession
		}
		return model.AuthResponse{}, err
	}

	if user.RefreshTokenHash == nil || !s.hasher.Verify(refreshToken, *user.RefreshTokenHash) {
		logging.FromContext(ctx).Warn("refresh rejected", "user_id", userID)
		return model.AuthResponse{}, ErrInvalidSession
	}

	pair, newHash, err := s.mint(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	if err := s.users.SwapRefreshTokenHash(ctx, user.ID, *user.RefreshTokenHash, newHash); err != nil {
		if errors.Is(err, repository.ErrStaleSession) {
			logging.FromContext(ctx).Warn("refresh lost rotation race", "user_id", userID)
			return model.AuthResponse{}, ErrInvalidSession
		}
		return model.AuthResponse{}, err
	}

	return authResponse(user, pair), nil
}

// Signout ends the session of userID. Every refresh token issued so far stops working.
func (s *AuthService) Signout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("user signed out", "user_id", userID)
	return nil
}

// Me returns the profile of userID.
func (s *AuthService) Me(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.lookup(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return user.ToResponse(), nil
}

// UpdateProfile changes the non-security profile fields of userID.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (model.UserResponse, error) {
	if err := validate.Struct(req); err != nil {
		return model.UserResponse{}, err
	}

	user, err := s.lookup(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.TimeZone != nil {
		user.TimeZone = *req.TimeZone
	}
	if req.Theme != nil {
		user.Theme = *req.Theme
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return model.UserResponse{}, err
	}
	return user.ToResponse(), nil
}

// ChangePassword replaces the password of userID after checking the current
// one, then starts a fresh session so that every other session ends.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) (model.AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return model.AuthResponse{}, err
	}

	user, err := s.lookup(ctx, userID)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if user.PasswordHash == nil || !s.hasher.Verify(req.CurrentPassword, *user.PasswordHash) {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return model.AuthResponse{}, err
	}
	user.PasswordHash = &hash

	logging.FromContext(ctx).Info("password changed", "user_id", user.ID)
	return s.startSession(ctx, user)
}

func (s *AuthService) lookup(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidSession
	}
	return user, err
}

// startSession mints a pair for user and overwrites the stored refresh hash.
func (s *AuthService) startSession(ctx context.Context, user *model.User) (model.AuthResponse, error) {
	pair, hash, err := s.mint(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	if err := s.users.SetRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return model.AuthResponse{}, err
	}
	user.RefreshTokenHash = &hash

	return authResponse(user, pair), nil
}

func (s *AuthService) mint(userID string) (crypto.TokenPair, string, error) {
	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return crypto.TokenPair{}, "", err
	}

	hash, err := s.hasher.Hash(pair.RefreshToken)
	if err != nil {
		return crypto.TokenPair{}, "", err
	}

	return pair, hash, nil
}

func authResponse(user *model.User, pair crypto.TokenPair) model.AuthResponse {
	return model.AuthResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             user.ToResponse(),
	}
}
