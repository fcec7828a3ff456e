package model

import "time"

const (
	DefaultLanguage = "en"
	DefaultTimeZone = "UTC"
	DefaultTheme    = "system"
)

// User represents a user in the database. A nil PasswordHash means password
// signin is impossible; a nil RefreshTokenHash means there is no active session.
type User struct {
	ID               string
	Email            string
	PasswordHash     *string
	RefreshTokenHash *string
	FirstName        string
	LastName         string
	Language         string
	TimeZone         string
	Theme            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// SigninRequest represents a user signin request.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the profile fields to change. Nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Language  *string `json:"language" validate:"omitempty,min=2,max=16"`
	TimeZone  *string `json:"time_zone" validate:"omitempty,timezone"`
	Theme     *string `json:"theme" validate:"omitempty,oneof=light dark system"`
}

// ChangePasswordRequest represents a password change for the signed-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

// AuthResponse is returned by every operation that starts or rotates a session.
type AuthResponse struct {
	AccessToken      string       `json:"access_token"`
	RefreshToken     string       `json:"refresh_token"`
	AccessExpiresAt  time.Time    `json:"access_expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	User             UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Language  string    `json:"language"`
	TimeZone  string    `json:"time_zone"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse strips the secret fields from u.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Language:  u.Language,
		TimeZone:  u.TimeZone,
		Theme:     u.Theme,
		CreatedAt: u.CreatedAt,
	}
}

// SignoutResponse is returned by signout.
type SignoutResponse struct {
	Success bool `json:"success"`
}
