package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/shopdesk-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrStaleSession   = errors.New("refresh token hash changed concurrently")
)

const userColumns = `id, email, password_hash, refresh_token_hash, first_name, last_name,
	language, time_zone, theme, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID and timestamps on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, password_hash, refresh_token_hash, first_name, last_name,
		language, time_zone, theme, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if user.Language == "" {
		user.Language = model.DefaultLanguage
	}
	if user.TimeZone == "" {
		user.TimeZone = model.DefaultTimeZone
	}
	if user.Theme == "" {
		user.Theme = model.DefaultTheme
	}

	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)

	_, err := r.db.ExecContext(ctx, query,
		id, user.Email, user.PasswordHash, user.RefreshTokenHash, user.FirstName, user.LastName,
		user.Language, user.TimeZone, user.Theme, now, now,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a user by their email address. The comparison is case-sensitive.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanOne(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.RefreshTokenHash, &user.FirstName, &user.LastName,
		&user.Language, &user.TimeZone, &user.Theme, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	return user, nil
}

// UpdateProfile writes the non-security profile fields of user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET first_name = ?, last_name = ?, language = ?, time_zone = ?, theme = ?, updated_at = ?
		WHERE id = ?`

	now := time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx, query,
		user.FirstName, user.LastName, user.Language, user.TimeZone, user.Theme, now, user.ID,
	)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if err := requireRow(result, ErrUserNotFound); err != nil {
		return err
	}

	user.UpdatedAt = now
	return nil
}

// UpdatePasswordHash replaces the stored password hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, hash, time.Now().UTC().Truncate(time.Second), id)
	if err != nil {
		return fmt.Errorf("updating password hash: %w", err)
	}
	return requireRow(result, ErrUserNotFound)
}

// SetRefreshTokenHash overwrites the stored refresh token hash unconditionally.
// A nil hash clears the session. The last writer wins.
func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id string, hash *string) error {
	query := `UPDATE users SET refresh_token_hash = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, hash, id); err != nil {
		return fmt.Errorf("setting refresh token hash: %w", err)
	}
	return nil
}

// SwapRefreshTokenHash replaces oldHash with newHash only if oldHash is still
// the stored value. It returns ErrStaleSession when another writer got there first.
func (r *UserRepository) SwapRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) error {
	query := `UPDATE users SET refresh_token_hash = ? WHERE id = ? AND refresh_token_hash = ?`

	result, err := r.db.ExecContext(ctx, query, newHash, id, oldHash)
	if err != nil {
		return fmt.Errorf("swapping refresh token hash: %w", err)
	}
	return requireRow(result, ErrStaleSession)
}

// requireRow returns notFound when result touched no rows.
func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
