// Copyright (c) 2026 SOYO. All rights reserved.

// PostgreSQL implementation of the account storage contract.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record into the users.account table.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - user: The user entity to persist.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, name, email, passwordhash, refreshtokenhash, avatarurl, avatarkey, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.RefreshTokenHash,
		user.AvatarURL,
		user.AvatarKey,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Unique-violation on email becomes a client-safe Conflict.
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_create_failed: %w", err), "create_user")
	}

	return nil
}

// FindByEmail retrieves a user record by their unique email address.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, name, email, passwordhash, refreshtokenhash, avatarurl, avatarkey, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(ctx, query, email)
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, name, email, passwordhash, refreshtokenhash, avatarurl, avatarkey, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(ctx, query, id)
}

// ExistsByID reports whether an account with the given ID exists.
func (repository *PostgresUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM users.account WHERE id = $1)"

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_failed: %w", err)
	}

	return exists, nil
}

// UpdateRefreshTokenHash replaces the stored refresh-token hash for a user.
func (repository *PostgresUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID, tokenHash string) error {
	const query = `
		UPDATE users.account
		SET refreshtokenhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, tokenHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_refresh_token_failed: %w", err)
	}

	return nil
}

// ClearRefreshTokenHash empties the stored refresh-token hash on logout.
func (repository *PostgresUserRepository) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET refreshtokenhash = '', updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_refresh_token_failed: %w", err)
	}

	return nil
}

// UpdateAvatar replaces the user's avatar URL and storage key.
func (repository *PostgresUserRepository) UpdateAvatar(ctx context.Context, userID, avatarURL, avatarKey string) error {
	const query = `
		UPDATE users.account
		SET avatarurl = $2, avatarkey = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, avatarURL, avatarKey, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_avatar_failed: %w", err)
	}

	return nil
}

// scanOne runs a single-row account query and maps pgx.ErrNoRows to NotFound.
func (repository *PostgresUserRepository) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.RefreshTokenHash,
		&user.AvatarURL,
		&user.AvatarKey,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}
