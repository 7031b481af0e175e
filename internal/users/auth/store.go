// Copyright (c) 2026 SOYO. All rights reserved.

package auth

import (
	"context"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for SOYO is PostgreSQL ([PostgresUserRepository]).
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	// Callers must lowercase the email before lookup.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByID reports whether an account with the given ID exists.
	// Cheaper than FindByID for the per-request liveness check.
	ExistsByID(ctx context.Context, id string) (bool, error)

	// Create persists a brand-new user account to the storage.
	//
	// Returns a wrapped error if the email unique constraint fails.
	Create(ctx context.Context, user *User) error

	// UpdateRefreshTokenHash replaces the stored refresh-token hash.
	// Called on every successful login; the previous session dies with it.
	UpdateRefreshTokenHash(ctx context.Context, userID, tokenHash string) error

	// ClearRefreshTokenHash empties the stored refresh-token hash on logout.
	ClearRefreshTokenHash(ctx context.Context, userID string) error

	// UpdateAvatar replaces the user's avatar URL and storage key.
	// Both empty strings clear the avatar entirely.
	UpdateAvatar(ctx context.Context, userID, avatarURL, avatarKey string) error
}
