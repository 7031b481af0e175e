// Copyright (c) 2026 SOYO. All rights reserved.

// Package auth defines the user account entity and authentication use cases
// for the SOYO platform.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package auth

import (
	"time"
)

// Token lifetimes for the two-token authentication scheme.
const (
	// AccessTokenTTL keeps the stateless JWT short-lived to limit the
	// damage window of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL bounds how long a login survives without activity.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// User represents a registered member of the SOYO platform.
//
// # Rules
//   - Email is unique, stored lowercase, and validated at the boundary.
//   - PasswordHash is generated via Bcrypt exclusively via [Service].
//   - RefreshTokenHash holds the SHA-256 of the single active refresh token;
//     each login overwrites it, so one session per user exists at a time.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Explicitly omitted from JSON for security.
	RefreshTokenHash string    `json:"-"` // Hash of the active refresh token. Empty when logged out.
	AvatarURL        string    `json:"avatar_url,omitempty"`
	AvatarKey        string    `json:"-"` // Storage key behind AvatarURL; clients never need it.
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
