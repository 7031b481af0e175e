// Copyright (c) 2026 SOYO. All rights reserved.

// Authentication use cases for the SOYO platform.
//
// # Architecture
//
// Services in this package orchestrate domain entities and interact with
// repositories through interfaces. They are technology-agnostic and do not
// know about HTTP or SQL.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/internal/platform/sec"
	"github.com/soyoapp/soyo/pkg/uuidv7"
)

// TokenProvider defines the contract for issuing and verifying security tokens.
//
// The interface is satisfied by [sec.TokenService]; tests substitute it with
// a deterministic fake.
type TokenProvider interface {
	// GenerateAccessToken creates a short-lived signed JWT for the given user.
	GenerateAccessToken(userID string, timeToLive time.Duration) (string, error)

	// GenerateRefreshToken creates a long-lived signed JWT for the given user,
	// signed with the refresh secret.
	GenerateRefreshToken(userID string, timeToLive time.Duration) (string, error)

	// VerifyRefreshToken validates a refresh JWT and extracts its claims.
	VerifyRefreshToken(token string) (*sec.AuthClaims, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, signup,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
	}
}

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup validates, hashes, and persists a brand new user account, then
// logs the account in.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: The user-provided signup details.
//
// # Returns
//   - A [*LoginSession] for the new account: clients are signed in
//     immediately, no separate login round-trip.
//   - Returns [apperr.Conflict] if the email already exists.
//
// # Business Rules
//   - Emails must be unique and are stored lowercase.
func (service *Service) Signup(context context.Context, input SignupInput) (*LoginSession, error) {
	// ── 1. Normalization ──────────────────────────────────────────────────

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	// Verify email uniqueness. Return a client-safe Conflict error.
	// The DB unique constraint is the backstop for races; this check exists
	// to give the common case a clean error without a failed INSERT.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during signup spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction ────────────────────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
	}

	// ── 5. Persistence ────────────────────────────────────────────────────

	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	// ── 6. Immediate Session ──────────────────────────────────────────────

	return service.establishSession(context, user)
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Login validates user credentials and issues security tokens.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: Contains Email and plain-text Password.
//
// # Returns
//   - A pointer to [LoginSession] containing the token pair.
//   - Returns [apperr.Unauthorized] if credentials do not match.
//
// # Flow
//  1. Lookup user by lowercase email.
//  2. Verify password hash using Bcrypt.
//  3. Issue a short-lived access JWT and a long-lived refresh JWT.
//  4. Store the refresh token's hash on the account row, replacing any
//     previous session (one active session per user).
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := service.userRepository.FindByEmail(context, email)

	// Identical message for unknown email and wrong password so attackers
	// cannot enumerate registered accounts.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// Bcrypt's comparison is constant-time, preventing timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// ── 3. Session Establishment ──────────────────────────────────────────

	return service.establishSession(context, user)
}

// establishSession issues the token pair for a user and records the refresh
// token's hash on the account row.
//
// Only the hash is stored; a DB leak never exposes usable tokens. Overwriting
// the previous hash kills any earlier session for this user.
func (service *Service) establishSession(context context.Context, user *User) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	tokenHash := sec.HashToken(refreshToken)
	if err := service.userRepository.UpdateRefreshTokenHash(context, user.ID, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}
	user.RefreshTokenHash = tokenHash

	return &LoginSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
//
// # Flow
//  1. Verify the refresh JWT's signature and expiry (refresh secret).
//  2. Load the account behind the token's subject.
//  3. Compare the presented token's hash against the stored hash: a token
//     that was superseded by a newer login, or cleared by logout, is dead
//     even if its signature is still valid.
//
// The refresh token itself is NOT rotated; it stays valid until it expires,
// is replaced by a new login, or is cleared by logout.
func (service *Service) Refresh(context context.Context, refreshToken string) (string, error) {
	// ── 1. Cryptographic Verification ─────────────────────────────────────

	claims, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 2. Account Resolution ─────────────────────────────────────────────

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 3. Session Match ──────────────────────────────────────────────────

	if user.RefreshTokenHash == "" || user.RefreshTokenHash != sec.HashToken(refreshToken) {
		return "", apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 4. Access Token Issuance ──────────────────────────────────────────

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates the user's active session by clearing the stored
// refresh-token hash. The operation is idempotent; logging out twice is fine.
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.ClearRefreshTokenHash(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// Profile returns the account for the given user ID.
func (service *Service) Profile(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserExists reports whether the account behind a token subject still exists.
// It backs the per-request liveness check in the authentication middleware.
func (service *Service) UserExists(context context.Context, userID string) (bool, error) {
	return service.userRepository.ExistsByID(context, userID)
}
