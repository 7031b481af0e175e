// Copyright (c) 2026 SOYO. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/soyoapp/soyo/internal/platform/ctxutil"
	"github.com/soyoapp/soyo/internal/platform/sec"
)

// # Authentication & Authorization

// TokenVerifier validates access tokens and extracts their claims.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*sec.AuthClaims, error)
}

// UserResolver confirms that a user behind a token still exists.
//
// Tokens outlive accounts: a valid JWT for a deleted user must not grant
// access, so every authenticated request re-checks the account.
type UserResolver interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

/*
Authenticate verifies the Bearer token on incoming requests.

Requests without an Authorization header pass through anonymously; protected
routes reject those later via [RequireAuth]. When a token is present it must
be valid AND belong to a live account, otherwise the request fails with 401
and a message that tells the client whether to refresh or to log in again.
*/
func Authenticate(verifier TokenVerifier, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Anonymous requests proceed without claims
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Enforce the Bearer scheme
			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
				return
			}

			// 3. Verify signature and expiry
			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				switch err {
				case sec.ErrTokenExpired:
					writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Access token expired. Please refresh your token.")
				default:
					writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token. Please login again.")
				}
				return
			}

			// 4. Resolve the subject to a live account
			exists, err := users.UserExists(request.Context(), claims.UserID)
			if err != nil {
				writeError(writer, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
				return
			}
			if !exists {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "User not found. Please login again.")
				return
			}

			// 5. Attach claims to the context for downstream handlers
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that did not authenticate.
// Mount it on route groups that must never serve anonymous traffic.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if ctxutil.GetAuthUser(request.Context()) == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
