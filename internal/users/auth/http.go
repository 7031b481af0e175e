// Copyright (c) 2026 SOYO. All rights reserved.

// HTTP delivery layer for the authentication use cases.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.
package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/soyoapp/soyo/internal/platform/middleware"
	requestutil "github.com/soyoapp/soyo/internal/platform/request"
	"github.com/soyoapp/soyo/internal/platform/respond"
	"github.com/soyoapp/soyo/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points: signup, login,
// token refresh, logout, and the profile read.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup        : Creates a new account.
//   - POST /login         : Authenticates and returns a token pair.
//   - POST /refresh-token : Exchanges a refresh token for a new access token.
//   - POST /logout        : Invalidates the active session (auth required).
//   - GET  /profile       : Returns the caller's account (auth required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refreshToken)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth())
		protected.Post("/logout", handler.logout)
		protected.Get("/profile", handler.profile)
	})

	return router
}

// signupRequest represents the JSON payload expected for account creation.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signup handles POST /api/v1/auth/signup requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the token pair and User
//     profile; the new account is signed in immediately.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if the email is taken.
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input signupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	// Prevent malformed data from reaching the service layer. Length rules
	// apply to the trimmed name, which is what actually gets stored.
	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.
		Required("name", name).
		MinLen("name", name, 2).
		MaxLen("name", name, 50).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Signup(request.Context(), SignupInput{
		Name:     name,
		Email:    input.Email,
		Password: input.Password,
	})

	// Service handles uniqueness checks and Bcrypt hashing.
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, map[string]any{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"user":          session.User,
	})
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK on success with the token pair and User profile.
//   - Writes HTTP 401 Unauthorized for bad credentials.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Email == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("email/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		// Returns HTTP 401 without leaking whether the email exists.
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, map[string]any{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"user":          session.User,
	})
}

// refreshRequest represents the JSON payload for a token refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshToken handles POST /api/v1/auth/refresh-token requests.
//
// # Returns
//   - Writes HTTP 200 OK with a fresh access token.
//   - Writes HTTP 401 Unauthorized if the refresh token is invalid,
//     expired, superseded by a newer login, or cleared by logout.
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError("refresh_token", "is required"))
		return
	}

	accessToken, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"access_token": accessToken,
	})
}

// logout handles POST /api/v1/auth/logout requests.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": "Logged out successfully",
	})
}

// profile handles GET /api/v1/auth/profile requests.
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
