// Copyright (c) 2026 SOYO. All rights reserved.

// HTTP delivery layer for the engagement use cases.
//
// Routes here are mounted under /api/v1/stories alongside the story handler,
// keeping the public URL space story-centric.
package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soyoapp/soyo/internal/platform/middleware"
	requestutil "github.com/soyoapp/soyo/internal/platform/request"
	"github.com/soyoapp/soyo/internal/platform/respond"
	"github.com/soyoapp/soyo/internal/platform/validate"
	"github.com/soyoapp/soyo/pkg/pagination"
)

// Handler implements engagement HTTP endpoints.
type Handler struct {
	socialService *Service
}

// NewHandler constructs a new social [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{socialService: service}
}

// Register attaches engagement routes to the story router.
//
// # Endpoints
//   - POST /{storyID}/like     : Toggles the caller's like (auth required).
//   - GET  /{storyID}/likes    : Returns the like state for the story.
//   - POST /{storyID}/comment  : Adds a comment (auth required).
//   - GET  /{storyID}/comments : Lists comments, newest first, paginated.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/{storyID}/likes", handler.likeState)
	router.Get("/{storyID}/comments", handler.listComments)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth())
		protected.Post("/{storyID}/like", handler.toggleLike)
		protected.Post("/{storyID}/comment", handler.addComment)
	})
}

// toggleLike handles POST /api/v1/stories/{storyID}/like requests.
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	storyID := requestutil.ID(request, "storyID")

	state, err := handler.socialService.ToggleLike(request.Context(), userID, storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, state)
}

// likeState handles GET /api/v1/stories/{storyID}/likes requests.
//
// Anonymous callers get the total with liked_by_me always false.
func (handler *Handler) likeState(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.ID(request, "storyID")

	requesterID := ""
	if claims := requestutil.Claims(request); claims != nil {
		requesterID = claims.UserID
	}

	state, err := handler.socialService.GetLikeState(request.Context(), requesterID, storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, state)
}

// commentRequest represents the JSON payload for adding a comment.
type commentRequest struct {
	Text string `json:"text"`
}

// addComment handles POST /api/v1/stories/{storyID}/comment requests.
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Text == "" {
		respond.Error(writer, request, validate.RequiredError("text", "is required"))
		return
	}

	storyID := requestutil.ID(request, "storyID")

	comment, total, err := handler.socialService.AddComment(request.Context(), userID, storyID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		"comment":        comment,
		"total_comments": total,
	})
}

// listComments handles GET /api/v1/stories/{storyID}/comments requests.
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.ID(request, "storyID")
	params := pagination.FromRequest(request)

	comments, meta, err := handler.socialService.ListComments(request.Context(), storyID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, meta)
}
