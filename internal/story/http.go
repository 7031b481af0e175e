// Copyright (c) 2026 SOYO. All rights reserved.

// HTTP delivery layer for the story use cases.
package story

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/internal/platform/middleware"
	requestutil "github.com/soyoapp/soyo/internal/platform/request"
	"github.com/soyoapp/soyo/internal/platform/respond"
	"github.com/soyoapp/soyo/pkg/pagination"
)

// maxSaveBodyBytes caps a story save request: cover image plus form fields.
const maxSaveBodyBytes = 6 << 20

// Handler implements story-related HTTP endpoints.
type Handler struct {
	storyService *Service
}

// NewHandler constructs a new story [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{storyService: service}
}

// Routes returns a [chi.Router] configured with story routes.
//
// # Endpoints
//   - POST   /           : Creates or updates a story (auth required).
//   - GET    /published  : Lists published stories, searchable and paginated.
//   - GET    /drafts     : Lists the caller's drafts (auth required).
//   - GET    /{storyID}  : Returns one story (drafts: author only).
//   - DELETE /{storyID}  : Deletes a draft the caller owns (auth required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/published", handler.listPublished)
	router.Get("/{storyID}", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth())
		protected.Post("/", handler.save)
		protected.Get("/drafts", handler.listDrafts)
		protected.Delete("/{storyID}", handler.remove)
	})

	return router
}

// saveRequest represents the JSON payload for creating or updating a story.
//
// The same endpoint also accepts multipart/form-data with these fields plus
// an optional "cover" file part; see [parseSaveInput].
type saveRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Language    string `json:"language"`
	Tags        string `json:"tags"`
	Chapters    string `json:"chapters"`
	Status      string `json:"status"`
}

// parseSaveInput reads a save payload from either JSON or multipart form.
//
// Multipart is required when a cover image accompanies the save; plain JSON
// covers the common text-only case.
func parseSaveInput(request *http.Request) (SaveInput, error) {
	contentType := request.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := request.ParseMultipartForm(maxSaveBodyBytes); err != nil {
			return SaveInput{}, apperr.ValidationError("Invalid multipart payload")
		}

		input := SaveInput{
			ID:          request.FormValue("id"),
			Title:       request.FormValue("title"),
			Description: request.FormValue("description"),
			Category:    request.FormValue("category"),
			Language:    request.FormValue("language"),
			Tags:        request.FormValue("tags"),
			Chapters:    request.FormValue("chapters"),
			Status:      Status(request.FormValue("status")),
		}

		file, _, err := request.FormFile("cover")
		if err == nil {
			defer file.Close()
			data, readErr := io.ReadAll(io.LimitReader(file, maxSaveBodyBytes))
			if readErr != nil {
				return SaveInput{}, apperr.ValidationError("Could not read cover file")
			}
			input.Cover = data
		}

		return input, nil
	}

	var body saveRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		return SaveInput{}, err
	}

	return SaveInput{
		ID:          body.ID,
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Language:    body.Language,
		Tags:        body.Tags,
		Chapters:    body.Chapters,
		Status:      Status(body.Status),
	}, nil
}

// save handles POST /api/v1/stories requests.
//
// # Returns
//   - Writes HTTP 201 Created for a new story, 200 OK for an update.
//   - Writes HTTP 400 Bad Request if content rules fail.
//   - Writes HTTP 404 Not Found when updating a story the caller does not own.
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := parseSaveInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	isCreate := input.ID == ""

	story, err := handler.storyService.Save(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if isCreate {
		respond.Created(writer, story)
		return
	}
	respond.OK(writer, story)
}

// listPublished handles GET /api/v1/stories/published requests.
//
// Query parameters: searchQuery (optional), page, limit.
func (handler *Handler) listPublished(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("searchQuery")

	stories, meta, err := handler.storyService.ListPublished(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, stories, meta)
}

// listDrafts handles GET /api/v1/stories/drafts requests.
func (handler *Handler) listDrafts(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	stories, meta, err := handler.storyService.ListDrafts(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, stories, meta)
}

// get handles GET /api/v1/stories/{storyID} requests.
//
// Anonymous callers can read published stories; drafts 404 for everyone but
// their author.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.ID(request, "storyID")

	requesterID := ""
	if claims := requestutil.Claims(request); claims != nil {
		requesterID = claims.UserID
	}

	story, err := handler.storyService.Get(request.Context(), requesterID, storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, story)
}

// remove handles DELETE /api/v1/stories/{storyID} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	storyID := requestutil.ID(request, "storyID")

	if err := handler.storyService.Delete(request.Context(), userID, storyID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": "Story deleted successfully",
	})
}
