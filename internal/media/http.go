// Copyright (c) 2026 SOYO. All rights reserved.

// HTTP delivery layer for profile picture management.
package media

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/internal/platform/middleware"
	requestutil "github.com/soyoapp/soyo/internal/platform/request"
	"github.com/soyoapp/soyo/internal/platform/respond"
)

// maxUploadBodyBytes allows the 5MB image plus multipart framing overhead.
const maxUploadBodyBytes = MaxUploadBytes + (1 << 20)

// Handler implements media HTTP endpoints.
type Handler struct {
	mediaService *Service
}

// NewHandler constructs a new media [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{mediaService: service}
}

// Routes returns a [chi.Router] configured with media routes.
//
// # Endpoints
//   - POST   /upload-profile-picture : Replaces the caller's avatar.
//   - DELETE /profile-picture        : Removes the caller's avatar.
//
// All routes require authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth())

	router.Post("/upload-profile-picture", handler.uploadProfilePicture)
	router.Delete("/profile-picture", handler.deleteProfilePicture)

	return router
}

// uploadProfilePicture handles POST /api/v1/user/upload-profile-picture.
//
// Expects multipart/form-data with an "image" file part.
//
// # Returns
//   - Writes HTTP 200 OK with the new avatar URL.
//   - Writes HTTP 400 Bad Request for oversized or non-image files.
func (handler *Handler) uploadProfilePicture(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Cap the request body before parsing so an oversized upload fails fast
	// instead of buffering unbounded bytes.
	request.Body = http.MaxBytesReader(writer, request.Body, maxUploadBodyBytes)

	if err := request.ParseMultipartForm(maxUploadBodyBytes); err != nil {
		respond.Error(writer, request, apperr.InvalidFile("File exceeds the 5MB size limit"))
		return
	}

	file, _, err := request.FormFile("image")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("An 'image' file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBodyBytes))
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Could not read uploaded file"))
		return
	}

	url, err := handler.mediaService.UploadProfilePicture(request.Context(), userID, data)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"image_url": url,
	})
}

// deleteProfilePicture handles DELETE /api/v1/user/profile-picture.
func (handler *Handler) deleteProfilePicture(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.mediaService.DeleteProfilePicture(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": "Profile picture removed",
	})
}
