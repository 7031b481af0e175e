// Copyright (c) 2026 SOYO. All rights reserved.

// Media use cases: profile pictures and story covers.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/internal/users/auth"
)

// AvatarStore is the slice of the account repository the media domain needs.
type AvatarStore interface {
	// GetAvatar returns the user's current avatar URL and storage key.
	GetAvatar(ctx context.Context, userID string) (url, key string, err error)

	// SetAvatar replaces the user's avatar reference. Empty strings clear it.
	SetAvatar(ctx context.Context, userID, url, key string) error
}

// AuthAvatarStore adapts [auth.UserRepository] to [AvatarStore].
type AuthAvatarStore struct {
	Users auth.UserRepository
}

// GetAvatar implements [AvatarStore].
func (store *AuthAvatarStore) GetAvatar(ctx context.Context, userID string) (string, string, error) {
	user, err := store.Users.FindByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return user.AvatarURL, user.AvatarKey, nil
}

// SetAvatar implements [AvatarStore].
func (store *AuthAvatarStore) SetAvatar(ctx context.Context, userID, url, key string) error {
	return store.Users.UpdateAvatar(ctx, userID, url, key)
}

// Service implements the media use cases on top of a [Backend].
type Service struct {
	backend Backend
	avatars AvatarStore
	logger  *slog.Logger
}

// NewService constructs a new media [Service].
func NewService(backend Backend, avatars AvatarStore, logger *slog.Logger) *Service {
	return &Service{
		backend: backend,
		avatars: avatars,
		logger:  logger,
	}
}

// validateImage enforces the size cap and the sniffed-content allow-list.
//
// The declared Content-Type header is ignored entirely; only the first bytes
// of the payload decide what the file is.
func validateImage(data []byte) (contentType, extension string, err error) {
	if len(data) == 0 {
		return "", "", apperr.InvalidFile("No file provided")
	}

	if len(data) > MaxUploadBytes {
		return "", "", apperr.InvalidFile("File exceeds the 5MB size limit")
	}

	contentType = http.DetectContentType(data)
	extension, allowed := allowedTypes[contentType]
	if !allowed {
		return "", "", apperr.InvalidFile("Only JPEG, PNG, GIF and WebP images are allowed")
	}

	return contentType, extension, nil
}

// UploadProfilePicture validates and stores a new avatar for the user.
//
// # Flow
//  1. Validate before touching storage: a rejected file must leave both the
//     user record and the backend untouched.
//  2. Store the new object, then point the account at it.
//  3. Evict the previous object best-effort.
//
// # Returns
//
// The public URL of the new avatar.
func (service *Service) UploadProfilePicture(ctx context.Context, userID string, data []byte) (string, error) {
	contentType, extension, err := validateImage(data)
	if err != nil {
		return "", err
	}

	_, oldKey, err := service.avatars.GetAvatar(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("media_service_load_avatar_failed: %w", err)
	}

	key := buildKey(KindAvatar, userID, extension)
	url, err := service.backend.Store(ctx, key, contentType, data)
	if err != nil {
		return "", apperr.Upstream("Could not store the uploaded image", err)
	}

	if err := service.avatars.SetAvatar(ctx, userID, url, key); err != nil {
		// The reference update failed; remove the orphan we just created.
		if cleanupErr := service.backend.Delete(ctx, key); cleanupErr != nil {
			service.logger.WarnContext(ctx, "avatar_orphan_cleanup_failed",
				slog.String("key", key),
				slog.Any("error", cleanupErr),
			)
		}
		return "", fmt.Errorf("media_service_set_avatar_failed: %w", err)
	}

	service.deleteBestEffort(ctx, oldKey, "old_avatar_delete_failed")

	return url, nil
}

// DeleteProfilePicture removes the user's avatar.
//
// The account reference is cleared even when the backend delete fails: a
// dangling object only costs storage, but a dangling reference shows readers
// a broken image.
func (service *Service) DeleteProfilePicture(ctx context.Context, userID string) error {
	_, key, err := service.avatars.GetAvatar(ctx, userID)
	if err != nil {
		return fmt.Errorf("media_service_load_avatar_failed: %w", err)
	}

	service.deleteBestEffort(ctx, key, "avatar_delete_failed")

	if err := service.avatars.SetAvatar(ctx, userID, "", ""); err != nil {
		return fmt.Errorf("media_service_clear_avatar_failed: %w", err)
	}

	return nil
}

// UploadStoryCover validates and stores a story cover image.
//
// The story domain owns the reference lifecycle; this method only produces
// the object and its address.
func (service *Service) UploadStoryCover(ctx context.Context, userID string, data []byte) (string, string, error) {
	contentType, extension, err := validateImage(data)
	if err != nil {
		return "", "", err
	}

	key := buildKey(KindCover, userID, extension)
	url, err := service.backend.Store(ctx, key, contentType, data)
	if err != nil {
		return "", "", apperr.Upstream("Could not store the uploaded image", err)
	}

	return url, key, nil
}

// DeleteObject removes a stored object by key. Empty keys are a no-op.
func (service *Service) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return service.backend.Delete(ctx, key)
}

// deleteBestEffort removes an object, logging instead of failing.
func (service *Service) deleteBestEffort(ctx context.Context, key, event string) {
	if key == "" {
		return
	}
	if err := service.backend.Delete(ctx, key); err != nil {
		service.logger.WarnContext(ctx, event,
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
