// Copyright (c) 2026 SOYO. All rights reserved.

// Story use cases: authoring, publication, listing, and search.
package story

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/internal/platform/validate"
	"github.com/soyoapp/soyo/pkg/pagination"
	"github.com/soyoapp/soyo/pkg/uuidv7"
)

// CoverStorage is the slice of the media service the story domain needs.
//
// # Dependency Direction
//
// The story service never touches storage backends directly; covers flow
// through the media service so size/type limits live in one place.
type CoverStorage interface {
	// UploadStoryCover validates and stores a cover image, returning its
	// public URL and storage key.
	UploadStoryCover(ctx context.Context, userID string, data []byte) (url, key string, err error)

	// DeleteObject removes a stored object by key.
	DeleteObject(ctx context.Context, key string) error
}

// Service implements the story use cases.
type Service struct {
	repository Repository
	covers     CoverStorage
	logger     *slog.Logger
}

// NewService constructs a new story [Service].
func NewService(repository Repository, covers CoverStorage, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		covers:     covers,
		logger:     logger,
	}
}

// SaveInput holds the author-provided fields for creating or updating a story.
//
// An empty ID means "create"; a non-empty ID means "update my story with
// this ID".
type SaveInput struct {
	ID          string
	Title       string
	Description string
	Category    string
	Language    string
	Tags        string
	Chapters    string
	Status      Status

	// Cover is an optional raw cover image. Nil leaves the current cover
	// untouched on update and creates the story without one.
	Cover []byte
}

// validateInput applies the submission rules shared by create and update.
func validateInput(input SaveInput) error {
	validator := &validate.Validator{}
	validator.
		Required("title", input.Title).
		MinLen("title", input.Title, TitleMinLen).
		MaxLen("title", input.Title, TitleMaxLen).
		Required("description", input.Description).
		MinLen("description", input.Description, DescriptionMinLen).
		MaxLen("description", input.Description, DescriptionMaxLen).
		Required("tags", input.Tags).
		MaxLen("tags", input.Tags, TagsMaxLen).
		OneOf("category", input.Category, Categories...).
		OneOf("language", input.Language, Languages...).
		Custom("status", !input.Status.IsValid(), "Must be either 'draft' or 'published'")

	return validator.Err()
}

// Save creates a new story or updates one the caller owns.
//
// # Business Rules
//   - All content rules are enforced on every save, not just the first.
//   - Updating a story that does not exist or belongs to someone else yields
//     the same 404, so probing cannot reveal other authors' drafts.
//   - A new cover replaces the old one; deleting the superseded object is
//     best-effort and never fails the save.
func (service *Service) Save(ctx context.Context, userID string, input SaveInput) (*Story, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.ID == "" {
		return service.create(ctx, userID, input)
	}
	return service.update(ctx, userID, input)
}

func (service *Service) create(ctx context.Context, userID string, input SaveInput) (*Story, error) {
	story := &Story{
		ID:          uuidv7.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    input.Category,
		Language:    input.Language,
		Tags:        strings.TrimSpace(input.Tags),
		Chapters:    input.Chapters,
		Status:      input.Status,
		AuthorID:    userID,
	}

	if input.Cover != nil {
		url, key, err := service.covers.UploadStoryCover(ctx, userID, input.Cover)
		if err != nil {
			return nil, err
		}
		story.CoverURL = url
		story.CoverKey = key
	}

	if err := service.repository.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("story_service_create_failed: %w", err)
	}

	return service.repository.GetByID(ctx, story.ID)
}

func (service *Service) update(ctx context.Context, userID string, input SaveInput) (*Story, error) {
	existing, err := service.loadOwned(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	oldCoverKey := ""
	if input.Cover != nil {
		url, key, err := service.covers.UploadStoryCover(ctx, userID, input.Cover)
		if err != nil {
			return nil, err
		}
		oldCoverKey = existing.CoverKey
		existing.CoverURL = url
		existing.CoverKey = key
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Description = input.Description
	existing.Category = input.Category
	existing.Language = input.Language
	existing.Tags = strings.TrimSpace(input.Tags)
	existing.Chapters = input.Chapters
	existing.Status = input.Status

	if err := service.repository.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("story_service_update_failed: %w", err)
	}

	// The replaced cover is orphaned now. Removal failures only cost storage,
	// so they are logged and swallowed.
	if oldCoverKey != "" {
		if err := service.covers.DeleteObject(ctx, oldCoverKey); err != nil {
			service.logger.WarnContext(ctx, "story_old_cover_delete_failed",
				slog.String("story_id", existing.ID),
				slog.String("key", oldCoverKey),
				slog.Any("error", err),
			)
		}
	}

	return service.repository.GetByID(ctx, existing.ID)
}

// Get returns a single story, enforcing draft visibility.
//
// Published stories are public. Drafts answer 404 to everyone except their
// author, including anonymous callers (empty requesterID).
func (service *Service) Get(ctx context.Context, requesterID, storyID string) (*Story, error) {
	story, err := service.repository.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if story.Status == StatusDraft && story.AuthorID != requesterID {
		return nil, apperr.NotFoundOrForbidden("Story not found")
	}

	return story, nil
}

// ListPublished returns a page of published stories, optionally filtered by
// a search term matching title, category, tags, or author name.
//
// # Normalization
//
// The search term is normalized to Unicode NFC before matching. Bangla input
// in particular arrives in mixed composed/decomposed forms depending on the
// client's keyboard; without this, visually identical queries match
// different rows.
func (service *Service) ListPublished(ctx context.Context, search string, params pagination.Params) ([]Story, pagination.Meta, error) {
	normalized := norm.NFC.String(strings.TrimSpace(search))

	stories, total, err := service.repository.ListPublished(ctx, normalized, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return stories, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// ListDrafts returns a page of the caller's own drafts.
func (service *Service) ListDrafts(ctx context.Context, userID string, params pagination.Params) ([]Story, pagination.Meta, error) {
	stories, total, err := service.repository.ListDrafts(ctx, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return stories, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Delete removes a draft story the caller owns.
//
// # Business Rules
//   - Only drafts can be deleted; a published story, a missing story, and
//     someone else's story all answer the same 404.
//   - Non-owners get a 404, never a 403.
//   - The cover object is removed best-effort after the row is gone.
func (service *Service) Delete(ctx context.Context, userID, storyID string) error {
	story, err := service.loadOwned(ctx, storyID, userID)
	if err != nil {
		return err
	}

	if story.Status != StatusDraft {
		return apperr.NotFoundOrForbidden("Story not found")
	}

	if err := service.repository.Delete(ctx, storyID); err != nil {
		return fmt.Errorf("story_service_delete_failed: %w", err)
	}

	if story.CoverKey != "" {
		if err := service.covers.DeleteObject(ctx, story.CoverKey); err != nil {
			service.logger.WarnContext(ctx, "story_cover_delete_failed",
				slog.String("story_id", storyID),
				slog.String("key", story.CoverKey),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// loadOwned fetches a story and verifies the caller owns it.
//
// Both "missing" and "not yours" collapse into the same 404-shaped error so
// responses never confirm the existence of someone else's story.
func (service *Service) loadOwned(ctx context.Context, storyID, userID string) (*Story, error) {
	story, err := service.repository.GetByID(ctx, storyID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFoundOrForbidden("Story not found")
		}
		return nil, err
	}

	if story.AuthorID != userID {
		return nil, apperr.NotFoundOrForbidden("Story not found")
	}

	return story, nil
}
