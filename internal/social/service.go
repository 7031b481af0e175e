// Copyright (c) 2026 SOYO. All rights reserved.

// Engagement use cases: like toggling and commenting.
package social

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/internal/platform/validate"
	"github.com/soyoapp/soyo/pkg/pagination"
	"github.com/soyoapp/soyo/pkg/uuidv7"
)

// scriptTagPattern strips <script> blocks and stray script tags from comment
// text. Comments are rendered into story pages; this is the write-side
// backstop behind the client's own escaping.
var scriptTagPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>|</?script[^>]*>`)

// Service implements the engagement use cases.
type Service struct {
	repository Repository
	likeCache  LikeCountCache
}

// NewService constructs a new social [Service].
func NewService(repository Repository, likeCache LikeCountCache) *Service {
	return &Service{
		repository: repository,
		likeCache:  likeCache,
	}
}

// ToggleLike flips the caller's like on a published story.
//
// # Returns
//
// The resulting [LikeState] (with LikedByMe reflecting the new state), or
// [apperr.NotFound] if the story does not exist or is not published.
func (service *Service) ToggleLike(ctx context.Context, userID, storyID string) (*LikeState, error) {
	if err := service.requirePublished(ctx, storyID); err != nil {
		return nil, err
	}

	liked, err := service.repository.ToggleLike(ctx, storyID, userID)
	if err != nil {
		return nil, fmt.Errorf("social_service_toggle_like_failed: %w", err)
	}

	// The cached total is stale the moment the toggle lands.
	service.likeCache.Invalidate(ctx, storyID)

	count, err := service.repository.CountLikes(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("social_service_count_likes_failed: %w", err)
	}
	service.likeCache.Set(ctx, storyID, count)

	return &LikeState{Count: count, LikedByMe: liked}, nil
}

// GetLikeState returns the like total and, for authenticated callers, whether
// they like the story themselves. requesterID may be empty for anonymous reads.
func (service *Service) GetLikeState(ctx context.Context, requesterID, storyID string) (*LikeState, error) {
	if err := service.requirePublished(ctx, storyID); err != nil {
		return nil, err
	}

	count, cached := service.likeCache.Get(ctx, storyID)
	if !cached {
		var err error
		count, err = service.repository.CountLikes(ctx, storyID)
		if err != nil {
			return nil, fmt.Errorf("social_service_count_likes_failed: %w", err)
		}
		service.likeCache.Set(ctx, storyID, count)
	}

	state := &LikeState{Count: count}

	if requesterID != "" {
		liked, err := service.repository.IsLiked(ctx, storyID, requesterID)
		if err != nil {
			return nil, fmt.Errorf("social_service_is_liked_failed: %w", err)
		}
		state.LikedByMe = liked
	}

	return state, nil
}

// AddComment validates, sanitizes, and persists a comment on a published
// story, returning the stored comment and the story's new comment total.
//
// # Business Rules
//   - Text is required after trimming and sanitization.
//   - At most [CommentMaxLen] characters, counted after sanitization.
//   - Script tags are stripped, never stored.
func (service *Service) AddComment(ctx context.Context, userID, storyID, text string) (*Comment, int, error) {
	if err := service.requirePublished(ctx, storyID); err != nil {
		return nil, 0, err
	}

	sanitized := SanitizeComment(text)

	validator := &validate.Validator{}
	validator.
		Required("text", sanitized).
		MaxLen("text", sanitized, CommentMaxLen)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	comment := &Comment{
		ID:      uuidv7.New(),
		StoryID: storyID,
		UserID:  userID,
		Text:    sanitized,
	}

	if err := service.repository.AddComment(ctx, comment); err != nil {
		return nil, 0, fmt.Errorf("social_service_add_comment_failed: %w", err)
	}

	total, err := service.repository.CountComments(ctx, storyID)
	if err != nil {
		return nil, 0, fmt.Errorf("social_service_count_comments_failed: %w", err)
	}

	return comment, total, nil
}

// ListComments returns a page of comments on a published story, newest first.
func (service *Service) ListComments(ctx context.Context, storyID string, params pagination.Params) ([]Comment, pagination.Meta, error) {
	if err := service.requirePublished(ctx, storyID); err != nil {
		return nil, pagination.Meta{}, err
	}

	comments, total, err := service.repository.ListComments(ctx, storyID, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("social_service_list_comments_failed: %w", err)
	}

	return comments, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// SanitizeComment strips script tags and trims surrounding whitespace.
//
// Exported so tests and future ingestion paths share exactly one definition
// of "clean".
func SanitizeComment(text string) string {
	return strings.TrimSpace(scriptTagPattern.ReplaceAllString(text, ""))
}

// requirePublished answers 404 for missing AND unpublished stories alike:
// engagement endpoints must not reveal that a draft exists.
func (service *Service) requirePublished(ctx context.Context, storyID string) error {
	exists, published, err := service.repository.StoryState(ctx, storyID)
	if err != nil {
		return fmt.Errorf("social_service_story_state_failed: %w", err)
	}

	if !exists || !published {
		return apperr.NotFound("Story")
	}

	return nil
}
