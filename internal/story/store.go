// Copyright (c) 2026 SOYO. All rights reserved.

package story

import (
	"context"

	"github.com/soyoapp/soyo/pkg/pagination"
)

// Repository defines the data access contract for stories.
//
// # Implementations
//
// The canonical implementation for SOYO is PostgreSQL ([PostgresRepository]).
type Repository interface {
	// Create persists a brand-new story.
	Create(ctx context.Context, story *Story) error

	// Update persists changes to an existing story's content fields.
	//
	// Returns [apperr.NotFound] if the story does not exist.
	Update(ctx context.Context, story *Story) error

	// GetByID returns the story with the given ID, with AuthorName resolved.
	//
	// Returns [apperr.NotFound] if the story does not exist. Visibility rules
	// (drafts being private) are enforced by the service, not here.
	GetByID(ctx context.Context, id string) (*Story, error)

	// ListPublished returns a page of published stories, newest first.
	//
	// A non-empty search term filters by title or author name,
	// case-insensitively. The second return value is the total match count
	// before pagination.
	ListPublished(ctx context.Context, search string, params pagination.Params) ([]Story, int, error)

	// ListDrafts returns a page of the author's draft stories, newest first.
	ListDrafts(ctx context.Context, authorID string, params pagination.Params) ([]Story, int, error)

	// Delete permanently removes a story and its engagement rows.
	Delete(ctx context.Context, id string) error
}
