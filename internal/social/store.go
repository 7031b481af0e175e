// Copyright (c) 2026 SOYO. All rights reserved.

package social

import (
	"context"

	"github.com/soyoapp/soyo/pkg/pagination"
)

// Repository defines the data access contract for likes and comments.
type Repository interface {
	// StoryState reports whether a story exists and whether it is published.
	// Engagement is only allowed on published stories.
	StoryState(ctx context.Context, storyID string) (exists bool, published bool, err error)

	// ToggleLike flips the caller's like on a story in a single atomic
	// operation and reports the resulting state (true = now liked).
	//
	// Two concurrent toggles by different users must both land; the
	// implementation may not read-modify-write a counter.
	ToggleLike(ctx context.Context, storyID, userID string) (liked bool, err error)

	// CountLikes returns the number of likes on a story.
	CountLikes(ctx context.Context, storyID string) (int64, error)

	// IsLiked reports whether the user currently likes the story.
	IsLiked(ctx context.Context, storyID, userID string) (bool, error)

	// AddComment persists a comment, resolving AuthorName from the account
	// table at write time.
	AddComment(ctx context.Context, comment *Comment) error

	// CountComments returns the number of comments on a story.
	CountComments(ctx context.Context, storyID string) (int, error)

	// ListComments returns a page of comments, newest first, plus the total.
	ListComments(ctx context.Context, storyID string, params pagination.Params) ([]Comment, int, error)
}

// LikeCountCache is a volatile cache for per-story like totals.
//
// Implementations are best-effort: a cache outage degrades to direct counts,
// never to request failures.
type LikeCountCache interface {
	// Get returns the cached count and whether it was present.
	Get(ctx context.Context, storyID string) (count int64, ok bool)

	// Set stores the count with the cache's standard TTL.
	Set(ctx context.Context, storyID string, count int64)

	// Invalidate drops the cached count after a like toggle.
	Invalidate(ctx context.Context, storyID string)
}
