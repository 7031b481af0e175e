// Copyright (c) 2026 SOYO. All rights reserved.

// Package social implements reader engagement: likes and comments on
// published stories.
package social

import "time"

// CommentMaxLen is the cap on a single comment, counted in Unicode characters.
const CommentMaxLen = 500

// Comment represents a reader's comment on a published story.
//
// # Denormalization
//
// AuthorName is captured at write time. Comment lists are the hottest read
// path in the app; carrying the name in the row spares a join per page.
type Comment struct {
	ID         string    `json:"id"`
	StoryID    string    `json:"story_id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikeState is the engagement summary for one story and one viewer.
type LikeState struct {
	Count     int64 `json:"likes"`
	LikedByMe bool  `json:"is_liked"`
}
