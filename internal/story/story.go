// Copyright (c) 2026 SOYO. All rights reserved.

package story

import "time"

// Status represents the publication status of a story.
type Status string

const (
	// StatusDraft keeps a story visible only to its author.
	StatusDraft Status = "draft"
	// StatusPublished makes a story visible to every reader.
	StatusPublished Status = "published"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished:
		return true
	}
	return false
}

// Categories is the closed set of story categories accepted at submission.
var Categories = []string{
	"Action",
	"Adventure",
	"Fanfiction",
	"Fantasy",
	"Horror",
	"Humor",
	"Mystery",
	"Poetry",
	"Romance",
	"Science Fiction",
}

// Languages is the closed set of languages stories can be written in.
var Languages = []string{
	"English",
	"Bangla",
}

// Content length limits enforced at the validation boundary.
const (
	TitleMinLen       = 3
	TitleMaxLen       = 200
	DescriptionMinLen = 10
	DescriptionMaxLen = 5000
	TagsMaxLen        = 200
)

// Story is the central aggregate of the SOYO domain.
//
// # Overview
//
// It represents a single written work in the catalogue. A story starts as a
// draft and becomes readable by others once its author publishes it.
type Story struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Language    string `json:"language"`
	Tags        string `json:"tags"`     // Comma-separated tag list, capped at TagsMaxLen.
	Chapters    string `json:"chapters"` // Rich-text chapter body, stored opaque.
	Status      Status `json:"status"`
	CoverURL    string `json:"cover_url,omitempty"`
	CoverKey    string `json:"-"` // Storage key behind CoverURL; clients never need it.

	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"` // Resolved from the account table on read.

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
