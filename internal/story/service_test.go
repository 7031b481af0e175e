// Copyright (c) 2026 SOYO. All rights reserved.

package story

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/pkg/pagination"
)

// memoryRepository is an in-memory story Repository for service tests.
type memoryRepository struct {
	mu      sync.Mutex
	stories map[string]*Story

	// lastSearch records the search term the service handed down, so tests
	// can assert normalization without a real database.
	lastSearch string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{stories: make(map[string]*Story)}
}

func (repo *memoryRepository) Create(_ context.Context, story *Story) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	// Mirror the real repository's timestamp stamping.
	now := time.Now()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}
	story.UpdatedAt = now

	copied := *story
	repo.stories[story.ID] = &copied
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, story *Story) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.stories[story.ID]; !ok {
		return apperr.NotFound("Story")
	}

	story.UpdatedAt = time.Now()
	copied := *story
	repo.stories[story.ID] = &copied
	return nil
}

func (repo *memoryRepository) GetByID(_ context.Context, id string) (*Story, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if story, ok := repo.stories[id]; ok {
		copied := *story
		return &copied, nil
	}
	return nil, apperr.NotFound("Story")
}

func (repo *memoryRepository) ListPublished(_ context.Context, search string, params pagination.Params) ([]Story, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.lastSearch = search

	matched := make([]Story, 0)
	for _, story := range repo.stories {
		if story.Status != StatusPublished {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(story.Title), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(story.AuthorName), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, *story)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginate(matched, params), len(matched), nil
}

func (repo *memoryRepository) ListDrafts(_ context.Context, authorID string, params pagination.Params) ([]Story, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := make([]Story, 0)
	for _, story := range repo.stories {
		if story.Status == StatusDraft && story.AuthorID == authorID {
			matched = append(matched, *story)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	return paginate(matched, params), len(matched), nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.stories[id]; !ok {
		return apperr.NotFound("Story")
	}
	delete(repo.stories, id)
	return nil
}

func paginate(stories []Story, params pagination.Params) []Story {
	offset := params.Offset()
	if offset >= len(stories) {
		return []Story{}
	}
	end := offset + params.Limit
	if end > len(stories) {
		end = len(stories)
	}
	return stories[offset:end]
}

// fakeCoverStorage records uploads and deletions.
type fakeCoverStorage struct {
	uploads   int
	deleted   []string
	deleteErr error
}

func (storage *fakeCoverStorage) UploadStoryCover(_ context.Context, userID string, _ []byte) (string, string, error) {
	storage.uploads++
	key := fmt.Sprintf("cover_%s_%d", userID, storage.uploads)
	return "/uploads/" + key, key, nil
}

func (storage *fakeCoverStorage) DeleteObject(_ context.Context, key string) error {
	storage.deleted = append(storage.deleted, key)
	return storage.deleteErr
}

func newTestService() (*Service, *memoryRepository, *fakeCoverStorage) {
	repo := newMemoryRepository()
	covers := &fakeCoverStorage{}
	service := NewService(repo, covers, slog.New(slog.DiscardHandler))
	return service, repo, covers
}

func validInput() SaveInput {
	return SaveInput{
		Title:       "The Winter Garden",
		Description: "A story about a garden that blooms only in winter.",
		Category:    "Fantasy",
		Language:    "English",
		Tags:        "garden,winter,magic",
		Chapters:    "<h2>Chapter 1</h2><p>The first frost arrived early.</p>",
		Status:      StatusDraft,
	}
}

/*
TestSave_CreateDraft verifies the happy path of creating a new draft.
*/
func TestSave_CreateDraft(t *testing.T) {
	service, _, _ := newTestService()

	story, err := service.Save(context.Background(), "author-1", validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, story.ID)
	assert.Equal(t, "author-1", story.AuthorID)
	assert.Equal(t, StatusDraft, story.Status)
	assert.Contains(t, story.Chapters, "Chapter 1")
}

/*
TestSave_ValidationRules covers the content rules on every save.
*/
func TestSave_ValidationRules(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*SaveInput)
	}{
		{"title_too_short", func(i *SaveInput) { i.Title = "ab" }},
		{"title_too_long", func(i *SaveInput) { i.Title = strings.Repeat("x", TitleMaxLen+1) }},
		{"description_too_short", func(i *SaveInput) { i.Description = "too short" }},
		{"missing_tags", func(i *SaveInput) { i.Tags = "" }},
		{"tags_too_long", func(i *SaveInput) { i.Tags = strings.Repeat("t", TagsMaxLen+1) }},
		{"unknown_category", func(i *SaveInput) { i.Category = "Cooking" }},
		{"unknown_language", func(i *SaveInput) { i.Language = "Klingon" }},
		{"invalid_status", func(i *SaveInput) { i.Status = Status("archived") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := service.Save(ctx, "author-1", input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestSave_UpdateByNonOwner ensures updating someone else's story answers the
same 404 as a missing story.
*/
func TestSave_UpdateByNonOwner(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	story, err := service.Save(ctx, "author-1", validInput())
	require.NoError(t, err)

	input := validInput()
	input.ID = story.ID
	input.Title = "Hijacked Title"

	_, err = service.Save(ctx, "author-2", input)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFoundOrForbidden(err))

	// And a genuinely missing ID looks identical from the outside.
	input.ID = "00000000-0000-0000-0000-000000000000"
	_, missingErr := service.Save(ctx, "author-2", input)
	require.Error(t, missingErr)
	assert.Equal(t, err.Error(), missingErr.Error())
}

/*
TestGet_DraftVisibility checks that drafts 404 for everyone but their author.
*/
func TestGet_DraftVisibility(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	draft, err := service.Save(ctx, "author-1", validInput())
	require.NoError(t, err)

	// Author sees their own draft.
	got, err := service.Get(ctx, "author-1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	// Another user gets a 404.
	_, err = service.Get(ctx, "author-2", draft.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFoundOrForbidden(err))

	// Anonymous gets a 404 too.
	_, err = service.Get(ctx, "", draft.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFoundOrForbidden(err))
}

/*
TestGet_PublishedIsPublic verifies anyone can read a published story.
*/
func TestGet_PublishedIsPublic(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	input := validInput()
	input.Status = StatusPublished
	published, err := service.Save(ctx, "author-1", input)
	require.NoError(t, err)

	got, err := service.Get(ctx, "", published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

/*
TestListDrafts_RecentlyUpdatedFirst verifies the draft being worked on rises
to the top: editing an older draft reorders it above newer untouched ones.
*/
func TestListDrafts_RecentlyUpdatedFirst(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	first := validInput()
	first.Title = "Older Draft"
	older, err := service.Save(ctx, "author-1", first)
	require.NoError(t, err)

	second := validInput()
	second.Title = "Newer Draft"
	_, err = service.Save(ctx, "author-1", second)
	require.NoError(t, err)

	// Editing the older draft makes it the most recently updated.
	edit := validInput()
	edit.ID = older.ID
	edit.Title = "Older Draft, Revised"
	_, err = service.Save(ctx, "author-1", edit)
	require.NoError(t, err)

	drafts, meta, err := service.ListDrafts(ctx, "author-1", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Total)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Older Draft, Revised", drafts[0].Title)
	assert.Equal(t, "Newer Draft", drafts[1].Title)
}

/*
TestDelete_DraftOnly enforces that published stories cannot be deleted and
that every delete failure answers the same 404.
*/
func TestDelete_DraftOnly(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	input := validInput()
	input.Status = StatusPublished
	published, err := service.Save(ctx, "author-1", input)
	require.NoError(t, err)

	// Even the owner gets a 404 shape, never a validation error; the
	// published row stays.
	publishedErr := service.Delete(ctx, "author-1", published.ID)
	require.Error(t, publishedErr)
	assert.True(t, apperr.IsNotFoundOrForbidden(publishedErr))
	_, err = repo.GetByID(ctx, published.ID)
	require.NoError(t, err)

	draft, err := service.Save(ctx, "author-1", validInput())
	require.NoError(t, err)

	// Non-owner cannot delete and cannot learn the draft exists.
	nonOwnerErr := service.Delete(ctx, "author-2", draft.ID)
	require.Error(t, nonOwnerErr)
	assert.True(t, apperr.IsNotFoundOrForbidden(nonOwnerErr))

	// Published-by-owner and draft-by-stranger are indistinguishable.
	assert.Equal(t, nonOwnerErr.Error(), publishedErr.Error())

	// Owner can.
	require.NoError(t, service.Delete(ctx, "author-1", draft.ID))
	_, err = repo.GetByID(ctx, draft.ID)
	require.Error(t, err)
}

/*
TestListPublished_NormalizesSearch ensures the search term is normalized to
NFC before it reaches storage: a decomposed "é" must arrive composed.
*/
func TestListPublished_NormalizesSearch(t *testing.T) {
	service, repo, _ := newTestService()

	decomposed := "café" // "café" with a combining accent
	composed := "café"

	_, _, err := service.ListPublished(context.Background(), decomposed, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, composed, repo.lastSearch)
}

/*
TestListPublished_ExcludesDrafts verifies drafts never appear in the feed.
*/
func TestListPublished_ExcludesDrafts(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.Save(ctx, "author-1", validInput())
	require.NoError(t, err)

	publishedInput := validInput()
	publishedInput.Title = "Published Story"
	publishedInput.Status = StatusPublished
	_, err = service.Save(ctx, "author-1", publishedInput)
	require.NoError(t, err)

	stories, meta, err := service.ListPublished(ctx, "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Total)
	require.Len(t, stories, 1)
	assert.Equal(t, "Published Story", stories[0].Title)
}

/*
TestSave_CoverReplacement verifies a new cover evicts the old object and that
an eviction failure never fails the save.
*/
func TestSave_CoverReplacement(t *testing.T) {
	service, _, covers := newTestService()
	ctx := context.Background()

	input := validInput()
	input.Cover = []byte("fake-image-bytes")
	story, err := service.Save(ctx, "author-1", input)
	require.NoError(t, err)
	require.NotEmpty(t, story.CoverURL)
	firstKey := story.CoverKey

	// Replace the cover; the first object should be deleted.
	update := validInput()
	update.ID = story.ID
	update.Cover = []byte("new-image-bytes")
	_, err = service.Save(ctx, "author-1", update)
	require.NoError(t, err)
	assert.Contains(t, covers.deleted, firstKey)

	// A failing delete is logged, not surfaced.
	covers.deleteErr = errors.New("storage unavailable")
	again := validInput()
	again.ID = story.ID
	again.Cover = []byte("third-image-bytes")
	_, err = service.Save(ctx, "author-1", again)
	require.NoError(t, err)
}
