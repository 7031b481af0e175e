// Copyright (c) 2026 SOYO. All rights reserved.

// PostgreSQL implementation of the story storage contract.
package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/pkg/pagination"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the story Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns joins the account table so every read carries the author name.
const selectColumns = `
	s.id, s.title, s.description, s.category, s.language, s.tags, s.chapters,
	s.status, s.coverurl, s.coverkey, s.authorid, a.name, s.createdat, s.updatedat`

// Create persists a new story record into the story.story table.
func (repository *PostgresRepository) Create(ctx context.Context, story *Story) error {
	const query = `
		INSERT INTO story.story (
			id, title, description, category, language, tags, chapters, status,
			coverurl, coverkey, authorid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}
	story.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		story.ID,
		story.Title,
		story.Description,
		story.Category,
		story.Language,
		story.Tags,
		story.Chapters,
		story.Status,
		story.CoverURL,
		story.CoverKey,
		story.AuthorID,
		story.CreatedAt,
		story.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_story_repo_create_failed: %w", err)
	}

	return nil
}

// Update persists changes to an existing story's content fields.
func (repository *PostgresRepository) Update(ctx context.Context, story *Story) error {
	const query = `
		UPDATE story.story
		SET title = $2, description = $3, category = $4, language = $5,
		    tags = $6, chapters = $7, status = $8, coverurl = $9, coverkey = $10,
		    updatedat = $11
		WHERE id = $1`

	story.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(ctx, query,
		story.ID,
		story.Title,
		story.Description,
		story.Category,
		story.Language,
		story.Tags,
		story.Chapters,
		story.Status,
		story.CoverURL,
		story.CoverKey,
		story.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_story_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}

	return nil
}

// GetByID retrieves a story by its unique ID, author name included.
func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Story, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM story.story s
		JOIN users.account a ON a.id = s.authorid
		WHERE s.id = $1`, selectColumns)

	story := &Story{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&story.ID,
		&story.Title,
		&story.Description,
		&story.Category,
		&story.Language,
		&story.Tags,
		&story.Chapters,
		&story.Status,
		&story.CoverURL,
		&story.CoverKey,
		&story.AuthorID,
		&story.AuthorName,
		&story.CreatedAt,
		&story.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Story")
		}
		return nil, fmt.Errorf("postgres_story_repo_get_failed: %w", err)
	}

	return story, nil
}

// likeEscaper neutralizes LIKE metacharacters so a search for "100%" matches
// the literal text instead of degrading into a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListPublished returns a page of published stories, newest first.
//
// The search term matches title, category, tags, or the author's display name
// in a single query; visibility stays a SQL-level concern so unpublished rows
// never travel over the wire.
func (repository *PostgresRepository) ListPublished(ctx context.Context, search string, params pagination.Params) ([]Story, int, error) {
	pattern := likeEscaper.Replace(search)

	const countQuery = `
		SELECT COUNT(*)
		FROM story.story s
		JOIN users.account a ON a.id = s.authorid
		WHERE s.status = 'published'
		  AND ($1 = ''
		       OR s.title ILIKE '%' || $1 || '%' ESCAPE '\'
		       OR s.category ILIKE '%' || $1 || '%' ESCAPE '\'
		       OR s.tags ILIKE '%' || $1 || '%' ESCAPE '\'
		       OR a.name ILIKE '%' || $1 || '%' ESCAPE '\')`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_count_published_failed: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM story.story s
		JOIN users.account a ON a.id = s.authorid
		WHERE s.status = 'published'
		  AND ($1 = ''
		       OR s.title ILIKE '%%' || $1 || '%%' ESCAPE '\'
		       OR s.category ILIKE '%%' || $1 || '%%' ESCAPE '\'
		       OR s.tags ILIKE '%%' || $1 || '%%' ESCAPE '\'
		       OR a.name ILIKE '%%' || $1 || '%%' ESCAPE '\')
		ORDER BY s.createdat DESC
		LIMIT $2 OFFSET $3`, selectColumns)

	rows, err := repository.pool.Query(ctx, listQuery, pattern, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_list_published_failed: %w", err)
	}
	defer rows.Close()

	stories, err := scanStories(rows)
	if err != nil {
		return nil, 0, err
	}

	return stories, total, nil
}

// ListDrafts returns a page of the author's draft stories, most recently
// updated first, so the draft being worked on sits on top.
func (repository *PostgresRepository) ListDrafts(ctx context.Context, authorID string, params pagination.Params) ([]Story, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM story.story
		WHERE authorid = $1 AND status = 'draft'`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, authorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_count_drafts_failed: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM story.story s
		JOIN users.account a ON a.id = s.authorid
		WHERE s.authorid = $1 AND s.status = 'draft'
		ORDER BY s.updatedat DESC
		LIMIT $2 OFFSET $3`, selectColumns)

	rows, err := repository.pool.Query(ctx, listQuery, authorID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_list_drafts_failed: %w", err)
	}
	defer rows.Close()

	stories, err := scanStories(rows)
	if err != nil {
		return nil, 0, err
	}

	return stories, total, nil
}

// Delete permanently removes a story row.
//
// Likes and comments are removed by ON DELETE CASCADE on their foreign keys.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	const query = "DELETE FROM story.story WHERE id = $1"

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_story_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}

	return nil
}

// scanStories collects story rows from a list query.
func scanStories(rows pgx.Rows) ([]Story, error) {
	stories := make([]Story, 0)

	for rows.Next() {
		var story Story
		err := rows.Scan(
			&story.ID,
			&story.Title,
			&story.Description,
			&story.Category,
			&story.Language,
			&story.Tags,
			&story.Chapters,
			&story.Status,
			&story.CoverURL,
			&story.CoverKey,
			&story.AuthorID,
			&story.AuthorName,
			&story.CreatedAt,
			&story.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_story_repo_scan_failed: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_story_repo_rows_failed: %w", err)
	}

	return stories, nil
}
