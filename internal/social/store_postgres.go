// Copyright (c) 2026 SOYO. All rights reserved.

// PostgreSQL implementation of the engagement storage contract.
package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soyoapp/soyo/pkg/pagination"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the social Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// StoryState reports whether a story exists and whether it is published.
func (repository *PostgresRepository) StoryState(ctx context.Context, storyID string) (bool, bool, error) {
	const query = "SELECT status FROM story.story WHERE id = $1"

	var status string
	err := repository.pool.QueryRow(ctx, query, storyID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("postgres_social_repo_story_state_failed: %w", err)
	}

	return true, status == "published", nil
}

// ToggleLike flips the caller's like in one round trip per branch.
//
// The DELETE-then-INSERT pair leans on the (storyid, userid) primary key:
// no counter is read or written, so concurrent likers can never trample
// each other's increments.
func (repository *PostgresRepository) ToggleLike(ctx context.Context, storyID, userID string) (bool, error) {
	const deleteQuery = "DELETE FROM story.story_like WHERE storyid = $1 AND userid = $2"

	tag, err := repository.pool.Exec(ctx, deleteQuery, storyID, userID)
	if err != nil {
		return false, fmt.Errorf("postgres_social_repo_unlike_failed: %w", err)
	}

	// A row was deleted: the story was liked, now it is not.
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	// ON CONFLICT absorbs the race where two toggles for the same user land
	// back to back; the like simply stays set.
	const insertQuery = `
		INSERT INTO story.story_like (storyid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (storyid, userid) DO NOTHING`

	if _, err := repository.pool.Exec(ctx, insertQuery, storyID, userID, time.Now()); err != nil {
		return false, fmt.Errorf("postgres_social_repo_like_failed: %w", err)
	}

	return true, nil
}

// CountLikes returns the number of likes on a story.
func (repository *PostgresRepository) CountLikes(ctx context.Context, storyID string) (int64, error) {
	const query = "SELECT COUNT(*) FROM story.story_like WHERE storyid = $1"

	var count int64
	if err := repository.pool.QueryRow(ctx, query, storyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_social_repo_count_likes_failed: %w", err)
	}

	return count, nil
}

// IsLiked reports whether the user currently likes the story.
func (repository *PostgresRepository) IsLiked(ctx context.Context, storyID, userID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM story.story_like WHERE storyid = $1 AND userid = $2
		)`

	var liked bool
	if err := repository.pool.QueryRow(ctx, query, storyID, userID).Scan(&liked); err != nil {
		return false, fmt.Errorf("postgres_social_repo_is_liked_failed: %w", err)
	}

	return liked, nil
}

// AddComment persists a comment, snapshotting the author's current name.
func (repository *PostgresRepository) AddComment(ctx context.Context, comment *Comment) error {
	const query = `
		INSERT INTO story.story_comment (id, storyid, userid, authorname, body, createdat)
		VALUES ($1, $2, $3, (SELECT name FROM users.account WHERE id = $3), $4, $5)
		RETURNING authorname`

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	err := repository.pool.QueryRow(ctx, query,
		comment.ID,
		comment.StoryID,
		comment.UserID,
		comment.Text,
		comment.CreatedAt,
	).Scan(&comment.AuthorName)

	if err != nil {
		return fmt.Errorf("postgres_social_repo_add_comment_failed: %w", err)
	}

	return nil
}

// CountComments returns the number of comments on a story.
func (repository *PostgresRepository) CountComments(ctx context.Context, storyID string) (int, error) {
	const query = "SELECT COUNT(*) FROM story.story_comment WHERE storyid = $1"

	var count int
	if err := repository.pool.QueryRow(ctx, query, storyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_social_repo_count_comments_failed: %w", err)
	}

	return count, nil
}

// ListComments returns a page of comments for a story, newest first.
func (repository *PostgresRepository) ListComments(ctx context.Context, storyID string, params pagination.Params) ([]Comment, int, error) {
	total, err := repository.CountComments(ctx, storyID)
	if err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT id, storyid, userid, authorname, body, createdat
		FROM story.story_comment
		WHERE storyid = $1
		ORDER BY createdat DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, listQuery, storyID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_list_comments_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		var comment Comment
		err := rows.Scan(
			&comment.ID,
			&comment.StoryID,
			&comment.UserID,
			&comment.AuthorName,
			&comment.Text,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_social_repo_scan_comment_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_social_repo_comment_rows_failed: %w", err)
	}

	return comments, total, nil
}
