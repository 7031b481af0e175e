// Copyright (c) 2026 SOYO. All rights reserved.

// Redis-backed like-count cache.
package social

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soyoapp/soyo/internal/platform/constants"
)

// likeCountTTL bounds staleness if an invalidation is ever lost.
const likeCountTTL = 10 * time.Minute

// RedisLikeCountCache implements [LikeCountCache] on go-redis.
//
// Every method swallows Redis errors after logging them; the caller falls
// back to counting in PostgreSQL.
type RedisLikeCountCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewLikeCountCache creates a Redis-backed like-count cache.
func NewLikeCountCache(client *redis.Client, logger *slog.Logger) *RedisLikeCountCache {
	return &RedisLikeCountCache{client: client, logger: logger}
}

func likeCountKey(storyID string) string {
	return constants.RedisPrefixLikeCount + storyID
}

// Get returns the cached count and whether it was present.
func (cache *RedisLikeCountCache) Get(ctx context.Context, storyID string) (int64, bool) {
	value, err := cache.client.Get(ctx, likeCountKey(storyID)).Result()
	if err != nil {
		if err != redis.Nil {
			cache.logger.WarnContext(ctx, "like_count_cache_get_failed",
				slog.String("story_id", storyID),
				slog.Any("error", err),
			)
		}
		return 0, false
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}

	return count, true
}

// Set stores the count with the standard TTL.
func (cache *RedisLikeCountCache) Set(ctx context.Context, storyID string, count int64) {
	err := cache.client.Set(ctx, likeCountKey(storyID), count, likeCountTTL).Err()
	if err != nil {
		cache.logger.WarnContext(ctx, "like_count_cache_set_failed",
			slog.String("story_id", storyID),
			slog.Any("error", err),
		)
	}
}

// Invalidate drops the cached count after a like toggle.
func (cache *RedisLikeCountCache) Invalidate(ctx context.Context, storyID string) {
	err := cache.client.Del(ctx, likeCountKey(storyID)).Err()
	if err != nil {
		cache.logger.WarnContext(ctx, "like_count_cache_invalidate_failed",
			slog.String("story_id", storyID),
			slog.Any("error", err),
		)
	}
}
