package data

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisUnreadCountRepo caches per-user unread notification counts in
// Redis. A miss returns found=false and the caller recounts from
// Postgres; writers invalidate instead of updating so the cache can
// never drift past one TTL.
type RedisUnreadCountRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisUnreadCountRepo creates a new RedisUnreadCountRepo with the given Redis client.
func NewRedisUnreadCountRepo(client redis.UniversalClient, ttl time.Duration) *RedisUnreadCountRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisUnreadCountRepo{client: client, ttl: ttl}
}

func unreadKey(userID string) string {
	return "notifications:unread:" + userID
}

// Get retrieves a cached unread count for a user.
func (r *RedisUnreadCountRepo) Get(ctx context.Context, userID string) (count int, found bool, err error) {
	if userID == "" {
		return 0, false, errors.New("user id cannot be empty")
	}

	result, err := r.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis get: %w", err)
	}

	count, convErr := strconv.Atoi(result)
	if convErr != nil {
		// Corrupt entry; treat as a miss so the caller repopulates.
		return 0, false, nil
	}
	return count, true, nil
}

// Set stores an unread count for a user with the configured TTL.
func (r *RedisUnreadCountRepo) Set(ctx context.Context, userID string, count int) error {
	if userID == "" {
		return errors.New("user id cannot be empty")
	}
	return r.client.Set(ctx, unreadKey(userID), strconv.Itoa(count), r.ttl).Err()
}

// Invalidate removes a user's cached unread count.
func (r *RedisUnreadCountRepo) Invalidate(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id cannot be empty")
	}
	if err := r.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
