package querycache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dealer-admin/internal/models"
)

// Store persists encoded query results and the tag index pointing at them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []models.Tag) error
	// Delete removes one entry and its tag index references.
	Delete(ctx context.Context, key string, tags []models.Tag) error
	// Invalidate deletes every entry indexed under tags and returns how many
	// entries were removed.
	Invalidate(ctx context.Context, tags ...models.Tag) (int, error)
}

// RedisStore keeps entries as plain keys and each tag as a set of keys.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) tagKey(tag models.Tag) string {
	return s.prefix + "tag:" + string(tag)
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []models.Tag) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	for _, tag := range tags {
		if err := s.client.SAdd(ctx, s.tagKey(tag), key).Err(); err != nil {
			return fmt.Errorf("redis index %s under %s: %w", key, tag, err)
		}
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string, tags []models.Tag) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	for _, tag := range tags {
		if err := s.client.SRem(ctx, s.tagKey(tag), key).Err(); err != nil {
			return fmt.Errorf("redis unindex %s under %s: %w", key, tag, err)
		}
	}
	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, tags ...models.Tag) (int, error) {
	removed := 0
	for _, tag := range tags {
		tagKey := s.tagKey(tag)
		keys, err := s.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return removed, fmt.Errorf("redis members of %s: %w", tag, err)
		}
		n, err := s.client.Del(ctx, append(keys, tagKey)...).Result()
		if err != nil {
			return removed, fmt.Errorf("redis delete %s: %w", tag, err)
		}
		if n > 0 && len(keys) > 0 {
			// the tag set itself is counted by Del
			n--
		}
		removed += int(n)
	}
	return removed, nil
}
