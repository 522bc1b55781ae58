package image

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds serialized copies of the most-recent window, one per write
// generation. Every Save advances the generation, so a window read from the
// store before a save can only ever be stored under the old generation.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64) ([]Record, bool, error)
	Set(ctx context.Context, gen int64, records []Record) error
	// Invalidate advances the generation.
	Invalidate(ctx context.Context) error
}

const (
	generationKey  = "gallery:gen"
	recentCacheKey = "gallery:recent"
)

func recentKey(gen int64) string {
	return fmt.Sprintf("%s:%d", recentCacheKey, gen)
}

// RedisCache keeps a generation counter and one window key per generation.
// Windows of old generations are never read again and expire with the TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url (redis://...) and checks it answers.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.DialTimeout = 3 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Generation returns the current write generation, 0 before the first save.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the window cached for gen; ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context, gen int64) ([]Record, bool, error) {
	b, err := c.client.Get(ctx, recentKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var records []Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, false, fmt.Errorf("decode cached records: %w", err)
	}
	return records, true, nil
}

// Set stores the window read under gen.
func (c *RedisCache) Set(ctx context.Context, gen int64, records []Record) error {
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, recentKey(gen), b, c.ttl).Err()
}

// Invalidate increments the generation counter.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
