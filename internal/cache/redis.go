package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "catalog:match"
	genSuffix     = ":gen"
)

// Redis is a MatchCache backed by redis.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a redis-backed cache. An empty prefix selects "catalog:match".
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.prefix+genSuffix).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

func (r *Redis) key(gen int64, ids []uuid.UUID) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, gen, canonical(ids))
}

// Get returns the cached result for ids under the current generation.
func (r *Redis) Get(ctx context.Context, ids []uuid.UUID) ([]model.PerfumeSummary, int64, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	data, err := r.client.Get(ctx, r.key(gen, ids)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, ErrMiss
		}
		return nil, gen, fmt.Errorf("redis get failed: %w", err)
	}
	var out []model.PerfumeSummary
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, gen, fmt.Errorf("decode cached match: %w", err)
	}
	if out == nil {
		out = []model.PerfumeSummary{}
	}
	return out, gen, nil
}

// Set stores res under gen with the configured TTL. gen must come from the Get that
// preceded the store query.
func (r *Redis) Set(ctx context.Context, gen int64, ids []uuid.UUID, res []model.PerfumeSummary) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode match: %w", err)
	}
	if err := r.client.Set(ctx, r.key(gen, ids), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate bumps the generation counter.
func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.prefix+genSuffix).Err(); err != nil {
		return fmt.Errorf("redis incr failed: %w", err)
	}
	return nil
}
