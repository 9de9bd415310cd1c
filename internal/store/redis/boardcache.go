package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const generationKey = "board:gen"

// BoardCache stores rendered board snapshots keyed by a generation counter.
// Every accepted move bumps the generation, so snapshots built before the
// move can never be served to a client that issued it (read-your-writes);
// orphaned snapshots expire by TTL.
type BoardCache struct {
	client *redis.Client
}

func NewBoardCache(ps *PubSub) *BoardCache {
	return &BoardCache{client: ps.client}
}

// Generation returns the current board generation. A missing key reads as 0.
func (c *BoardCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis.BoardCache.Generation: %w", err)
	}
	return gen, nil
}

// BumpGeneration invalidates all cached snapshots by advancing the counter.
func (c *BoardCache) BumpGeneration(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis.BoardCache.BumpGeneration: %w", err)
	}
	return nil
}

func (c *BoardCache) GetSnapshot(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis.BoardCache.GetSnapshot: %w", err)
	}
	return payload, true, nil
}

func (c *BoardCache) SetSnapshot(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis.BoardCache.SetSnapshot: %w", err)
	}
	return nil
}
