package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"questline/internal/model"
)

// ProgressCache handles Redis caching of the per-user aggregate progress
// list. Entries are short-lived and invalidated on every answer write,
// since progress is a pure function of answers and content.
type ProgressCache interface {
	Get(ctx context.Context, userID string) ([]model.ClusterProgress, error)
	Set(ctx context.Context, userID string, list []model.ClusterProgress) error
	Invalidate(ctx context.Context, userID string) error
}

type progressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressCache creates a new progress cache
func NewProgressCache(client *redis.Client, ttl time.Duration) ProgressCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &progressCache{client: client, ttl: ttl}
}

func (c *progressCache) key(userID string) string {
	return fmt.Sprintf("progress:%s", userID)
}

func (c *progressCache) Get(ctx context.Context, userID string) ([]model.ClusterProgress, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []model.ClusterProgress
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *progressCache) Set(ctx context.Context, userID string, list []model.ClusterProgress) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

func (c *progressCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
