package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"questline/internal/model"
)

// ClusterCache handles Redis caching of questionnaire content. Content
// changes only through the CMS surface, so entries live until invalidated
// or expired.
type ClusterCache interface {
	Get(ctx context.Context, key string) (*model.Cluster, error)
	Set(ctx context.Context, cluster *model.Cluster) error
	InvalidateAll(ctx context.Context) error
}

type clusterCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClusterCache creates a new cluster content cache
func NewClusterCache(client *redis.Client, ttl time.Duration) ClusterCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &clusterCache{client: client, ttl: ttl}
}

func (c *clusterCache) key(clusterKey string) string {
	return fmt.Sprintf("cluster:%s", clusterKey)
}

func (c *clusterCache) Get(ctx context.Context, key string) (*model.Cluster, error) {
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cluster model.Cluster
	if err := json.Unmarshal([]byte(data), &cluster); err != nil {
		return nil, err
	}
	return &cluster, nil
}

func (c *clusterCache) Set(ctx context.Context, cluster *model.Cluster) error {
	data, err := json.Marshal(cluster)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(cluster.Key), data, c.ttl).Err()
}

func (c *clusterCache) InvalidateAll(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "cluster:*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
