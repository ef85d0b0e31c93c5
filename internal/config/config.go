package config

import (
	"os"
	"strings"
	"time"
)

// Config holds the environment-driven server settings.
type Config struct {
	MongoURI         string
	MongoDB          string
	RedisAddr        string
	HTTPPort         string
	ClusterCacheTTL  time.Duration
	ProgressCacheTTL time.Duration
}

// Load reads the configuration from the environment, falling back to
// local-development defaults.
func Load() *Config {
	return &Config{
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "questline"),
		RedisAddr:        normalizeRedisAddr(getEnv("REDIS_URI", "localhost:6379")),
		HTTPPort:         getEnv("PORT", "8080"),
		ClusterCacheTTL:  getDuration("CLUSTER_CACHE_TTL", 10*time.Minute),
		ProgressCacheTTL: getDuration("PROGRESS_CACHE_TTL", time.Minute),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

// normalizeRedisAddr removes a redis:// prefix if present
func normalizeRedisAddr(addr string) string {
	return strings.TrimPrefix(addr, "redis://")
}
