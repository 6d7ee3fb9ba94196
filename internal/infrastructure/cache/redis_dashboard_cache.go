package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultKeyPrefix     = "lms:dashboard:"
	defaultScanBatchSize = 100
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisDashboardCache stores serialized dashboard payloads in Redis
type RedisDashboardCache struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
	logger     *zap.Logger
}

// NewRedisDashboardCache connects to Redis and verifies the connection
func NewRedisDashboardCache(cfg RedisConfig, logger *zap.Logger) (*RedisDashboardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisDashboardCacheWithClient(client, defaultKeyPrefix, logger)
	c.ownsClient = true
	return c, nil
}

// NewRedisDashboardCacheWithClient wraps an existing client. The caller keeps
// ownership of the client.
func NewRedisDashboardCacheWithClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisDashboardCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDashboardCache{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Get returns the cached payload; ok is false on a miss
func (c *RedisDashboardCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get dashboard from cache: %w", err)
	}
	return data, true, nil
}

// Set stores the payload with a TTL
func (c *RedisDashboardCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set dashboard in cache: %w", err)
	}
	return nil
}

// InvalidateAll deletes every dashboard key using SCAN so Redis is never blocked
func (c *RedisDashboardCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	var total int64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan dashboard keys: %w", err)
		}
		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete dashboard keys: %w", err)
			}
			total += deleted
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.logger.Debug("Dashboard cache invalidated", zap.Int64("keys", total))
	return nil
}

// Close releases the client when the cache created it
func (c *RedisDashboardCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
