package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultClickKeyPrefix = "clicks:product:"

// RedisClickCounter keeps a live per-product click counter in Redis. The
// clicks table stays the source of truth; the counter exists so the redirect
// path never waits on an aggregate query.
type RedisClickCounter struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClickCounter creates a counter backed by a new Redis connection
func NewRedisClickCounter(cfg RedisConfig) (*RedisClickCounter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClickCounter{
		client:    client,
		keyPrefix: defaultClickKeyPrefix,
	}, nil
}

// NewRedisClickCounterWithClient creates a counter with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisClickCounterWithClient(client *redis.Client, keyPrefix string) *RedisClickCounter {
	if keyPrefix == "" {
		keyPrefix = defaultClickKeyPrefix
	}
	return &RedisClickCounter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Increment bumps the counter for one product and returns the new total
func (c *RedisClickCounter) Increment(ctx context.Context, productID uuid.UUID) (int64, error) {
	total, err := c.client.Incr(ctx, c.key(productID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment click counter: %w", err)
	}
	return total, nil
}

// Get returns the live counter for one product, zero when absent
func (c *RedisClickCounter) Get(ctx context.Context, productID uuid.UUID) (int64, error) {
	total, err := c.client.Get(ctx, c.key(productID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read click counter: %w", err)
	}
	return total, nil
}

// GetMany returns live counters for a set of products in one MGET. Products
// with no counter yet are reported as zero.
func (c *RedisClickCounter) GetMany(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}

	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = c.key(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read click counters: %w", err)
	}

	for i, id := range productIDs {
		counts[id] = 0
		if raw, ok := values[i].(string); ok {
			var total int64
			if _, err := fmt.Sscan(raw, &total); err == nil {
				counts[id] = total
			}
		}
	}
	return counts, nil
}

// Reset clears the counter for one product
func (c *RedisClickCounter) Reset(ctx context.Context, productID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(productID)).Err(); err != nil {
		return fmt.Errorf("failed to reset click counter: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisClickCounter) Close() error {
	return c.client.Close()
}

func (c *RedisClickCounter) key(productID uuid.UUID) string {
	return c.keyPrefix + productID.String()
}
