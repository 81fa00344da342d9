package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joshjau/hero-dbc/pkg/dbc"
)

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	// Address is the Redis server address (e.g., "localhost:6379")
	Address string

	// Password for Redis authentication (optional)
	Password string

	// Database number to use (default: 0)
	Database int

	// Prefix is prepended to all cache keys
	Prefix string

	// TTL is the time-to-live for cached tables
	TTL time.Duration

	// Timeout for Redis operations
	Timeout time.Duration
}

// DefaultRedisConfig returns sensible defaults.
func DefaultRedisConfig(address string) RedisConfig {
	return RedisConfig{
		Address: address,
		Prefix:  "herodbc:tables:",
		TTL:     5 * time.Minute,
		Timeout: 5 * time.Second,
	}
}

// Redis caches parsed tables in Redis so that separate generator
// processes in one pipeline run share a single parse of each extract.
type Redis struct {
	cfg    RedisConfig
	client *redis.Client
}

// NewRedis creates a Redis cache backend and verifies the connection.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.Database,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{cfg: cfg, client: client}, nil
}

func (c *Redis) key(key string) string {
	// File paths make poor Redis keys; hash them.
	sum := sha256.Sum256([]byte(key))
	return c.cfg.Prefix + hex.EncodeToString(sum[:])
}

// Get implements Store.
func (c *Redis) Get(ctx context.Context, key string) (*dbc.Table, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil, false
	}

	var t dbc.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false
	}
	return dbc.NewTable(t.Path, t.Columns, t.Rows), true
}

// Put implements Store.
func (c *Redis) Put(ctx context.Context, key string, t *dbc.Table) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	c.client.Set(ctx, c.key(key), data, c.cfg.TTL)
}

// Close implements Store.
func (c *Redis) Close() error {
	return c.client.Close()
}
