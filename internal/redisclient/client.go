package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prediction-dashboard/internal/models"

	"github.com/go-redis/redis/v8"
)

const snapshotKey = "dashboard:snapshot"

type Client struct {
	rdb         *redis.Client
	snapshotTTL time.Duration
}

// NewClient creates a new Redis client and checks connectivity
func NewClient(addr, password string, db int, snapshotTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewFromRedis(rdb, snapshotTTL), nil
}

// NewFromRedis wraps an existing go-redis client
func NewFromRedis(rdb *redis.Client, snapshotTTL time.Duration) *Client {
	return &Client{rdb: rdb, snapshotTTL: snapshotTTL}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// SaveSnapshot stores the snapshot as JSON with the configured TTL
func (c *Client) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.rdb.Set(ctx, snapshotKey, payload, c.snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached snapshot, or nil when there is none
func (c *Client) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	payload, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// ClaimIdempotencyKey records a key with TTL.
// Returns false if the key was already claimed.
func (c *Client) ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, idempotencyKey(key), time.Now().Unix(), ttl).Result()
}

// ReleaseIdempotencyKey forgets a key so the request can be retried
func (c *Client) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, idempotencyKey(key)).Err()
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency:%s", key)
}
