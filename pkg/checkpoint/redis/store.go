// Package redis keeps scan cursors in redis, for deployments that run the
// relayer without postgres.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chainsafe/htlc-relayer/pkg/config"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Store is a cursor store backed by plain redis string keys.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// NewStore connects to redis and verifies the connection.
func NewStore(ctx context.Context, cfg *config.RedisConfig) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewStoreWithClient(rdb, cfg.KeyPrefix), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Close closes the redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) cursorKey(key string) string {
	if s.prefix == "" {
		return "cursor:" + key
	}
	return s.prefix + ":cursor:" + key
}

// LoadCursor returns the stored cursor for key.
func (s *Store) LoadCursor(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.rdb.Get(ctx, s.cursorKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to load cursor: %w", err)
	}

	block, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cursor %q: %w", val, err)
	}
	return block, true, nil
}

// SaveCursor stores the cursor for key without expiry.
func (s *Store) SaveCursor(ctx context.Context, key string, block int64) error {
	if err := s.rdb.Set(ctx, s.cursorKey(key), strconv.FormatInt(block, 10), 0).Err(); err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}
