package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/config"
)

// Client wraps the Redis connection backing share links.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it once. Callers treat a failure
// here as "share links disabled", not as a startup error.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	logger.Info("Redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── share links ──

const sharePrefix = "share:plan:"

// ErrNotFound is returned when a share code is unknown or expired.
var ErrNotFound = goredis.Nil

// SetShare stores a compressed snapshot under a share code with a TTL.
func (c *Client) SetShare(ctx context.Context, code string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, sharePrefix+code, payload, ttl).Err()
}

// GetShare resolves a share code to its stored payload. Unknown and
// expired codes return ErrNotFound.
func (c *Client) GetShare(ctx context.Context, code string) ([]byte, error) {
	return c.rdb.Get(ctx, sharePrefix+code).Bytes()
}

// Close shuts the connection down.
func (c *Client) Close() error {
	return c.rdb.Close()
}
