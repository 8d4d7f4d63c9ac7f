package suggest

import (
	"context"
	"encoding/json"
	"fmt"

	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ResponseCache keeps ranked suggestion responses in redis, keyed by
// user and filter combination. Pantry and recipe writes make entries
// stale, so the TTL is kept short rather than invalidating eagerly.
type ResponseCache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewResponseCache connects to redis. Returns nil when the redis cache
// is disabled; callers treat a nil cache as a no-op.
func NewResponseCache(cfg *config.CacheConfig) (*ResponseCache, error) {
	if !cfg.RedisEnabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ResponseCache{
		client: client,
		config: cfg,
	}, nil
}

// Get returns a cached response for the user and filter combination.
func (c *ResponseCache) Get(ctx context.Context, userID uint, canMake bool, threshold *int) ([]SuggestionRow, bool) {
	data, err := c.client.Get(ctx, c.key(userID, canMake, threshold)).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("suggestion cache get failed", zap.Error(err))
		}
		return nil, false
	}

	var rows []SuggestionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// Set stores a response. Failures are logged and swallowed; the cache
// is an optimization, not a dependency.
func (c *ResponseCache) Set(ctx context.Context, userID uint, canMake bool, threshold *int, rows []SuggestionRow) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(userID, canMake, threshold), data, c.config.SuggestionTTL).Err(); err != nil {
		common.LogWarn("suggestion cache set failed", zap.Error(err))
	}
}

// Close releases the redis connection.
func (c *ResponseCache) Close() error {
	return c.client.Close()
}

func (c *ResponseCache) key(userID uint, canMake bool, threshold *int) string {
	t := "none"
	if threshold != nil {
		t = fmt.Sprintf("%d", *threshold)
	}
	return fmt.Sprintf("suggest:%d:%t:%s", userID, canMake, t)
}
