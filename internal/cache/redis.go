package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"finease/internal/models"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	KeyPrefix   string
	TTL         time.Duration
	DialTimeout time.Duration
}

// RedisSummaryCache stores summaries as JSON strings with a TTL, so a missed
// invalidation is bounded by TTL.
type RedisSummaryCache struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSummaryCache(cfg RedisConfig, logger *zap.Logger) (*RedisSummaryCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{cfg.Addr},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
		Dialer:      net.Dialer{Timeout: cfg.DialTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("redis: failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	logger.Info("Summary cache connected",
		zap.String("addr", cfg.Addr),
		zap.Duration("ttl", cfg.TTL),
	)

	return &RedisSummaryCache{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

func (c *RedisSummaryCache) Get(ctx context.Context, ownerEmail string) (models.Summary, bool, error) {
	raw, err := c.client.Do(ctx, c.client.B().Get().Key(c.key(ownerEmail)).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return models.Summary{}, false, nil
		}
		return models.Summary{}, false, err
	}

	var summary models.Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return models.Summary{}, false, fmt.Errorf("redis: decode summary: %w", err)
	}
	return summary, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, ownerEmail string, summary models.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("redis: encode summary: %w", err)
	}
	cmd := c.client.B().Set().Key(c.key(ownerEmail)).Value(string(data)).Ex(c.ttl).Build()
	return c.client.Do(ctx, cmd).Error()
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, ownerEmail string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(c.key(ownerEmail)).Build()).Error()
}

func (c *RedisSummaryCache) Close() {
	c.client.Close()
}

func (c *RedisSummaryCache) key(ownerEmail string) string {
	return c.prefix + "summary:" + ownerEmail
}
