package server

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bilevel/internal/config"
	"bilevel/internal/logger"
	"bilevel/internal/models"
)

// ResultCache stores computed threshold results in redis, keyed by the
// MD5 of the uploaded bytes plus the request parameters. A cold or
// unreachable cache is a soft failure; computation always proceeds.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewResultCache(cfg *config.RedisConfig, log logger.Logger) *ResultCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &ResultCache{
		client: client,
		ttl:    cfg.TTL,
		logger: log,
	}
}

func (c *ResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Key derives the cache key for one upload and parameter combination.
func Key(data []byte, algorithm string, epsilon float64) string {
	sum := md5.Sum(data)
	return fmt.Sprintf("threshold:%s:%s:eps=%g", hex.EncodeToString(sum[:]), algorithm, epsilon)
}

func (c *ResultCache) Get(ctx context.Context, key string) (*models.ThresholdResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result models.ThresholdResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Error("cache", err, map[string]interface{}{"key": key})
		return nil, err
	}

	return &result, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result *models.ThresholdResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *ResultCache) Close() error {
	return c.client.Close()
}
