package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"kedai/backend/internal/domain"
)

type RedisUsageReportCache struct {
	client *redis.Client
}

func NewRedisUsageReportCache(addr string, password string, db int) *RedisUsageReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisUsageReportCache{client: client}
}

func (c *RedisUsageReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisUsageReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisUsageReportCache) Get(ctx context.Context, key string) (*domain.DailyUsageReport, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var report domain.DailyUsageReport
	if err := json.Unmarshal([]byte(val), &report); err != nil {
		return nil, false, err
	}
	return &report, true, nil
}

func (c *RedisUsageReportCache) Set(ctx context.Context, key string, value *domain.DailyUsageReport, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
