package cache

import (
	"context"
	"time"

	"kedai/backend/internal/domain"
)

type UsageReportCache interface {
	Get(ctx context.Context, key string) (*domain.DailyUsageReport, bool, error)
	Set(ctx context.Context, key string, value *domain.DailyUsageReport, ttl time.Duration) error
}

type NoopUsageReportCache struct{}

func (NoopUsageReportCache) Get(_ context.Context, _ string) (*domain.DailyUsageReport, bool, error) {
	return nil, false, nil
}

func (NoopUsageReportCache) Set(_ context.Context, _ string, _ *domain.DailyUsageReport, _ time.Duration) error {
	return nil
}
