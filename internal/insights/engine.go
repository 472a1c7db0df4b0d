package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"kedai/backend/internal/cache"
	"kedai/backend/internal/domain"
	"kedai/backend/internal/store"
)

// Engine computes inventory insight reports off the stock ledger: daily
// usage (REMOVE magnitudes bucketed by calendar day) and low-stock alerts.
// Reports are cached because the admin dashboard polls them.
type Engine struct {
	repo     store.Repository
	cache    cache.UsageReportCache
	cacheTTL time.Duration
}

func NewEngine(repo store.Repository, cacheStore cache.UsageReportCache, cacheTTL time.Duration) *Engine {
	if cacheStore == nil {
		cacheStore = cache.NoopUsageReportCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}

	return &Engine{
		repo:     repo,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
	}
}

// DailyUsage reports how many units left stock per calendar day over the
// trailing window. Only REMOVE entries count; restocks and corrections are
// not usage. Days with no removals appear with zero so charts stay dense.
func (e *Engine) DailyUsage(ctx context.Context, days int) (domain.DailyUsageReport, error) {
	if days < 1 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	cacheKey := fmt.Sprintf("usage:daily:%d", days)
	if cached, ok, err := e.cache.Get(ctx, cacheKey); err == nil && ok {
		return *cached, nil
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -days+1)
	since = time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)

	entries, err := e.repo.ListTransactions(ctx, since, 0)
	if err != nil {
		return domain.DailyUsageReport{}, err
	}

	removedByDay := map[string]int{}
	for _, entry := range entries {
		if entry.Type != domain.TxTypeRemove {
			continue
		}
		day := entry.CreatedAt.UTC().Format("2006-01-02")
		// REMOVE deltas are positive magnitudes by convention, but a
		// corrected ledger may hold negatives; count magnitude either way.
		change := entry.QuantityChange
		if change < 0 {
			change = -change
		}
		removedByDay[day] += change
	}

	points := make([]domain.DailyUsagePoint, 0, days)
	for d := 0; d < days; d++ {
		day := since.AddDate(0, 0, d).Format("2006-01-02")
		points = append(points, domain.DailyUsagePoint{
			Date:         day,
			RemovedUnits: removedByDay[day],
		})
	}

	report := domain.DailyUsageReport{
		Days:        days,
		GeneratedAt: now.Format(time.RFC3339),
		Points:      points,
	}
	if err := e.cache.Set(ctx, cacheKey, &report, e.cacheTTL); err != nil {
		// Cache failure degrades to recompute-per-request.
		return report, nil
	}
	return report, nil
}

// LowStockAlerts lists every ingredient at or below its minimum level,
// most-depleted first. Records without an explicit minimum fall back to the
// configured low-stock threshold.
func (e *Engine) LowStockAlerts(ctx context.Context) ([]domain.LowStockAlert, error) {
	items, err := e.repo.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := e.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.LowStockAlert, 0, len(items))
	for _, item := range items {
		min := item.Record.MinStockLevel
		if min == 0 {
			min = settings.LowStockThreshold
		}
		status := domain.StockStatus(item.Record.StockQty, min)
		if status == domain.StockIn {
			continue
		}
		alerts = append(alerts, domain.LowStockAlert{
			IngredientID:  item.Ingredient.ID,
			Name:          item.Ingredient.Name,
			Unit:          item.Ingredient.Unit,
			StockQty:      item.Record.StockQty,
			MinStockLevel: min,
			Status:        status,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].StockQty == alerts[j].StockQty {
			return alerts[i].Name < alerts[j].Name
		}
		return alerts[i].StockQty < alerts[j].StockQty
	})
	return alerts, nil
}
