package insights

import (
	"context"
	"testing"
	"time"

	"kedai/backend/internal/domain"
	"kedai/backend/internal/store/memory"
	"kedai/backend/internal/xid"
)

func applyChange(t *testing.T, repo *memory.Store, ingredientID string, newQty int, delta int, txType string) {
	t.Helper()
	err := repo.ApplyStockChange(context.Background(), ingredientID, newQty, domain.InventoryTransaction{
		ID:             xid.New("tx"),
		IngredientID:   ingredientID,
		QuantityChange: delta,
		Type:           txType,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("apply stock change failed: %v", err)
	}
}

func TestDailyUsageCountsOnlyRemovals(t *testing.T) {
	repo := memory.NewSeeded()
	engine := NewEngine(repo, nil, time.Minute)

	applyChange(t, repo, "ing-beans", 1950, 50, domain.TxTypeRemove)
	applyChange(t, repo, "ing-beans", 1930, 20, domain.TxTypeRemove)
	applyChange(t, repo, "ing-beans", 2030, 100, domain.TxTypeAdd)
	applyChange(t, repo, "ing-milk", 35, -5, domain.TxTypeAdjust)

	report, err := engine.DailyUsage(context.Background(), 7)
	if err != nil {
		t.Fatalf("daily usage failed: %v", err)
	}
	if report.Days != 7 {
		t.Fatalf("expected 7 days, got %d", report.Days)
	}
	if len(report.Points) != 7 {
		t.Fatalf("expected dense 7-point series, got %d", len(report.Points))
	}

	today := time.Now().UTC().Format("2006-01-02")
	last := report.Points[len(report.Points)-1]
	if last.Date != today {
		t.Fatalf("expected last point %s, got %s", today, last.Date)
	}
	if last.RemovedUnits != 70 {
		t.Fatalf("expected 70 removed units today (ADD and ADJUST ignored), got %d", last.RemovedUnits)
	}
	for _, point := range report.Points[:len(report.Points)-1] {
		if point.RemovedUnits != 0 {
			t.Fatalf("expected zero usage on %s, got %d", point.Date, point.RemovedUnits)
		}
	}
}

func TestDailyUsageClampsWindow(t *testing.T) {
	engine := NewEngine(memory.NewSeeded(), nil, time.Minute)

	report, err := engine.DailyUsage(context.Background(), 0)
	if err != nil {
		t.Fatalf("daily usage failed: %v", err)
	}
	if report.Days != 7 {
		t.Fatalf("expected fallback to 7 days, got %d", report.Days)
	}

	report, err = engine.DailyUsage(context.Background(), 500)
	if err != nil {
		t.Fatalf("daily usage failed: %v", err)
	}
	if report.Days != 90 {
		t.Fatalf("expected clamp to 90 days, got %d", report.Days)
	}
}

func TestLowStockAlertsSortedByDepletion(t *testing.T) {
	repo := memory.NewSeeded()
	engine := NewEngine(repo, nil, time.Minute)

	// Seeded stock is healthy; drain two ingredients.
	applyChange(t, repo, "ing-milk", 0, 40, domain.TxTypeRemove)
	applyChange(t, repo, "ing-flour", 5, 20, domain.TxTypeRemove) // at min level

	alerts, err := engine.LowStockAlerts(context.Background())
	if err != nil {
		t.Fatalf("low stock alerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].IngredientID != "ing-milk" || alerts[0].Status != domain.StockOut {
		t.Fatalf("expected milk out of stock first, got %+v", alerts[0])
	}
	if alerts[1].IngredientID != "ing-flour" || alerts[1].Status != domain.StockLow {
		t.Fatalf("expected flour low stock, got %+v", alerts[1])
	}
}

func TestLowStockAlertsFallBackToConfiguredThreshold(t *testing.T) {
	repo := memory.NewSeeded()
	engine := NewEngine(repo, nil, time.Minute)
	ctx := context.Background()

	// No explicit minimum: the settings threshold (default 5) applies.
	now := time.Now().UTC()
	if _, err := repo.CreateIngredient(ctx,
		domain.Ingredient{ID: "ing-syrup", Name: "Vanilla Syrup", Unit: "ml", CreatedAt: now},
		domain.InventoryRecord{IngredientID: "ing-syrup", StockQty: 2, MinStockLevel: 0},
		nil,
	); err != nil {
		t.Fatalf("create ingredient failed: %v", err)
	}
	if _, err := repo.CreateIngredient(ctx,
		domain.Ingredient{ID: "ing-cocoa", Name: "Cocoa Powder", Unit: "g", CreatedAt: now},
		domain.InventoryRecord{IngredientID: "ing-cocoa", StockQty: 6, MinStockLevel: 0},
		nil,
	); err != nil {
		t.Fatalf("create ingredient failed: %v", err)
	}

	alerts, err := engine.LowStockAlerts(ctx)
	if err != nil {
		t.Fatalf("low stock alerts failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].IngredientID != "ing-syrup" || alerts[0].Status != domain.StockLow {
		t.Fatalf("expected syrup flagged low, got %+v", alerts[0])
	}
	if alerts[0].MinStockLevel != 5 {
		t.Fatalf("alert should carry the effective threshold, got %d", alerts[0].MinStockLevel)
	}
}
