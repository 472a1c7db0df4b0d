package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"kedai/backend/internal/domain"
	"kedai/backend/internal/store"
	"kedai/backend/internal/xid"
)

func sampleOrder(id string, number string) domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:            id,
		OrderNumber:   number,
		TotalCents:    600,
		PaymentMethod: domain.PaymentCash,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		Items: []domain.OrderItem{{
			ID:             xid.New("oi"),
			OrderID:        id,
			ProductID:      "prod-espresso",
			Qty:            2,
			UnitPriceCents: 300,
			TotalCents:     600,
			CreatedAt:      now,
		}},
	}
}

func TestCreateOrderDuplicateNumberConflict(t *testing.T) {
	m := NewSeeded()
	ctx := context.Background()

	if _, err := m.CreateOrder(ctx, sampleOrder("ord-1", "ORD-100")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := m.CreateOrder(ctx, sampleOrder("ord-2", "ORD-100"))
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCancelSoftDeletesAndRestoreMintsFreshRows(t *testing.T) {
	m := NewSeeded()
	ctx := context.Background()

	created, err := m.CreateOrder(ctx, sampleOrder("ord-1", "ORD-100"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	originalItemID := created.Items[0].ID

	cancelled, err := m.CancelOrder(ctx, "ord-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != domain.OrderStatusCancelled || len(cancelled.Items) != 0 {
		t.Fatalf("unexpected cancelled order: %+v", cancelled)
	}

	fetched, err := m.GetOrder(ctx, "ord-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(fetched.Items) != 0 {
		t.Fatalf("soft-deleted items leaked into read: %+v", fetched.Items)
	}

	restored, err := m.RestoreOrder(ctx, "ord-1", domain.OrderStatusCompleted, time.Now().UTC())
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.Status != domain.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", restored.Status)
	}
	if len(restored.Items) != 1 {
		t.Fatalf("expected 1 restored item, got %d", len(restored.Items))
	}
	item := restored.Items[0]
	if item.ID == originalItemID {
		t.Fatalf("restore reused the tombstoned row id")
	}
	if item.ProductID != "prod-espresso" || item.Qty != 2 || item.UnitPriceCents != 300 {
		t.Fatalf("restore changed the line: %+v", item)
	}
}

func TestAdjustLoyaltyClampsAtZero(t *testing.T) {
	m := NewSeeded()
	ctx := context.Background()

	customer, err := m.CreateCustomer(ctx, domain.Customer{
		ID:        "cus-1",
		Name:      "Maya",
		Email:     "maya@example.com",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	updated, err := m.AdjustLoyaltyPoints(ctx, customer.ID, 10)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if updated.LoyaltyPoints != 10 {
		t.Fatalf("expected 10 points, got %d", updated.LoyaltyPoints)
	}

	updated, err = m.AdjustLoyaltyPoints(ctx, customer.ID, -25)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if updated.LoyaltyPoints != 0 {
		t.Fatalf("expected clamp at 0, got %d", updated.LoyaltyPoints)
	}
}

func TestGetSettingsDefaultsUntilSaved(t *testing.T) {
	m := NewSeeded()
	ctx := context.Background()

	settings, err := m.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings failed: %v", err)
	}
	if settings != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}

	settings.StoreName = "Corner Kedai"
	settings.Version = 2
	if _, err := m.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded, err := m.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings failed: %v", err)
	}
	if reloaded.StoreName != "Corner Kedai" || reloaded.Version != 2 {
		t.Fatalf("saved settings not returned: %+v", reloaded)
	}
}

func TestSaveSettingsRejectsInvalid(t *testing.T) {
	m := NewSeeded()

	bad := domain.DefaultSettings()
	bad.TaxRatePercent = 200
	if _, err := m.SaveSettings(context.Background(), bad); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestListTransactionsZeroLimitReturnsWholeWindow(t *testing.T) {
	m := NewSeeded()
	ctx := context.Background()

	stock := 2000
	for i := 0; i < 120; i++ {
		stock--
		err := m.ApplyStockChange(ctx, "ing-beans", stock, domain.InventoryTransaction{
			ID:             xid.New("tx"),
			IngredientID:   "ing-beans",
			QuantityChange: 1,
			Type:           domain.TxTypeRemove,
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("apply change %d failed: %v", i, err)
		}
	}

	all, err := m.ListTransactions(ctx, time.Time{}, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) <= 100 {
		t.Fatalf("zero limit must return the whole ledger, got %d entries", len(all))
	}

	capped, err := m.ListTransactions(ctx, time.Time{}, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(capped) != 10 {
		t.Fatalf("expected 10 entries with limit 10, got %d", len(capped))
	}
}

func TestSeededLedgerSumsToSnapshots(t *testing.T) {
	m := NewSeeded()
	ctx := context.Background()

	items, err := m.ListInventory(ctx)
	if err != nil {
		t.Fatalf("list inventory failed: %v", err)
	}
	if len(items) == 0 {
		t.Fatalf("seed has no inventory")
	}
	for _, item := range items {
		entries, err := m.ListTransactionsByIngredient(ctx, item.Ingredient.ID, 0)
		if err != nil {
			t.Fatalf("%s: list transactions failed: %v", item.Ingredient.ID, err)
		}
		sum := 0
		for _, entry := range entries {
			sum += entry.QuantityChange
		}
		if sum != item.Record.StockQty {
			t.Fatalf("%s: ledger sums to %d, snapshot %d", item.Ingredient.ID, sum, item.Record.StockQty)
		}
	}
}
