package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"kedai/backend/internal/domain"
)

func TestCancelRestoreRoundTripOnPostgres(t *testing.T) {
	databaseURL := os.Getenv("KEDAI_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set KEDAI_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	productID := fmt.Sprintf("prod-it-%d", stamp)
	orderID := fmt.Sprintf("ord-it-%d", stamp)
	orderNumber := fmt.Sprintf("ORD-IT-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	})

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price_cents, category_id, image_url, available, created_at)
		VALUES ($1, 'Integration Espresso', '', 300, '', '', true, now())
	`, productID); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	now := time.Now().UTC()
	created, err := s.CreateOrder(ctx, domain.Order{
		ID:            orderID,
		OrderNumber:   orderNumber,
		TotalCents:    600,
		PaymentMethod: domain.PaymentCash,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		Items: []domain.OrderItem{{
			ID:             fmt.Sprintf("oi-it-%d", stamp),
			OrderID:        orderID,
			ProductID:      productID,
			Qty:            2,
			UnitPriceCents: 300,
			TotalCents:     600,
			CreatedAt:      now,
		}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	originalItemID := created.Items[0].ID

	if _, err := s.CancelOrder(ctx, orderID, time.Now().UTC()); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	var tombstones int
	if err := s.db.QueryRowContext(ctx, `
		SELECT count(*) FROM order_items WHERE order_id = $1 AND deleted_at IS NOT NULL
	`, orderID).Scan(&tombstones); err != nil {
		t.Fatalf("count tombstones: %v", err)
	}
	if tombstones != 1 {
		t.Fatalf("expected 1 tombstoned item, got %d", tombstones)
	}

	fetched, err := s.GetOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if fetched.Status != domain.OrderStatusCancelled || len(fetched.Items) != 0 {
		t.Fatalf("unexpected cancelled order: %+v", fetched)
	}

	restored, err := s.RestoreOrder(ctx, orderID, domain.OrderStatusPending, time.Now().UTC())
	if err != nil {
		t.Fatalf("restore order: %v", err)
	}
	if restored.Status != domain.OrderStatusPending || len(restored.Items) != 1 {
		t.Fatalf("unexpected restored order: %+v", restored)
	}
	item := restored.Items[0]
	if item.ID == originalItemID {
		t.Fatalf("restore reused the tombstoned row id")
	}
	if item.ProductID != productID || item.Qty != 2 || item.UnitPriceCents != 300 {
		t.Fatalf("restore changed the line: %+v", item)
	}
}
