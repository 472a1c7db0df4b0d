package export

import (
	"testing"
	"time"

	"kedai/backend/internal/domain"
)

func sampleData() ([]domain.InventoryItem, []domain.InventoryTransaction, []domain.Order) {
	now := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

	inventory := []domain.InventoryItem{
		{
			Ingredient: domain.Ingredient{ID: "ing-beans", Name: "Coffee Beans", Unit: "g"},
			Record:     domain.InventoryRecord{IngredientID: "ing-beans", StockQty: 2000, MinStockLevel: 500},
		},
		{
			Ingredient: domain.Ingredient{ID: "ing-milk", Name: "Milk", Unit: "l"},
			Record:     domain.InventoryRecord{IngredientID: "ing-milk", StockQty: 4, MinStockLevel: 10},
		},
	}
	transactions := []domain.InventoryTransaction{
		{ID: "tx-1", IngredientID: "ing-beans", QuantityChange: -120, Type: domain.TxTypeRemove, CreatedAt: now},
	}
	orders := []domain.Order{
		{
			ID:            "ord-1",
			OrderNumber:   "ORD-1770712200000",
			CustomerName:  "Walk-in",
			PaymentMethod: domain.PaymentCash,
			Status:        domain.OrderStatusCompleted,
			TotalCents:    1250,
			CreatedAt:     now,
		},
	}
	return inventory, transactions, orders
}

func TestWorkbookSheets(t *testing.T) {
	inventory, transactions, orders := sampleData()

	f, err := Workbook(inventory, transactions, orders)
	if err != nil {
		t.Fatalf("workbook failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	want := map[string]bool{"Inventory": false, "Stock Transactions": false, "Orders": false}
	for _, sheet := range sheets {
		if sheet == "Sheet1" {
			t.Fatalf("default sheet was not removed: %v", sheets)
		}
		if _, ok := want[sheet]; ok {
			want[sheet] = true
		}
	}
	for sheet, seen := range want {
		if !seen {
			t.Fatalf("missing sheet %q in %v", sheet, sheets)
		}
	}
}

func TestWorkbookCellContents(t *testing.T) {
	inventory, transactions, orders := sampleData()

	f, err := Workbook(inventory, transactions, orders)
	if err != nil {
		t.Fatalf("workbook failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	cases := []struct {
		sheet string
		cell  string
		want  string
	}{
		{"Inventory", "A1", "Ingredient"},
		{"Inventory", "A2", "Coffee Beans"},
		{"Inventory", "E2", "In stock"},
		{"Inventory", "E3", "Low stock"},
		{"Stock Transactions", "C2", "REMOVE"},
		{"Stock Transactions", "D2", "-120"},
		{"Orders", "A2", "ORD-1770712200000"},
		{"Orders", "E2", "Completed"},
		{"Orders", "F2", "12.5"},
	}
	for _, tc := range cases {
		got, err := f.GetCellValue(tc.sheet, tc.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", tc.sheet, tc.cell, err)
		}
		if got != tc.want {
			t.Errorf("%s!%s = %q, want %q", tc.sheet, tc.cell, got, tc.want)
		}
	}
}
