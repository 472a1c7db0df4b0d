package domain

import "testing"

func TestStockStatusBoundaries(t *testing.T) {
	cases := []struct {
		stock int
		min   int
		want  string
	}{
		{0, 5, StockOut},
		{-1, 5, StockOut},
		{1, 5, StockLow},
		{5, 5, StockLow}, // boundary counts as low
		{6, 5, StockIn},
		{0, 0, StockOut},
		{1, 0, StockIn},
	}
	for _, tc := range cases {
		if got := StockStatus(tc.stock, tc.min); got != tc.want {
			t.Errorf("StockStatus(%d, %d) = %q, want %q", tc.stock, tc.min, got, tc.want)
		}
	}
}

func TestUncategorizedLabelLocalization(t *testing.T) {
	if UncategorizedLabel("ar") != "غير مصنف" {
		t.Fatalf("unexpected Arabic label %q", UncategorizedLabel("ar"))
	}
	if UncategorizedLabel("en") != "Uncategorized" {
		t.Fatalf("unexpected English label %q", UncategorizedLabel("en"))
	}
	if UncategorizedLabel("") != "Uncategorized" {
		t.Fatalf("empty lang should fall back to English")
	}
}

func TestSettingsValidate(t *testing.T) {
	valid := DefaultSettings()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default settings should validate: %v", err)
	}

	for name, mutate := range map[string]func(*Settings){
		"tax below zero":     func(s *Settings) { s.TaxRatePercent = -1 },
		"tax above 100":      func(s *Settings) { s.TaxRatePercent = 101 },
		"negative exchange":  func(s *Settings) { s.ExchangeRate = -1 },
		"negative loyalty":   func(s *Settings) { s.LoyaltyRate = -0.5 },
		"negative threshold": func(s *Settings) { s.LowStockThreshold = -1 },
		"empty currency":     func(s *Settings) { s.Currency = "" },
	} {
		s := DefaultSettings()
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range []string{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled} {
		if !ValidOrderStatus(status) {
			t.Errorf("%s should be valid", status)
		}
	}
	for _, status := range []string{"", "refunded", "PENDING"} {
		if ValidOrderStatus(status) {
			t.Errorf("%q should be invalid", status)
		}
	}
}
