package service

import (
	"errors"
	"testing"

	"kedai/backend/internal/domain"
	"kedai/backend/internal/store"
)

func mustCreateRecord(t *testing.T, svc *Service, recordType string, categoryID string, amountCents int64, date string) domain.FinancialRecord {
	t.Helper()
	record, err := svc.CreateFinancialRecord(adminCtx(), domain.FinancialRecordCreateRequest{
		Type:        recordType,
		CategoryID:  categoryID,
		AmountCents: amountCents,
		RecordDate:  date,
	})
	if err != nil {
		t.Fatalf("create %s record failed: %v", recordType, err)
	}
	return record
}

func TestMonthFilterBoundsAreInclusive(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 100, "2026-01-31")
	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 200, "2026-02-01")
	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 300, "2026-02-28")
	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 400, "2026-03-01")

	records, err := svc.ListFinancialRecords(ctx, domain.DateFilter{Month: "2026-02"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records in Feb, got %d", len(records))
	}
	total := int64(0)
	for _, r := range records {
		total += r.AmountCents
	}
	if total != 500 {
		t.Fatalf("expected Feb total 500, got %d", total)
	}
}

func TestDateFilterMonthAndYearAreExclusive(t *testing.T) {
	svc := newTestService()

	_, err := svc.ListFinancialRecords(adminCtx(), domain.DateFilter{Month: "2026-02", Year: "2026"})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDateFilterRejectsGarbage(t *testing.T) {
	svc := newTestService()

	for _, filter := range []domain.DateFilter{
		{Month: "Feb-2026"},
		{Year: "26"},
		{From: "2026/01/01"},
		{From: "2026-02-01", To: "2026-01-01"},
	} {
		if _, err := svc.ListFinancialRecords(adminCtx(), filter); !errors.Is(err, store.ErrInvalidInput) {
			t.Fatalf("filter %+v: expected invalid input, got %v", filter, err)
		}
	}
}

func TestFinancialStatsNetProfitIdentity(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 3000, "2026-02-10")
	mustCreateRecord(t, svc, domain.RecordTypeIncome, "", 2000, "2026-02-11")

	// A completed order contributes its revenue to profits.
	order, err := svc.CreateOrder(ctx, domain.OrderCreateRequest{
		PaymentMethod: domain.PaymentCash,
		Items: []domain.OrderLine{
			{ProductID: "prod-espresso", Qty: 2},
			{ProductID: "prod-latte", Qty: 2},
			{ProductID: "prod-croissant", Qty: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusCompleted); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	stats, err := svc.GetFinancialStats(ctx, domain.DateFilter{}, "en")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalExpensesCents != 3000 {
		t.Fatalf("expected expenses 3000, got %d", stats.TotalExpensesCents)
	}
	if stats.TotalIncomeCents != 2000 {
		t.Fatalf("expected income 2000, got %d", stats.TotalIncomeCents)
	}
	if stats.TotalProfitsCents != 2200+2000 {
		t.Fatalf("expected profits 4200, got %d", stats.TotalProfitsCents)
	}
	if stats.NetProfitCents != stats.TotalProfitsCents-stats.TotalExpensesCents {
		t.Fatalf("net profit identity broken: %+v", stats)
	}
	if stats.NetProfitCents != 1200 {
		t.Fatalf("expected net 1200, got %d", stats.NetProfitCents)
	}
}

func TestFinancialStatsUncategorizedBucket(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	category, err := svc.CreateExpenseCategory(ctx, domain.ExpenseCategoryCreateRequest{
		NameEN: "Rent",
		NameAR: "إيجار",
	})
	if err != nil {
		t.Fatalf("create expense category failed: %v", err)
	}

	mustCreateRecord(t, svc, domain.RecordTypeExpense, category.ID, 5000, "2026-02-01")
	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 700, "2026-02-02")
	// Dangling category id falls into the uncategorized bucket too.
	mustCreateRecord(t, svc, domain.RecordTypeExpense, "exc-gone", 300, "2026-02-03")

	stats, err := svc.GetFinancialStats(ctx, domain.DateFilter{}, "en")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if len(stats.ByCategory) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(stats.ByCategory), stats.ByCategory)
	}
	if stats.ByCategory[0].Label != "Rent" || stats.ByCategory[0].TotalCents != 5000 {
		t.Fatalf("expected Rent bucket first, got %+v", stats.ByCategory[0])
	}
	if stats.ByCategory[1].Label != "Uncategorized" || stats.ByCategory[1].TotalCents != 1000 {
		t.Fatalf("expected Uncategorized 1000, got %+v", stats.ByCategory[1])
	}

	arStats, err := svc.GetFinancialStats(ctx, domain.DateFilter{}, "ar")
	if err != nil {
		t.Fatalf("ar stats failed: %v", err)
	}
	if arStats.ByCategory[0].Label != "إيجار" {
		t.Fatalf("expected Arabic category label, got %q", arStats.ByCategory[0].Label)
	}
	if arStats.ByCategory[1].Label != domain.UncategorizedLabel("ar") {
		t.Fatalf("expected Arabic uncategorized label, got %q", arStats.ByCategory[1].Label)
	}
}

func TestFinancialStatsSeriesRollup(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 100, "2026-01-15")
	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 200, "2026-01-20")
	mustCreateRecord(t, svc, domain.RecordTypeIncome, "", 900, "2026-02-05")
	mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 400, "2025-12-31")

	stats, err := svc.GetFinancialStats(ctx, domain.DateFilter{}, "en")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if len(stats.Daily) != 4 {
		t.Fatalf("expected 4 daily points, got %d", len(stats.Daily))
	}
	if stats.Daily[0].Period != "2025-12-31" {
		t.Fatalf("daily series not sorted: %+v", stats.Daily)
	}

	if len(stats.Monthly) != 3 {
		t.Fatalf("expected 3 monthly points, got %d: %+v", len(stats.Monthly), stats.Monthly)
	}
	var jan domain.SeriesPoint
	for _, p := range stats.Monthly {
		if p.Period == "2026-01" {
			jan = p
		}
	}
	if jan.ExpenseCents != 300 {
		t.Fatalf("expected Jan expenses rolled up to 300, got %+v", jan)
	}

	if len(stats.Yearly) != 2 {
		t.Fatalf("expected 2 yearly points, got %d", len(stats.Yearly))
	}
	var y2026 domain.SeriesPoint
	for _, p := range stats.Yearly {
		if p.Period == "2026" {
			y2026 = p
		}
	}
	if y2026.ExpenseCents != 300 || y2026.ProfitCents != 900 {
		t.Fatalf("unexpected 2026 rollup: %+v", y2026)
	}
}

func TestFinancialRecordUpdateKeepsType(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	record := mustCreateRecord(t, svc, domain.RecordTypeExpense, "", 1000, "2026-02-01")

	amount := int64(1500)
	updated, err := svc.UpdateFinancialRecord(ctx, record.ID, domain.FinancialRecordUpdateRequest{AmountCents: &amount})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.AmountCents != 1500 || updated.Type != domain.RecordTypeExpense {
		t.Fatalf("unexpected record after update: %+v", updated)
	}
}

func TestFinancialEndpointsRequireAdmin(t *testing.T) {
	svc := newTestService()

	if _, err := svc.GetFinancialStats(staffCtx(), domain.DateFilter{}, "en"); !errors.Is(err, ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if _, err := svc.CreateFinancialRecord(staffCtx(), domain.FinancialRecordCreateRequest{
		Type:        domain.RecordTypeExpense,
		AmountCents: 100,
		RecordDate:  "2026-02-01",
	}); !errors.Is(err, ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}
