package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"kedai/backend/internal/domain"
	"kedai/backend/internal/store"
	"kedai/backend/internal/xid"
)

const recordDateLayout = "2006-01-02"

// --- Expense categories ---

func (s *Service) CreateExpenseCategory(ctx context.Context, req domain.ExpenseCategoryCreateRequest) (domain.ExpenseCategory, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.ExpenseCategory{}, err
	}

	req.NameEN = strings.TrimSpace(req.NameEN)
	req.NameAR = strings.TrimSpace(req.NameAR)
	if req.NameEN == "" || req.DisplayOrder < 0 {
		return domain.ExpenseCategory{}, store.ErrInvalidInput
	}

	category := domain.ExpenseCategory{
		ID:           xid.New("exc"),
		NameEN:       req.NameEN,
		NameAR:       req.NameAR,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.repo.CreateExpenseCategory(ctx, category)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}
	return *created, nil
}

func (s *Service) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	return s.repo.ListExpenseCategories(ctx)
}

// DeleteExpenseCategory leaves records pointing at the deleted category in
// place; they fall into the uncategorized bucket on the next aggregation.
func (s *Service) DeleteExpenseCategory(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteExpenseCategory(ctx, id)
}

// --- Financial records ---

func (s *Service) CreateFinancialRecord(ctx context.Context, req domain.FinancialRecordCreateRequest) (domain.FinancialRecord, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.FinancialRecord{}, err
	}

	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if req.Type != domain.RecordTypeExpense && req.Type != domain.RecordTypeIncome {
		return domain.FinancialRecord{}, store.ErrInvalidInput
	}
	if req.AmountCents < 0 {
		return domain.FinancialRecord{}, store.ErrInvalidInput
	}

	recordDate, err := time.ParseInLocation(recordDateLayout, req.RecordDate, time.UTC)
	if err != nil {
		return domain.FinancialRecord{}, fmt.Errorf("bad record_date %q: %w", req.RecordDate, store.ErrInvalidInput)
	}

	now := time.Now().UTC()
	record := domain.FinancialRecord{
		ID:          xid.New("fin"),
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		AmountCents: req.AmountCents,
		Description: strings.TrimSpace(req.Description),
		RecordDate:  recordDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.repo.CreateFinancialRecord(ctx, record)
	if err != nil {
		return domain.FinancialRecord{}, err
	}

	s.logAudit(ctx, "financial_record_create", "record", created.ID, fmt.Sprintf("type=%s,amount=%d", created.Type, created.AmountCents))
	return *created, nil
}

func (s *Service) ListFinancialRecords(ctx context.Context, filter domain.DateFilter) ([]domain.FinancialRecord, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	from, to, err := resolveDateFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.ListFinancialRecords(ctx, from, to)
}

func (s *Service) UpdateFinancialRecord(ctx context.Context, id string, req domain.FinancialRecordUpdateRequest) (domain.FinancialRecord, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.FinancialRecord{}, err
	}

	existing, err := s.repo.GetFinancialRecord(ctx, id)
	if err != nil {
		return domain.FinancialRecord{}, err
	}

	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.AmountCents != nil {
		if *req.AmountCents < 0 {
			return domain.FinancialRecord{}, store.ErrInvalidInput
		}
		existing.AmountCents = *req.AmountCents
	}
	if req.Description != nil {
		existing.Description = strings.TrimSpace(*req.Description)
	}
	if req.RecordDate != nil {
		recordDate, err := time.ParseInLocation(recordDateLayout, *req.RecordDate, time.UTC)
		if err != nil {
			return domain.FinancialRecord{}, fmt.Errorf("bad record_date %q: %w", *req.RecordDate, store.ErrInvalidInput)
		}
		existing.RecordDate = recordDate
	}
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.UpdateFinancialRecord(ctx, *existing)
	if err != nil {
		return domain.FinancialRecord{}, err
	}
	return *updated, nil
}

func (s *Service) DeleteFinancialRecord(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.repo.DeleteFinancialRecord(ctx, id)
}

// --- Aggregation ---

// GetFinancialStats aggregates manual records and completed-order revenue
// over the filter window. Profits are order revenue plus manual income; net
// profit is profits minus expenses. Category totals cover expenses only,
// with records lacking a live category folded into a localized
// "Uncategorized" bucket.
func (s *Service) GetFinancialStats(ctx context.Context, filter domain.DateFilter, lang string) (domain.FinancialStats, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.FinancialStats{}, err
	}

	from, to, err := resolveDateFilter(filter)
	if err != nil {
		return domain.FinancialStats{}, err
	}

	records, err := s.repo.ListFinancialRecords(ctx, from, to)
	if err != nil {
		return domain.FinancialStats{}, err
	}
	revenueByDay, err := s.repo.OrderRevenueByDay(ctx, from, to)
	if err != nil {
		return domain.FinancialStats{}, err
	}
	categories, err := s.repo.ListExpenseCategories(ctx)
	if err != nil {
		return domain.FinancialStats{}, err
	}

	labels := make(map[string]string, len(categories))
	for _, c := range categories {
		label := c.NameEN
		if lang == "ar" && c.NameAR != "" {
			label = c.NameAR
		}
		labels[c.ID] = label
	}

	stats := domain.FinancialStats{}
	byCategory := map[string]int64{}
	expenseByDay := map[string]int64{}
	incomeByDay := map[string]int64{}

	for _, record := range records {
		day := record.RecordDate.UTC().Format(recordDateLayout)
		switch record.Type {
		case domain.RecordTypeExpense:
			stats.TotalExpensesCents += record.AmountCents
			expenseByDay[day] += record.AmountCents
			key := record.CategoryID
			if _, ok := labels[key]; !ok {
				key = ""
			}
			byCategory[key] += record.AmountCents
		case domain.RecordTypeIncome:
			stats.TotalIncomeCents += record.AmountCents
			incomeByDay[day] += record.AmountCents
		}
	}

	orderRevenue := int64(0)
	for _, cents := range revenueByDay {
		orderRevenue += cents
	}
	stats.TotalProfitsCents = orderRevenue + stats.TotalIncomeCents
	stats.NetProfitCents = stats.TotalProfitsCents - stats.TotalExpensesCents

	stats.ByCategory = make([]domain.CategoryExpense, 0, len(byCategory))
	for categoryID, total := range byCategory {
		label := labels[categoryID]
		if categoryID == "" {
			label = domain.UncategorizedLabel(lang)
		}
		stats.ByCategory = append(stats.ByCategory, domain.CategoryExpense{
			CategoryID: categoryID,
			Label:      label,
			TotalCents: total,
		})
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		if stats.ByCategory[i].TotalCents == stats.ByCategory[j].TotalCents {
			return stats.ByCategory[i].Label < stats.ByCategory[j].Label
		}
		return stats.ByCategory[i].TotalCents > stats.ByCategory[j].TotalCents
	})

	profitByDay := map[string]int64{}
	for day, cents := range revenueByDay {
		profitByDay[day] += cents
	}
	for day, cents := range incomeByDay {
		profitByDay[day] += cents
	}

	stats.Daily = buildSeries(expenseByDay, profitByDay, func(day string) string { return day })
	stats.Monthly = buildSeries(expenseByDay, profitByDay, func(day string) string {
		if len(day) >= 7 {
			return day[:7]
		}
		return day
	})
	stats.Yearly = buildSeries(expenseByDay, profitByDay, func(day string) string {
		if len(day) >= 4 {
			return day[:4]
		}
		return day
	})

	return stats, nil
}

// buildSeries merges the expense and profit day maps into one sorted series,
// rolled up by the period key derived from each day.
func buildSeries(expenseByDay map[string]int64, profitByDay map[string]int64, period func(string) string) []domain.SeriesPoint {
	merged := map[string]*domain.SeriesPoint{}
	for day, cents := range expenseByDay {
		key := period(day)
		point, ok := merged[key]
		if !ok {
			point = &domain.SeriesPoint{Period: key}
			merged[key] = point
		}
		point.ExpenseCents += cents
	}
	for day, cents := range profitByDay {
		key := period(day)
		point, ok := merged[key]
		if !ok {
			point = &domain.SeriesPoint{Period: key}
			merged[key] = point
		}
		point.ProfitCents += cents
	}

	out := make([]domain.SeriesPoint, 0, len(merged))
	for _, point := range merged {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// resolveDateFilter converts the filter to inclusive UTC bounds. A zero
// filter means all time. Month and Year are mutually exclusive shortcuts;
// From/To is an explicit range whose To extends to the end of that day.
func resolveDateFilter(filter domain.DateFilter) (*time.Time, *time.Time, error) {
	if filter.Month != "" && filter.Year != "" {
		return nil, nil, fmt.Errorf("month and year are mutually exclusive: %w", store.ErrInvalidInput)
	}

	if filter.Month != "" {
		start, err := time.ParseInLocation("2006-01", filter.Month, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("bad month %q: %w", filter.Month, store.ErrInvalidInput)
		}
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return &start, &end, nil
	}

	if filter.Year != "" {
		start, err := time.ParseInLocation("2006", filter.Year, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("bad year %q: %w", filter.Year, store.ErrInvalidInput)
		}
		end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
		return &start, &end, nil
	}

	var from, to *time.Time
	if filter.From != "" {
		start, err := time.ParseInLocation(recordDateLayout, filter.From, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("bad from %q: %w", filter.From, store.ErrInvalidInput)
		}
		from = &start
	}
	if filter.To != "" {
		day, err := time.ParseInLocation(recordDateLayout, filter.To, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("bad to %q: %w", filter.To, store.ErrInvalidInput)
		}
		end := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("to precedes from: %w", store.ErrInvalidInput)
	}
	return from, to, nil
}
