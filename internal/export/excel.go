package export

import (
	"time"

	"github.com/xuri/excelize/v2"

	"kedai/backend/internal/domain"
)

// Workbook renders the admin export: one sheet each for the inventory
// snapshot, the stock ledger, and orders. Money cells carry whole currency
// units with two decimals.
func Workbook(inventory []domain.InventoryItem, transactions []domain.InventoryTransaction, orders []domain.Order) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeInventorySheet(f, inventory); err != nil {
		return nil, err
	}
	if err := writeTransactionsSheet(f, transactions); err != nil {
		return nil, err
	}
	if err := writeOrdersSheet(f, orders); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex("Inventory")
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

func writeInventorySheet(f *excelize.File, items []domain.InventoryItem) error {
	const sheet = "Inventory"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Ingredient", "Unit", "Stock", "Min Level", "Status"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, item := range items {
		status := domain.StockStatus(item.Record.StockQty, item.Record.MinStockLevel)
		row := []any{
			item.Ingredient.Name,
			item.Ingredient.Unit,
			item.Record.StockQty,
			item.Record.MinStockLevel,
			statusLabel(status),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeTransactionsSheet(f *excelize.File, transactions []domain.InventoryTransaction) error {
	const sheet = "Stock Transactions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Date", "Ingredient ID", "Type", "Quantity Change"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, tx := range transactions {
		row := []any{
			tx.CreatedAt.UTC().Format(time.RFC3339),
			tx.IngredientID,
			tx.Type,
			tx.QuantityChange,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeOrdersSheet(f *excelize.File, orders []domain.Order) error {
	const sheet = "Orders"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Order Number", "Date", "Customer", "Payment", "Status", "Total"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, order := range orders {
		row := []any{
			order.OrderNumber,
			order.CreatedAt.UTC().Format(time.RFC3339),
			order.CustomerName,
			order.PaymentMethod,
			statusLabel(order.Status),
			float64(order.TotalCents) / 100,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

// statusLabel turns a machine status into the label shown in the sheet.
func statusLabel(status string) string {
	switch status {
	case domain.StockOut:
		return "Out of stock"
	case domain.StockLow:
		return "Low stock"
	case domain.StockIn:
		return "In stock"
	case domain.OrderStatusPending:
		return "Pending"
	case domain.OrderStatusCompleted:
		return "Completed"
	case domain.OrderStatusCancelled:
		return "Cancelled"
	default:
		return status
	}
}
