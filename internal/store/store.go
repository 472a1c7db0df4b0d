package store

import (
	"context"
	"errors"
	"time"

	"kedai/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository is the persistence boundary. Multi-step writes (order + items,
// stock snapshot + ledger entry, ingredient removal) are atomic inside a
// single Repository call; callers never sequence partial writes themselves.
type Repository interface {
	// Catalog.
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]domain.ProductSummary, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountProductsInCategory(ctx context.Context, categoryID string) (int, error)

	// Inventory ledger.
	CreateIngredient(ctx context.Context, ingredient domain.Ingredient, record domain.InventoryRecord, initial *domain.InventoryTransaction) (*domain.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error)
	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
	GetInventoryRecord(ctx context.Context, ingredientID string) (*domain.InventoryRecord, error)
	ApplyStockChange(ctx context.Context, ingredientID string, newQty int, entry domain.InventoryTransaction) error
	UpdateMinStockLevel(ctx context.Context, ingredientID string, level int) error
	RemoveIngredient(ctx context.Context, ingredientID string) error
	// A limit below 1 means no limit: callers computing aggregates over a
	// time window rely on getting the whole window back.
	ListTransactions(ctx context.Context, since time.Time, limit int) ([]domain.InventoryTransaction, error)
	ListTransactionsByIngredient(ctx context.Context, ingredientID string, limit int) ([]domain.InventoryTransaction, error)

	// Orders.
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error)
	SetOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string, at time.Time) (*domain.Order, error)
	RestoreOrder(ctx context.Context, id string, status string, at time.Time) (*domain.Order, error)

	// Customers.
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	AdjustLoyaltyPoints(ctx context.Context, customerID string, delta int) (*domain.Customer, error)
	GetCustomerOrderStats(ctx context.Context, customerID string) (totalOrders int, totalSpentCents int64, err error)

	// Financial records.
	CreateExpenseCategory(ctx context.Context, category domain.ExpenseCategory) (*domain.ExpenseCategory, error)
	ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error)
	DeleteExpenseCategory(ctx context.Context, id string) error
	CreateFinancialRecord(ctx context.Context, record domain.FinancialRecord) (*domain.FinancialRecord, error)
	GetFinancialRecord(ctx context.Context, id string) (*domain.FinancialRecord, error)
	ListFinancialRecords(ctx context.Context, from *time.Time, to *time.Time) ([]domain.FinancialRecord, error)
	UpdateFinancialRecord(ctx context.Context, record domain.FinancialRecord) (*domain.FinancialRecord, error)
	DeleteFinancialRecord(ctx context.Context, id string) error
	OrderRevenueByDay(ctx context.Context, from *time.Time, to *time.Time) (map[string]int64, error)

	// Settings.
	GetSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error)

	// Auth accounts.
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
