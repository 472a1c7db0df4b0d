package domain

import "time"

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type CategoryCreateRequest struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

type CategoryUpdateRequest struct {
	Name         *string `json:"name,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

// Product is the full projection. Listings use ProductSummary so the menu
// payload stays small; Description and ImageURL are fetched per product.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	CategoryID  string    `json:"category_id"`
	ImageURL    string    `json:"image_url"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	CategoryID string `json:"category_id"`
	Available  bool   `json:"available"`
}

type ProductCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	CategoryID  string `json:"category_id"`
	ImageURL    string `json:"image_url"`
}

type ProductUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

type Ingredient struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// InventoryRecord is the current-state snapshot, one row per ingredient.
type InventoryRecord struct {
	IngredientID  string `json:"ingredient_id"`
	StockQty      int    `json:"stock_quantity"`
	MinStockLevel int    `json:"min_stock_level"`
}

type InventoryItem struct {
	Ingredient Ingredient      `json:"ingredient"`
	Record     InventoryRecord `json:"record"`
	Status     string          `json:"status"`
}

// InventoryTransaction is one entry of the append-only stock ledger. Entries
// are never mutated; they are deleted only when their ingredient is removed.
type InventoryTransaction struct {
	ID             string    `json:"id"`
	IngredientID   string    `json:"ingredient_id"`
	QuantityChange int       `json:"quantity_change"`
	Type           string    `json:"transaction_type"`
	CreatedAt      time.Time `json:"created_at"`
}

type IngredientCreateRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Unit          string `json:"unit"`
	CategoryID    string `json:"category_id"`
	InitialStock  int    `json:"initial_stock"`
	MinStockLevel int    `json:"min_stock_level"`
}

type StockUpdateRequest struct {
	NewQuantity int    `json:"new_quantity"`
	Type        string `json:"transaction_type"`
}

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"order_number"`
	CustomerName  string      `json:"customer_name"`
	CustomerID    string      `json:"customer_id,omitempty"`
	TotalCents    int64       `json:"total_cents"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items"`
}

type OrderItem struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	ProductID      string     `json:"product_id"`
	ProductName    string     `json:"product_name,omitempty"`
	Qty            int        `json:"qty"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	TotalCents     int64      `json:"total_cents"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type OrderCreateRequest struct {
	CustomerName  string      `json:"customer_name"`
	CustomerID    string      `json:"customer_id,omitempty"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderLine `json:"items"`
}

type OrderStatusRequest struct {
	Status     string `json:"status"`
	ManagerPIN string `json:"manager_pin,omitempty"`
}

type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	LoyaltyPoints int       `json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// CustomerStats carries the aggregate fields derived from orders keyed by
// customer id. They are computed per read, never stored.
type CustomerStats struct {
	Customer        Customer `json:"customer"`
	TotalOrders     int      `json:"total_orders"`
	TotalSpentCents int64    `json:"total_spent_cents"`
}

type CustomerCreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CustomerUpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	LoyaltyPoints *int    `json:"loyalty_points,omitempty"`
}

type ExpenseCategory struct {
	ID           string    `json:"id"`
	NameEN       string    `json:"name_en"`
	NameAR       string    `json:"name_ar"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type ExpenseCategoryCreateRequest struct {
	NameEN       string `json:"name_en"`
	NameAR       string `json:"name_ar"`
	DisplayOrder int    `json:"display_order"`
}

type FinancialRecord struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	CategoryID  string    `json:"category_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	RecordDate  time.Time `json:"record_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type FinancialRecordCreateRequest struct {
	Type        string `json:"type"`
	CategoryID  string `json:"category_id,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	RecordDate  string `json:"record_date"`
}

type FinancialRecordUpdateRequest struct {
	CategoryID  *string `json:"category_id,omitempty"`
	AmountCents *int64  `json:"amount_cents,omitempty"`
	Description *string `json:"description,omitempty"`
	RecordDate  *string `json:"record_date,omitempty"`
}

// DateFilter selects the aggregation window: zero value means all time,
// Month ("2006-01") and Year ("2006") are mutually exclusive shortcuts,
// From/To is an explicit inclusive range.
type DateFilter struct {
	Month string `json:"month,omitempty"`
	Year  string `json:"year,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

type CategoryExpense struct {
	CategoryID string `json:"category_id,omitempty"`
	Label      string `json:"label"`
	TotalCents int64  `json:"total_cents"`
}

type SeriesPoint struct {
	Period       string `json:"period"`
	ExpenseCents int64  `json:"expense_cents"`
	ProfitCents  int64  `json:"profit_cents"`
}

type FinancialStats struct {
	TotalExpensesCents int64             `json:"total_expenses_cents"`
	TotalIncomeCents   int64             `json:"total_income_cents"`
	TotalProfitsCents  int64             `json:"total_profits_cents"`
	NetProfitCents     int64             `json:"net_profit_cents"`
	ByCategory         []CategoryExpense `json:"by_category"`
	Daily              []SeriesPoint     `json:"daily"`
	Monthly            []SeriesPoint     `json:"monthly"`
	Yearly             []SeriesPoint     `json:"yearly"`
}

// Settings is a single versioned configuration record. Defaults live in
// DefaultSettings and nowhere else.
type Settings struct {
	TaxRatePercent    float64 `json:"tax_rate_percent"`
	Currency          string  `json:"currency"`
	SecondaryCurrency string  `json:"secondary_currency"`
	ExchangeRate      float64 `json:"exchange_rate"`
	StoreName         string  `json:"store_name"`
	StoreAddress      string  `json:"store_address"`
	StorePhone        string  `json:"store_phone"`
	LoyaltyRate       float64 `json:"loyalty_rate"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Version           int     `json:"version"`
}

func DefaultSettings() Settings {
	return Settings{
		TaxRatePercent:    11,
		Currency:          "USD",
		SecondaryCurrency: "LBP",
		ExchangeRate:      89500,
		StoreName:         "Kedai",
		StoreAddress:      "",
		StorePhone:        "",
		LoyaltyRate:       1,
		LowStockThreshold: 5,
		Version:           1,
	}
}

type SettingsUpdateRequest struct {
	TaxRatePercent    *float64 `json:"tax_rate_percent,omitempty"`
	Currency          *string  `json:"currency,omitempty"`
	SecondaryCurrency *string  `json:"secondary_currency,omitempty"`
	ExchangeRate      *float64 `json:"exchange_rate,omitempty"`
	StoreName         *string  `json:"store_name,omitempty"`
	StoreAddress      *string  `json:"store_address,omitempty"`
	StorePhone        *string  `json:"store_phone,omitempty"`
	LoyaltyRate       *float64 `json:"loyalty_rate,omitempty"`
	LowStockThreshold *int     `json:"low_stock_threshold,omitempty"`
}

type DailyUsagePoint struct {
	Date         string `json:"date"`
	RemovedUnits int    `json:"removed_units"`
}

type DailyUsageReport struct {
	Days        int               `json:"days"`
	GeneratedAt string            `json:"generated_at"`
	Points      []DailyUsagePoint `json:"points"`
}

type LowStockAlert struct {
	IngredientID  string `json:"ingredient_id"`
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	StockQty      int    `json:"stock_quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	Status        string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StaffUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

const (
	TxTypeAdd    = "ADD"
	TxTypeRemove = "REMOVE"
	TxTypeAdjust = "ADJUST"
)

const (
	StockOut = "out_of_stock"
	StockLow = "low_stock"
	StockIn  = "in_stock"
)

const (
	RecordTypeExpense = "expense"
	RecordTypeIncome  = "income"
)

// UncategorizedLabel returns the synthetic bucket label for records with no
// expense category, localized for the active language ("ar" or anything else).
func UncategorizedLabel(lang string) string {
	if lang == "ar" {
		return "غير مصنف"
	}
	return "Uncategorized"
}

// StockStatus classifies a snapshot quantity against its minimum level.
// The boundary stock == min counts as low stock.
func StockStatus(stockQty int, minStockLevel int) string {
	switch {
	case stockQty <= 0:
		return StockOut
	case stockQty <= minStockLevel:
		return StockLow
	default:
		return StockIn
	}
}

// ValidOrderStatus reports whether s names one of the three order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard
}

func ValidTransactionType(t string) bool {
	switch t {
	case TxTypeAdd, TxTypeRemove, TxTypeAdjust:
		return true
	default:
		return false
	}
}

// Validate checks the settings invariants: numeric fields must be
// non-negative and the tax rate is a percentage.
func (s Settings) Validate() error {
	if s.TaxRatePercent < 0 || s.TaxRatePercent > 100 {
		return ErrInvalidSettings
	}
	if s.ExchangeRate < 0 || s.LoyaltyRate < 0 || s.LowStockThreshold < 0 {
		return ErrInvalidSettings
	}
	if s.Currency == "" {
		return ErrInvalidSettings
	}
	return nil
}
