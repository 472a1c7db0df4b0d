package memory

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kedai/backend/internal/domain"
	"kedai/backend/internal/store"
	"kedai/backend/internal/xid"
)

// Store is a full in-memory Repository used for dev mode and tests. A single
// RWMutex guards every map, which makes each Repository call atomic the same
// way a database transaction does in the postgres store.
type Store struct {
	mu sync.RWMutex

	categories    map[string]domain.Category
	categoryOrder []string
	products      map[string]domain.Product
	productOrder  []string

	ingredients  map[string]domain.Ingredient
	inventory    map[string]domain.InventoryRecord
	transactions []domain.InventoryTransaction

	orders     map[string]domain.Order
	orderItems map[string][]domain.OrderItem
	orderSeq   []string

	customers map[string]domain.Customer

	expenseCategories map[string]domain.ExpenseCategory
	records           map[string]domain.FinancialRecord

	settings    *domain.Settings
	usersByName map[string]domain.UserAccount
}

func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"staff", staffPwd, "staff"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()

	categories := []domain.Category{
		{ID: "cat-coffee", Name: "Coffee", DisplayOrder: 1, CreatedAt: now},
		{ID: "cat-pastry", Name: "Pastry", DisplayOrder: 2, CreatedAt: now},
		{ID: "cat-cold", Name: "Cold Drinks", DisplayOrder: 3, CreatedAt: now},
	}
	products := []domain.Product{
		{ID: "prod-espresso", Name: "Espresso", Description: "Double shot", PriceCents: 300, CategoryID: "cat-coffee", Available: true, CreatedAt: now},
		{ID: "prod-latte", Name: "Latte", Description: "Espresso with steamed milk", PriceCents: 450, CategoryID: "cat-coffee", Available: true, CreatedAt: now},
		{ID: "prod-cappuccino", Name: "Cappuccino", PriceCents: 400, CategoryID: "cat-coffee", Available: true, CreatedAt: now},
		{ID: "prod-croissant", Name: "Butter Croissant", PriceCents: 350, CategoryID: "cat-pastry", Available: true, CreatedAt: now},
		{ID: "prod-brownie", Name: "Chocolate Brownie", PriceCents: 400, CategoryID: "cat-pastry", Available: true, CreatedAt: now},
		{ID: "prod-lemonade", Name: "Fresh Lemonade", PriceCents: 380, CategoryID: "cat-cold", Available: true, CreatedAt: now},
	}
	ingredients := []domain.Ingredient{
		{ID: "ing-beans", Name: "Arabica Beans", Description: "Medium roast", Unit: "grams", CategoryID: "cat-coffee", CreatedAt: now},
		{ID: "ing-milk", Name: "Whole Milk", Unit: "liters", CategoryID: "cat-coffee", CreatedAt: now},
		{ID: "ing-flour", Name: "Pastry Flour", Unit: "kg", CategoryID: "cat-pastry", CreatedAt: now},
	}
	inventory := map[string]domain.InventoryRecord{
		"ing-beans": {IngredientID: "ing-beans", StockQty: 2000, MinStockLevel: 500},
		"ing-milk":  {IngredientID: "ing-milk", StockQty: 40, MinStockLevel: 10},
		"ing-flour": {IngredientID: "ing-flour", StockQty: 25, MinStockLevel: 5},
	}
	// Each snapshot starts with a matching ADD so the ledger sums to it.
	transactions := []domain.InventoryTransaction{
		{ID: "tx-seed-beans", IngredientID: "ing-beans", QuantityChange: 2000, Type: domain.TxTypeAdd, CreatedAt: now},
		{ID: "tx-seed-milk", IngredientID: "ing-milk", QuantityChange: 40, Type: domain.TxTypeAdd, CreatedAt: now},
		{ID: "tx-seed-flour", IngredientID: "ing-flour", QuantityChange: 25, Type: domain.TxTypeAdd, CreatedAt: now},
	}

	s := &Store{
		categories:        map[string]domain.Category{},
		products:          map[string]domain.Product{},
		ingredients:       map[string]domain.Ingredient{},
		inventory:         inventory,
		transactions:      transactions,
		orders:            map[string]domain.Order{},
		orderItems:        map[string][]domain.OrderItem{},
		customers:         map[string]domain.Customer{},
		expenseCategories: map[string]domain.ExpenseCategory{},
		records:           map[string]domain.FinancialRecord{},
		usersByName:       seedUsers(),
	}
	for _, c := range categories {
		s.categories[c.ID] = c
		s.categoryOrder = append(s.categoryOrder, c.ID)
	}
	for _, p := range products {
		s.products[p.ID] = p
		s.productOrder = append(s.productOrder, p.ID)
	}
	for _, ing := range ingredients {
		s.ingredients[ing.ID] = ing
	}
	return s
}

// --- Catalog ---

func (m *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Category, 0, len(m.categoryOrder))
	for _, id := range m.categoryOrder {
		if c, ok := m.categories[id]; ok {
			out = append(out, c)
		}
	}
	// Display order, ties broken by insertion order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

func (m *Store) CreateCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	if category.ID == "" || category.Name == "" {
		return nil, store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.categories[category.ID]; exists {
		return nil, store.ErrConflict
	}
	m.categories[category.ID] = category
	m.categoryOrder = append(m.categoryOrder, category.ID)
	created := category
	return &created, nil
}

func (m *Store) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	category, ok := m.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &category, nil
}

func (m *Store) UpdateCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[category.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	category.CreatedAt = existing.CreatedAt
	m.categories[category.ID] = category
	updated := category
	return &updated, nil
}

func (m *Store) DeleteCategory(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *Store) ListProducts(_ context.Context) ([]domain.ProductSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ProductSummary, 0, len(m.productOrder))
	for _, id := range m.productOrder {
		p, ok := m.products[id]
		if !ok {
			continue
		}
		out = append(out, domain.ProductSummary{
			ID:         p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			CategoryID: p.CategoryID,
			Available:  p.Available,
		})
	}
	return out, nil
}

func (m *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

func (m *Store) GetProductsByIDs(_ context.Context, ids []string) (map[string]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.PriceCents < 1 {
		return nil, store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[product.ID]; exists {
		return nil, store.ErrConflict
	}
	m.products[product.ID] = product
	m.productOrder = append(m.productOrder, product.ID)
	created := product
	return &created, nil
}

func (m *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[product.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	m.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (m *Store) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *Store) CountProductsInCategory(_ context.Context, categoryID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// --- Inventory ledger ---

func (m *Store) CreateIngredient(_ context.Context, ingredient domain.Ingredient, record domain.InventoryRecord, initial *domain.InventoryTransaction) (*domain.Ingredient, error) {
	if ingredient.ID == "" || ingredient.Name == "" {
		return nil, store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ingredients[ingredient.ID]; exists {
		return nil, store.ErrConflict
	}
	m.ingredients[ingredient.ID] = ingredient
	record.IngredientID = ingredient.ID
	m.inventory[ingredient.ID] = record
	if initial != nil {
		m.transactions = append(m.transactions, *initial)
	}
	created := ingredient
	return &created, nil
}

func (m *Store) GetIngredient(_ context.Context, id string) (*domain.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ingredient, ok := m.ingredients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ingredient, nil
}

func (m *Store) ListInventory(_ context.Context) ([]domain.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.InventoryItem, 0, len(m.ingredients))
	for id, ingredient := range m.ingredients {
		out = append(out, domain.InventoryItem{
			Ingredient: ingredient,
			Record:     m.inventory[id],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ingredient.Name < out[j].Ingredient.Name
	})
	return out, nil
}

func (m *Store) GetInventoryRecord(_ context.Context, ingredientID string) (*domain.InventoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.inventory[ingredientID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &record, nil
}

func (m *Store) ApplyStockChange(_ context.Context, ingredientID string, newQty int, entry domain.InventoryTransaction) error {
	if newQty < 0 {
		return store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.inventory[ingredientID]
	if !ok {
		return store.ErrNotFound
	}
	record.StockQty = newQty
	m.inventory[ingredientID] = record
	m.transactions = append(m.transactions, entry)
	return nil
}

func (m *Store) UpdateMinStockLevel(_ context.Context, ingredientID string, level int) error {
	if level < 0 {
		return store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.inventory[ingredientID]
	if !ok {
		return store.ErrNotFound
	}
	record.MinStockLevel = level
	m.inventory[ingredientID] = record
	return nil
}

func (m *Store) RemoveIngredient(_ context.Context, ingredientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ingredients[ingredientID]; !ok {
		return store.ErrNotFound
	}
	delete(m.inventory, ingredientID)
	delete(m.ingredients, ingredientID)

	kept := m.transactions[:0]
	for _, tx := range m.transactions {
		if tx.IngredientID != ingredientID {
			kept = append(kept, tx)
		}
	}
	m.transactions = kept
	return nil
}

func (m *Store) ListTransactions(_ context.Context, since time.Time, limit int) ([]domain.InventoryTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.InventoryTransaction, 0, 64)
	for _, tx := range m.transactions {
		if !since.IsZero() && tx.CreatedAt.Before(since) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Store) ListTransactionsByIngredient(_ context.Context, ingredientID string, limit int) ([]domain.InventoryTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.InventoryTransaction, 0, 32)
	for _, tx := range m.transactions {
		if tx.IngredientID == ingredientID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- Orders ---

func (m *Store) CreateOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	if order.ID == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.orders {
		if existing.OrderNumber == order.OrderNumber {
			return nil, store.ErrConflict
		}
	}

	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	stored := order
	stored.Items = nil
	m.orders[order.ID] = stored
	m.orderItems[order.ID] = items
	m.orderSeq = append(m.orderSeq, order.ID)

	created := order
	return &created, nil
}

func (m *Store) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	order.Items = m.liveItemsLocked(id)
	return &order, nil
}

func (m *Store) ListOrders(_ context.Context, status string, limit int) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Order, 0, len(m.orderSeq))
	for i := len(m.orderSeq) - 1; i >= 0; i-- {
		order, ok := m.orders[m.orderSeq[i]]
		if !ok {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		order.Items = m.liveItemsLocked(order.ID)
		out = append(out, order)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *Store) SetOrderStatus(_ context.Context, id string, status string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	order.Status = status
	m.orders[id] = order
	order.Items = m.liveItemsLocked(id)
	return &order, nil
}

func (m *Store) CancelOrder(_ context.Context, id string, at time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	items := m.orderItems[id]
	for i := range items {
		if items[i].DeletedAt == nil {
			deletedAt := at
			items[i].DeletedAt = &deletedAt
		}
	}
	m.orderItems[id] = items

	order.Status = domain.OrderStatusCancelled
	m.orders[id] = order
	order.Items = nil
	return &order, nil
}

func (m *Store) RestoreOrder(_ context.Context, id string, status string, at time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	restored := make([]domain.OrderItem, 0, len(m.orderItems[id]))
	for _, item := range m.orderItems[id] {
		if item.DeletedAt == nil {
			restored = append(restored, item)
			continue
		}
		// Fresh row: new id and timestamp, same product/qty/price tuple.
		restored = append(restored, domain.OrderItem{
			ID:             xid.New("oi"),
			OrderID:        id,
			ProductID:      item.ProductID,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
			CreatedAt:      at,
		})
	}
	m.orderItems[id] = restored

	order.Status = status
	m.orders[id] = order
	order.Items = m.liveItemsLocked(id)
	return &order, nil
}

func (m *Store) liveItemsLocked(orderID string) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(m.orderItems[orderID]))
	for _, item := range m.orderItems[orderID] {
		if item.DeletedAt != nil {
			continue
		}
		if product, ok := m.products[item.ProductID]; ok {
			item.ProductName = product.Name
		}
		items = append(items, item)
	}
	return items
}

// --- Customers ---

func (m *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.ID == "" || customer.Name == "" || customer.Email == "" {
		return nil, store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.customers {
		if strings.EqualFold(existing.Email, customer.Email) {
			return nil, store.ErrConflict
		}
	}
	m.customers[customer.ID] = customer
	created := customer
	return &created, nil
}

func (m *Store) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	customer, ok := m.customers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &customer, nil
}

func (m *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Customer, 0, len(m.customers))
	for _, customer := range m.customers {
		out = append(out, customer)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Store) UpdateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.customers[customer.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	for id, other := range m.customers {
		if id != customer.ID && strings.EqualFold(other.Email, customer.Email) {
			return nil, store.ErrConflict
		}
	}
	if customer.LoyaltyPoints < 0 {
		customer.LoyaltyPoints = 0
	}
	customer.CreatedAt = existing.CreatedAt
	m.customers[customer.ID] = customer
	updated := customer
	return &updated, nil
}

func (m *Store) DeleteCustomer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *Store) AdjustLoyaltyPoints(_ context.Context, customerID string, delta int) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	customer, ok := m.customers[customerID]
	if !ok {
		return nil, store.ErrNotFound
	}
	customer.LoyaltyPoints += delta
	if customer.LoyaltyPoints < 0 {
		customer.LoyaltyPoints = 0
	}
	m.customers[customerID] = customer
	return &customer, nil
}

func (m *Store) GetCustomerOrderStats(_ context.Context, customerID string) (int, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.customers[customerID]; !ok {
		return 0, 0, store.ErrNotFound
	}

	totalOrders := 0
	totalSpent := int64(0)
	for _, order := range m.orders {
		if order.CustomerID != customerID || order.Status == domain.OrderStatusCancelled {
			continue
		}
		totalOrders++
		totalSpent += order.TotalCents
	}
	return totalOrders, totalSpent, nil
}

// --- Financial records ---

func (m *Store) CreateExpenseCategory(_ context.Context, category domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	if category.ID == "" || category.NameEN == "" {
		return nil, store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.expenseCategories[category.ID] = category
	created := category
	return &created, nil
}

func (m *Store) ListExpenseCategories(_ context.Context) ([]domain.ExpenseCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ExpenseCategory, 0, len(m.expenseCategories))
	for _, category := range m.expenseCategories {
		out = append(out, category)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder == out[j].DisplayOrder {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

func (m *Store) DeleteExpenseCategory(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenseCategories[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.expenseCategories, id)
	return nil
}

func (m *Store) CreateFinancialRecord(_ context.Context, record domain.FinancialRecord) (*domain.FinancialRecord, error) {
	if record.ID == "" || record.AmountCents < 0 {
		return nil, store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[record.ID] = record
	created := record
	return &created, nil
}

func (m *Store) GetFinancialRecord(_ context.Context, id string) (*domain.FinancialRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &record, nil
}

func (m *Store) ListFinancialRecords(_ context.Context, from *time.Time, to *time.Time) ([]domain.FinancialRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.FinancialRecord, 0, len(m.records))
	for _, record := range m.records {
		if from != nil && record.RecordDate.Before(*from) {
			continue
		}
		if to != nil && record.RecordDate.After(*to) {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordDate.After(out[j].RecordDate)
	})
	return out, nil
}

func (m *Store) UpdateFinancialRecord(_ context.Context, record domain.FinancialRecord) (*domain.FinancialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	record.CreatedAt = existing.CreatedAt
	record.Type = existing.Type
	m.records[record.ID] = record
	updated := record
	return &updated, nil
}

func (m *Store) DeleteFinancialRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *Store) OrderRevenueByDay(_ context.Context, from *time.Time, to *time.Time) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := map[string]int64{}
	for _, order := range m.orders {
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		if from != nil && order.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && order.CreatedAt.After(*to) {
			continue
		}
		day := order.CreatedAt.UTC().Format("2006-01-02")
		out[day] += order.TotalCents
	}
	return out, nil
}

// --- Settings ---

func (m *Store) GetSettings(_ context.Context) (domain.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return domain.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *Store) SaveSettings(_ context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	saved := settings
	m.settings = &saved
	return saved, nil
}

// --- Auth accounts ---

func (m *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return store.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usersByName[username]; exists {
		return store.ErrConflict
	}
	user.Username = username
	m.usersByName[username] = user
	return nil
}

func (m *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.UserAccount, 0, len(m.usersByName))
	for _, user := range m.usersByName {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (m *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByName[username]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = password
	m.usersByName[username] = user
	return nil
}
