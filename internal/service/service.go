package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kedai/backend/internal/domain"
	"kedai/backend/internal/store"
	"kedai/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// ErrPermission is returned when the acting user lacks the required role.
var ErrPermission = errors.New("admin role required")

type Service struct {
	repo store.Repository
}

func New(repo store.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return ErrPermission
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, action string, entity string, entityID string, details string) {
	actor, _ := ActorFromContext(ctx)
	log.Printf("[audit] actor=%s action=%s %s=%s %s", actor.Username, action, entity, entityID, details)
}

// --- Catalog ---

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CategoryCreateRequest) (domain.Category, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Category{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.DisplayOrder < 0 {
		return domain.Category{}, store.ErrInvalidInput
	}

	category := domain.Category{
		ID:           xid.New("cat"),
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return domain.Category{}, err
	}

	s.logAudit(ctx, "category_create", "category", created.ID, fmt.Sprintf("name=%s", created.Name))
	return *created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req domain.CategoryUpdateRequest) (domain.Category, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Category{}, err
	}

	existing, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Category{}, store.ErrInvalidInput
		}
		existing.Name = name
	}
	if req.DisplayOrder != nil {
		if *req.DisplayOrder < 0 {
			return domain.Category{}, store.ErrInvalidInput
		}
		existing.DisplayOrder = *req.DisplayOrder
	}

	updated, err := s.repo.UpdateCategory(ctx, *existing)
	if err != nil {
		return domain.Category{}, err
	}
	return *updated, nil
}

// DeleteCategory refuses to remove a category that still has products; the
// caller must move or delete them first.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	count, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("category has %d products: %w", count, store.ErrConflict)
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "category_delete", "category", id, "")
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" || req.PriceCents < 1 {
		return domain.Product{}, store.ErrInvalidInput
	}
	if req.CategoryID != "" {
		if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	product := domain.Product{
		ID:          xid.New("prod"),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Available:   true,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("name=%s,price=%d", created.Name, created.PriceCents))
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		existing.Name = name
	}
	if req.Description != nil {
		existing.Description = strings.TrimSpace(*req.Description)
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 1 {
			return domain.Product{}, store.ErrInvalidInput
		}
		existing.PriceCents = *req.PriceCents
	}
	if req.CategoryID != nil {
		if *req.CategoryID != "" {
			if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
				return domain.Product{}, err
			}
		}
		existing.CategoryID = *req.CategoryID
	}
	if req.ImageURL != nil {
		existing.ImageURL = *req.ImageURL
	}
	if req.Available != nil {
		existing.Available = *req.Available
	}

	updated, err := s.repo.UpdateProduct(ctx, *existing)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_update", "product", updated.ID, fmt.Sprintf("price=%d,available=%t", updated.PriceCents, updated.Available))
	return *updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "product_delete", "product", id, "")
	return nil
}

// --- Inventory ledger ---

func (s *Service) CreateIngredient(ctx context.Context, req domain.IngredientCreateRequest) (domain.InventoryItem, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.InventoryItem{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	if req.Name == "" || req.Unit == "" {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}
	if req.InitialStock < 0 || req.MinStockLevel < 0 {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}
	if req.CategoryID != "" {
		if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
			return domain.InventoryItem{}, err
		}
	}

	now := time.Now().UTC()
	ingredient := domain.Ingredient{
		ID:          xid.New("ing"),
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Unit:        req.Unit,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
	}
	record := domain.InventoryRecord{
		IngredientID:  ingredient.ID,
		StockQty:      req.InitialStock,
		MinStockLevel: req.MinStockLevel,
	}

	var initial *domain.InventoryTransaction
	if req.InitialStock > 0 {
		initial = &domain.InventoryTransaction{
			ID:             xid.New("tx"),
			IngredientID:   ingredient.ID,
			QuantityChange: req.InitialStock,
			Type:           domain.TxTypeAdd,
			CreatedAt:      now,
		}
	}

	created, err := s.repo.CreateIngredient(ctx, ingredient, record, initial)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	s.logAudit(ctx, "ingredient_create", "ingredient", created.ID, fmt.Sprintf("name=%s,stock=%d", created.Name, req.InitialStock))
	return domain.InventoryItem{
		Ingredient: *created,
		Record:     record,
		Status:     domain.StockStatus(record.StockQty, record.MinStockLevel),
	}, nil
}

func (s *Service) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.repo.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Status = domain.StockStatus(items[i].Record.StockQty, items[i].Record.MinStockLevel)
	}
	return items, nil
}

func (s *Service) GetInventoryItem(ctx context.Context, ingredientID string) (domain.InventoryItem, error) {
	ingredient, err := s.repo.GetIngredient(ctx, ingredientID)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	record, err := s.repo.GetInventoryRecord(ctx, ingredientID)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return domain.InventoryItem{
		Ingredient: *ingredient,
		Record:     *record,
		Status:     domain.StockStatus(record.StockQty, record.MinStockLevel),
	}, nil
}

// UpdateStock moves the snapshot to req.NewQuantity and appends the ledger
// entry. The signed delta depends on the transaction type: REMOVE records
// current minus new (the magnitude removed), ADD and ADJUST record new minus
// current.
func (s *Service) UpdateStock(ctx context.Context, ingredientID string, req domain.StockUpdateRequest) (domain.InventoryItem, error) {
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if !domain.ValidTransactionType(req.Type) {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}
	if req.NewQuantity < 0 {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}

	record, err := s.repo.GetInventoryRecord(ctx, ingredientID)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	current := record.StockQty
	var delta int
	switch req.Type {
	case domain.TxTypeRemove:
		if req.NewQuantity > current {
			return domain.InventoryItem{}, store.ErrInvalidInput
		}
		delta = current - req.NewQuantity
	case domain.TxTypeAdd:
		if req.NewQuantity < current {
			return domain.InventoryItem{}, store.ErrInvalidInput
		}
		delta = req.NewQuantity - current
	default: // ADJUST
		delta = req.NewQuantity - current
	}

	if delta != 0 || req.Type == domain.TxTypeAdjust {
		entry := domain.InventoryTransaction{
			ID:             xid.New("tx"),
			IngredientID:   ingredientID,
			QuantityChange: delta,
			Type:           req.Type,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.repo.ApplyStockChange(ctx, ingredientID, req.NewQuantity, entry); err != nil {
			return domain.InventoryItem{}, err
		}
	}

	s.logAudit(ctx, "stock_update", "ingredient", ingredientID, fmt.Sprintf("type=%s,qty=%d,delta=%d", req.Type, req.NewQuantity, delta))
	return s.GetInventoryItem(ctx, ingredientID)
}

func (s *Service) SetMinStockLevel(ctx context.Context, ingredientID string, level int) (domain.InventoryItem, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.InventoryItem{}, err
	}
	if level < 0 {
		return domain.InventoryItem{}, store.ErrInvalidInput
	}
	if err := s.repo.UpdateMinStockLevel(ctx, ingredientID, level); err != nil {
		return domain.InventoryItem{}, err
	}
	return s.GetInventoryItem(ctx, ingredientID)
}

// DeleteIngredient removes the ingredient, its snapshot, and its entire
// ledger history in one shot. Irreversible.
func (s *Service) DeleteIngredient(ctx context.Context, ingredientID string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.RemoveIngredient(ctx, ingredientID); err != nil {
		return err
	}
	s.logAudit(ctx, "ingredient_delete", "ingredient", ingredientID, "history purged")
	return nil
}

func (s *Service) ListTransactions(ctx context.Context, since time.Time, limit int) ([]domain.InventoryTransaction, error) {
	return s.repo.ListTransactions(ctx, since, limit)
}

func (s *Service) ListIngredientTransactions(ctx context.Context, ingredientID string, limit int) ([]domain.InventoryTransaction, error) {
	if _, err := s.repo.GetIngredient(ctx, ingredientID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactionsByIngredient(ctx, ingredientID, limit)
}

// --- Orders ---

func (s *Service) CreateOrder(ctx context.Context, req domain.OrderCreateRequest) (domain.Order, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if !domain.ValidPaymentMethod(req.PaymentMethod) {
		return domain.Order{}, store.ErrInvalidInput
	}
	if len(req.Items) == 0 {
		return domain.Order{}, store.ErrInvalidInput
	}

	if req.CustomerID != "" {
		if _, err := s.repo.GetCustomer(ctx, req.CustomerID); err != nil {
			return domain.Order{}, err
		}
	}

	ids := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		if line.ProductID == "" || line.Qty < 1 {
			return domain.Order{}, store.ErrInvalidInput
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	orderID := xid.New("ord")
	items := make([]domain.OrderItem, 0, len(req.Items))
	total := int64(0)
	for _, line := range req.Items {
		product, ok := products[line.ProductID]
		if !ok {
			return domain.Order{}, fmt.Errorf("product %s: %w", line.ProductID, store.ErrNotFound)
		}
		if !product.Available {
			return domain.Order{}, fmt.Errorf("product %s unavailable: %w", line.ProductID, store.ErrInvalidInput)
		}
		lineTotal := product.PriceCents * int64(line.Qty)
		total += lineTotal
		items = append(items, domain.OrderItem{
			ID:             xid.New("oi"),
			OrderID:        orderID,
			ProductID:      product.ID,
			ProductName:    product.Name,
			Qty:            line.Qty,
			UnitPriceCents: product.PriceCents,
			TotalCents:     lineTotal,
			CreatedAt:      now,
		})
	}

	order := domain.Order{
		ID:            orderID,
		OrderNumber:   xid.OrderNumber(now),
		CustomerName:  req.CustomerName,
		CustomerID:    req.CustomerID,
		TotalCents:    total,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		Items:         items,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if errors.Is(err, store.ErrConflict) {
		// Same-millisecond collision on the order number; retry once.
		order.OrderNumber = xid.OrderNumber(now.Add(time.Millisecond))
		created, err = s.repo.CreateOrder(ctx, order)
	}
	if err != nil {
		return domain.Order{}, err
	}

	s.logAudit(ctx, "order_create", "order", created.ID, fmt.Sprintf("number=%s,total=%d,items=%d", created.OrderNumber, created.TotalCents, len(created.Items)))
	return *created, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, store.ErrInvalidInput
	}
	return s.repo.ListOrders(ctx, status, limit)
}

// UpdateOrderStatus moves an order between pending, completed and cancelled.
// Every transition between distinct states is legal; a same-state update is a
// no-op. Entering cancelled soft-deletes the items; leaving it restores them
// as fresh rows. Loyalty points follow the completed state: awarded on entry,
// clawed back on exit.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status string) (domain.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, store.ErrInvalidInput
	}

	current, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if current.Status == status {
		return *current, nil
	}

	now := time.Now().UTC()
	var updated *domain.Order
	switch {
	case status == domain.OrderStatusCancelled:
		updated, err = s.repo.CancelOrder(ctx, id, now)
	case current.Status == domain.OrderStatusCancelled:
		updated, err = s.repo.RestoreOrder(ctx, id, status, now)
	default:
		updated, err = s.repo.SetOrderStatus(ctx, id, status)
	}
	if err != nil {
		return domain.Order{}, err
	}

	if current.CustomerID != "" {
		if delta := s.loyaltyDelta(ctx, *current, status); delta != 0 {
			if _, err := s.repo.AdjustLoyaltyPoints(ctx, current.CustomerID, delta); err != nil {
				log.Printf("[service] WARN: failed to adjust loyalty points customer=%s: %v", current.CustomerID, err)
			}
		}
	}

	s.logAudit(ctx, "order_status", "order", id, fmt.Sprintf("from=%s,to=%s", current.Status, status))
	return *updated, nil
}

func (s *Service) loyaltyDelta(ctx context.Context, order domain.Order, newStatus string) int {
	wasCompleted := order.Status == domain.OrderStatusCompleted
	isCompleted := newStatus == domain.OrderStatusCompleted
	if wasCompleted == isCompleted {
		return 0
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		log.Printf("[service] WARN: failed to load settings for loyalty: %v", err)
		return 0
	}
	points := int(math.Floor(float64(order.TotalCents) / 100 * settings.LoyaltyRate))
	if points <= 0 {
		return 0
	}
	if isCompleted {
		return points
	}
	return -points
}

// --- Customers ---

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		return domain.Customer{}, store.ErrInvalidInput
	}

	customer := domain.Customer{
		ID:        xid.New("cus"),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}

	s.logAudit(ctx, "customer_create", "customer", created.ID, fmt.Sprintf("email=%s", created.Email))
	return *created, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) GetCustomerStats(ctx context.Context, id string) (domain.CustomerStats, error) {
	customer, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	totalOrders, totalSpent, err := s.repo.GetCustomerOrderStats(ctx, id)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	return domain.CustomerStats{
		Customer:        *customer,
		TotalOrders:     totalOrders,
		TotalSpentCents: totalSpent,
	}, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, req domain.CustomerUpdateRequest) (domain.Customer, error) {
	existing, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, store.ErrInvalidInput
		}
		existing.Name = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			return domain.Customer{}, store.ErrInvalidInput
		}
		existing.Email = email
	}
	if req.Phone != nil {
		existing.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.LoyaltyPoints != nil {
		if *req.LoyaltyPoints < 0 {
			return domain.Customer{}, store.ErrInvalidInput
		}
		existing.LoyaltyPoints = *req.LoyaltyPoints
	}

	updated, err := s.repo.UpdateCustomer(ctx, *existing)
	if err != nil {
		return domain.Customer{}, err
	}
	return *updated, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "customer_delete", "customer", id, "")
	return nil
}

// --- Settings ---

func (s *Service) GetSettings(ctx context.Context) (domain.Settings, error) {
	return s.repo.GetSettings(ctx)
}

// UpdateSettings applies a partial update over the current record and bumps
// the version. Absent fields keep their stored values.
func (s *Service) UpdateSettings(ctx context.Context, req domain.SettingsUpdateRequest) (domain.Settings, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Settings{}, err
	}

	current, err := s.repo.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	if req.TaxRatePercent != nil {
		current.TaxRatePercent = *req.TaxRatePercent
	}
	if req.Currency != nil {
		current.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.SecondaryCurrency != nil {
		current.SecondaryCurrency = strings.ToUpper(strings.TrimSpace(*req.SecondaryCurrency))
	}
	if req.ExchangeRate != nil {
		current.ExchangeRate = *req.ExchangeRate
	}
	if req.StoreName != nil {
		current.StoreName = strings.TrimSpace(*req.StoreName)
	}
	if req.StoreAddress != nil {
		current.StoreAddress = strings.TrimSpace(*req.StoreAddress)
	}
	if req.StorePhone != nil {
		current.StorePhone = strings.TrimSpace(*req.StorePhone)
	}
	if req.LoyaltyRate != nil {
		current.LoyaltyRate = *req.LoyaltyRate
	}
	if req.LowStockThreshold != nil {
		current.LowStockThreshold = *req.LowStockThreshold
	}

	if err := current.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("%v: %w", err, store.ErrInvalidInput)
	}

	current.Version++
	saved, err := s.repo.SaveSettings(ctx, current)
	if err != nil {
		return domain.Settings{}, err
	}

	s.logAudit(ctx, "settings_update", "settings", "1", fmt.Sprintf("version=%d", saved.Version))
	return saved, nil
}

// --- Staff accounts ---

func (s *Service) CreateStaff(ctx context.Context, req domain.StaffCreateRequest) (domain.StaffUser, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.StaffUser{}, err
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || len(req.Password) < 8 {
		return domain.StaffUser{}, store.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.StaffUser{}, err
	}

	user := domain.UserAccount{
		Username:  req.Username,
		Password:  string(hash),
		Role:      "staff",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.StaffUser{}, err
	}

	s.logAudit(ctx, "staff_create", "user", user.Username, "role=staff")
	return domain.StaffUser{
		Username:  user.Username,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) ListStaff(ctx context.Context) ([]domain.StaffUser, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StaffUser, 0, len(users))
	for _, u := range users {
		out = append(out, domain.StaffUser{
			Username:  u.Username,
			Role:      u.Role,
			Active:    u.Active,
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}
