package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"kedai/backend/internal/domain"
	"kedai/backend/internal/store"
	"kedai/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- Catalog ---

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, display_order, created_at
		FROM categories
		ORDER BY display_order, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.Category, 0, 16)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if category.ID == "" || category.Name == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, display_order, created_at)
		VALUES ($1,$2,$3,$4)
	`, category.ID, category.Name, category.DisplayOrder, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := category
	return &created, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, display_order, created_at
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $2, display_order = $3
		WHERE id = $1
	`, category.ID, category.Name, category.DisplayOrder)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := category
	return &updated, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price_cents, category_id, available
		FROM products
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.ProductSummary, 0, 64)
	for rows.Next() {
		var p domain.ProductSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.CategoryID, &p.Available); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, price_cents, category_id, image_url, available, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.CategoryID, &p.ImageURL, &p.Available, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, price_cents, category_id, image_url, available, created_at
		FROM products
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.CategoryID, &p.ImageURL, &p.Available, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.PriceCents < 1 {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price_cents, category_id, image_url, available, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, product.ID, product.Name, product.Description, product.PriceCents, product.CategoryID, product.ImageURL, product.Available, product.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, category_id = $5, image_url = $6, available = $7
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.PriceCents, product.CategoryID, product.ImageURL, product.Available)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountProductsInCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM products WHERE category_id = $1
	`, categoryID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// --- Inventory ledger ---

func (s *Store) CreateIngredient(ctx context.Context, ingredient domain.Ingredient, record domain.InventoryRecord, initial *domain.InventoryTransaction) (*domain.Ingredient, error) {
	if ingredient.ID == "" || ingredient.Name == "" {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ingredients (id, name, description, unit, category_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, ingredient.ID, ingredient.Name, ingredient.Description, ingredient.Unit, ingredient.CategoryID, ingredient.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory_records (ingredient_id, stock_quantity, min_stock_level)
		VALUES ($1,$2,$3)
	`, ingredient.ID, record.StockQty, record.MinStockLevel)
	if err != nil {
		return nil, err
	}

	if initial != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory_transactions (id, ingredient_id, quantity_change, transaction_type, created_at)
			VALUES ($1,$2,$3,$4,$5)
		`, initial.ID, initial.IngredientID, initial.QuantityChange, initial.Type, initial.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := ingredient
	return &created, nil
}

func (s *Store) GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, unit, category_id, created_at
		FROM ingredients
		WHERE id = $1
	`, id).Scan(&ing.ID, &ing.Name, &ing.Description, &ing.Unit, &ing.CategoryID, &ing.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	ing.CreatedAt = ing.CreatedAt.UTC()
	return &ing, nil
}

func (s *Store) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.name, i.description, i.unit, i.category_id, i.created_at,
		       r.stock_quantity, r.min_stock_level
		FROM ingredients i
		JOIN inventory_records r ON r.ingredient_id = i.id
		ORDER BY i.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0, 32)
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(
			&item.Ingredient.ID, &item.Ingredient.Name, &item.Ingredient.Description,
			&item.Ingredient.Unit, &item.Ingredient.CategoryID, &item.Ingredient.CreatedAt,
			&item.Record.StockQty, &item.Record.MinStockLevel,
		); err != nil {
			return nil, err
		}
		item.Ingredient.CreatedAt = item.Ingredient.CreatedAt.UTC()
		item.Record.IngredientID = item.Ingredient.ID
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetInventoryRecord(ctx context.Context, ingredientID string) (*domain.InventoryRecord, error) {
	var record domain.InventoryRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT ingredient_id, stock_quantity, min_stock_level
		FROM inventory_records
		WHERE ingredient_id = $1
	`, ingredientID).Scan(&record.IngredientID, &record.StockQty, &record.MinStockLevel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ApplyStockChange writes the new snapshot and the ledger entry in one
// transaction. The snapshot row is locked so concurrent updates serialize.
func (s *Store) ApplyStockChange(ctx context.Context, ingredientID string, newQty int, entry domain.InventoryTransaction) error {
	if newQty < 0 {
		return store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx, `
		SELECT stock_quantity FROM inventory_records WHERE ingredient_id = $1 FOR UPDATE
	`, ingredientID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE inventory_records SET stock_quantity = $2 WHERE ingredient_id = $1
	`, ingredientID, newQty)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory_transactions (id, ingredient_id, quantity_change, transaction_type, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, entry.ID, entry.IngredientID, entry.QuantityChange, entry.Type, entry.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) UpdateMinStockLevel(ctx context.Context, ingredientID string, level int) error {
	if level < 0 {
		return store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory_records SET min_stock_level = $2 WHERE ingredient_id = $1
	`, ingredientID, level)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveIngredient(ctx context.Context, ingredientID string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE id = $1`, ingredientID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_records WHERE ingredient_id = $1`, ingredientID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_transactions WHERE ingredient_id = $1`, ingredientID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) ListTransactions(ctx context.Context, since time.Time, limit int) ([]domain.InventoryTransaction, error) {
	query := `
		SELECT id, ingredient_id, quantity_change, transaction_type, created_at
		FROM inventory_transactions
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		ORDER BY created_at DESC
	`
	args := []any{nullableTime(since)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *Store) ListTransactionsByIngredient(ctx context.Context, ingredientID string, limit int) ([]domain.InventoryTransaction, error) {
	query := `
		SELECT id, ingredient_id, quantity_change, transaction_type, created_at
		FROM inventory_transactions
		WHERE ingredient_id = $1
		ORDER BY created_at DESC
	`
	args := []any{ingredientID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]domain.InventoryTransaction, error) {
	entries := make([]domain.InventoryTransaction, 0, 32)
	for rows.Next() {
		var entry domain.InventoryTransaction
		if err := rows.Scan(&entry.ID, &entry.IngredientID, &entry.QuantityChange, &entry.Type, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// --- Orders ---

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if order.ID == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, customer_name, customer_id, total_cents, payment_method, status, created_at)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8)
	`, order.ID, order.OrderNumber, order.CustomerName, order.CustomerID, order.TotalCents, order.PaymentMethod, order.Status, order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, qty, unit_price_cents, total_cents, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, item.ID, order.ID, item.ProductID, item.Qty, item.UnitPriceCents, item.TotalCents, item.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := order
	return &created, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	var customerID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, order_number, customer_name, customer_id, total_cents, payment_method, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.OrderNumber, &order.CustomerName, &customerID, &order.TotalCents, &order.PaymentMethod, &order.Status, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	order.CustomerID = customerID.String
	order.CreatedAt = order.CreatedAt.UTC()

	items, err := s.liveOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_number, customer_name, customer_id, total_cents, payment_method, status, created_at
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		var order domain.Order
		var customerID sql.NullString
		if err := rows.Scan(&order.ID, &order.OrderNumber, &order.CustomerName, &customerID, &order.TotalCents, &order.PaymentMethod, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.CustomerID = customerID.String
		order.CreatedAt = order.CreatedAt.UTC()
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.liveOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *Store) liveOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''), oi.qty, oi.unit_price_cents, oi.total_cents, oi.created_at
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1 AND oi.deleted_at IS NULL
		ORDER BY oi.created_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0, 8)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Qty, &item.UnitPriceCents, &item.TotalCents, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

// CancelOrder marks the order cancelled and soft-deletes its live items in
// one transaction. The items survive as rows so a restore can rebuild them.
func (s *Store) CancelOrder(ctx context.Context, id string, at time.Time) (*domain.Order, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
	`, id, domain.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE order_items SET deleted_at = $2 WHERE order_id = $1 AND deleted_at IS NULL
	`, id, at)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

// RestoreOrder re-inserts the soft-deleted items as fresh rows with new ids
// and timestamps, deletes the tombstones, and moves the order to status.
func (s *Store) RestoreOrder(ctx context.Context, id string, status string, at time.Time) (*domain.Order, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, qty, unit_price_cents, total_cents
		FROM order_items
		WHERE order_id = $1 AND deleted_at IS NOT NULL
	`, id)
	if err != nil {
		return nil, err
	}
	type tombstone struct {
		productID      string
		qty            int
		unitPriceCents int64
		totalCents     int64
	}
	tombstones := make([]tombstone, 0, 8)
	for rows.Next() {
		var t tombstone
		if err := rows.Scan(&t.productID, &t.qty, &t.unitPriceCents, &t.totalCents); err != nil {
			_ = rows.Close()
			return nil, err
		}
		tombstones = append(tombstones, t)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM order_items WHERE order_id = $1 AND deleted_at IS NOT NULL
	`, id); err != nil {
		return nil, err
	}

	for _, t := range tombstones {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, qty, unit_price_cents, total_cents, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, xid.New("oi"), id, t.productID, t.qty, t.unitPriceCents, t.totalCents, at)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

// --- Customers ---

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.ID == "" || customer.Name == "" || customer.Email == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, loyalty_points, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, customer.ID, customer.Name, customer.Email, customer.Phone, customer.LoyaltyPoints, customer.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := customer
	return &created, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, loyalty_points, created_at
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.LoyaltyPoints, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, loyalty_points, created_at
		FROM customers
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 32)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.LoyaltyPoints, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.LoyaltyPoints < 0 {
		customer.LoyaltyPoints = 0
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, loyalty_points = $5
		WHERE id = $1
	`, customer.ID, customer.Name, customer.Email, customer.Phone, customer.LoyaltyPoints)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := customer
	return &updated, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AdjustLoyaltyPoints(ctx context.Context, customerID string, delta int) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `
		UPDATE customers
		SET loyalty_points = GREATEST(loyalty_points + $2, 0)
		WHERE id = $1
		RETURNING id, name, email, phone, loyalty_points, created_at
	`, customerID, delta).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.LoyaltyPoints, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (s *Store) GetCustomerOrderStats(ctx context.Context, customerID string) (int, int64, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)
	`, customerID).Scan(&exists); err != nil {
		return 0, 0, err
	}
	if !exists {
		return 0, 0, store.ErrNotFound
	}

	var totalOrders int
	var totalSpent int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_cents), 0)
		FROM orders
		WHERE customer_id = $1 AND status <> $2
	`, customerID, domain.OrderStatusCancelled).Scan(&totalOrders, &totalSpent)
	if err != nil {
		return 0, 0, err
	}
	return totalOrders, totalSpent, nil
}

// --- Financial records ---

func (s *Store) CreateExpenseCategory(ctx context.Context, category domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	if category.ID == "" || category.NameEN == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expense_categories (id, name_en, name_ar, display_order, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, category.ID, category.NameEN, category.NameAR, category.DisplayOrder, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := category
	return &created, nil
}

func (s *Store) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name_en, name_ar, display_order, created_at
		FROM expense_categories
		ORDER BY display_order, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.ExpenseCategory, 0, 16)
	for rows.Next() {
		var c domain.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.NameEN, &c.NameAR, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) DeleteExpenseCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expense_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateFinancialRecord(ctx context.Context, record domain.FinancialRecord) (*domain.FinancialRecord, error) {
	if record.ID == "" || record.AmountCents < 0 {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO financial_records (id, record_type, category_id, amount_cents, description, record_date, created_at, updated_at)
		VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8)
	`, record.ID, record.Type, record.CategoryID, record.AmountCents, record.Description, record.RecordDate, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return nil, err
	}

	created := record
	return &created, nil
}

func (s *Store) GetFinancialRecord(ctx context.Context, id string) (*domain.FinancialRecord, error) {
	var record domain.FinancialRecord
	var categoryID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, record_type, category_id, amount_cents, description, record_date, created_at, updated_at
		FROM financial_records
		WHERE id = $1
	`, id).Scan(&record.ID, &record.Type, &categoryID, &record.AmountCents, &record.Description, &record.RecordDate, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	record.CategoryID = categoryID.String
	record.RecordDate = record.RecordDate.UTC()
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return &record, nil
}

func (s *Store) ListFinancialRecords(ctx context.Context, from *time.Time, to *time.Time) ([]domain.FinancialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_type, category_id, amount_cents, description, record_date, created_at, updated_at
		FROM financial_records
		WHERE ($1::timestamptz IS NULL OR record_date >= $1)
		  AND ($2::timestamptz IS NULL OR record_date <= $2)
		ORDER BY record_date DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.FinancialRecord, 0, 64)
	for rows.Next() {
		var record domain.FinancialRecord
		var categoryID sql.NullString
		if err := rows.Scan(&record.ID, &record.Type, &categoryID, &record.AmountCents, &record.Description, &record.RecordDate, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, err
		}
		record.CategoryID = categoryID.String
		record.RecordDate = record.RecordDate.UTC()
		record.CreatedAt = record.CreatedAt.UTC()
		record.UpdatedAt = record.UpdatedAt.UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) UpdateFinancialRecord(ctx context.Context, record domain.FinancialRecord) (*domain.FinancialRecord, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE financial_records
		SET category_id = NULLIF($2,''), amount_cents = $3, description = $4, record_date = $5, updated_at = $6
		WHERE id = $1
	`, record.ID, record.CategoryID, record.AmountCents, record.Description, record.RecordDate, record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	return s.GetFinancialRecord(ctx, record.ID)
}

func (s *Store) DeleteFinancialRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM financial_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) OrderRevenueByDay(ctx context.Context, from *time.Time, to *time.Time) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD'), SUM(total_cents)
		FROM orders
		WHERE status = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		GROUP BY 1
	`, domain.OrderStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var day string
		var total int64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		out[day] = total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Settings ---

// Settings live in a single row keyed id = 1; version bumps on every save.
func (s *Store) GetSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT tax_rate_percent, currency, secondary_currency, exchange_rate,
		       store_name, store_address, store_phone, loyalty_rate, low_stock_threshold, version
		FROM app_settings
		WHERE id = 1
	`).Scan(
		&settings.TaxRatePercent, &settings.Currency, &settings.SecondaryCurrency, &settings.ExchangeRate,
		&settings.StoreName, &settings.StoreAddress, &settings.StorePhone, &settings.LoyaltyRate,
		&settings.LowStockThreshold, &settings.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_settings (id, tax_rate_percent, currency, secondary_currency, exchange_rate,
		                          store_name, store_address, store_phone, loyalty_rate, low_stock_threshold, version)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			tax_rate_percent = EXCLUDED.tax_rate_percent,
			currency = EXCLUDED.currency,
			secondary_currency = EXCLUDED.secondary_currency,
			exchange_rate = EXCLUDED.exchange_rate,
			store_name = EXCLUDED.store_name,
			store_address = EXCLUDED.store_address,
			store_phone = EXCLUDED.store_phone,
			loyalty_rate = EXCLUDED.loyalty_rate,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			version = EXCLUDED.version
	`, settings.TaxRatePercent, settings.Currency, settings.SecondaryCurrency, settings.ExchangeRate,
		settings.StoreName, settings.StoreAddress, settings.StorePhone, settings.LoyaltyRate,
		settings.LowStockThreshold, settings.Version)
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// --- Auth accounts ---

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.Username == "" {
		return store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password_hash, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 8)
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.Username, &u.Password, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
