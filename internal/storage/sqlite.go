// Package storage persists the order ledger in SQLite.
//
// The pure-Go modernc.org/sqlite driver keeps the build CGO-free. WAL mode
// lets reads proceed while the settlement pipeline writes, and the single
// writer connection serializes mutations, which the conditional inventory
// decrement relies on for oversell prevention.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/checkout-core/internal/domain"

	_ "modernc.org/sqlite"
)

// ErrDuplicateOrderNumber signals a UNIQUE conflict on orders.order_number.
// Callers regenerate the number and retry.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ── Customers ────────────────────────────────────────────────────────────

func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	const q = `
		INSERT INTO customers (id, full_name, email, phone_number, address, city, state, zip_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		c.ID, c.FullName, c.Email, c.PhoneNumber, c.Address, c.City, c.State, c.ZipCode, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("storage: create customer: %w", err)
	}
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: delete customer %q: %w", id, err)
	}
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────

// CreateProduct inserts a product and its variants. Used by seeding and tests;
// the settlement pipeline itself never creates catalog rows.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, title, description, inventory, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Inventory, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("storage: create product: %w", err)
	}

	for i := range p.Variants {
		v := &p.Variants[i]
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		v.ProductID = p.ID
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO product_variants (id, product_id, name, price, image_url) VALUES (?, ?, ?, ?, ?)`,
			v.ID, v.ProductID, v.Name, v.Price, v.ImageURL)
		if err != nil {
			return fmt.Errorf("storage: create variant: %w", err)
		}
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const q = `SELECT id, title, description, inventory, created_at FROM products WHERE id = ?`

	var p domain.Product
	var createdAt string
	err := s.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Title, &p.Description, &p.Inventory, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get product %q: %w", id, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if p.Variants, err = s.variantsFor(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, inventory, created_at FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("storage: list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Inventory, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: scan product: %w", err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list products: %w", err)
	}

	for i := range products {
		if products[i].Variants, err = s.variantsFor(ctx, products[i].ID); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (s *Store) variantsFor(ctx context.Context, productID string) ([]domain.ProductVariant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, name, price, image_url FROM product_variants WHERE product_id = ? ORDER BY id`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("storage: variants for %q: %w", productID, err)
	}
	defer rows.Close()

	var variants []domain.ProductVariant
	for rows.Next() {
		var v domain.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.ImageURL); err != nil {
			return nil, fmt.Errorf("storage: scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// ResolveVariant returns the catalog price for a (product, variant) pair.
// The distinction between the two not-found errors matters to callers: the
// HTTP layer reports which identifier was wrong.
func (s *Store) ResolveVariant(ctx context.Context, productID, variantID string) (float64, error) {
	var price float64
	err := s.db.QueryRowContext(ctx,
		`SELECT price FROM product_variants WHERE id = ? AND product_id = ?`,
		variantID, productID).Scan(&price)
	if err == nil {
		return price, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("storage: resolve variant %q: %w", variantID, err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, productID).Scan(&one)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	if err != nil {
		return 0, fmt.Errorf("storage: resolve variant %q: %w", variantID, err)
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrVariantNotFound, variantID)
}

// DecrementInventory atomically subtracts quantity from a product's stock.
// The WHERE guard makes it a decrement-if-sufficient: two concurrent orders
// racing for the same stock cannot both pass, because the losing UPDATE
// matches zero rows instead of driving inventory negative.
func (s *Store) DecrementInventory(ctx context.Context, productID string, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET inventory = inventory - ? WHERE id = ? AND inventory >= ?`,
		quantity, productID, quantity)
	if err != nil {
		return fmt.Errorf("storage: decrement inventory for %q: %w", productID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: decrement inventory for %q: %w", productID, err)
	}
	if affected > 0 {
		return nil
	}

	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, productID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	if err != nil {
		return fmt.Errorf("storage: decrement inventory for %q: %w", productID, err)
	}
	return fmt.Errorf("%w: product %s", domain.ErrInsufficientInventory, productID)
}

// RestoreInventory adds quantity back to a product's stock. It exists only
// as the compensating action for DecrementInventory.
func (s *Store) RestoreInventory(ctx context.Context, productID string, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET inventory = inventory + ? WHERE id = ?`, quantity, productID)
	if err != nil {
		return fmt.Errorf("storage: restore inventory for %q: %w", productID, err)
	}
	return nil
}

// ── Orders ───────────────────────────────────────────────────────────────

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	const q = `
		INSERT INTO orders (id, order_number, status, customer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		o.ID, o.OrderNumber, string(o.Status), o.CustomerID, formatTime(o.CreatedAt), formatTime(o.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "orders.order_number") {
			return fmt.Errorf("%w: %s", ErrDuplicateOrderNumber, o.OrderNumber)
		}
		return fmt.Errorf("storage: create order: %w", err)
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: delete order %q: %w", id, err)
	}
	return nil
}

func (s *Store) CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = orderID
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, price) VALUES (?, ?, ?, ?, ?, ?)`,
			it.ID, it.OrderID, it.ProductID, it.VariantID, it.Quantity, it.Price)
		if err != nil {
			return fmt.Errorf("storage: create order item: %w", err)
		}
	}
	return nil
}

func (s *Store) DeleteOrderItems(ctx context.Context, orderID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("storage: delete order items for %q: %w", orderID, err)
	}
	return nil
}

// GetOrder loads an order with its customer, items (joined with product and
// variant), and payment.
func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
		SELECT o.id, o.order_number, o.status, o.customer_id, o.created_at, o.updated_at,
		       c.full_name, c.email, c.phone_number, c.address, c.city, c.state, c.zip_code, c.created_at
		FROM   orders o
		JOIN   customers c ON c.id = o.customer_id
		WHERE  o.id = ?`

	var o domain.Order
	var c domain.Customer
	var oCreated, oUpdated, cCreated string
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.CustomerID, &oCreated, &oUpdated,
		&c.FullName, &c.Email, &c.PhoneNumber, &c.Address, &c.City, &c.State, &c.ZipCode, &cCreated)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get order %q: %w", id, err)
	}

	c.ID = o.CustomerID
	if o.CreatedAt, err = parseTime(oCreated); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(oUpdated); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(cCreated); err != nil {
		return nil, err
	}
	o.Customer = &c

	if o.Items, err = s.itemsFor(ctx, o.ID); err != nil {
		return nil, err
	}

	payment, err := s.GetPaymentByOrder(ctx, o.ID)
	if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
		return nil, err
	}
	o.Payment = payment

	return &o, nil
}

func (s *Store) itemsFor(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
		SELECT i.id, i.order_id, i.product_id, i.variant_id, i.quantity, i.price,
		       p.title, p.description, p.inventory, p.created_at,
		       v.name, v.price, v.image_url
		FROM   order_items i
		JOIN   products p         ON p.id = i.product_id
		JOIN   product_variants v ON v.id = i.variant_id
		WHERE  i.order_id = ?
		ORDER  BY i.id`

	rows, err := s.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("storage: items for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		var p domain.Product
		var v domain.ProductVariant
		var pCreated string
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.Quantity, &it.Price,
			&p.Title, &p.Description, &p.Inventory, &pCreated,
			&v.Name, &v.Price, &v.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("storage: scan order item: %w", err)
		}
		p.ID = it.ProductID
		if p.CreatedAt, err = parseTime(pCreated); err != nil {
			return nil, err
		}
		v.ID = it.VariantID
		v.ProductID = it.ProductID
		it.Product = &p
		it.Variant = &v
		items = append(items, it)
	}
	return items, rows.Err()
}

// ── Payments ─────────────────────────────────────────────────────────────

func (s *Store) CreatePayment(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	const q = `
		INSERT INTO payments (id, order_id, subtotal, tax, shipping, total, status, last_four, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.OrderID, p.Subtotal, p.Tax, p.Shipping, p.Total, string(p.Status), p.LastFour, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("storage: create payment: %w", err)
	}
	return nil
}

func (s *Store) DeletePaymentByOrder(ctx context.Context, orderID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM payments WHERE order_id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("storage: delete payment for %q: %w", orderID, err)
	}
	return nil
}

func (s *Store) GetPaymentByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	const q = `
		SELECT id, order_id, subtotal, tax, shipping, total, status, last_four, created_at
		FROM   payments WHERE order_id = ?`

	var p domain.Payment
	var createdAt string
	err := s.db.QueryRowContext(ctx, q, orderID).Scan(
		&p.ID, &p.OrderID, &p.Subtotal, &p.Tax, &p.Shipping, &p.Total, &p.Status, &p.LastFour, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: order %s", domain.ErrPaymentNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get payment for %q: %w", orderID, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkOrderApproved completes the payment and approves the order in a single
// transaction. Running it against an already-approved order rewrites the
// same values, which makes payment retries idempotent.
func (s *Store) MarkOrderApproved(ctx context.Context, orderID, lastFour string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin retry tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE payments SET status = ?, last_four = ? WHERE order_id = ?`,
		string(domain.PaymentCompleted), lastFour, orderID)
	if err != nil {
		return fmt.Errorf("storage: complete payment for %q: %w", orderID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: order %s", domain.ErrPaymentNotFound, orderID)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(domain.OrderApproved), formatTime(time.Now().UTC()), orderID)
	if err != nil {
		return fmt.Errorf("storage: approve order %q: %w", orderID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit retry tx: %w", err)
	}
	return nil
}
