package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/checkout-core/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedProduct(t *testing.T, store *Store, inventory int, prices ...float64) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Title:     "Trail Jacket",
		Inventory: inventory,
	}
	for i, price := range prices {
		p.Variants = append(p.Variants, domain.ProductVariant{
			Name:  []string{"Small", "Medium", "Large"}[i%3],
			Price: price,
		})
	}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func TestResolveVariant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, store, 10, 49.99, 54.99)

	price, err := store.ResolveVariant(ctx, p.ID, p.Variants[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 54.99, price)

	_, err = store.ResolveVariant(ctx, "missing-product", p.Variants[0].ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = store.ResolveVariant(ctx, p.ID, "missing-variant")
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}

func TestDecrementInventoryConditional(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, store, 5, 10.00)

	require.NoError(t, store.DecrementInventory(ctx, p.ID, 3))

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Inventory)

	// Remaining stock cannot cover this; inventory must stay untouched.
	err = store.DecrementInventory(ctx, p.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)

	got, err = store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Inventory)

	err = store.DecrementInventory(ctx, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRestoreInventory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, store, 5, 10.00)

	require.NoError(t, store.DecrementInventory(ctx, p.ID, 4))
	require.NoError(t, store.RestoreInventory(ctx, p.ID, 4))

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Inventory)
}

func createOrderFixture(t *testing.T, store *Store, p *domain.Product) *domain.Order {
	t.Helper()
	ctx := context.Background()

	customer := &domain.Customer{
		FullName: "Ada Lovelace", Email: "ada@example.com", PhoneNumber: "5550001111",
		Address: "12 Analytical Way", City: "London", State: "LD", ZipCode: "10001",
	}
	require.NoError(t, store.CreateCustomer(ctx, customer))

	order := &domain.Order{
		OrderNumber: "ORD-000001-0001",
		Status:      domain.OrderApproved,
		CustomerID:  customer.ID,
	}
	require.NoError(t, store.CreateOrder(ctx, order))

	items := []domain.OrderItem{{
		ProductID: p.ID,
		VariantID: p.Variants[0].ID,
		Quantity:  2,
		Price:     p.Variants[0].Price,
	}}
	require.NoError(t, store.CreateOrderItems(ctx, order.ID, items))

	payment := &domain.Payment{
		OrderID: order.ID, Subtotal: 99.98, Tax: 8.00, Shipping: 15.99, Total: 123.97,
		Status: domain.PaymentCompleted, LastFour: "4242",
	}
	require.NoError(t, store.CreatePayment(ctx, payment))

	return order
}

func TestGetOrderJoined(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, store, 10, 49.99)
	order := createOrderFixture(t, store, p)

	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.OrderNumber, got.OrderNumber)
	assert.Equal(t, domain.OrderApproved, got.Status)

	require.NotNil(t, got.Customer)
	assert.Equal(t, "Ada Lovelace", got.Customer.FullName)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 49.99, got.Items[0].Price)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "Trail Jacket", got.Items[0].Product.Title)
	require.NotNil(t, got.Items[0].Variant)
	assert.Equal(t, "Small", got.Items[0].Variant.Name)

	require.NotNil(t, got.Payment)
	assert.Equal(t, domain.PaymentCompleted, got.Payment.Status)
	assert.Equal(t, "4242", got.Payment.LastFour)
}

func TestGetOrderNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetOrder(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCreateOrderDuplicateNumber(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	customer := &domain.Customer{
		FullName: "Ada Lovelace", Email: "ada@example.com", PhoneNumber: "5550001111",
		Address: "12 Analytical Way", City: "London", State: "LD", ZipCode: "10001",
	}
	require.NoError(t, store.CreateCustomer(ctx, customer))

	first := &domain.Order{OrderNumber: "ORD-111111-2222", Status: domain.OrderApproved, CustomerID: customer.ID}
	require.NoError(t, store.CreateOrder(ctx, first))

	dup := &domain.Order{OrderNumber: "ORD-111111-2222", Status: domain.OrderApproved, CustomerID: customer.ID}
	err := store.CreateOrder(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateOrderNumber)
}

func TestPaymentUniquePerOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, store, 10, 49.99)
	order := createOrderFixture(t, store, p)

	second := &domain.Payment{
		OrderID: order.ID, Subtotal: 1, Tax: 0.08, Shipping: 15.99, Total: 17.07,
		Status: domain.PaymentPending,
	}
	assert.Error(t, store.CreatePayment(ctx, second))
}

func TestGetPaymentByOrderNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPaymentByOrder(context.Background(), "no-order")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestMarkOrderApproved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	customer := &domain.Customer{
		FullName: "Ada Lovelace", Email: "ada@example.com", PhoneNumber: "5550001111",
		Address: "12 Analytical Way", City: "London", State: "LD", ZipCode: "10001",
	}
	require.NoError(t, store.CreateCustomer(ctx, customer))

	order := &domain.Order{OrderNumber: "ORD-222222-3333", Status: domain.OrderDeclined, CustomerID: customer.ID}
	require.NoError(t, store.CreateOrder(ctx, order))

	payment := &domain.Payment{
		OrderID: order.ID, Subtotal: 99.98, Tax: 8.00, Shipping: 15.99, Total: 123.97,
		Status: domain.PaymentPending,
	}
	require.NoError(t, store.CreatePayment(ctx, payment))

	require.NoError(t, store.MarkOrderApproved(ctx, order.ID, "4242"))

	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderApproved, got.Status)
	assert.Equal(t, domain.PaymentCompleted, got.Payment.Status)
	assert.Equal(t, "4242", got.Payment.LastFour)
}

func TestMarkOrderApprovedMissingPayment(t *testing.T) {
	store := newTestStore(t)

	err := store.MarkOrderApproved(context.Background(), "no-order", "4242")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestDeleteCompensations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, store, 10, 49.99)
	order := createOrderFixture(t, store, p)

	require.NoError(t, store.DeletePaymentByOrder(ctx, order.ID))
	require.NoError(t, store.DeleteOrderItems(ctx, order.ID))
	require.NoError(t, store.DeleteOrder(ctx, order.ID))
	require.NoError(t, store.DeleteCustomer(ctx, order.CustomerID))

	_, err := store.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListProducts(t *testing.T) {
	store := newTestStore(t)
	seedProduct(t, store, 3, 49.99, 54.99)
	seedProduct(t, store, 7, 19.99)

	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	total := 0
	for _, p := range products {
		total += len(p.Variants)
	}
	assert.Equal(t, 3, total)
}
