package orders

import (
	"context"
	"fmt"

	"github.com/jcmexdev/checkout-core/internal/domain"
	"github.com/jcmexdev/checkout-core/internal/storage"
)

// The settlement write sequence runs as saga steps so a failure at any point
// unwinds every earlier write. Ordering is fixed: customer before order,
// order before items, items before inventory, inventory before payment.

// --- persistCustomerStep ---

type persistCustomerStep struct {
	store    *storage.Store
	customer *domain.Customer
}

func (s *persistCustomerStep) Name() string { return "persist_customer" }

func (s *persistCustomerStep) Execute(ctx context.Context) error {
	if err := s.store.CreateCustomer(ctx, s.customer); err != nil {
		return fmt.Errorf("persist customer: %w", err)
	}
	return nil
}

func (s *persistCustomerStep) Compensate(ctx context.Context) error {
	return s.store.DeleteCustomer(ctx, s.customer.ID)
}

// --- persistOrderStep ---

type persistOrderStep struct {
	store *storage.Store
	order *domain.Order
}

func (s *persistOrderStep) Name() string { return "persist_order" }

func (s *persistOrderStep) Execute(ctx context.Context) error {
	if err := s.store.CreateOrder(ctx, s.order); err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	return nil
}

func (s *persistOrderStep) Compensate(ctx context.Context) error {
	return s.store.DeleteOrder(ctx, s.order.ID)
}

// --- persistItemsStep ---

type persistItemsStep struct {
	store *storage.Store
	order *domain.Order
	items []domain.OrderItem
}

func (s *persistItemsStep) Name() string { return "persist_order_items" }

func (s *persistItemsStep) Execute(ctx context.Context) error {
	if err := s.store.CreateOrderItems(ctx, s.order.ID, s.items); err != nil {
		return fmt.Errorf("persist order items: %w", err)
	}
	return nil
}

func (s *persistItemsStep) Compensate(ctx context.Context) error {
	return s.store.DeleteOrderItems(ctx, s.order.ID)
}

// --- decrementInventoryStep ---

// decrementInventoryStep applies the conditional decrement per item and
// remembers how far it got, so a failure on the Nth item restores only the
// N-1 decrements that actually happened.
type decrementInventoryStep struct {
	store   *storage.Store
	items   []domain.OrderItem
	applied int
}

func (s *decrementInventoryStep) Name() string { return "decrement_inventory" }

func (s *decrementInventoryStep) Execute(ctx context.Context) error {
	for _, it := range s.items {
		if err := s.store.DecrementInventory(ctx, it.ProductID, it.Quantity); err != nil {
			// Roll back this step's own partial work; earlier steps are
			// compensated by the orchestrator.
			s.restore(ctx)
			return fmt.Errorf("decrement inventory: %w", err)
		}
		s.applied++
	}
	return nil
}

func (s *decrementInventoryStep) Compensate(ctx context.Context) error {
	return s.restore(ctx)
}

func (s *decrementInventoryStep) restore(ctx context.Context) error {
	var firstErr error
	for i := s.applied - 1; i >= 0; i-- {
		it := s.items[i]
		if err := s.store.RestoreInventory(ctx, it.ProductID, it.Quantity); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.applied = 0
	return firstErr
}

// --- recordPaymentStep ---

type recordPaymentStep struct {
	store   *storage.Store
	payment *domain.Payment
}

func (s *recordPaymentStep) Name() string { return "record_payment" }

func (s *recordPaymentStep) Execute(ctx context.Context) error {
	if err := s.store.CreatePayment(ctx, s.payment); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}

func (s *recordPaymentStep) Compensate(ctx context.Context) error {
	return s.store.DeletePaymentByOrder(ctx, s.payment.OrderID)
}
