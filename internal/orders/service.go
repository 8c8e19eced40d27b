// Package orders orchestrates the order-settlement pipeline: item
// validation and re-pricing, simulated payment authorization, the
// compensated persistence sequence, and outcome notification.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/checkout-core/internal/catalog"
	"github.com/jcmexdev/checkout-core/internal/domain"
	"github.com/jcmexdev/checkout-core/internal/paycrypt"
	"github.com/jcmexdev/checkout-core/internal/payments"
	"github.com/jcmexdev/checkout-core/internal/pricing"
	"github.com/jcmexdev/checkout-core/internal/saga"
	"github.com/jcmexdev/checkout-core/internal/saga/sagalog"
	"github.com/jcmexdev/checkout-core/internal/storage"
)

var (
	// ErrOrderPersistence signals that the reload after a committed
	// settlement returned nothing; a data corruption signal, not a
	// client error.
	ErrOrderPersistence = errors.New("failed to load complete order")

	// ErrNotification is returned when the outcome email cannot be sent.
	// The order and payment rows are already committed at that point, so
	// callers see a failed call for an order that is still retrievable.
	ErrNotification = errors.New("could not send order email")
)

// Dispatcher sends the status-appropriate email for a settled order.
type Dispatcher interface {
	Send(ctx context.Context, order *domain.Order) error
}

// CustomerInput is the shipping contact submitted at checkout.
type CustomerInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Address     string
	City        string
	State       string
	ZipCode     string
}

// CreateOrderInput carries one checkout. Card details arrive already
// decrypted and schema-validated by the transport layer.
type CreateOrderInput struct {
	Customer CustomerInput
	Card     paycrypt.CardDetails
	Items    []catalog.Item
	Outcome  payments.Outcome
}

type Service struct {
	store      *storage.Store
	catalog    *catalog.Lookup
	authorizer payments.Authorizer
	dispatcher Dispatcher
	sagaLog    sagalog.Repository
	tracer     trace.Tracer
}

func NewService(store *storage.Store, cat *catalog.Lookup, auth payments.Authorizer, d Dispatcher, log sagalog.Repository) *Service {
	return &Service{
		store:      store,
		catalog:    cat,
		authorizer: auth,
		dispatcher: d,
		sagaLog:    log,
		tracer:     otel.Tracer("orders"),
	}
}

// CreateOrder settles one checkout and returns the fully joined order.
// Declined and errored payments are not errors: the outcome lives in the
// order status.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.CreateOrder")
	defer span.End()

	// Validate and re-price every item before anything is written, so a
	// bad later item cannot strand earlier writes.
	items, err := s.catalog.ValidateItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.LineItem, len(items))
	for i, it := range items {
		lines[i] = pricing.LineItem{Price: it.Price, Quantity: it.Quantity}
	}
	totals := pricing.Compute(lines)

	result, err := s.authorizer.Authorize(ctx, totals.Total, in.Card, in.Outcome)
	if err != nil {
		return nil, fmt.Errorf("authorize payment: %w", err)
	}

	customer := &domain.Customer{
		FullName:    in.Customer.FullName,
		Email:       in.Customer.Email,
		PhoneNumber: in.Customer.PhoneNumber,
		Address:     in.Customer.Address,
		City:        in.Customer.City,
		State:       in.Customer.State,
		ZipCode:     in.Customer.ZipCode,
	}

	order := &domain.Order{
		Status: orderStatusFor(result),
	}

	payment := &domain.Payment{
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Shipping: totals.Shipping,
		Total:    totals.Total,
		Status:   domain.PaymentPending,
	}
	if result.Approved {
		payment.Status = domain.PaymentCompleted
		payment.LastFour = result.LastFour
	}

	if err := s.settle(ctx, customer, order, items, payment); err != nil {
		return nil, err
	}

	full, err := s.store.GetOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrOrderPersistence, order.ID)
		}
		return nil, err
	}

	if err := s.dispatcher.Send(ctx, full); err != nil {
		slog.ErrorContext(ctx, "order committed but email dispatch failed",
			"order_id", full.ID, "status", full.Status, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNotification, err)
	}

	slog.InfoContext(ctx, "order settled",
		"order_id", full.ID, "order_number", full.OrderNumber, "status", full.Status, "total", payment.Total)
	return full, nil
}

// settle runs the persistence saga. The generated order number is only
// probabilistically unique, so a UNIQUE conflict regenerates it and reruns
// the whole (already compensated) sequence.
func (s *Service) settle(ctx context.Context, customer *domain.Customer, order *domain.Order, items []domain.OrderItem, payment *domain.Payment) error {
	const maxAttempts = 3

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		customer.ID = uuid.NewString()
		order.ID = uuid.NewString()
		order.OrderNumber = generateOrderNumber()
		order.CustomerID = customer.ID
		payment.ID = uuid.NewString()
		payment.OrderID = order.ID

		steps := []saga.Step{
			&persistCustomerStep{store: s.store, customer: customer},
			&persistOrderStep{store: s.store, order: order},
			&persistItemsStep{store: s.store, order: order, items: items},
			&decrementInventoryStep{store: s.store, items: items},
			&recordPaymentStep{store: s.store, payment: payment},
		}

		err = saga.NewOrchestrator(order.ID, steps, s.sagaLog).Start(ctx)
		if err == nil || !errors.Is(err, storage.ErrDuplicateOrderNumber) {
			return err
		}
		slog.WarnContext(ctx, "order number collision, regenerating",
			"order_number", order.OrderNumber, "attempt", attempt+1)
	}
	return err
}

// GetOrder returns the fully joined order.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// RetryPayment re-authorizes a failed order on the approved branch and
// transitions it to APPROVED with a COMPLETED payment. Items are not
// re-validated: the original inventory reservation still holds. Calling it
// on an already-approved order re-confirms the same state.
func (s *Service) RetryPayment(ctx context.Context, orderID string, card paycrypt.CardDetails) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.RetryPayment")
	defer span.End()

	payment, err := s.store.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result, err := s.authorizer.Authorize(ctx, payment.Total, card, payments.OutcomeApproved)
	if err != nil {
		return nil, fmt.Errorf("authorize payment retry: %w", err)
	}

	if err := s.store.MarkOrderApproved(ctx, orderID, result.LastFour); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "payment retry completed", "order_id", orderID)
	return s.store.GetOrder(ctx, orderID)
}

func orderStatusFor(result payments.Result) domain.OrderStatus {
	switch {
	case result.Approved:
		return domain.OrderApproved
	case result.Code == payments.CodeTransactionDeclined:
		return domain.OrderDeclined
	case result.Code == payments.CodeGatewayFailure:
		return domain.OrderError
	default:
		return domain.OrderPending
	}
}

// generateOrderNumber builds the human-readable display number: the last six
// digits of the current unix-milli timestamp plus a four-digit random
// suffix. Uniqueness is enforced by the storage constraint, not here.
func generateOrderNumber() string {
	ts := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("ORD-%06d-%04d", ts, rand.Intn(10_000))
}
