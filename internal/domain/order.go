package domain

import "time"

// OrderStatus is the business-facing lifecycle state of an order. It is
// distinct from HTTP-level success: a declined payment is still a
// successfully created order.
type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderApproved OrderStatus = "APPROVED"
	OrderDeclined OrderStatus = "DECLINED"
	OrderError    OrderStatus = "ERROR"
)

type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Status      OrderStatus `json:"status"`
	CustomerID  string      `json:"customerId"`
	Customer    *Customer   `json:"customer,omitempty"`
	Items       []OrderItem `json:"items"`
	Payment     *Payment    `json:"payment,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderItem binds an order to a (product, variant) pair. Price is the
// variant's catalog price captured at validation time, never a value
// submitted by the client.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	Quantity  int             `json:"quantity"`
	Price     float64         `json:"price"`
	Product   *Product        `json:"product,omitempty"`
	Variant   *ProductVariant `json:"variant,omitempty"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}
