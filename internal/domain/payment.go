package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// Payment is one-to-one with an order. LastFour is stored only after a
// successful authorization; no other card data is ever persisted.
type Payment struct {
	ID        string        `json:"id"`
	OrderID   string        `json:"orderId"`
	Subtotal  float64       `json:"subtotal"`
	Tax       float64       `json:"tax"`
	Shipping  float64       `json:"shipping"`
	Total     float64       `json:"total"`
	Status    PaymentStatus `json:"status"`
	LastFour  string        `json:"lastFour,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}
