package domain

import "time"

// Customer holds the shipping contact captured at checkout. A new row is
// created per order; there is no dedup or merge across orders.
type Customer struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	ZipCode     string    `json:"zipCode"`
	CreatedAt   time.Time `json:"createdAt"`
}
