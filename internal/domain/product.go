package domain

import "time"

// Product is a catalog entry. Inventory is decremented by order creation
// only; nothing in this service increments it.
type Product struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Inventory   int              `json:"inventory"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ProductVariant is a purchasable configuration of a product carrying its
// own price and stock image.
type ProductVariant struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
}
