package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrPaymentNotFound = errors.New("payment details not found")

	// ErrInsufficientInventory is returned by the conditional inventory
	// decrement when the remaining stock cannot cover the requested quantity.
	ErrInsufficientInventory = errors.New("insufficient inventory")
)
