package httpx

// CreateOrderRequest is the checkout submission. Payment is a base64
// ciphertext envelope, not a card object: card data is RSA-encrypted
// client-side and only decrypted behind this boundary. Items deliberately
// carry no price field; pricing is server-resolved.
type CreateOrderRequest struct {
	Customer        CustomerDTO    `json:"customer"`
	Payment         string         `json:"payment"`
	Items           []OrderItemDTO `json:"items"`
	SimulateOutcome int            `json:"simulateOutcome"`
}

type CustomerDTO struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
}

type OrderItemDTO struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type RetryPaymentRequest struct {
	OrderID string `json:"orderId"`
	Payment string `json:"payment"`
}

// Envelope is the uniform response shape: {success, data?, error?}.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
