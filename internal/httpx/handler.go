// Package httpx exposes the settlement pipeline over HTTP/JSON.
package httpx

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jcmexdev/checkout-core/internal/catalog"
	"github.com/jcmexdev/checkout-core/internal/domain"
	"github.com/jcmexdev/checkout-core/internal/orders"
	"github.com/jcmexdev/checkout-core/internal/paycrypt"
	"github.com/jcmexdev/checkout-core/internal/payments"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Handler wires the order service and catalog reads to their routes.
type Handler struct {
	svc        *orders.Service
	catalog    *catalog.Lookup
	privateKey *rsa.PrivateKey
	publicPEM  string
}

func NewHandler(svc *orders.Service, cat *catalog.Lookup, priv *rsa.PrivateKey, publicPEM string) *Handler {
	return &Handler{
		svc:        svc,
		catalog:    cat,
		privateKey: priv,
		publicPEM:  publicPEM,
	}
}

// CreateOrder validates the request shape, decrypts and validates the card
// document, and runs the settlement pipeline. A declined or errored payment
// is still a created order; only pipeline failures map to error responses.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if err := validateCreateOrder(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	card, err := h.decryptCard(req.Payment)
	if err != nil {
		writePaymentPayloadError(w, err)
		return
	}

	items := make([]catalog.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = catalog.Item{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity}
	}

	order, err := h.svc.CreateOrder(r.Context(), orders.CreateOrderInput{
		Customer: orders.CustomerInput{
			FullName:    req.Customer.FullName,
			Email:       req.Customer.Email,
			PhoneNumber: req.Customer.PhoneNumber,
			Address:     req.Customer.Address,
			City:        req.Customer.City,
			State:       req.Customer.State,
			ZipCode:     req.Customer.ZipCode,
		},
		Card:    card,
		Items:   items,
		Outcome: payments.Outcome(req.SimulateOutcome),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, order)
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Order ID is required")
		return
	}

	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

func (h *Handler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	var req RetryPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "orderId is required")
		return
	}

	card, err := h.decryptCard(req.Payment)
	if err != nil {
		writePaymentPayloadError(w, err)
		return
	}

	order, err := h.svc.RetryPayment(r.Context(), req.OrderID, card)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

// PublicKey serves the PEM public key clients encrypt payment documents
// with.
func (h *Handler) PublicKey(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, h.publicPEM)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, products)
}

func (h *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Product ID is required")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, product)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decryptCard reverses the ciphertext envelope and schema-validates the
// card document. Both failure modes are attacker/input-controlled and map
// to 400 at the caller.
func (h *Handler) decryptCard(envelope string) (paycrypt.CardDetails, error) {
	if envelope == "" {
		return paycrypt.CardDetails{}, fmt.Errorf("%w: payment is required", paycrypt.ErrInvalidCard)
	}
	plaintext, err := paycrypt.Decrypt(envelope, h.privateKey)
	if err != nil {
		return paycrypt.CardDetails{}, err
	}
	return paycrypt.DecodeCard(plaintext)
}

func validateCreateOrder(req *CreateOrderRequest) error {
	c := req.Customer
	switch {
	case len(c.FullName) < 3:
		return errors.New("customer.fullName must be at least 3 characters")
	case !emailRe.MatchString(c.Email):
		return errors.New("customer.email must be a valid email address")
	case len(c.PhoneNumber) < 10:
		return errors.New("customer.phoneNumber must be at least 10 characters")
	case len(c.Address) < 5:
		return errors.New("customer.address must be at least 5 characters")
	case len(c.City) < 2:
		return errors.New("customer.city must be at least 2 characters")
	case len(c.State) < 2:
		return errors.New("customer.state must be at least 2 characters")
	case len(c.ZipCode) < 5:
		return errors.New("customer.zipCode must be at least 5 characters")
	}

	if len(req.Items) == 0 {
		return errors.New("items must contain at least one entry")
	}
	for i, it := range req.Items {
		if uuid.Validate(it.ProductID) != nil {
			return fmt.Errorf("items[%d].productId must be a UUID", i)
		}
		if uuid.Validate(it.VariantID) != nil {
			return fmt.Errorf("items[%d].variantId must be a UUID", i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("items[%d].quantity must be positive", i)
		}
	}
	return nil
}

func writePaymentPayloadError(w http.ResponseWriter, err error) {
	code := "PAYLOAD_VALIDATION_FAILED"
	if errors.Is(err, paycrypt.ErrDecrypt) {
		code = "PAYLOAD_DECRYPTION_FAILED"
	}
	writeError(w, http.StatusBadRequest, code, err.Error())
}

// writeServiceError maps pipeline errors to the HTTP taxonomy.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrVariantNotFound):
		writeError(w, http.StatusNotFound, "VARIANT_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "PAYMENT_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInsufficientInventory):
		writeError(w, http.StatusConflict, "INSUFFICIENT_INVENTORY", err.Error())
	case errors.Is(err, orders.ErrNotification):
		writeError(w, http.StatusBadGateway, "EMAIL_NOT_SENT", err.Error())
	case errors.Is(err, orders.ErrOrderPersistence):
		writeError(w, http.StatusInternalServerError, "ORDER_ERROR", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: &APIError{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
