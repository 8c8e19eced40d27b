package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/orders", handler.CreateOrder)
	r.Post("/orders/retry-payment", handler.RetryPayment)
	r.Get("/orders/{id}", handler.GetOrderByID)
	r.Get("/public-key", handler.PublicKey)
	r.Get("/products", handler.ListProducts)
	r.Get("/products/{id}", handler.GetProductByID)
	r.Get("/health", handler.Health)

	return r
}
