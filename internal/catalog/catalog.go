// Package catalog is the read side of the product catalog: listing and
// detail reads for clients, and server-side re-validation and re-pricing of
// submitted order items. Client-submitted prices are never consulted.
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/checkout-core/internal/cache"
	"github.com/jcmexdev/checkout-core/internal/domain"
)

// Reader is the storage surface the catalog needs.
type Reader interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ResolveVariant(ctx context.Context, productID, variantID string) (float64, error)
}

// Item is one submitted order line, pre-validation. Any price the client
// sent has already been discarded by the transport layer.
type Item struct {
	ProductID string
	VariantID string
	Quantity  int
}

const listTTL = 30 * time.Second

type Lookup struct {
	store Reader
	cache cache.Cache
}

func New(store Reader, c cache.Cache) *Lookup {
	if c == nil {
		c = cache.NoOp{}
	}
	return &Lookup{store: store, cache: c}
}

// ValidateItems resolves every submitted item against the live catalog and
// returns order items carrying the current variant price. Lookups for
// different items are independent and run concurrently; any failure rejects
// the whole batch, so no caller mutates anything on a partially valid cart.
func (l *Lookup) ValidateItems(ctx context.Context, items []Item) ([]domain.OrderItem, error) {
	validated := make([]domain.OrderItem, len(items))

	g, ctx := errgroup.WithContext(ctx)
	for i, it := range items {
		g.Go(func() error {
			price, err := l.store.ResolveVariant(ctx, it.ProductID, it.VariantID)
			if err != nil {
				return err
			}
			validated[i] = domain.OrderItem{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Quantity:  it.Quantity,
				Price:     price,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return validated, nil
}

// ListProducts returns the catalog with variants, served from cache when a
// fresh copy exists. Cache failures degrade to a direct read.
func (l *Lookup) ListProducts(ctx context.Context) ([]domain.Product, error) {
	key := l.cache.Key("products", "all")
	if cached, err := l.cache.Get(ctx, key); err == nil && cached != "" {
		var products []domain.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
	}

	products, err := l.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(products); err == nil {
		if err := l.cache.Set(ctx, key, string(b), listTTL); err != nil {
			slog.WarnContext(ctx, "failed to cache product list", "error", err)
		}
	}
	return products, nil
}

// GetProduct returns one product with variants, cached like ListProducts.
func (l *Lookup) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	key := l.cache.Key("product", id)
	if cached, err := l.cache.Get(ctx, key); err == nil && cached != "" {
		var product domain.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			return &product, nil
		}
	}

	product, err := l.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(product); err == nil {
		if err := l.cache.Set(ctx, key, string(b), listTTL); err != nil {
			slog.WarnContext(ctx, "failed to cache product", "id", id, "error", err)
		}
	}
	return product, nil
}
