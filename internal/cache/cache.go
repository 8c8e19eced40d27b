// Package cache provides the read-cache port used by the catalog layer.
package cache

import (
	"context"
	"fmt"
	"time"
)

type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Key(operation, key string) string
}

// NoOp satisfies Cache without caching anything. Used when no redis address
// is configured and in tests.
type NoOp struct{}

func (NoOp) Set(context.Context, string, string, time.Duration) error { return nil }

func (NoOp) Get(context.Context, string) (string, error) { return "", nil }

func (NoOp) Key(operation, key string) string {
	return fmt.Sprintf("%s:%s", operation, key)
}
