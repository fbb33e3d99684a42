// Package cache keeps recently computed analyses so repeated requests for the
// same ticker do not hit the data provider.
package cache

import (
	"context"
	"time"

	"StockLens/internal/model"
)

// Cache stores analyses by key. Get reports a miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (a *model.Analysis, ok bool, err error)
	Set(ctx context.Context, key string, a *model.Analysis, ttl time.Duration) error
	Close() error
}

// Key returns the cache key for a ticker.
func Key(symbol, exchange string) string {
	return "stock_" + symbol + "." + exchange
}

// Noop never stores anything.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (Noop) Get(context.Context, string) (*model.Analysis, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, *model.Analysis, time.Duration) error {
	return nil
}
func (Noop) Close() error { return nil }
