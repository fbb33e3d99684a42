package recorder

import (
	"context"
	"errors"

	"StockLens/internal/model"
)

// ErrNotFound is returned when no stored analysis exists for a ticker.
var ErrNotFound = errors.New("recorder: not found")

// Recorder persists price history and computed analyses.
type Recorder interface {
	// SaveBars stores bars for a ticker, skipping dates already present.
	// It returns the number of new rows.
	SaveBars(ctx context.Context, symbol, exchange string, bars []model.PriceBar) (int, error)
	// LoadBars returns all stored bars for a ticker in ascending date order.
	LoadBars(ctx context.Context, symbol, exchange string) ([]model.PriceBar, error)
	// RecordAnalysis stores one computed analysis and returns its id.
	RecordAnalysis(ctx context.Context, a *model.Analysis) (string, error)
	// LatestAnalysis returns the most recently recorded analysis for a ticker.
	LatestAnalysis(ctx context.Context, symbol, exchange string) (*model.Analysis, error)
	Close() error
}
