package recorder

import (
	"context"

	"StockLens/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (NoopRecorder) SaveBars(context.Context, string, string, []model.PriceBar) (int, error) {
	return 0, nil
}
func (NoopRecorder) LoadBars(context.Context, string, string) ([]model.PriceBar, error) {
	return nil, nil
}
func (NoopRecorder) RecordAnalysis(context.Context, *model.Analysis) (string, error) {
	return "", nil
}
func (NoopRecorder) LatestAnalysis(context.Context, string, string) (*model.Analysis, error) {
	return nil, ErrNotFound
}
func (NoopRecorder) Close() error { return nil }
