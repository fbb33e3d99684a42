package collector

import (
	"context"
	"time"

	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

// StoreFetcher serves bars previously persisted by the recorder, for offline
// analysis without a network provider.
type StoreFetcher struct {
	Recorder recorder.Recorder
}

func (s *StoreFetcher) Name() string { return "store" }

func (s *StoreFetcher) FetchDailyBars(ctx context.Context, symbol, exchange string, from, to time.Time) ([]model.PriceBar, error) {
	all, err := s.Recorder.LoadBars(ctx, symbol, exchange)
	if err != nil {
		return nil, err
	}
	lo, hi := truncateDay(from), truncateDay(to)
	bars := all[:0]
	for _, b := range all {
		d := b.Day()
		if d.Before(lo) || d.After(hi) {
			continue
		}
		bars = append(bars, b)
	}
	return bars, nil
}
