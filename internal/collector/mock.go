package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"StockLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.PriceBar // returned as-is when non-nil
	Err   error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many times FetchDailyBars ran.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol, _ string, from, to time.Time) ([]model.PriceBar, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	price := m.Price
	if price <= 0 {
		price = 100
	}
	return generateMockBars(symbol, price, from, to), nil
}

// generateMockBars produces one bar per weekday in [from, to] following a
// slow drift with a sine wave on top, so every indicator has something to do.
func generateMockBars(symbol string, basePrice float64, from, to time.Time) []model.PriceBar {
	var bars []model.PriceBar
	i := 0
	for d := truncateDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.0005*float64(i)) * (1 + 0.02*math.Sin(float64(i)/6))
		c := decimal.NewFromFloat(p).Round(2)
		bars = append(bars, model.PriceBar{
			Symbol: symbol,
			Date:   d,
			Open:   decimal.NewFromFloat(p * 0.999).Round(2),
			High:   decimal.NewFromFloat(p * 1.005).Round(2),
			Low:    decimal.NewFromFloat(p * 0.995).Round(2),
			Close:  c,
			Volume: 1_000_000 + int64(i%7)*50_000,
		})
		i++
	}
	return bars
}
