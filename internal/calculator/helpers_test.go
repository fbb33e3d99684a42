package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"StockLens/internal/model"
)

var baseDate = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

// generateBars builds days bars with closes start, start+change, ...
func generateBars(days int, start, change float64) []model.PriceBar {
	closes := make([]float64, days)
	p := start
	for i := range closes {
		closes[i] = p
		p += change
	}
	return barsFromCloses(closes)
}

// barsFromCloses builds one bar per close with high/low one unit around it.
func barsFromCloses(closes []float64) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		price := decimal.NewFromFloat(c)
		bars[i] = model.PriceBar{
			Symbol: "TEST",
			Date:   baseDate.AddDate(0, 0, i),
			Open:   price,
			High:   price.Add(decimal.NewFromInt(1)),
			Low:    price.Sub(decimal.NewFromInt(1)),
			Close:  price,
			Volume: 1_000_000,
		}
	}
	return bars
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func mirror(prices []float64, around float64) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = around - p
	}
	return out
}

// Rising prices interleaved with one-day reversals.
var choppyUptrend = []float64{
	100, 102, 101, 103, 102, 104, 103, 105, 104, 106,
	105, 107, 106, 108, 107, 106, 108, 109, 110, 109,
	108, 109, 110, 111, 113, 115, 117, 118, 117, 120,
}

var longUptrend = append(append([]float64{}, choppyUptrend...),
	119, 121, 123, 124, 126, 125, 128, 129, 130, 129,
	129, 131, 133, 134, 136, 135, 138, 139, 140, 139,
	139, 141, 143, 144, 146, 145, 148, 149, 150, 149,
)
