// Package calculator derives technical indicators from daily price bars.
//
// Every function is pure: inputs are never mutated and no state is kept between
// calls, so the package is safe for concurrent use. Indicators that need more
// history than supplied return a fixed fallback (0, 50 or Neutral) instead of
// an error; only an empty history is rejected.
package calculator

import (
	"sort"

	"StockLens/internal/model"
)

// InputError reports a history the engine cannot work with at all.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "calculator: " + e.Reason
}

// Series is the normalized engine input: the ascending bars plus the close and
// volume arrays. Index i of every slice refers to the same bar.
type Series struct {
	model.PriceSeries
	Closes  []float64
	Volumes []int64
}

// NormalizeSeries returns an ascending-by-date copy of bars together with the
// aligned close and volume arrays. Duplicate dates are kept in input order.
func NormalizeSeries(bars []model.PriceBar) (Series, error) {
	if len(bars) == 0 {
		return Series{}, &InputError{Reason: "historical data cannot be nil or empty"}
	}

	sorted := make([]model.PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	return Series{
		PriceSeries: model.PriceSeries{Symbol: sorted[0].Symbol, Bars: sorted},
		Closes:      extractCloses(sorted),
		Volumes:     extractVolumes(sorted),
	}, nil
}

func extractCloses(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close.InexactFloat64()
	}
	return closes
}

func extractVolumes(bars []model.PriceBar) []int64 {
	volumes := make([]int64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return volumes
}

// guard is the insufficient-data policy shared by every indicator: fn runs only
// when n >= need (and need is positive), otherwise fallback is returned.
func guard[T any](n, need int, fallback T, fn func() T) T {
	if need <= 0 || n < need {
		return fallback
	}
	return fn()
}
