package calculator

import (
	"github.com/shopspring/decimal"

	"StockLens/internal/model"
)

// tradingYear is the number of daily bars treated as 52 weeks.
const tradingYear = 252

var hundred = decimal.NewFromInt(100)

// DayChangePercent compares current's close with the second-to-last bar of the
// ascending series. Returns 0 with fewer than 2 bars or a zero previous close.
func DayChangePercent(sorted []model.PriceBar, current model.PriceBar) float64 {
	return guard(len(sorted), 2, 0.0, func() float64 {
		prev := sorted[len(sorted)-2].Close
		if prev.IsZero() {
			return 0
		}
		return current.Close.Sub(prev).Div(prev).Mul(hundred).InexactFloat64()
	})
}

// Week52Range scans the most recent 252 bars and returns the highest high and
// lowest low. Both are 0 when less than a trading year is available.
func Week52Range(sorted []model.PriceBar) (high, low float64) {
	type hl struct{ high, low float64 }
	r := guard(len(sorted), tradingYear, hl{}, func() hl {
		window := sorted[len(sorted)-tradingYear:]
		h, l := window[0].High, window[0].Low
		for _, b := range window[1:] {
			if b.High.GreaterThan(h) {
				h = b.High
			}
			if b.Low.LessThan(l) {
				l = b.Low
			}
		}
		return hl{h.InexactFloat64(), l.InexactFloat64()}
	})
	return r.high, r.low
}

// PriceVsSMA reports whether price is above or below sma. Empty when the
// average was not computable.
func PriceVsSMA(price, sma float64) model.Position {
	if sma <= 0 {
		return ""
	}
	if price > sma {
		return model.PositionAbove
	}
	return model.PositionBelow
}
