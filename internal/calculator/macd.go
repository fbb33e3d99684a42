package calculator

import "StockLens/internal/model"

const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
)

// MACDResult holds the latest MACD line, signal and histogram values.
type MACDResult struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MACD computes the 12/26 MACD line and its 9-period EMA signal. The result is
// all zero until the MACD line has at least 9 points (34 prices).
func MACD(prices []float64) MACDResult {
	fast := EMASeries(prices, macdFastPeriod)
	slow := EMASeries(prices, macdSlowPeriod)

	line := make([]float64, 0, len(prices))
	for i := range prices {
		if Defined(fast[i]) && Defined(slow[i]) {
			line = append(line, fast[i]-slow[i])
		}
	}

	return guard(len(line), macdSignalPeriod, MACDResult{}, func() MACDResult {
		signal := EMASeries(line, macdSignalPeriod)
		l := line[len(line)-1]
		s := signal[len(signal)-1]
		if !Defined(s) {
			s = 0
		}
		return MACDResult{Line: l, Signal: s, Histogram: l - s}
	})
}

// MACDState labels the crossover. Both the line/signal order and the histogram
// sign must agree; anything else, including a zero histogram, is Neutral.
func MACDState(line, signal, histogram float64) model.Trend {
	switch {
	case line > signal && histogram > 0:
		return model.TrendBullish
	case line < signal && histogram < 0:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}
