package calculator

import "math"

// SMA returns the mean of the trailing period prices, or 0 if there are fewer
// than period values.
func SMA(prices []float64, period int) float64 {
	return guard(len(prices), period, 0, func() float64 {
		return mean(prices[len(prices)-period:])
	})
}

// EMA returns the exponential moving average at the last index, seeded with the
// mean of the first period prices. Returns 0 if there are fewer than period values.
func EMA(prices []float64, period int) float64 {
	return guard(len(prices), period, 0, func() float64 {
		series := EMASeries(prices, period)
		return series[len(series)-1]
	})
}

// EMASeries returns the EMA at every index of prices. Indices before period-1
// are undefined (NaN, see Defined); index period-1 holds the SMA seed.
func EMASeries(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(prices) < period {
		return out
	}

	alpha := 2.0 / float64(period+1)
	ema := mean(prices[:period])
	out[period-1] = ema
	for i := period; i < len(prices); i++ {
		ema += alpha * (prices[i] - ema)
		out[i] = ema
	}
	return out
}

// Defined reports whether a series value was computed.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
