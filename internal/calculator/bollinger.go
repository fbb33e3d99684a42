package calculator

import "math"

// Bands holds Bollinger Band levels and the %B position of the current price.
type Bands struct {
	Upper    float64
	Middle   float64
	Lower    float64
	PercentB float64
}

// BollingerBands computes SMA(period) ± deviations·σ using the population
// standard deviation of the trailing window. %B is 0.5 when the bands collapse.
// All values are 0 with fewer than period prices.
func BollingerBands(prices []float64, period int, deviations, current float64) Bands {
	return guard(len(prices), period, Bands{}, func() Bands {
		window := prices[len(prices)-period:]
		middle := mean(window)

		variance := 0.0
		for _, p := range window {
			d := p - middle
			variance += d * d
		}
		variance /= float64(period)
		stdDev := math.Sqrt(variance)

		b := Bands{
			Upper:    middle + deviations*stdDev,
			Middle:   middle,
			Lower:    middle - deviations*stdDev,
			PercentB: 0.5,
		}
		if width := b.Upper - b.Lower; width != 0 {
			b.PercentB = (current - b.Lower) / width
		}
		return b
	})
}
