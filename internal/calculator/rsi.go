package calculator

import "StockLens/internal/model"

const (
	rsiPeriod     = 14
	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// RSI computes the Wilder-smoothed relative strength index over the given period.
// Requires at least period+1 prices; returns 50 otherwise.
func RSI(prices []float64, period int) float64 {
	return guard(len(prices)-1, period, 50.0, func() float64 {
		// Initial average gain/loss over the first `period` changes
		var avgGain, avgLoss float64
		for i := 1; i <= period; i++ {
			gain, loss := splitChange(prices[i] - prices[i-1])
			avgGain += gain
			avgLoss += loss
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)

		for i := period + 1; i < len(prices); i++ {
			gain, loss := splitChange(prices[i] - prices[i-1])
			avgGain = (gain + avgGain*float64(period-1)) / float64(period)
			avgLoss = (loss + avgLoss*float64(period-1)) / float64(period)
		}
		return rsiFromAverages(avgGain, avgLoss)
	})
}

// RSITrend classifies momentum from the RSI at the last two indices.
// Overbought/Oversold thresholds win over direction. Needs 15 prices.
func RSITrend(prices []float64) model.Trend {
	return guard(len(prices), rsiPeriod+1, model.TrendNeutral, func() model.Trend {
		last := len(prices) - 1
		latest := windowRSI(prices, last, rsiPeriod)
		previous := latest
		if last-1 >= rsiPeriod {
			previous = windowRSI(prices, last-1, rsiPeriod)
		}
		return classifyRSI(latest, previous)
	})
}

func classifyRSI(latest, previous float64) model.Trend {
	switch {
	case latest > rsiOverbought:
		return model.TrendOverbought
	case latest < rsiOversold:
		return model.TrendOversold
	case latest > previous:
		return model.TrendBullish
	case latest < previous:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

// windowRSI is the unsmoothed RSI of the period changes ending at index end.
// Gains are averaged over the up days and losses over the down days.
func windowRSI(prices []float64, end, period int) float64 {
	var gainSum, lossSum float64
	var ups, downs int
	for i := end - period + 1; i <= end; i++ {
		gain, loss := splitChange(prices[i] - prices[i-1])
		if gain > 0 {
			gainSum += gain
			ups++
		}
		if loss > 0 {
			lossSum += loss
			downs++
		}
	}
	var avgGain, avgLoss float64
	if ups > 0 {
		avgGain = gainSum / float64(ups)
	}
	if downs > 0 {
		avgLoss = lossSum / float64(downs)
	}
	return rsiFromAverages(avgGain, avgLoss)
}

func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
