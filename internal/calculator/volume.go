package calculator

import "StockLens/internal/model"

const obvTrendWindow = 10

// AverageVolume returns the truncated mean of the trailing period volumes, or 0
// with fewer than period values.
func AverageVolume(volumes []int64, period int) int64 {
	return guard(len(volumes), period, int64(0), func() int64 {
		var sum int64
		for _, v := range volumes[len(volumes)-period:] {
			sum += v
		}
		return sum / int64(period)
	})
}

// VolumeChangePercent compares a volume against an average, in percent.
// Returns 0 when the average is not positive.
func VolumeChangePercent(current, average int64) float64 {
	if average <= 0 {
		return 0
	}
	return float64(current-average) / float64(average) * 100
}

// OBV returns the on-balance-volume series aligned with closes. OBV[0] is 0;
// each later bar adds its volume on an up close and subtracts it on a down close.
func OBV(closes []float64, volumes []int64) []int64 {
	obv := make([]int64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv[i] = obv[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			obv[i] = obv[i-1] - volumes[i]
		default:
			obv[i] = obv[i-1]
		}
	}
	return obv
}

// OBVTrend compares the last OBV value with the one 9 bars earlier.
func OBVTrend(obv []int64) model.Trend {
	return guard(len(obv), obvTrendWindow, model.TrendNeutral, func() model.Trend {
		first := obv[len(obv)-obvTrendWindow]
		last := obv[len(obv)-1]
		switch {
		case last > first:
			return model.TrendBullish
		case last < first:
			return model.TrendBearish
		default:
			return model.TrendNeutral
		}
	})
}
