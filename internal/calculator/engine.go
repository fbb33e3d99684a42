package calculator

import (
	"time"

	"StockLens/internal/model"
)

const (
	bollingerPeriod     = 20
	bollingerDeviations = 2.0
	volumePeriod        = 20
)

// now is replaced in tests.
var now = time.Now

// CalculateIndicators derives the full indicator report from history. current
// is the bar treated as "today"; it is normally the newest bar of history but
// only its close and volume are used. An empty history is the only error.
func CalculateIndicators(history []model.PriceBar, current model.PriceBar) (model.IndicatorReport, error) {
	series, err := NormalizeSeries(history)
	if err != nil {
		return model.IndicatorReport{}, err
	}
	closes := series.Closes
	price := current.Close.InexactFloat64()

	r := model.IndicatorReport{
		CurrentPrice:     price,
		DayChangePercent: DayChangePercent(series.Bars, current),
		ComputedAt:       now().UTC(),
	}

	// Moving averages
	r.SMA20 = SMA(closes, 20)
	r.SMA50 = SMA(closes, 50)
	r.SMA200 = SMA(closes, 200)
	r.EMA12 = EMA(closes, macdFastPeriod)
	r.EMA26 = EMA(closes, macdSlowPeriod)

	// Momentum
	r.RSI14 = RSI(closes, rsiPeriod)
	r.RSITrend = RSITrend(closes)

	macd := MACD(closes)
	r.MACDLine = macd.Line
	r.MACDSignal = macd.Signal
	r.MACDHistogram = macd.Histogram
	r.MACDState = MACDState(macd.Line, macd.Signal, macd.Histogram)

	// Volatility
	bands := BollingerBands(closes, bollingerPeriod, bollingerDeviations, price)
	r.BollingerUpper = bands.Upper
	r.BollingerMiddle = bands.Middle
	r.BollingerLower = bands.Lower
	r.BollingerPercentB = bands.PercentB

	// Volume
	r.AverageVolume20 = AverageVolume(series.Volumes, volumePeriod)
	r.VolumeChangePercent = VolumeChangePercent(current.Volume, r.AverageVolume20)
	r.OBV = OBV(closes, series.Volumes)
	r.OBVTrend = OBVTrend(r.OBV)

	// Price context
	r.Week52High, r.Week52Low = Week52Range(series.Bars)
	r.PriceVsSMA50 = PriceVsSMA(price, r.SMA50)
	r.PriceVsSMA200 = PriceVsSMA(price, r.SMA200)

	return r, nil
}
