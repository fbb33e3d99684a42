package model

import "time"

// Trend is a qualitative label derived from an indicator.
type Trend string

const (
	TrendBullish    Trend = "Bullish"
	TrendBearish    Trend = "Bearish"
	TrendNeutral    Trend = "Neutral"
	TrendOverbought Trend = "Overbought"
	TrendOversold   Trend = "Oversold"
)

// Position describes where the current price sits relative to a moving average.
// It is empty when the average could not be computed.
type Position string

const (
	PositionAbove Position = "Above"
	PositionBelow Position = "Below"
)

// IndicatorReport holds all computed technical indicators for one series.
// Numeric fields are 0 and labels Neutral (or empty) when the history was too short.
type IndicatorReport struct {
	// Trend moving averages
	SMA20  float64 `json:"sma_20"`
	SMA50  float64 `json:"sma_50"`
	SMA200 float64 `json:"sma_200"`
	EMA12  float64 `json:"ema_12"`
	EMA26  float64 `json:"ema_26"`

	// Oscillator
	RSI14    float64 `json:"rsi_14"`
	RSITrend Trend   `json:"rsi_trend"`

	// MACD
	MACDLine      float64 `json:"macd_line"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`
	MACDState     Trend   `json:"macd_state"`

	// Bollinger Bands
	BollingerUpper    float64 `json:"bollinger_upper"`
	BollingerMiddle   float64 `json:"bollinger_middle"`
	BollingerLower    float64 `json:"bollinger_lower"`
	BollingerPercentB float64 `json:"bollinger_percent_b"`

	// Volume
	AverageVolume20     int64   `json:"average_volume_20"`
	VolumeChangePercent float64 `json:"volume_change_percent"`
	OBV                 []int64 `json:"obv"`
	OBVTrend            Trend   `json:"obv_trend"`

	// Price context
	CurrentPrice     float64  `json:"current_price"`
	DayChangePercent float64  `json:"day_change_percent"`
	Week52High       float64  `json:"week_52_high"`
	Week52Low        float64  `json:"week_52_low"`
	PriceVsSMA50     Position `json:"price_vs_sma_50"`
	PriceVsSMA200    Position `json:"price_vs_sma_200"`

	ComputedAt time.Time `json:"computed_at"`
}

// LastOBV returns the latest on-balance-volume value, or 0 when the series is empty.
func (r IndicatorReport) LastOBV() int64 {
	if len(r.OBV) == 0 {
		return 0
	}
	return r.OBV[len(r.OBV)-1]
}
