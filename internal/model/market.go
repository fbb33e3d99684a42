package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar represents one trading day for a symbol.
type PriceBar struct {
	Symbol string          `json:"symbol"`
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// Day returns the bar date truncated to the calendar day in UTC.
func (b PriceBar) Day() time.Time {
	y, m, d := b.Date.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PriceSeries holds the bars of one symbol in ascending date order.
type PriceSeries struct {
	Symbol string
	Bars   []PriceBar
}

// Last returns the most recent bar, or false for an empty series.
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
