package model

import "time"

// Analysis bundles a symbol's latest bar, recent history and indicators.
type Analysis struct {
	Symbol      string          `json:"symbol"`
	Exchange    string          `json:"exchange"`
	Current     PriceBar        `json:"current"`
	History     []PriceBar      `json:"history"` // newest first
	Indicators  IndicatorReport `json:"indicators"`
	RetrievedAt time.Time       `json:"retrieved_at"`
}

// Ticker returns the provider-style ticker, e.g. "AAPL.US".
func (a *Analysis) Ticker() string {
	if a.Exchange == "" {
		return a.Symbol
	}
	return a.Symbol + "." + a.Exchange
}
