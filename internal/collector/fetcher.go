package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"StockLens/internal/model"
)

// ErrNoData is returned when a provider has no bars for the requested ticker.
var ErrNoData = errors.New("no data found")

// ErrInvalidTicker is returned for an empty symbol or exchange.
var ErrInvalidTicker = errors.New("symbol and exchange are required")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns daily bars dated within [from, to]. Order is
	// provider specific; an empty slice with a nil error means no data.
	FetchDailyBars(ctx context.Context, symbol, exchange string, from, to time.Time) ([]model.PriceBar, error)
	Name() string
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
