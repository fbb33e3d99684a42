package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"StockLens/internal/model"
)

// EODHDFetcher implements Fetcher using the EOD Historical Data REST API.
type EODHDFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewEODHDFetcher creates a new fetcher with optional proxy support.
func NewEODHDFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *EODHDFetcher {
	return &EODHDFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

// eodBar is one element of the /eod response. Prices decode straight into
// decimals so no float rounding happens on the way in.
type eodBar struct {
	Date     string          `json:"date"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	Volume   decimal.Decimal `json:"volume"`
	Adjusted decimal.Decimal `json:"adjusted_close"`
}

func (f *EODHDFetcher) FetchDailyBars(ctx context.Context, symbol, exchange string, from, to time.Time) ([]model.PriceBar, error) {
	q := url.Values{}
	q.Set("from", from.Format("2006-01-02"))
	q.Set("to", to.Format("2006-01-02"))
	q.Set("period", "d")
	q.Set("fmt", "json")
	q.Set("api_token", f.APIKey)
	endpoint := fmt.Sprintf("%s/eod/%s.%s?%s", f.BaseURL,
		url.PathEscape(symbol), url.PathEscape(exchange), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eodhd fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("eodhd: status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw []eodBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("eodhd decode: %w", err)
	}

	bars := make([]model.PriceBar, 0, len(raw))
	for _, r := range raw {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("eodhd: bad date %q: %w", r.Date, err)
		}
		bars = append(bars, model.PriceBar{
			Symbol: symbol,
			Date:   d,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume.IntPart(),
		})
	}
	return bars, nil
}
