package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"StockLens/internal/cache"
	"StockLens/internal/calculator"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

// historyLimit is the number of newest bars kept in an Analysis.
const historyLimit = 100

// Options tunes fetching and caching.
type Options struct {
	HistoryYears int
	MaxRetries   int
	CacheTTL     time.Duration
	RetryBase    time.Duration // first backoff step, doubled per attempt
}

// Collector orchestrates data fetching, persistence and indicator computation.
type Collector struct {
	fetcher  Fetcher
	cache    cache.Cache
	recorder recorder.Recorder
	metrics  *metrics.Metrics
	log      *slog.Logger
	opts     Options
	now      func() time.Time
}

// NewCollector creates a new Collector. Nil cache, recorder or metrics fall
// back to no-op implementations.
func NewCollector(f Fetcher, c cache.Cache, r recorder.Recorder, m *metrics.Metrics, log *slog.Logger, opts Options) *Collector {
	if c == nil {
		c = cache.NewNoop()
	}
	if r == nil {
		r = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	if opts.HistoryYears <= 0 {
		opts.HistoryYears = 20
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = time.Second
	}
	return &Collector{
		fetcher:  f,
		cache:    c,
		recorder: r,
		metrics:  m,
		log:      log.With("component", "collector", "provider", f.Name()),
		opts:     opts,
		now:      time.Now,
	}
}

// Analyze returns the analysis for a ticker, served from the cache when fresh.
func (c *Collector) Analyze(ctx context.Context, symbol, exchange string) (*model.Analysis, error) {
	symbol, exchange, err := normalizeTicker(symbol, exchange)
	if err != nil {
		return nil, err
	}

	key := cache.Key(symbol, exchange)
	a, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.metrics.CacheRequests.WithLabelValues("error").Inc()
		c.log.Warn("cache lookup failed", "key", key, "err", err)
	case ok:
		c.metrics.CacheRequests.WithLabelValues("hit").Inc()
		c.log.Debug("returning cached analysis", "key", key)
		return a, nil
	default:
		c.metrics.CacheRequests.WithLabelValues("miss").Inc()
	}

	return c.refresh(ctx, symbol, exchange)
}

// Refresh fetches and recomputes the analysis, ignoring any cached copy. The
// result replaces the cache entry.
func (c *Collector) Refresh(ctx context.Context, symbol, exchange string) (*model.Analysis, error) {
	symbol, exchange, err := normalizeTicker(symbol, exchange)
	if err != nil {
		return nil, err
	}
	return c.refresh(ctx, symbol, exchange)
}

func (c *Collector) refresh(ctx context.Context, symbol, exchange string) (*model.Analysis, error) {
	to := c.now().UTC()
	from := to.AddDate(-c.opts.HistoryYears, 0, 0)

	c.log.Info("fetching stock data", "symbol", symbol, "exchange", exchange,
		"from", from.Format("2006-01-02"), "to", to.Format("2006-01-02"))

	bars, err := c.fetchWithRetry(ctx, symbol, exchange, from, to)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w for symbol %s.%s", ErrNoData, symbol, exchange)
	}

	bars = newestFirst(bars, symbol)

	if saved, err := c.recorder.SaveBars(ctx, symbol, exchange, bars); err != nil {
		c.log.Warn("failed to persist historical data", "symbol", symbol, "err", err)
	} else {
		c.metrics.BarsSaved.Add(float64(saved))
	}

	current := bars[0]
	start := time.Now()
	report, err := calculator.CalculateIndicators(bars, current)
	c.metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("calculate indicators for %s.%s: %w", symbol, exchange, err)
	}

	history := bars
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}
	a := &model.Analysis{
		Symbol:      symbol,
		Exchange:    exchange,
		Current:     current,
		History:     history,
		Indicators:  report,
		RetrievedAt: c.now().UTC(),
	}

	key := cache.Key(symbol, exchange)
	if err := c.cache.Set(ctx, key, a, c.opts.CacheTTL); err != nil {
		c.log.Warn("cache store failed", "key", key, "err", err)
	}

	c.logIndicators(a)
	return a, nil
}

// fetchWithRetry calls the fetcher with exponential backoff.
func (c *Collector) fetchWithRetry(ctx context.Context, symbol, exchange string, from, to time.Time) ([]model.PriceBar, error) {
	var lastErr error
	for i := 0; i <= c.opts.MaxRetries; i++ {
		start := time.Now()
		bars, err := c.fetcher.FetchDailyBars(ctx, symbol, exchange, from, to)
		c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
		if err == nil {
			c.metrics.FetchTotal.WithLabelValues(c.fetcher.Name(), "ok").Inc()
			c.log.Debug("received bars", "symbol", symbol, "count", len(bars))
			return bars, nil
		}
		c.metrics.FetchTotal.WithLabelValues(c.fetcher.Name(), "error").Inc()
		lastErr = err
		if i == c.opts.MaxRetries {
			break
		}

		backoff := c.opts.RetryBase << uint(i)
		c.log.Warn("fetch failed, retrying", "symbol", symbol,
			"attempt", i+1, "max", c.opts.MaxRetries+1, "backoff", backoff, "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("fetch %s.%s: all %d attempts failed: %w", symbol, exchange, c.opts.MaxRetries+1, lastErr)
}

func (c *Collector) logIndicators(a *model.Analysis) {
	if !c.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	r := a.Indicators
	c.log.Debug("calculated indicators",
		"ticker", a.Ticker(),
		"price", r.CurrentPrice,
		"day_change_pct", r.DayChangePercent,
		"sma20", r.SMA20, "sma50", r.SMA50, "sma200", r.SMA200,
		"ema12", r.EMA12, "ema26", r.EMA26,
		"rsi14", r.RSI14, "rsi_trend", r.RSITrend,
		"macd", r.MACDLine, "macd_signal", r.MACDSignal, "macd_hist", r.MACDHistogram, "macd_state", r.MACDState,
		"bb_upper", r.BollingerUpper, "bb_middle", r.BollingerMiddle, "bb_lower", r.BollingerLower, "bb_pct_b", r.BollingerPercentB,
		"avg_volume20", r.AverageVolume20, "volume_change_pct", r.VolumeChangePercent,
		"obv", r.LastOBV(), "obv_trend", r.OBVTrend,
		"high52w", r.Week52High, "low52w", r.Week52Low,
		"vs_sma50", r.PriceVsSMA50, "vs_sma200", r.PriceVsSMA200,
	)
}

func normalizeTicker(symbol, exchange string) (string, string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	exchange = strings.ToUpper(strings.TrimSpace(exchange))
	if symbol == "" || exchange == "" {
		return "", "", ErrInvalidTicker
	}
	return symbol, exchange, nil
}

// newestFirst returns a copy of bars sorted by date descending, filling in
// the symbol where the provider left it blank.
func newestFirst(bars []model.PriceBar, symbol string) []model.PriceBar {
	out := make([]model.PriceBar, len(bars))
	copy(out, bars)
	for i := range out {
		if out[i].Symbol == "" {
			out[i].Symbol = symbol
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
