package collector

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/cache"
	"StockLens/internal/logger"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

var fixedNow = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

func newTestCollector(f Fetcher, c cache.Cache, r recorder.Recorder, m *metrics.Metrics, opts Options) *Collector {
	if opts.RetryBase == 0 {
		opts.RetryBase = time.Millisecond
	}
	col := NewCollector(f, c, r, m, logger.Discard(), opts)
	col.now = func() time.Time { return fixedNow }
	return col
}

func ascendingBars(closes ...float64) []model.PriceBar {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		d := decimal.NewFromFloat(c)
		bars[i] = model.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   d,
			High:   d.Add(decimal.NewFromInt(1)),
			Low:    d.Sub(decimal.NewFromInt(1)),
			Close:  d,
			Volume: 1000,
		}
	}
	return bars
}

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

// flakyFetcher fails the first failures calls.
type flakyFetcher struct {
	failures int32
	calls    atomic.Int32
	bars     []model.PriceBar
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchDailyBars(context.Context, string, string, time.Time, time.Time) ([]model.PriceBar, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, errors.New("upstream unavailable")
	}
	return f.bars, nil
}

type failingRecorder struct{ recorder.NoopRecorder }

func (failingRecorder) SaveBars(context.Context, string, string, []model.PriceBar) (int, error) {
	return 0, errors.New("disk full")
}

func TestCollector_AnalyzeBuildsAnalysis(t *testing.T) {
	f := &MockFetcher{Bars: ascendingBars(seq(30)...)}
	c := newTestCollector(f, nil, nil, nil, Options{})

	a, err := c.Analyze(context.Background(), "nkt", " co ")
	require.NoError(t, err)

	assert.Equal(t, "NKT", a.Symbol)
	assert.Equal(t, "CO", a.Exchange)
	assert.Equal(t, "NKT", a.Current.Symbol)
	assert.True(t, a.Current.Close.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, fixedNow, a.RetrievedAt)

	require.Len(t, a.History, 30)
	assert.True(t, a.History[0].Date.After(a.History[1].Date), "history must be newest first")

	assert.InDelta(t, 20.5, a.Indicators.SMA20, 1e-9)
	assert.InDelta(t, 30.0, a.Indicators.CurrentPrice, 1e-9)
	assert.Equal(t, 0.0, a.Indicators.SMA50)
}

func TestCollector_HistoryKeepsNewest100(t *testing.T) {
	f := &MockFetcher{Price: 50}
	c := newTestCollector(f, nil, nil, nil, Options{HistoryYears: 1})

	a, err := c.Analyze(context.Background(), "AAPL", "US")
	require.NoError(t, err)
	require.Len(t, a.History, historyLimit)
	assert.Equal(t, a.Current, a.History[0])
	for i := 1; i < len(a.History); i++ {
		assert.True(t, a.History[i-1].Date.After(a.History[i].Date))
	}
	assert.NotZero(t, a.Indicators.SMA200)
}

func TestCollector_AnalyzeUsesCache(t *testing.T) {
	f := &MockFetcher{Bars: ascendingBars(seq(30)...)}
	m := metrics.New(nil)
	c := newTestCollector(f, cache.NewMemory(), nil, m, Options{CacheTTL: 5 * time.Minute})
	ctx := context.Background()

	first, err := c.Analyze(ctx, "AAPL", "US")
	require.NoError(t, err)
	second, err := c.Analyze(ctx, "aapl", "us")
	require.NoError(t, err)

	assert.Equal(t, 1, f.Calls())
	assert.Same(t, first, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("hit")))

	_, err = c.Refresh(ctx, "AAPL", "US")
	require.NoError(t, err)
	assert.Equal(t, 2, f.Calls())
}

func TestCollector_NoData(t *testing.T) {
	c := newTestCollector(&MockFetcher{Bars: []model.PriceBar{}}, nil, nil, nil, Options{})

	_, err := c.Analyze(context.Background(), "ZZZZ", "US")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Contains(t, err.Error(), "ZZZZ.US")
}

func TestCollector_InvalidTicker(t *testing.T) {
	c := newTestCollector(&MockFetcher{}, nil, nil, nil, Options{})

	_, err := c.Analyze(context.Background(), "  ", "US")
	assert.ErrorIs(t, err, ErrInvalidTicker)
	_, err = c.Refresh(context.Background(), "AAPL", "")
	assert.ErrorIs(t, err, ErrInvalidTicker)
}

func TestCollector_RetriesThenSucceeds(t *testing.T) {
	f := &flakyFetcher{failures: 2, bars: ascendingBars(seq(5)...)}
	m := metrics.New(nil)
	c := newTestCollector(f, nil, nil, m, Options{MaxRetries: 2})

	a, err := c.Analyze(context.Background(), "AAPL", "US")
	require.NoError(t, err)
	assert.Len(t, a.History, 5)
	assert.Equal(t, int32(3), f.calls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchTotal.WithLabelValues("flaky", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchTotal.WithLabelValues("flaky", "ok")))
}

func TestCollector_RetriesExhausted(t *testing.T) {
	f := &flakyFetcher{failures: 10}
	c := newTestCollector(f, nil, nil, nil, Options{MaxRetries: 1})

	_, err := c.Analyze(context.Background(), "AAPL", "US")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
	assert.Contains(t, err.Error(), "upstream unavailable")
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestCollector_RetryHonoursContext(t *testing.T) {
	f := &flakyFetcher{failures: 10}
	c := newTestCollector(f, nil, nil, nil, Options{MaxRetries: 3, RetryBase: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Analyze(ctx, "AAPL", "US")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestCollector_PersistsBars(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "bars.db"), logger.Discard())
	require.NoError(t, err)
	defer rec.Close()

	m := metrics.New(nil)
	f := &MockFetcher{Bars: ascendingBars(seq(12)...)}
	c := newTestCollector(f, nil, rec, m, Options{})
	ctx := context.Background()

	_, err = c.Analyze(ctx, "NKT", "CO")
	require.NoError(t, err)
	_, err = c.Refresh(ctx, "NKT", "CO")
	require.NoError(t, err)

	stored, err := rec.LoadBars(ctx, "NKT", "CO")
	require.NoError(t, err)
	assert.Len(t, stored, 12)
	assert.Equal(t, 12.0, testutil.ToFloat64(m.BarsSaved))
}

func TestCollector_PersistenceErrorIsNotFatal(t *testing.T) {
	f := &MockFetcher{Bars: ascendingBars(seq(3)...)}
	c := newTestCollector(f, nil, failingRecorder{}, nil, Options{})

	a, err := c.Analyze(context.Background(), "AAPL", "US")
	require.NoError(t, err)
	assert.Len(t, a.History, 3)
}

func TestStoreFetcher_FiltersRange(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "store.db"), logger.Discard())
	require.NoError(t, err)
	defer rec.Close()
	ctx := context.Background()

	bars := ascendingBars(seq(10)...)
	_, err = rec.SaveBars(ctx, "NKT", "CO", bars)
	require.NoError(t, err)

	s := &StoreFetcher{Recorder: rec}
	got, err := s.FetchDailyBars(ctx, "NKT", "CO", bars[2].Date, bars[5].Date)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.True(t, got[0].Close.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "store", s.Name())
}

func TestMockFetcher_GeneratesWeekdays(t *testing.T) {
	from := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC) // Monday
	to := from.AddDate(0, 0, 13)

	bars, err := (&MockFetcher{Price: 10}).FetchDailyBars(context.Background(), "X", "US", from, to)
	require.NoError(t, err)
	require.Len(t, bars, 10)
	for _, b := range bars {
		assert.NotEqual(t, time.Saturday, b.Date.Weekday())
		assert.NotEqual(t, time.Sunday, b.Date.Weekday())
		assert.True(t, b.High.GreaterThanOrEqual(b.Low))
	}
}
