package calculator

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func TestCalculateIndicators_EmptyHistory(t *testing.T) {
	for _, history := range [][]model.PriceBar{nil, {}} {
		_, err := CalculateIndicators(history, model.PriceBar{})
		require.Error(t, err)

		var inputErr *InputError
		assert.True(t, errors.As(err, &inputErr))
	}
}

func TestCalculateIndicators_AnyNonEmptyLength(t *testing.T) {
	for _, n := range []int{1, 2, 9, 14, 15, 19, 20, 25, 33, 34, 50, 199, 200, 251, 252, 400} {
		bars := generateBars(n, 100, 0.25)
		r, err := CalculateIndicators(bars, bars[n-1])
		require.NoError(t, err, "n=%d", n)
		assert.Len(t, r.OBV, n)
		assert.Equal(t, int64(0), r.OBV[0])
	}
}

func TestCalculateIndicators_SingleBar(t *testing.T) {
	bars := generateBars(1, 100, 1)
	r, err := CalculateIndicators(bars, bars[0])
	require.NoError(t, err)

	assert.Equal(t, 100.0, r.CurrentPrice)
	assert.Equal(t, 0.0, r.DayChangePercent)
	assert.Equal(t, 0.0, r.SMA20)
	assert.Equal(t, 0.0, r.EMA12)
	assert.Equal(t, 50.0, r.RSI14)
	assert.Equal(t, model.TrendNeutral, r.RSITrend)
	assert.Equal(t, model.TrendNeutral, r.MACDState)
	assert.Equal(t, model.TrendNeutral, r.OBVTrend)
	assert.Equal(t, 0.0, r.BollingerPercentB)
	assert.Equal(t, int64(0), r.AverageVolume20)
	assert.Equal(t, model.Position(""), r.PriceVsSMA50)
}

// Closes rise by 1 per day from 100.
func TestCalculateIndicators_StrictUptrend(t *testing.T) {
	bars := generateBars(30, 100, 1)
	r, err := CalculateIndicators(bars, bars[len(bars)-1])
	require.NoError(t, err)

	assert.Greater(t, r.SMA20, 0.0)
	assert.Less(t, r.SMA20, r.CurrentPrice)
	assert.Equal(t, 100.0, r.RSI14)
	assert.Equal(t, model.TrendOverbought, r.RSITrend)
	assert.Equal(t, model.TrendBullish, r.OBVTrend)
	assert.InDelta(t, 1.0/128*100, r.DayChangePercent, 1e-9)
}

func TestCalculateIndicators_ChoppyUptrend(t *testing.T) {
	bars := barsFromCloses(choppyUptrend)
	r, err := CalculateIndicators(bars, bars[len(bars)-1])
	require.NoError(t, err)

	assert.Equal(t, model.TrendBullish, r.RSITrend)
}

func TestCalculateIndicators_BollingerOrdering(t *testing.T) {
	bars := generateBars(25, 100, 1)
	r, err := CalculateIndicators(bars, bars[len(bars)-1])
	require.NoError(t, err)

	assert.Greater(t, r.BollingerUpper, r.BollingerMiddle)
	assert.Greater(t, r.BollingerMiddle, r.BollingerLower)
}

func TestCalculateIndicators_EMA12WithTwentyBars(t *testing.T) {
	bars := generateBars(20, 100, 1)
	r, err := CalculateIndicators(bars, bars[len(bars)-1])
	require.NoError(t, err)

	assert.Greater(t, r.EMA12, 0.0)
	assert.Equal(t, 0.0, r.EMA26)
}

func TestCalculateIndicators_MACD(t *testing.T) {
	bars := generateBars(50, 100, 1)
	r, err := CalculateIndicators(bars, bars[len(bars)-1])
	require.NoError(t, err)
	assert.NotZero(t, r.MACDLine)
	assert.NotZero(t, r.MACDSignal)

	bars = barsFromCloses(longUptrend)
	r, err = CalculateIndicators(bars, bars[len(bars)-1])
	require.NoError(t, err)
	assert.Equal(t, model.TrendBullish, r.MACDState)
}

func TestCalculateIndicators_FullHistory(t *testing.T) {
	bars := generateBars(260, 100, 0.5)
	current := bars[len(bars)-1]
	current.Volume = 1_500_000

	r, err := CalculateIndicators(bars, current)
	require.NoError(t, err)

	assert.Greater(t, r.SMA200, 0.0)
	assert.Equal(t, model.PositionAbove, r.PriceVsSMA50)
	assert.Equal(t, model.PositionAbove, r.PriceVsSMA200)
	assert.Equal(t, int64(1_000_000), r.AverageVolume20)
	assert.InDelta(t, 50.0, r.VolumeChangePercent, 1e-9)
	assert.InDelta(t, 100+259*0.5+1, r.Week52High, 1e-9)
	assert.InDelta(t, 100+8*0.5-1, r.Week52Low, 1e-9)
}

func TestCalculateIndicators_OrderIndependent(t *testing.T) {
	bars := barsFromCloses(longUptrend)
	current := bars[len(bars)-1]

	shuffled := append([]model.PriceBar(nil), bars...)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	snapshot := append([]model.PriceBar(nil), shuffled...)

	want, err := CalculateIndicators(bars, current)
	require.NoError(t, err)
	got, err := CalculateIndicators(shuffled, current)
	require.NoError(t, err)

	got.ComputedAt, want.ComputedAt = time.Time{}, time.Time{}
	assert.Equal(t, want, got)
	assert.Equal(t, snapshot, shuffled, "input must not be reordered")
}

func TestCalculateIndicators_DuplicateDates(t *testing.T) {
	bars := generateBars(30, 100, 1)
	bars = append(bars, bars[10], bars[10])

	_, err := CalculateIndicators(bars, bars[len(bars)-1])
	assert.NoError(t, err)
}

func TestCalculateIndicators_ComputedAt(t *testing.T) {
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	bars := generateBars(5, 100, 1)
	r, err := CalculateIndicators(bars, bars[4])
	require.NoError(t, err)
	assert.Equal(t, fixed, r.ComputedAt)
}

func TestCalculateIndicators_DecimalPrices(t *testing.T) {
	bars := generateBars(2, 0, 0)
	bars[0].Close = decimal.RequireFromString("3.000001")
	bars[1].Close = decimal.RequireFromString("3.000004")

	r, err := CalculateIndicators(bars, bars[1])
	require.NoError(t, err)
	assert.InDelta(t, 0.000003/3.000001*100, r.DayChangePercent, 1e-12)
}

func TestCalculateIndicators_Concurrent(t *testing.T) {
	bars := barsFromCloses(longUptrend)
	want, err := CalculateIndicators(bars, bars[len(bars)-1])
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]model.IndicatorReport, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = CalculateIndicators(bars, bars[len(bars)-1])
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want.MACDLine, got.MACDLine)
		assert.Equal(t, want.RSI14, got.RSI14)
		assert.Equal(t, want.OBV, got.OBV)
	}
}
