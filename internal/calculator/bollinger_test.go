package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBollingerBands_InsufficientData(t *testing.T) {
	assert.Equal(t, Bands{}, BollingerBands(linear(19, 100, 1), 20, 2, 118))
}

func TestBollingerBands_PopulationStdDev(t *testing.T) {
	// mean 5, population σ 2
	prices := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	b := BollingerBands(prices, 8, 2, 9)
	assert.InDelta(t, 9.0, b.Upper, 1e-12)
	assert.InDelta(t, 5.0, b.Middle, 1e-12)
	assert.InDelta(t, 1.0, b.Lower, 1e-12)
	assert.InDelta(t, 1.0, b.PercentB, 1e-12)

	assert.InDelta(t, 0.5, BollingerBands(prices, 8, 2, 5).PercentB, 1e-12)
	// outside the bands
	assert.InDelta(t, 1.25, BollingerBands(prices, 8, 2, 11).PercentB, 1e-12)
	assert.InDelta(t, -0.25, BollingerBands(prices, 8, 2, -1).PercentB, 1e-12)
}

func TestBollingerBands_ZeroVariance(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}
	for _, current := range []float64{50, 100, 250} {
		b := BollingerBands(flat, 20, 2, current)
		assert.Equal(t, 100.0, b.Upper)
		assert.Equal(t, 100.0, b.Middle)
		assert.Equal(t, 100.0, b.Lower)
		assert.Equal(t, 0.5, b.PercentB)
	}
}

func TestBollingerBands_Ordering(t *testing.T) {
	b := BollingerBands(linear(25, 100, 1), 20, 2, 124)
	assert.Less(t, b.Lower, b.Middle)
	assert.Less(t, b.Middle, b.Upper)
}
