package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAmounts(t *testing.T) {
	amount, orgShare, jackpotShare := SplitAmounts(150, 2, 40, 60)

	assert.Equal(t, 300.0, amount)
	assert.Equal(t, 120.0, orgShare)
	assert.Equal(t, 180.0, jackpotShare)
}

func TestSplitAmountsAvoidsFloatDrift(t *testing.T) {
	// 3 × $1.10 is the classic binary-float trap (3.3000000000000003).
	amount, orgShare, jackpotShare := SplitAmounts(3, 1.10, 40, 60)

	assert.Equal(t, 3.30, amount)
	assert.Equal(t, 1.32, orgShare)
	assert.Equal(t, 1.98, jackpotShare)
}

func TestSumCurrencyExactAccumulation(t *testing.T) {
	// Summing 0.1 ten times must land exactly on 1.00.
	values := make([]float64, 10)
	for i := range values {
		values[i] = 0.1
	}
	assert.Equal(t, 1.0, SumCurrency(values...))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 100.0, Percent(1000, 10))
	assert.Equal(t, 3.33, Percent(33.33, 10))
	assert.Equal(t, 0.0, Percent(0.01, 10))
}

func TestSubCurrency(t *testing.T) {
	assert.Equal(t, 0.1, SubCurrency(0.3, 0.2))
	assert.Equal(t, -5.0, SubCurrency(5, 10))
}
