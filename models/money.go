package models

import (
	"github.com/shopspring/decimal"
)

// All persisted currency values are cent-rounded float64s; the arithmetic
// that produces them goes through decimal so splits and running sums never
// pick up binary floating point drift.

// RoundCurrency rounds a value to whole cents.
func RoundCurrency(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Percent returns amount × pct/100, rounded to whole cents.
func Percent(amount, pct float64) float64 {
	a := decimal.NewFromFloat(amount)
	p := decimal.NewFromFloat(pct)
	return a.Mul(p).Div(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// SumCurrency adds currency values exactly and rounds the result to cents.
func SumCurrency(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

// SubCurrency returns a − b rounded to cents.
func SubCurrency(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// SplitAmounts computes a day's collected amount and its organization/jackpot
// shares from a ticket count and the game's snapshotted price and percentages.
func SplitAmounts(ticketsSold int, ticketPrice, orgPct, jackpotPct float64) (amount, orgShare, jackpotShare float64) {
	collected := decimal.NewFromInt(int64(ticketsSold)).Mul(decimal.NewFromFloat(ticketPrice)).Round(2)
	amount = collected.InexactFloat64()
	orgShare = Percent(amount, orgPct)
	jackpotShare = Percent(amount, jackpotPct)
	return amount, orgShare, jackpotShare
}
