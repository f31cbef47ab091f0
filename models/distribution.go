package models

// MinimumGuaranteedPayout is the fixed floor a jackpot winner always leaves
// with, independent of the configurable minimum starting jackpot. When the
// jackpot comes in under this floor the organization absorbs the shortfall.
const MinimumGuaranteedPayout = 500.00

// WinnerDistribution is the computed split of the jackpot at the moment the
// jackpot card is drawn. It is not persisted as its own record; the results
// are written into the closing week and game.
type WinnerDistribution struct {
	TotalJackpot      float64 `json:"totalJackpot"`
	WinnerPresent     bool    `json:"winnerPresent"`
	PenaltyPercentage float64 `json:"penaltyPercentage"`
	PenaltyAmount     float64 `json:"penaltyAmount"`
	WinnerReceives    float64 `json:"winnerReceives"`
	NextGameGets      float64 `json:"nextGameGets"`
	FinalPayout       float64 `json:"finalPayout"`
}

// Shortfall is the amount the organization tops up when the guarantee
// exceeds what the jackpot could pay.
func (d *WinnerDistribution) Shortfall() float64 {
	return SubCurrency(d.FinalPayout, d.WinnerReceives)
}
