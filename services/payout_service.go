package services

import (
	"fmt"
	"math"
	"strings"

	"qoh-app-go/logging"
	"qoh-app-go/models"
)

// PayoutService computes the winner distribution when the jackpot card is
// drawn. It does not decide which card is the jackpot card; that is a
// configuration lookup made by the caller.
type PayoutService struct {
	logger *logging.Logger
}

// NewPayoutService creates a new payout service
func NewPayoutService() *PayoutService {
	return &PayoutService{
		logger: logging.WithPrefix("payout"),
	}
}

// Distribute splits the jackpot between the winner and the next game. An
// absent winner forfeits the penalty percentage, which seeds the next game's
// jackpot; the final payout never falls below the guaranteed minimum.
// WinnerReceives + PenaltyAmount always equals TotalJackpot exactly.
func (s *PayoutService) Distribute(totalJackpot float64, winnerName string, winnerPresent bool, penaltyPercentage float64) (*models.WinnerDistribution, error) {
	if totalJackpot <= 0 {
		return nil, fmt.Errorf("%w: cannot distribute jackpot of %.2f", models.ErrInvalidJackpotAmount, totalJackpot)
	}
	if strings.TrimSpace(winnerName) == "" {
		return nil, fmt.Errorf("%w: winner name is required", models.ErrMissingWinnerInfo)
	}

	penaltyAmount := 0.0
	if !winnerPresent {
		penaltyAmount = models.Percent(totalJackpot, penaltyPercentage)
	}

	winnerReceives := models.SubCurrency(totalJackpot, penaltyAmount)

	dist := &models.WinnerDistribution{
		TotalJackpot:      totalJackpot,
		WinnerPresent:     winnerPresent,
		PenaltyPercentage: penaltyPercentage,
		PenaltyAmount:     penaltyAmount,
		WinnerReceives:    winnerReceives,
		NextGameGets:      penaltyAmount,
		FinalPayout:       math.Max(models.MinimumGuaranteedPayout, winnerReceives),
	}

	s.logger.Infof("Distribution: jackpot=%.2f present=%t penalty=%.2f winner=%.2f final=%.2f next=%.2f",
		dist.TotalJackpot, dist.WinnerPresent, dist.PenaltyAmount,
		dist.WinnerReceives, dist.FinalPayout, dist.NextGameGets)

	return dist, nil
}
