package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed"
)

// Game is one complete run of the fundraiser, from the first ticket sale
// until the jackpot card is drawn. Price, percentages and the payout table
// are snapshotted from Configuration at creation so historical games stay
// reproducible when the admin changes the live configuration.
type Game struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	GameNumber     int                `json:"gameNumber" bson:"gameNumber"`
	StartDate      time.Time          `json:"startDate" bson:"startDate"`
	EndDate        *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`

	// Configuration snapshot
	TicketPrice            float64               `json:"ticketPrice" bson:"ticketPrice"`
	OrganizationPercentage float64               `json:"organizationPercentage" bson:"organizationPercentage"`
	JackpotPercentage      float64               `json:"jackpotPercentage" bson:"jackpotPercentage"`
	MinimumStartingJackpot float64               `json:"minimumStartingJackpot" bson:"minimumStartingJackpot"`
	PenaltyPercentage      float64               `json:"penaltyPercentage" bson:"penaltyPercentage"`
	CardPayouts            map[string]CardPayout `json:"cardPayouts" bson:"cardPayouts"`

	// CarryoverJackpot is the base the jackpot accrues on top of, seeded from
	// the prior completed game.
	CarryoverJackpot float64 `json:"carryoverJackpot" bson:"carryoverJackpot"`

	// Rollups maintained by the aggregation engine
	TotalSales            float64 `json:"totalSales" bson:"totalSales"`
	TotalPayouts          float64 `json:"totalPayouts" bson:"totalPayouts"`
	TotalExpenses         float64 `json:"totalExpenses" bson:"totalExpenses"`
	TotalDonations        float64 `json:"totalDonations" bson:"totalDonations"`
	OrganizationNetProfit float64 `json:"organizationNetProfit" bson:"organizationNetProfit"`

	// Completion bookkeeping, written while the game is still active so the
	// final aggregation pass sees a consistent in-flight state.
	JackpotContributionToNextGame float64 `json:"jackpotContributionToNextGame" bson:"jackpotContributionToNextGame"`
	GuaranteeShortfall            float64 `json:"guaranteeShortfall" bson:"guaranteeShortfall"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsActive returns true while the jackpot card has not been drawn
func (g *Game) IsActive() bool {
	return g.EndDate == nil
}

// IsCompleted returns true once the game has ended
func (g *Game) IsCompleted() bool {
	return g.EndDate != nil
}

// Status returns the lifecycle state derived from the end date
func (g *Game) Status() GameStatus {
	if g.IsCompleted() {
		return GameStatusCompleted
	}
	return GameStatusActive
}

// JackpotCard returns the name of the card that ends the game
func (g *Game) JackpotCard() string {
	for card, payout := range g.CardPayouts {
		if payout.IsJackpot {
			return card
		}
	}
	return ""
}

// LookupCardPayout resolves a drawn card against the snapshotted payout
// table. Tables may carry an "Other" row as the fallback for unlisted cards.
func (g *Game) LookupCardPayout(card string) (CardPayout, bool) {
	if payout, ok := g.CardPayouts[card]; ok {
		return payout, true
	}
	if payout, ok := g.CardPayouts["Other"]; ok {
		return payout, true
	}
	return CardPayout{}, false
}

// NewGameFromConfiguration creates an active game carrying a snapshot of the
// organization's current configuration.
func NewGameFromConfiguration(cfg *Configuration, gameNumber int, startDate time.Time) *Game {
	payouts := make(map[string]CardPayout, len(cfg.CardPayouts))
	for card, payout := range cfg.CardPayouts {
		payouts[card] = payout
	}

	now := time.Now()
	return &Game{
		OrganizationID:         cfg.OrganizationID,
		GameNumber:             gameNumber,
		StartDate:              startDate,
		TicketPrice:            cfg.TicketPrice,
		OrganizationPercentage: cfg.OrganizationPercentage,
		JackpotPercentage:      cfg.JackpotPercentage,
		MinimumStartingJackpot: cfg.MinimumStartingJackpot,
		PenaltyPercentage:      cfg.PenaltyPercentage,
		CardPayouts:            payouts,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}
