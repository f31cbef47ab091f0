package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CardPayout is one row of the card payout table. A fixed-amount card pays
// Amount when drawn; the single jackpot card pays the running jackpot instead.
type CardPayout struct {
	Amount    float64 `json:"amount" bson:"amount"`
	IsJackpot bool    `json:"isJackpot" bson:"isJackpot"`
}

// Configuration holds the per-organization raffle constants. It is written by
// the admin surface and read-only to the engine; games snapshot it at creation
// so later edits never change historical math.
type Configuration struct {
	ID                     primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	OrganizationID         string                `json:"organizationId" bson:"organizationId"`
	TicketPrice            float64               `json:"ticketPrice" bson:"ticketPrice"`
	OrganizationPercentage float64               `json:"organizationPercentage" bson:"organizationPercentage"`
	JackpotPercentage      float64               `json:"jackpotPercentage" bson:"jackpotPercentage"`
	MinimumStartingJackpot float64               `json:"minimumStartingJackpot" bson:"minimumStartingJackpot"`
	PenaltyPercentage      float64               `json:"penaltyPercentage" bson:"penaltyPercentage"`
	CardPayouts            map[string]CardPayout `json:"cardPayouts" bson:"cardPayouts"`
	UpdatedAt              time.Time             `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks field ranges and that the payout table names exactly one
// jackpot card. Percentage-sum enforcement is deliberately left to game
// creation, where the snapshot becomes load-bearing.
func (c *Configuration) Validate() error {
	if c.OrganizationID == "" {
		return fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}
	if c.TicketPrice <= 0 {
		return fmt.Errorf("%w: ticket price must be positive", ErrInvalidInput)
	}
	if c.OrganizationPercentage < 0 || c.OrganizationPercentage > 100 {
		return fmt.Errorf("%w: organization percentage must be between 0 and 100", ErrInvalidInput)
	}
	if c.JackpotPercentage < 0 || c.JackpotPercentage > 100 {
		return fmt.Errorf("%w: jackpot percentage must be between 0 and 100", ErrInvalidInput)
	}
	if c.MinimumStartingJackpot < 0 {
		return fmt.Errorf("%w: minimum starting jackpot cannot be negative", ErrInvalidInput)
	}
	if c.PenaltyPercentage < 0 || c.PenaltyPercentage > 100 {
		return fmt.Errorf("%w: penalty percentage must be between 0 and 100", ErrInvalidInput)
	}

	jackpotCards := 0
	for card, payout := range c.CardPayouts {
		if payout.IsJackpot {
			jackpotCards++
			continue
		}
		if payout.Amount < 0 {
			return fmt.Errorf("%w: payout for card %q cannot be negative", ErrInvalidInput, card)
		}
	}
	if jackpotCards != 1 {
		return fmt.Errorf("%w: card payout table must contain exactly one jackpot card, found %d", ErrInvalidInput, jackpotCards)
	}

	return nil
}

// PercentagesSumTo100 reports whether the organization and jackpot shares
// account for every dollar collected.
func (c *Configuration) PercentagesSumTo100() bool {
	return c.OrganizationPercentage+c.JackpotPercentage == 100
}

// JackpotCard returns the name of the card pinned to the jackpot payout.
func (c *Configuration) JackpotCard() string {
	for card, payout := range c.CardPayouts {
		if payout.IsJackpot {
			return card
		}
	}
	return ""
}

// DefaultConfiguration returns a starting configuration for a new
// organization with the customary Queen of Hearts payout table.
func DefaultConfiguration(organizationID string) *Configuration {
	return &Configuration{
		OrganizationID:         organizationID,
		TicketPrice:            2,
		OrganizationPercentage: 40,
		JackpotPercentage:      60,
		MinimumStartingJackpot: 500,
		PenaltyPercentage:      10,
		CardPayouts:            DefaultCardPayouts(),
		UpdatedAt:              time.Now(),
	}
}

// DefaultCardPayouts returns the customary payout table: the Queen of Hearts
// takes the jackpot, jokers and the other queens pay fixed consolation
// amounts.
func DefaultCardPayouts() map[string]CardPayout {
	return map[string]CardPayout{
		"Queen of Hearts":   {IsJackpot: true},
		"Queen of Diamonds": {Amount: 50},
		"Queen of Clubs":    {Amount: 50},
		"Queen of Spades":   {Amount: 50},
		"Joker":             {Amount: 100},
		"Other":             {Amount: 25},
	}
}
