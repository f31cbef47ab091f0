package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyEntry records one calendar day of ticket sales within a game. At most
// one entry exists per (game, date). The running totals include the game's
// carryover as a base and are resummed over all entries with date <= this
// entry whenever any entry in the game changes.
type DailyEntry struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GameID         primitive.ObjectID `json:"gameId" bson:"gameId"`
	WeekID         primitive.ObjectID `json:"weekId" bson:"weekId"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	Date           time.Time          `json:"date" bson:"date"`

	TicketsSold       int     `json:"ticketsSold" bson:"ticketsSold"`
	TicketPrice       float64 `json:"ticketPrice" bson:"ticketPrice"`
	AmountCollected   float64 `json:"amountCollected" bson:"amountCollected"`
	OrganizationTotal float64 `json:"organizationTotal" bson:"organizationTotal"`
	JackpotTotal      float64 `json:"jackpotTotal" bson:"jackpotTotal"`

	// Running totals across the game, date-ordered, carryover as base.
	CumulativeCollected       float64 `json:"cumulativeCollected" bson:"cumulativeCollected"`
	JackpotContributionsTotal float64 `json:"jackpotContributionsTotal" bson:"jackpotContributionsTotal"`

	// EndingJackpotTotal is the displayed jackpot as of this entry. It is a
	// transient display value while the owning week is open and a frozen
	// snapshot once the week closes.
	EndingJackpotTotal float64 `json:"endingJackpotTotal" bson:"endingJackpotTotal"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ApplySplit recomputes the entry's derived amounts from a ticket count and
// the game's snapshotted price and percentages.
func (e *DailyEntry) ApplySplit(game *Game, ticketsSold int) {
	e.TicketsSold = ticketsSold
	e.TicketPrice = game.TicketPrice
	e.AmountCollected, e.OrganizationTotal, e.JackpotTotal = SplitAmounts(
		ticketsSold, game.TicketPrice, game.OrganizationPercentage, game.JackpotPercentage)
	e.UpdatedAt = time.Now()
}
