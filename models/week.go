package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekDays is the length of a ticket-sale period, ending in a card draw.
const WeekDays = 7

// Week is a 7-day ticket-sale period within a game. A week is open until a
// winner is recorded; once closed its ending jackpot is frozen and never
// recomputed, so historical weeks stay report-stable.
type Week struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GameID         primitive.ObjectID `json:"gameId" bson:"gameId"`
	OrganizationID string             `json:"organizationId" bson:"organizationId"`
	WeekNumber     int                `json:"weekNumber" bson:"weekNumber"`
	StartDate      time.Time          `json:"startDate" bson:"startDate"`
	EndDate        time.Time          `json:"endDate" bson:"endDate"`

	WeeklyTicketsSold int     `json:"weeklyTicketsSold" bson:"weeklyTicketsSold"`
	WeeklySales       float64 `json:"weeklySales" bson:"weeklySales"`
	WeeklyPayout      float64 `json:"weeklyPayout" bson:"weeklyPayout"`

	// EndingJackpot is set once, when the week closes.
	EndingJackpot *float64 `json:"endingJackpot,omitempty" bson:"endingJackpot,omitempty"`

	WinnerName    string `json:"winnerName,omitempty" bson:"winnerName,omitempty"`
	CardSelected  string `json:"cardSelected,omitempty" bson:"cardSelected,omitempty"`
	WinnerPresent *bool  `json:"winnerPresent,omitempty" bson:"winnerPresent,omitempty"`
	SlotChosen    int    `json:"slotChosen,omitempty" bson:"slotChosen,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsClosed returns true once a winner has been recorded for the week
func (w *Week) IsClosed() bool {
	return w.WinnerName != ""
}

// ContainsDate reports whether a calendar day falls inside the week's range
func (w *Week) ContainsDate(date time.Time) bool {
	day := DateOnly(date)
	return !day.Before(DateOnly(w.StartDate)) && !day.After(DateOnly(w.EndDate))
}

// Overlaps reports whether two weeks share any calendar day
func (w *Week) Overlaps(other *Week) bool {
	return !DateOnly(w.StartDate).After(DateOnly(other.EndDate)) &&
		!DateOnly(other.StartDate).After(DateOnly(w.EndDate))
}

// UpdateFromEntries recomputes the week's counters from its source entries.
// Counters are always rebuilt, never incremented, so duplicate or
// out-of-order writes cannot cause drift.
func (w *Week) UpdateFromEntries(entries []*DailyEntry) {
	w.WeeklyTicketsSold = 0
	sales := make([]float64, 0, len(entries))
	for _, entry := range entries {
		w.WeeklyTicketsSold += entry.TicketsSold
		sales = append(sales, entry.AmountCollected)
	}
	w.WeeklySales = SumCurrency(sales...)
	w.UpdatedAt = time.Now()
}

// NewWeek creates an open week covering startDate through startDate+6 days.
func NewWeek(game *Game, weekNumber int, startDate time.Time) *Week {
	start := DateOnly(startDate)
	now := time.Now()
	return &Week{
		GameID:         game.ID,
		OrganizationID: game.OrganizationID,
		WeekNumber:     weekNumber,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, WeekDays-1),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// DateOnly normalizes a timestamp to midnight UTC so calendar-day comparisons
// ignore clock time and zone.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
