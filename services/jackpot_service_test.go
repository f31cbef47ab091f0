package services

import (
	"context"
	"testing"

	"qoh-app-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentJackpotGameWithNoWeeksShowsFlooredCarryover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, err := env.lifecycle.CreateGame(ctx, testOrg, 1, day("2026-01-05"))
	require.NoError(t, err)

	jackpot, err := env.jackpot.CurrentJackpot(ctx, testOrg, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, jackpot, "empty game displays the minimum starting jackpot")
}

func TestCurrentJackpotFloorAppliesWhileEstablishing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// $2 tickets, 60% to the jackpot, $500 minimum: 150 tickets contribute
	// only $180, so the display holds at the floor.
	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 150)
	require.NoError(t, err)

	jackpot, err := env.jackpot.CurrentJackpot(ctx, testOrg, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, jackpot)
}

func TestCurrentJackpotRisesAboveFloorWithSales(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 300)
	require.NoError(t, err)
	_, err = env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-06"), 200)
	require.NoError(t, err)

	// 500 tickets × $2 × 60% = $600.
	jackpot, err := env.jackpot.CurrentJackpot(ctx, testOrg, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, jackpot)
}

func TestCurrentJackpotFloorIsNotReappliedAfterFirstClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Week 1 closes at the $500 floor with only $180 of real contributions.
	// Week 2 accrues on the frozen $500, not on a re-floored value.
	game, week1 := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 150)
	require.NoError(t, err)

	_, err = env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week1.ID, WinnerInfo{
		WinnerName:   "Pat Doyle",
		CardSelected: "Queen of Clubs",
		SlotChosen:   12,
	})
	require.NoError(t, err)

	stored := env.reloadWeek(t, week1)
	require.NotNil(t, stored.EndingJackpot)
	assert.Equal(t, 500.0, *stored.EndingJackpot)

	_, err = env.lifecycle.CreateWeek(ctx, testOrg, game.ID, day("2026-01-12"))
	require.NoError(t, err)

	// 100 tickets × $2 × 60% = $120 on top of the frozen $500.
	_, err = env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-12"), 100)
	require.NoError(t, err)

	jackpot, err := env.jackpot.CurrentJackpot(ctx, testOrg, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 620.0, jackpot)
}

func TestCurrentJackpotAllWeeksClosedShowsLastFrozenEnding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, week1 := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 600)
	require.NoError(t, err)

	_, err = env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week1.ID, WinnerInfo{
		WinnerName:   "Pat Doyle",
		CardSelected: "Joker",
	})
	require.NoError(t, err)

	// 600 × $2 × 60% = $720, above the floor.
	jackpot, err := env.jackpot.CurrentJackpot(ctx, testOrg, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 720.0, jackpot)
}

func TestCurrentJackpotUnknownGame(t *testing.T) {
	env := newTestEnv(t)

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.jackpot.CurrentJackpot(context.Background(), "someone-else", game.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDisplayedJackpotCarryoverSeedsTheBase(t *testing.T) {
	game := &models.Game{CarryoverJackpot: 800, MinimumStartingJackpot: 500}
	week := &models.Week{WeekNumber: 1}
	entries := []*models.DailyEntry{{JackpotTotal: 120}}

	displayed := DisplayedJackpot(game, []*models.Week{week}, entries, week)
	assert.Equal(t, 920.0, displayed)
}

func TestJackpotBasePrefersLatestClosedWeek(t *testing.T) {
	ending1, ending2 := 500.0, 740.0
	game := &models.Game{CarryoverJackpot: 0, MinimumStartingJackpot: 500}
	weeks := []*models.Week{
		{WeekNumber: 1, WinnerName: "a", EndingJackpot: &ending1},
		{WeekNumber: 2, WinnerName: "b", EndingJackpot: &ending2},
		{WeekNumber: 3},
	}

	base, establishing := JackpotBase(game, weeks, weeks[2])
	assert.Equal(t, 740.0, base)
	assert.False(t, establishing)
}
