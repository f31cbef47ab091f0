package services

import (
	"context"
	"testing"

	"qoh-app-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGameSnapshotsConfiguration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, err := env.lifecycle.CreateGame(ctx, testOrg, 1, day("2026-01-05"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, game.TicketPrice)
	assert.Equal(t, 40.0, game.OrganizationPercentage)
	assert.Equal(t, 60.0, game.JackpotPercentage)
	assert.Equal(t, 500.0, game.MinimumStartingJackpot)
	assert.Equal(t, "Queen of Hearts", game.JackpotCard())

	// Later configuration edits must not leak into the snapshot.
	cfg, err := env.configSvc.Get(ctx, testOrg)
	require.NoError(t, err)
	cfg.TicketPrice = 5
	require.NoError(t, env.configSvc.Update(ctx, cfg))

	stored := env.reloadGame(t, game)
	assert.Equal(t, 2.0, stored.TicketPrice)
}

func TestCreateGameRequiresConfiguration(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.lifecycle.CreateGame(context.Background(), "unconfigured-org", 1, day("2026-01-05"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateGameRejectsBadPercentageSplit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cfg := models.DefaultConfiguration(testOrg)
	cfg.OrganizationPercentage = 50
	cfg.JackpotPercentage = 60
	require.NoError(t, env.configs.Upsert(ctx, cfg))

	_, err := env.lifecycle.CreateGame(ctx, testOrg, 1, day("2026-01-05"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCreateGameRejectsSecondActiveGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.lifecycle.CreateGame(ctx, testOrg, 1, day("2026-01-05"))
	require.NoError(t, err)

	_, err = env.lifecycle.CreateGame(ctx, testOrg, 2, day("2026-06-01"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCreateGameRejectsDuplicateGameNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, week := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 600)
	require.NoError(t, err)
	_, err = env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week.ID, WinnerInfo{
		WinnerName:    "Pat Doyle",
		CardSelected:  "Queen of Hearts",
		WinnerPresent: true,
	})
	require.NoError(t, err)

	_, err = env.lifecycle.CreateGame(ctx, testOrg, 1, day("2026-06-01"))
	assert.ErrorIs(t, err, models.ErrDuplicateGameNumber)
}

func TestCreateWeekRequiresPreviousWeekClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.lifecycle.CreateWeek(ctx, testOrg, game.ID, day("2026-01-12"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCreateWeekRejectsOverlappingDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, week1 := env.startGame(t, 1, "2026-01-05")
	_, err := env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week1.ID, WinnerInfo{
		WinnerName:   "Pat Doyle",
		CardSelected: "Joker",
	})
	require.NoError(t, err)

	// Week 1 runs Jan 5-11; a week starting Jan 10 overlaps it.
	_, err = env.lifecycle.CreateWeek(ctx, testOrg, game.ID, day("2026-01-10"))
	assert.ErrorIs(t, err, models.ErrInvalidDateRange)
}

func TestRecordWinnerValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, week := env.startGame(t, 1, "2026-01-05")

	_, err := env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week.ID, WinnerInfo{
		CardSelected: "Joker",
	})
	assert.ErrorIs(t, err, models.ErrMissingWinnerInfo)

	_, err = env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week.ID, WinnerInfo{
		WinnerName: "Pat Doyle",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRecordWinnerUnlistedCardFallsBackToOther(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, week := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 100)
	require.NoError(t, err)

	updated, err := env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week.ID, WinnerInfo{
		WinnerName:   "Pat Doyle",
		CardSelected: "Seven of Clubs",
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.WeeklyPayout)
}

func TestFixedCardClosesWeekWithoutEndingGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, week := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 600)
	require.NoError(t, err)

	updated, err := env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week.ID, WinnerInfo{
		WinnerName:    "Pat Doyle",
		CardSelected:  "Queen of Diamonds",
		WinnerPresent: true,
		SlotChosen:    7,
	})
	require.NoError(t, err)

	assert.True(t, updated.IsClosed())
	assert.Equal(t, 50.0, updated.WeeklyPayout)
	require.NotNil(t, updated.EndingJackpot)
	assert.Equal(t, 720.0, *updated.EndingJackpot)

	stored := env.reloadGame(t, game)
	assert.True(t, stored.IsActive())
	assert.Equal(t, 50.0, stored.TotalPayouts)
}

func TestJackpotCardCompletesGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, week := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 600)
	require.NoError(t, err)

	// $720 jackpot, absent winner, 10% penalty: $648 paid out, $72 carried.
	updated, err := env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week.ID, WinnerInfo{
		WinnerName:    "Pat Doyle",
		CardSelected:  "Queen of Hearts",
		WinnerPresent: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 648.0, updated.WeeklyPayout)

	stored := env.reloadGame(t, game)
	assert.True(t, stored.IsCompleted())
	assert.Equal(t, 72.0, stored.JackpotContributionToNextGame)
	assert.Equal(t, 0.0, stored.GuaranteeShortfall)
	assert.Equal(t, 648.0, stored.TotalPayouts)
	// 600 × $2 × 40% organization share, no expenses.
	assert.Equal(t, 480.0, stored.OrganizationNetProfit)
}

func TestGuaranteeShortfallReducesNetProfit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// The $500 floor holds the jackpot at the guaranteed minimum; the absent
	// winner's penalty drops the split below it, so the organization absorbs
	// the difference.
	game, week := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 150)
	require.NoError(t, err)

	_, err = env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week.ID, WinnerInfo{
		WinnerName:    "Pat Doyle",
		CardSelected:  "Queen of Hearts",
		WinnerPresent: false,
	})
	require.NoError(t, err)

	stored := env.reloadGame(t, game)
	assert.True(t, stored.IsCompleted())
	// $500 jackpot, $50 penalty, winner gets topped back up to $500.
	assert.Equal(t, 500.0, stored.TotalPayouts)
	assert.Equal(t, 50.0, stored.GuaranteeShortfall)
	assert.Equal(t, 50.0, stored.JackpotContributionToNextGame)
	// Org share 150 × $2 × 40% = $120, less the $50 top-up.
	assert.Equal(t, 70.0, stored.OrganizationNetProfit)
}

func TestCarryoverChainsAcrossGames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game1, week := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game1.ID, day("2026-01-05"), 1000)
	require.NoError(t, err)

	// $1200 jackpot, absent winner: $120 penalty seeds game 2.
	_, err = env.lifecycle.RecordWinner(ctx, testOrg, game1.ID, week.ID, WinnerInfo{
		WinnerName:    "Pat Doyle",
		CardSelected:  "Queen of Hearts",
		WinnerPresent: false,
	})
	require.NoError(t, err)

	game2, err := env.lifecycle.CreateGame(ctx, testOrg, 2, day("2026-06-01"))
	require.NoError(t, err)
	assert.Equal(t, 120.0, game2.CarryoverJackpot)

	// The carryover is the base of game 2's running totals from day one.
	_, err = env.lifecycle.CreateWeek(ctx, testOrg, game2.ID, day("2026-06-01"))
	require.NoError(t, err)
	entry, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game2.ID, day("2026-06-01"), 100)
	require.NoError(t, err)
	assert.Equal(t, 320.0, entry.CumulativeCollected)
	assert.Equal(t, 240.0, entry.JackpotContributionsTotal)
	assert.Equal(t, 500.0, entry.EndingJackpotTotal, "carryover plus contributions still under the floor")
}

func TestCorrectionToClosedWeekKeepsFrozenEnding(t *testing.T) {
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

	// Correcting the winner's name must not recompute the frozen ending even
	// though more sales have landed in a later week since.
	_, err = env.lifecycle.CreateWeek(ctx, testOrg, game.ID, day("2026-01-12"))
	require.NoError(t, err)
	_, err = env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-12"), 500)
	require.NoError(t, err)

	corrected, err := env.lifecycle.RecordWinner(ctx, testOrg, game.ID, week1.ID, WinnerInfo{
		WinnerName:   "Pat O'Doyle",
		CardSelected: "Joker",
	})
	require.NoError(t, err)

	assert.Equal(t, "Pat O'Doyle", corrected.WinnerName)
	require.NotNil(t, corrected.EndingJackpot)
	assert.Equal(t, 720.0, *corrected.EndingJackpot)
}
