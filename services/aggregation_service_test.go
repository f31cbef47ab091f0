package services

import (
	"context"
	"testing"

	"qoh-app-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeGameTotalsFromSourceRows(t *testing.T) {
	ending := 740.0
	game := &models.Game{GuaranteeShortfall: 25}
	weeks := []*models.Week{
		{WeekNumber: 1, WeeklySales: 300, WeeklyPayout: 50, WinnerName: "a", EndingJackpot: &ending},
		{WeekNumber: 2, WeeklySales: 400, WeeklyPayout: 9999}, // open week, payout ignored
	}
	entries := []*models.DailyEntry{
		{OrganizationTotal: 120},
		{OrganizationTotal: 160},
	}
	expenses := []*models.Expense{
		{Amount: 40},
		{Amount: 15, IsDonation: true},
	}

	totals := ComputeGameTotals(game, weeks, entries, expenses)

	assert.Equal(t, 700.0, totals.TotalSales)
	assert.Equal(t, 50.0, totals.TotalPayouts, "only closed weeks pay out")
	assert.Equal(t, 40.0, totals.TotalExpenses)
	assert.Equal(t, 15.0, totals.TotalDonations)
	// 280 org share − 40 expenses − 15 donations − 25 shortfall.
	assert.Equal(t, 200.0, totals.OrganizationNetProfit)
}

func TestRecalculateGameRebuildsWeekCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, week := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 100)
	require.NoError(t, err)
	_, err = env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-07"), 50)
	require.NoError(t, err)

	stored := env.reloadWeek(t, week)
	assert.Equal(t, 150, stored.WeeklyTicketsSold)
	assert.Equal(t, 300.0, stored.WeeklySales)

	storedGame := env.reloadGame(t, game)
	assert.Equal(t, 300.0, storedGame.TotalSales)
	assert.Equal(t, 120.0, storedGame.OrganizationNetProfit)
}

func TestReconcilePassesOnConsistentGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 100)
	require.NoError(t, err)

	assert.NoError(t, env.agg.Reconcile(ctx, game.ID))
}

func TestReconcileDetectsTamperedAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 100)
	require.NoError(t, err)

	stored := env.reloadGame(t, game)
	stored.TotalSales += 100
	require.NoError(t, env.games.Update(ctx, stored))

	assert.ErrorIs(t, env.agg.Reconcile(ctx, game.ID), models.ErrConsistencyViolation)
}

func TestReconcileUnknownGame(t *testing.T) {
	env := newTestEnv(t)

	err := env.agg.Reconcile(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
