package services

import (
	"context"
	"testing"

	"qoh-app-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddExpenseReducesNetProfit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 100)
	require.NoError(t, err)

	_, err = env.expense.AddExpense(ctx, testOrg, game.ID, day("2026-01-06"), 30, false, "card deck and board")
	require.NoError(t, err)
	_, err = env.expense.AddExpense(ctx, testOrg, game.ID, day("2026-01-07"), 20, true, "youth league donation")
	require.NoError(t, err)

	stored := env.reloadGame(t, game)
	assert.Equal(t, 30.0, stored.TotalExpenses)
	assert.Equal(t, 20.0, stored.TotalDonations)
	// 100 × $2 × 40% = $80, less $30 expenses and $20 donations.
	assert.Equal(t, 30.0, stored.OrganizationNetProfit)
}

func TestAddExpenseRejectsNonPositiveAmounts(t *testing.T) {
	env := newTestEnv(t)

	game, _ := env.startGame(t, 1, "2026-01-05")
	for _, amount := range []float64{0, -10} {
		_, err := env.expense.AddExpense(context.Background(), testOrg, game.ID, day("2026-01-06"), amount, false, "")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	}
}

func TestDeleteExpenseRestoresNetProfit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-05"), 100)
	require.NoError(t, err)

	expense, err := env.expense.AddExpense(ctx, testOrg, game.ID, day("2026-01-06"), 30, false, "")
	require.NoError(t, err)
	require.NoError(t, env.expense.DeleteExpense(ctx, testOrg, game.ID, expense.ID))

	stored := env.reloadGame(t, game)
	assert.Equal(t, 0.0, stored.TotalExpenses)
	assert.Equal(t, 80.0, stored.OrganizationNetProfit)
}

func TestListExpensesReturnsDateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.expense.AddExpense(ctx, testOrg, game.ID, day("2026-01-08"), 10, false, "later")
	require.NoError(t, err)
	_, err = env.expense.AddExpense(ctx, testOrg, game.ID, day("2026-01-05"), 5, false, "earlier")
	require.NoError(t, err)

	expenses, err := env.expense.ListExpenses(ctx, testOrg, game.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "earlier", expenses[0].Memo)
	assert.Equal(t, "later", expenses[1].Memo)
}

func TestExpenseOperationsOnCompletedGameFail(t *testing.T) {
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

	_, err = env.expense.AddExpense(ctx, testOrg, game.ID, day("2026-01-06"), 30, false, "")
	assert.ErrorIs(t, err, models.ErrGameClosed)
}
