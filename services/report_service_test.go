package services

import (
	"context"
	"testing"

	"qoh-app-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGameReportAssemblesComputedFigures(t *testing.T) {
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

	_, err = env.lifecycle.CreateWeek(ctx, testOrg, game.ID, day("2026-01-12"))
	require.NoError(t, err)
	_, err = env.ledger.UpsertDailyEntry(ctx, testOrg, game.ID, day("2026-01-12"), 100)
	require.NoError(t, err)

	report, err := env.reports().BuildGameReport(ctx, testOrg, game.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, report.GameNumber)
	assert.Equal(t, "active", report.Status)
	assert.Equal(t, "2026-01-05", report.StartDate)
	assert.Empty(t, report.EndDate)
	assert.Equal(t, 1400.0, report.TotalSales)
	assert.Equal(t, 100.0, report.TotalPayouts)
	// Frozen week 1 ending ($720) plus week 2's $120 of contributions.
	assert.Equal(t, 840.0, report.CurrentJackpot)

	require.Len(t, report.Weeks, 2)
	assert.Equal(t, "Pat Doyle", report.Weeks[0].WinnerName)
	require.NotNil(t, report.Weeks[0].EndingJackpot)
	assert.Equal(t, 720.0, *report.Weeks[0].EndingJackpot)
	assert.Nil(t, report.Weeks[1].EndingJackpot)
}

func TestBuildGameReportUnknownGame(t *testing.T) {
	env := newTestEnv(t)

	game, _ := env.startGame(t, 1, "2026-01-05")
	_, err := env.reports().BuildGameReport(context.Background(), "someone-else", game.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// reports builds a ReportService over the env's repositories.
func (env *testEnv) reports() *ReportService {
	return NewReportService(env.games, env.weeks, env.entries, env.expenses, env.jackpot)
}
