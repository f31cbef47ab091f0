package services

import (
	"context"
	"testing"
	"time"

	"qoh-app-go/models"

	"github.com/stretchr/testify/require"
)

const testOrg = "elks-lodge-42"

// testEnv wires the full service graph onto in-memory repositories.
type testEnv struct {
	games    *MemoryGameRepository
	weeks    *MemoryWeekRepository
	entries  *MemoryEntryRepository
	expenses *MemoryExpenseRepository
	configs  *MemoryConfigurationRepository

	agg       *AggregationService
	jackpot   *JackpotService
	ledger    *EntryLedgerService
	lifecycle *GameLifecycleService
	expense   *ExpenseService
	configSvc *ConfigurationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		games:    NewMemoryGameRepository(),
		weeks:    NewMemoryWeekRepository(),
		entries:  NewMemoryEntryRepository(),
		expenses: NewMemoryExpenseRepository(),
		configs:  NewMemoryConfigurationRepository(),
	}

	locks := NewGameLocks()
	env.agg = NewAggregationService(env.games, env.weeks, env.entries, env.expenses)
	env.jackpot = NewJackpotService(env.games, env.weeks, env.entries)
	env.ledger = NewEntryLedgerService(env.games, env.weeks, env.entries, env.agg, locks)
	env.lifecycle = NewGameLifecycleService(env.games, env.weeks, env.entries, env.configs, env.agg, NewPayoutService(), locks)
	env.expense = NewExpenseService(env.games, env.expenses, env.agg, locks)
	env.configSvc = NewConfigurationService(env.configs)

	require.NoError(t, env.configs.Upsert(context.Background(), models.DefaultConfiguration(testOrg)))
	return env
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

// startGame creates a game with one open week starting on the game's start
// date and returns both, freshly loaded.
func (env *testEnv) startGame(t *testing.T, gameNumber int, start string) (*models.Game, *models.Week) {
	t.Helper()
	ctx := context.Background()

	game, err := env.lifecycle.CreateGame(ctx, testOrg, gameNumber, day(start))
	require.NoError(t, err)

	week, err := env.lifecycle.CreateWeek(ctx, testOrg, game.ID, day(start))
	require.NoError(t, err)
	return game, week
}

// reloadGame fetches the current stored state of a game.
func (env *testEnv) reloadGame(t *testing.T, game *models.Game) *models.Game {
	t.Helper()
	stored, err := env.games.FindByID(context.Background(), game.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	return stored
}

// reloadWeek fetches the current stored state of a week.
func (env *testEnv) reloadWeek(t *testing.T, week *models.Week) *models.Week {
	t.Helper()
	stored, err := env.weeks.FindByID(context.Background(), week.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	return stored
}
