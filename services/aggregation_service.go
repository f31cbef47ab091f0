package services

import (
	"context"
	"fmt"
	"math"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AggregationService derives week and game rollups from source rows. Totals
// are always recomputed from scratch, never incrementally patched, so they
// converge after edits, deletes and out-of-order writes.
type AggregationService struct {
	gameRepo    GameRepository
	weekRepo    WeekRepository
	entryRepo   EntryRepository
	expenseRepo ExpenseRepository
	logger      *logging.Logger
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(gameRepo GameRepository, weekRepo WeekRepository, entryRepo EntryRepository, expenseRepo ExpenseRepository) *AggregationService {
	return &AggregationService{
		gameRepo:    gameRepo,
		weekRepo:    weekRepo,
		entryRepo:   entryRepo,
		expenseRepo: expenseRepo,
		logger:      logging.WithPrefix("aggregation"),
	}
}

// GameTotals is the recomputed rollup for one game.
type GameTotals struct {
	TotalSales            float64
	TotalPayouts          float64
	TotalExpenses         float64
	TotalDonations        float64
	OrganizationNetProfit float64
}

// ComputeGameTotals derives a game's rollup from its weeks, entries and
// expenses. Net profit is the organization share of every entry, less
// expenses, donations and any guarantee shortfall absorbed at completion.
func ComputeGameTotals(game *models.Game, weeks []*models.Week, entries []*models.DailyEntry, expenses []*models.Expense) GameTotals {
	var totals GameTotals

	sales := make([]float64, 0, len(weeks))
	payouts := make([]float64, 0, len(weeks))
	for _, week := range weeks {
		sales = append(sales, week.WeeklySales)
		if week.IsClosed() {
			payouts = append(payouts, week.WeeklyPayout)
		}
	}
	totals.TotalSales = models.SumCurrency(sales...)
	totals.TotalPayouts = models.SumCurrency(payouts...)

	var expenseAmounts, donationAmounts []float64
	for _, expense := range expenses {
		if expense.IsDonation {
			donationAmounts = append(donationAmounts, expense.Amount)
		} else {
			expenseAmounts = append(expenseAmounts, expense.Amount)
		}
	}
	totals.TotalExpenses = models.SumCurrency(expenseAmounts...)
	totals.TotalDonations = models.SumCurrency(donationAmounts...)

	orgShares := make([]float64, 0, len(entries))
	for _, entry := range entries {
		orgShares = append(orgShares, entry.OrganizationTotal)
	}
	organizationTotal := models.SumCurrency(orgShares...)

	totals.OrganizationNetProfit = models.SubCurrency(
		models.SubCurrency(
			models.SubCurrency(organizationTotal, totals.TotalExpenses),
			totals.TotalDonations),
		game.GuaranteeShortfall)

	return totals
}

// RecalculateGame rebuilds every week's counters and the game's rollup from
// source rows and persists the results. Invoked after any ledger mutation.
func (s *AggregationService) RecalculateGame(ctx context.Context, game *models.Game) error {
	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load weeks for game %d: %w", game.GameNumber, err)
	}

	entries, err := s.entryRepo.FindByGameOrderedByDate(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load entries for game %d: %w", game.GameNumber, err)
	}

	entriesByWeek := make(map[primitive.ObjectID][]*models.DailyEntry)
	for _, entry := range entries {
		entriesByWeek[entry.WeekID] = append(entriesByWeek[entry.WeekID], entry)
	}

	for _, week := range weeks {
		week.UpdateFromEntries(entriesByWeek[week.ID])
		if err := s.weekRepo.Update(ctx, week); err != nil {
			return fmt.Errorf("failed to persist week %d totals: %w", week.WeekNumber, err)
		}
	}

	expenses, err := s.expenseRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load expenses for game %d: %w", game.GameNumber, err)
	}

	totals := ComputeGameTotals(game, weeks, entries, expenses)
	game.TotalSales = totals.TotalSales
	game.TotalPayouts = totals.TotalPayouts
	game.TotalExpenses = totals.TotalExpenses
	game.TotalDonations = totals.TotalDonations
	game.OrganizationNetProfit = totals.OrganizationNetProfit

	if err := s.gameRepo.Update(ctx, game); err != nil {
		return fmt.Errorf("failed to persist game %d totals: %w", game.GameNumber, err)
	}

	s.logger.Debugf("Recalculated game %d: sales=%.2f payouts=%.2f expenses=%.2f donations=%.2f net=%.2f",
		game.GameNumber, totals.TotalSales, totals.TotalPayouts, totals.TotalExpenses,
		totals.TotalDonations, totals.OrganizationNetProfit)

	return nil
}

// Reconcile recomputes a game's rollup from scratch and compares it against
// the stored aggregates. A mismatch is a data-corruption bug and is surfaced
// as a hard failure, never patched over.
func (s *AggregationService) Reconcile(ctx context.Context, gameID primitive.ObjectID) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return fmt.Errorf("%w: game %s", models.ErrNotFound, gameID.Hex())
	}

	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return err
	}
	entries, err := s.entryRepo.FindByGameOrderedByDate(ctx, game.ID)
	if err != nil {
		return err
	}
	expenses, err := s.expenseRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return err
	}

	totals := ComputeGameTotals(game, weeks, entries, expenses)

	checks := []struct {
		field    string
		stored   float64
		computed float64
	}{
		{"totalSales", game.TotalSales, totals.TotalSales},
		{"totalPayouts", game.TotalPayouts, totals.TotalPayouts},
		{"totalExpenses", game.TotalExpenses, totals.TotalExpenses},
		{"totalDonations", game.TotalDonations, totals.TotalDonations},
		{"organizationNetProfit", game.OrganizationNetProfit, totals.OrganizationNetProfit},
	}

	for _, check := range checks {
		if math.Abs(check.stored-check.computed) >= 0.005 {
			s.logger.Errorf("Game %d field %s cannot be reconciled: stored=%.2f computed=%.2f",
				game.GameNumber, check.field, check.stored, check.computed)
			return fmt.Errorf("%w: game %d field %s stored=%.2f computed=%.2f",
				models.ErrConsistencyViolation, game.GameNumber, check.field, check.stored, check.computed)
		}
	}

	return nil
}
