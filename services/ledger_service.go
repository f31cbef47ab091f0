package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryLedgerService owns the daily ticket-sale entries of a game. Every
// mutation resums the running totals of all later-dated entries from scratch
// and re-aggregates the week and game rollups, so a single edit to a
// historical day can never leave downstream totals stale.
type EntryLedgerService struct {
	gameRepo  GameRepository
	weekRepo  WeekRepository
	entryRepo EntryRepository
	agg       *AggregationService
	locks     *GameLocks
	logger    *logging.Logger
}

// NewEntryLedgerService creates a new entry ledger service
func NewEntryLedgerService(gameRepo GameRepository, weekRepo WeekRepository, entryRepo EntryRepository, agg *AggregationService, locks *GameLocks) *EntryLedgerService {
	return &EntryLedgerService{
		gameRepo:  gameRepo,
		weekRepo:  weekRepo,
		entryRepo: entryRepo,
		agg:       agg,
		locks:     locks,
		logger:    logging.WithPrefix("ledger"),
	}
}

// recomputeRunningTotals rebuilds every entry's running totals from the
// date-ordered entry list plus the game's carryover base. The same pass
// serves single-entry edits and full-game reconciliation. Entries belonging
// to closed weeks keep their frozen EndingJackpotTotal; their cumulative
// sums still refresh because those are game-wide running totals, not
// per-week history.
func recomputeRunningTotals(game *models.Game, weeks []*models.Week, entries []*models.DailyEntry) {
	weekByID := make(map[primitive.ObjectID]*models.Week, len(weeks))
	for _, week := range weeks {
		weekByID[week.ID] = week
	}

	cumulative := game.CarryoverJackpot
	contributions := game.CarryoverJackpot
	weekRunning := make(map[primitive.ObjectID]float64, len(weeks))

	for _, entry := range entries {
		cumulative = models.SumCurrency(cumulative, entry.AmountCollected)
		contributions = models.SumCurrency(contributions, entry.JackpotTotal)
		entry.CumulativeCollected = cumulative
		entry.JackpotContributionsTotal = contributions

		week, ok := weekByID[entry.WeekID]
		if !ok {
			continue
		}
		weekRunning[week.ID] = models.SumCurrency(weekRunning[week.ID], entry.JackpotTotal)
		if week.IsClosed() {
			continue
		}

		base, establishing := JackpotBase(game, weeks, week)
		displayed := models.SumCurrency(base, weekRunning[week.ID])
		if establishing {
			displayed = math.Max(displayed, game.MinimumStartingJackpot)
		}
		entry.EndingJackpotTotal = displayed
	}
}

// UpsertDailyEntry records or updates the ticket sales for one calendar day,
// then resums every later entry and re-aggregates the week and game rollups.
// Splits are computed from the game's snapshotted price and percentages, so
// later configuration changes never alter historical entries.
func (s *EntryLedgerService) UpsertDailyEntry(ctx context.Context, organizationID string, gameID primitive.ObjectID, date time.Time, ticketsSold int) (*models.DailyEntry, error) {
	if ticketsSold < 0 {
		return nil, fmt.Errorf("%w: tickets sold cannot be negative, got %d", models.ErrInvalidInput, ticketsSold)
	}

	unlock := s.locks.Lock(gameID.Hex())
	defer unlock()

	game, err := s.loadActiveGame(ctx, organizationID, gameID)
	if err != nil {
		return nil, err
	}

	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	day := models.DateOnly(date)
	var week *models.Week
	for _, candidate := range weeks {
		if candidate.ContainsDate(day) {
			week = candidate
			break
		}
	}
	if week == nil {
		return nil, fmt.Errorf("%w: %s falls outside every week of game %d",
			models.ErrInvalidDateRange, day.Format("2006-01-02"), game.GameNumber)
	}

	entries, err := s.entryRepo.FindByGameOrderedByDate(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	var entry *models.DailyEntry
	for _, existing := range entries {
		if models.DateOnly(existing.Date).Equal(day) {
			entry = existing
			break
		}
	}

	if entry == nil {
		entry = &models.DailyEntry{
			GameID:         game.ID,
			WeekID:         week.ID,
			OrganizationID: organizationID,
			Date:           day,
			CreatedAt:      time.Now(),
		}
		entry.ApplySplit(game, ticketsSold)
		if err := s.entryRepo.Insert(ctx, entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		sort.Slice(entries, func(i, j int) bool {
			if !entries[i].Date.Equal(entries[j].Date) {
				return entries[i].Date.Before(entries[j].Date)
			}
			return entries[i].ID.Hex() < entries[j].ID.Hex()
		})
		s.logger.Infof("New entry for game %d on %s: %d tickets", game.GameNumber, day.Format("2006-01-02"), ticketsSold)
	} else {
		entry.ApplySplit(game, ticketsSold)
		s.logger.Infof("Updated entry for game %d on %s: %d tickets", game.GameNumber, day.Format("2006-01-02"), ticketsSold)
	}

	if err := s.persistRunningTotals(ctx, game, weeks, entries); err != nil {
		return nil, err
	}

	if err := s.agg.RecalculateGame(ctx, game); err != nil {
		return nil, err
	}

	return entry, nil
}

// DeleteEntry removes one day's entry and resums everything after it.
func (s *EntryLedgerService) DeleteEntry(ctx context.Context, organizationID string, gameID, entryID primitive.ObjectID) error {
	unlock := s.locks.Lock(gameID.Hex())
	defer unlock()

	game, err := s.loadActiveGame(ctx, organizationID, gameID)
	if err != nil {
		return err
	}

	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil || entry.GameID != game.ID {
		return fmt.Errorf("%w: entry %s in game %d", models.ErrNotFound, entryID.Hex(), game.GameNumber)
	}

	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		return err
	}
	s.logger.Infof("Deleted entry for game %d on %s", game.GameNumber, entry.Date.Format("2006-01-02"))

	return s.recomputeGameLocked(ctx, game)
}

// DeleteWeek removes the latest week of a game along with its entries.
// Earlier weeks cannot be deleted; week numbers are sequential and closed
// history stays intact.
func (s *EntryLedgerService) DeleteWeek(ctx context.Context, organizationID string, gameID, weekID primitive.ObjectID) error {
	unlock := s.locks.Lock(gameID.Hex())
	defer unlock()

	game, err := s.loadActiveGame(ctx, organizationID, gameID)
	if err != nil {
		return err
	}

	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return err
	}

	var week *models.Week
	for _, candidate := range weeks {
		if candidate.ID == weekID {
			week = candidate
		}
	}
	if week == nil {
		return fmt.Errorf("%w: week %s in game %d", models.ErrNotFound, weekID.Hex(), game.GameNumber)
	}
	if week.WeekNumber != len(weeks) {
		return fmt.Errorf("%w: only the latest week of a game can be deleted", models.ErrInvalidInput)
	}

	if err := s.entryRepo.DeleteByWeek(ctx, weekID); err != nil {
		return err
	}
	if err := s.weekRepo.Delete(ctx, weekID); err != nil {
		return err
	}
	s.logger.Infof("Deleted week %d of game %d", week.WeekNumber, game.GameNumber)

	return s.recomputeGameLocked(ctx, game)
}

// RecomputeGame runs the full-game reconciliation path: resum every entry's
// running totals from scratch and rebuild the week/game rollups. It shares
// its algorithm with the single-entry edit path.
func (s *EntryLedgerService) RecomputeGame(ctx context.Context, organizationID string, gameID primitive.ObjectID) error {
	unlock := s.locks.Lock(gameID.Hex())
	defer unlock()

	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil || game.OrganizationID != organizationID {
		return fmt.Errorf("%w: game %s", models.ErrNotFound, gameID.Hex())
	}

	return s.recomputeGameLocked(ctx, game)
}

func (s *EntryLedgerService) recomputeGameLocked(ctx context.Context, game *models.Game) error {
	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return err
	}
	entries, err := s.entryRepo.FindByGameOrderedByDate(ctx, game.ID)
	if err != nil {
		return err
	}

	if err := s.persistRunningTotals(ctx, game, weeks, entries); err != nil {
		return err
	}

	return s.agg.RecalculateGame(ctx, game)
}

func (s *EntryLedgerService) persistRunningTotals(ctx context.Context, game *models.Game, weeks []*models.Week, entries []*models.DailyEntry) error {
	recomputeRunningTotals(game, weeks, entries)

	for _, entry := range entries {
		if err := s.entryRepo.Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to persist running totals for %s: %w", entry.Date.Format("2006-01-02"), err)
		}
	}
	return nil
}

func (s *EntryLedgerService) loadActiveGame(ctx context.Context, organizationID string, gameID primitive.ObjectID) (*models.Game, error) {
	return loadActiveGame(ctx, s.gameRepo, organizationID, gameID)
}

// loadActiveGame resolves a game owned by the organization and rejects
// mutations against completed games.
func loadActiveGame(ctx context.Context, gameRepo GameRepository, organizationID string, gameID primitive.ObjectID) (*models.Game, error) {
	game, err := gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil || game.OrganizationID != organizationID {
		return nil, fmt.Errorf("%w: game %s", models.ErrNotFound, gameID.Hex())
	}
	if game.IsCompleted() {
		return nil, fmt.Errorf("%w: game %d ended on %s", models.ErrGameClosed,
			game.GameNumber, game.EndDate.Format("2006-01-02"))
	}
	return game, nil
}
