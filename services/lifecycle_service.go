package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameLifecycleService orchestrates game creation, week creation, winner
// recording and game completion. Completion is the one multi-step sequence
// in the engine; its steps run in a fixed order so aggregation always sees a
// consistent in-flight state and carryover is never double-credited.
type GameLifecycleService struct {
	gameRepo   GameRepository
	weekRepo   WeekRepository
	entryRepo  EntryRepository
	configRepo ConfigurationRepository
	agg        *AggregationService
	payout     *PayoutService
	locks      *GameLocks
	logger     *logging.Logger
}

// NewGameLifecycleService creates a new game lifecycle service
func NewGameLifecycleService(gameRepo GameRepository, weekRepo WeekRepository, entryRepo EntryRepository, configRepo ConfigurationRepository, agg *AggregationService, payout *PayoutService, locks *GameLocks) *GameLifecycleService {
	return &GameLifecycleService{
		gameRepo:   gameRepo,
		weekRepo:   weekRepo,
		entryRepo:  entryRepo,
		configRepo: configRepo,
		agg:        agg,
		payout:     payout,
		locks:      locks,
		logger:     logging.WithPrefix("lifecycle"),
	}
}

// WinnerInfo carries the details of a weekly card draw.
type WinnerInfo struct {
	WinnerName    string `json:"winnerName"`
	CardSelected  string `json:"cardSelected"`
	WinnerPresent bool   `json:"winnerPresent"`
	SlotChosen    int    `json:"slotChosen"`
}

// CreateGame starts a new game for the organization, snapshotting the current
// configuration and seeding carryover from the most recently completed game.
// Carryover chains transitively: a completed game that never had a successor
// passes along both its own carryover and its contribution to the next game.
func (s *GameLifecycleService) CreateGame(ctx context.Context, organizationID string, gameNumber int, startDate time.Time) (*models.Game, error) {
	if gameNumber <= 0 {
		return nil, fmt.Errorf("%w: game number must be positive, got %d", models.ErrInvalidInput, gameNumber)
	}

	unlock := s.locks.Lock("org:" + organizationID)
	defer unlock()

	cfg, err := s.configRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration for organization %s", models.ErrNotFound, organizationID)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.PercentagesSumTo100() {
		return nil, fmt.Errorf("%w: organization and jackpot percentages must sum to 100, got %.1f and %.1f",
			models.ErrInvalidInput, cfg.OrganizationPercentage, cfg.JackpotPercentage)
	}

	active, err := s.gameRepo.FindActiveByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("%w: game %d is still active", models.ErrInvalidInput, active.GameNumber)
	}

	game := models.NewGameFromConfiguration(cfg, gameNumber, models.DateOnly(startDate))

	prior, err := s.gameRepo.FindLatestCompletedByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		game.CarryoverJackpot = models.SumCurrency(prior.CarryoverJackpot, prior.JackpotContributionToNextGame)
		s.logger.Infof("Game %d seeded with %.2f carryover from game %d",
			gameNumber, game.CarryoverJackpot, prior.GameNumber)
	}

	if err := s.gameRepo.Insert(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Infof("Created game %d for organization %s", gameNumber, organizationID)
	return game, nil
}

// ListGames returns all of the organization's games, newest first.
func (s *GameLifecycleService) ListGames(ctx context.Context, organizationID string) ([]*models.Game, error) {
	return s.gameRepo.FindByOrganization(ctx, organizationID)
}

// GetGame returns one of the organization's games with its weeks.
func (s *GameLifecycleService) GetGame(ctx context.Context, organizationID string, gameID primitive.ObjectID) (*models.Game, []*models.Week, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game == nil || game.OrganizationID != organizationID {
		return nil, nil, fmt.Errorf("%w: game %s", models.ErrNotFound, gameID.Hex())
	}
	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return nil, nil, err
	}
	return game, weeks, nil
}

// CreateWeek opens the next sequential week of a game. The previous week must
// be closed first and week date ranges may not overlap.
func (s *GameLifecycleService) CreateWeek(ctx context.Context, organizationID string, gameID primitive.ObjectID, startDate time.Time) (*models.Week, error) {
	unlock := s.locks.Lock(gameID.Hex())
	defer unlock()

	game, err := loadActiveGame(ctx, s.gameRepo, organizationID, gameID)
	if err != nil {
		return nil, err
	}

	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	for _, existing := range weeks {
		if !existing.IsClosed() {
			return nil, fmt.Errorf("%w: week %d is still open", models.ErrInvalidInput, existing.WeekNumber)
		}
	}

	week := models.NewWeek(game, len(weeks)+1, startDate)
	for _, existing := range weeks {
		if week.Overlaps(existing) {
			return nil, fmt.Errorf("%w: week starting %s overlaps week %d",
				models.ErrInvalidDateRange, week.StartDate.Format("2006-01-02"), existing.WeekNumber)
		}
	}

	if err := s.weekRepo.Insert(ctx, week); err != nil {
		return nil, err
	}

	s.logger.Infof("Created week %d of game %d (%s to %s)", week.WeekNumber, game.GameNumber,
		week.StartDate.Format("2006-01-02"), week.EndDate.Format("2006-01-02"))
	return week, nil
}

// RecordWinner records a card draw for a week. A fixed-payout card closes the
// week and freezes its ending jackpot; the jackpot card additionally runs the
// winner distribution and completes the game. Recording against an already
// closed week is a correction: the frozen ending jackpot is kept and only the
// winner data is rewritten.
func (s *GameLifecycleService) RecordWinner(ctx context.Context, organizationID string, gameID, weekID primitive.ObjectID, info WinnerInfo) (*models.Week, error) {
	unlock := s.locks.Lock(gameID.Hex())
	defer unlock()

	game, err := loadActiveGame(ctx, s.gameRepo, organizationID, gameID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(info.WinnerName) == "" {
		return nil, fmt.Errorf("%w: winner name is required", models.ErrMissingWinnerInfo)
	}
	if strings.TrimSpace(info.CardSelected) == "" {
		return nil, fmt.Errorf("%w: card selected is required", models.ErrInvalidInput)
	}

	payout, ok := game.LookupCardPayout(info.CardSelected)
	if !ok {
		return nil, fmt.Errorf("%w: card %q is not in the payout table", models.ErrInvalidInput, info.CardSelected)
	}

	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	var week *models.Week
	for _, candidate := range weeks {
		if candidate.ID == weekID {
			week = candidate
		}
	}
	if week == nil {
		return nil, fmt.Errorf("%w: week %s in game %d", models.ErrNotFound, weekID.Hex(), game.GameNumber)
	}

	// The jackpot at the moment of the draw: the live displayed value for an
	// open week, the frozen ending for a correction to a closed one.
	var jackpotAtDraw float64
	if week.IsClosed() && week.EndingJackpot != nil {
		jackpotAtDraw = *week.EndingJackpot
	} else {
		entries, err := s.entryRepo.FindByGameOrderedByDate(ctx, game.ID)
		if err != nil {
			return nil, err
		}
		var weekEntries []*models.DailyEntry
		for _, entry := range entries {
			if entry.WeekID == week.ID {
				weekEntries = append(weekEntries, entry)
			}
		}
		jackpotAtDraw = DisplayedJackpot(game, weeks, weekEntries, week)
	}

	week.WinnerName = info.WinnerName
	week.CardSelected = info.CardSelected
	present := info.WinnerPresent
	week.WinnerPresent = &present
	week.SlotChosen = info.SlotChosen
	week.EndingJackpot = &jackpotAtDraw

	if !payout.IsJackpot {
		week.WeeklyPayout = payout.Amount
		if err := s.weekRepo.Update(ctx, week); err != nil {
			return nil, err
		}
		if err := s.agg.RecalculateGame(ctx, game); err != nil {
			return nil, err
		}
		s.logger.Infof("Week %d of game %d closed: %s drew %s, payout %.2f, ending jackpot %.2f",
			week.WeekNumber, game.GameNumber, info.WinnerName, info.CardSelected, payout.Amount, jackpotAtDraw)
		return week, nil
	}

	dist, err := s.payout.Distribute(jackpotAtDraw, info.WinnerName, info.WinnerPresent, game.PenaltyPercentage)
	if err != nil {
		return nil, err
	}

	week.WeeklyPayout = dist.FinalPayout
	if err := s.weekRepo.Update(ctx, week); err != nil {
		return nil, err
	}

	if err := s.completeGame(ctx, game, dist); err != nil {
		return nil, err
	}

	s.logger.Infof("Game %d completed: %s won %.2f, %.2f carried to next game",
		game.GameNumber, info.WinnerName, dist.FinalPayout, dist.NextGameGets)
	return week, nil
}

// completeGame applies the completion sequence in order: record the
// distribution results on the still-active game, re-aggregate against the
// final payout, set the end date, then credit any active successor.
func (s *GameLifecycleService) completeGame(ctx context.Context, game *models.Game, dist *models.WinnerDistribution) error {
	// Step 1: completion bookkeeping while the game is still active.
	game.JackpotContributionToNextGame = dist.NextGameGets
	game.GuaranteeShortfall = dist.Shortfall()
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return err
	}

	// Step 2: final aggregation pass picks up the closing week's payout.
	if err := s.agg.RecalculateGame(ctx, game); err != nil {
		return err
	}

	// Step 3: the game becomes immutable from here on.
	now := time.Now()
	game.EndDate = &now
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return err
	}

	// Step 4: an active successor, if one exists, is credited immediately;
	// otherwise the contribution is applied when the next game is created.
	successor, err := s.gameRepo.FindActiveByOrganization(ctx, game.OrganizationID)
	if err != nil {
		return err
	}
	if successor == nil || dist.NextGameGets == 0 {
		return nil
	}

	unlock := s.locks.Lock(successor.ID.Hex())
	defer unlock()

	successor.CarryoverJackpot = models.SumCurrency(successor.CarryoverJackpot, dist.NextGameGets)
	if err := s.gameRepo.Update(ctx, successor); err != nil {
		return err
	}

	// The carryover is the base of the successor's running totals.
	weeks, err := s.weekRepo.FindByGame(ctx, successor.ID)
	if err != nil {
		return err
	}
	entries, err := s.entryRepo.FindByGameOrderedByDate(ctx, successor.ID)
	if err != nil {
		return err
	}
	recomputeRunningTotals(successor, weeks, entries)
	for _, entry := range entries {
		if err := s.entryRepo.Update(ctx, entry); err != nil {
			return err
		}
	}

	return s.agg.RecalculateGame(ctx, successor)
}
