package services

import (
	"context"
	"fmt"
	"math"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JackpotService computes the running ("displayed") jackpot. Closed weeks
// return their frozen ending value and are never recomputed; open weeks are
// recomputed live from the carryover base and this week's contributions.
type JackpotService struct {
	gameRepo  GameRepository
	weekRepo  WeekRepository
	entryRepo EntryRepository
	logger    *logging.Logger
}

// NewJackpotService creates a new jackpot service
func NewJackpotService(gameRepo GameRepository, weekRepo WeekRepository, entryRepo EntryRepository) *JackpotService {
	return &JackpotService{
		gameRepo:  gameRepo,
		weekRepo:  weekRepo,
		entryRepo: entryRepo,
		logger:    logging.WithPrefix("jackpot"),
	}
}

// JackpotBase returns the value an open week accrues on top of: the ending
// jackpot of the latest closed week before it, or the game's carryover when
// no week has closed yet. establishing is true in the latter case, while the
// minimum-starting-jackpot floor still applies. The floor is a starting
// guarantee, not a re-raise rule: once a week has closed, its frozen ending
// is the base and the floor is out of play.
func JackpotBase(game *models.Game, weeks []*models.Week, week *models.Week) (base float64, establishing bool) {
	base = game.CarryoverJackpot
	establishing = true
	bestWeek := 0
	for _, candidate := range weeks {
		if candidate.WeekNumber >= week.WeekNumber || !candidate.IsClosed() || candidate.EndingJackpot == nil {
			continue
		}
		if candidate.WeekNumber > bestWeek {
			bestWeek = candidate.WeekNumber
			base = *candidate.EndingJackpot
			establishing = false
		}
	}
	return base, establishing
}

// DisplayedJackpot computes the running jackpot for a week. Closed weeks
// return their frozen ending value. weekEntries must be the entries of this
// week only.
func DisplayedJackpot(game *models.Game, weeks []*models.Week, weekEntries []*models.DailyEntry, week *models.Week) float64 {
	if week.IsClosed() && week.EndingJackpot != nil {
		return *week.EndingJackpot
	}

	base, establishing := JackpotBase(game, weeks, week)

	contributions := make([]float64, 0, len(weekEntries)+1)
	contributions = append(contributions, base)
	for _, entry := range weekEntries {
		contributions = append(contributions, entry.JackpotTotal)
	}
	displayed := models.SumCurrency(contributions...)

	if establishing {
		displayed = math.Max(displayed, game.MinimumStartingJackpot)
	}
	return displayed
}

// CurrentJackpot returns the displayed jackpot for a game right now: the
// live value of the earliest open week, the last frozen ending when every
// week has closed, or the floored carryover for a game with no activity yet.
func (s *JackpotService) CurrentJackpot(ctx context.Context, organizationID string, gameID primitive.ObjectID) (float64, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return 0, err
	}
	if game == nil || game.OrganizationID != organizationID {
		return 0, fmt.Errorf("%w: game %s", models.ErrNotFound, gameID.Hex())
	}

	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return 0, err
	}
	if len(weeks) == 0 {
		return math.Max(game.CarryoverJackpot, game.MinimumStartingJackpot), nil
	}

	entries, err := s.entryRepo.FindByGameOrderedByDate(ctx, game.ID)
	if err != nil {
		return 0, err
	}
	entriesByWeek := make(map[primitive.ObjectID][]*models.DailyEntry)
	for _, entry := range entries {
		entriesByWeek[entry.WeekID] = append(entriesByWeek[entry.WeekID], entry)
	}

	for _, week := range weeks {
		if !week.IsClosed() {
			return DisplayedJackpot(game, weeks, entriesByWeek[week.ID], week), nil
		}
	}

	// Every week has closed; the last frozen ending stands until the next
	// week opens.
	last := weeks[len(weeks)-1]
	if last.EndingJackpot != nil {
		return *last.EndingJackpot, nil
	}
	return math.Max(game.CarryoverJackpot, game.MinimumStartingJackpot), nil
}
