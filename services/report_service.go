package services

import (
	"context"
	"fmt"
	"time"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportService assembles fully-computed figures for the rendering boundary.
// Renderers consume these numbers as-is and never re-derive financial
// values, keeping the ledger the single source of truth.
type ReportService struct {
	gameRepo    GameRepository
	weekRepo    WeekRepository
	entryRepo   EntryRepository
	expenseRepo ExpenseRepository
	jackpot     *JackpotService
	logger      *logging.Logger
}

// NewReportService creates a new report service
func NewReportService(gameRepo GameRepository, weekRepo WeekRepository, entryRepo EntryRepository, expenseRepo ExpenseRepository, jackpot *JackpotService) *ReportService {
	return &ReportService{
		gameRepo:    gameRepo,
		weekRepo:    weekRepo,
		entryRepo:   entryRepo,
		expenseRepo: expenseRepo,
		jackpot:     jackpot,
		logger:      logging.WithPrefix("reports"),
	}
}

// WeekReport is one week's line in a game report.
type WeekReport struct {
	WeekNumber        int      `json:"weekNumber"`
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	WeeklyTicketsSold int      `json:"weeklyTicketsSold"`
	WeeklySales       float64  `json:"weeklySales"`
	WeeklyPayout      float64  `json:"weeklyPayout"`
	EndingJackpot     *float64 `json:"endingJackpot,omitempty"`
	WinnerName        string   `json:"winnerName,omitempty"`
	CardSelected      string   `json:"cardSelected,omitempty"`
}

// GameReport is the full set of computed figures for one game.
type GameReport struct {
	GameNumber            int          `json:"gameNumber"`
	Status                string       `json:"status"`
	StartDate             string       `json:"startDate"`
	EndDate               string       `json:"endDate,omitempty"`
	CarryoverJackpot      float64      `json:"carryoverJackpot"`
	CurrentJackpot        float64      `json:"currentJackpot"`
	TotalSales            float64      `json:"totalSales"`
	TotalPayouts          float64      `json:"totalPayouts"`
	TotalExpenses         float64      `json:"totalExpenses"`
	TotalDonations        float64      `json:"totalDonations"`
	OrganizationNetProfit float64      `json:"organizationNetProfit"`
	ContributionToNext    float64      `json:"jackpotContributionToNextGame"`
	Weeks                 []WeekReport `json:"weeks"`
}

// BuildGameReport computes the report for one game.
func (s *ReportService) BuildGameReport(ctx context.Context, organizationID string, gameID primitive.ObjectID) (*GameReport, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil || game.OrganizationID != organizationID {
		return nil, fmt.Errorf("%w: game %s", models.ErrNotFound, gameID.Hex())
	}

	weeks, err := s.weekRepo.FindByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	currentJackpot, err := s.jackpot.CurrentJackpot(ctx, organizationID, game.ID)
	if err != nil {
		return nil, err
	}

	report := &GameReport{
		GameNumber:            game.GameNumber,
		Status:                string(game.Status()),
		StartDate:             game.StartDate.Format("2006-01-02"),
		CarryoverJackpot:      game.CarryoverJackpot,
		CurrentJackpot:        currentJackpot,
		TotalSales:            game.TotalSales,
		TotalPayouts:          game.TotalPayouts,
		TotalExpenses:         game.TotalExpenses,
		TotalDonations:        game.TotalDonations,
		OrganizationNetProfit: game.OrganizationNetProfit,
		ContributionToNext:    game.JackpotContributionToNextGame,
		Weeks:                 make([]WeekReport, 0, len(weeks)),
	}
	if game.EndDate != nil {
		report.EndDate = game.EndDate.Format("2006-01-02")
	}

	for _, week := range weeks {
		report.Weeks = append(report.Weeks, WeekReport{
			WeekNumber:        week.WeekNumber,
			StartDate:         week.StartDate.Format("2006-01-02"),
			EndDate:           week.EndDate.Format("2006-01-02"),
			WeeklyTicketsSold: week.WeeklyTicketsSold,
			WeeklySales:       week.WeeklySales,
			WeeklyPayout:      week.WeeklyPayout,
			EndingJackpot:     week.EndingJackpot,
			WinnerName:        week.WinnerName,
			CardSelected:      week.CardSelected,
		})
	}

	s.logger.Debugf("Built report for game %d at %s", game.GameNumber, time.Now().Format(time.RFC3339))
	return report, nil
}
