package services

import (
	"context"
	"fmt"
	"time"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseService manages the append-only expense/donation ledger of a game.
type ExpenseService struct {
	gameRepo    GameRepository
	expenseRepo ExpenseRepository
	agg         *AggregationService
	locks       *GameLocks
	logger      *logging.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(gameRepo GameRepository, expenseRepo ExpenseRepository, agg *AggregationService, locks *GameLocks) *ExpenseService {
	return &ExpenseService{
		gameRepo:    gameRepo,
		expenseRepo: expenseRepo,
		agg:         agg,
		locks:       locks,
		logger:      logging.WithPrefix("expenses"),
	}
}

// AddExpense appends an expense or donation to an active game and
// re-aggregates its rollup.
func (s *ExpenseService) AddExpense(ctx context.Context, organizationID string, gameID primitive.ObjectID, date time.Time, amount float64, isDonation bool, memo string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %.2f", models.ErrInvalidInput, amount)
	}

	unlock := s.locks.Lock(gameID.Hex())
	defer unlock()

	game, err := loadActiveGame(ctx, s.gameRepo, organizationID, gameID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GameID:         game.ID,
		OrganizationID: organizationID,
		Date:           models.DateOnly(date),
		Amount:         models.RoundCurrency(amount),
		IsDonation:     isDonation,
		Memo:           memo,
		CreatedAt:      time.Now(),
	}

	if err := s.expenseRepo.Insert(ctx, expense); err != nil {
		return nil, err
	}

	if err := s.agg.RecalculateGame(ctx, game); err != nil {
		return nil, err
	}

	kind := "expense"
	if isDonation {
		kind = "donation"
	}
	s.logger.Infof("Added %s of %.2f to game %d", kind, expense.Amount, game.GameNumber)
	return expense, nil
}

// DeleteExpense removes an expense from an active game and re-aggregates.
func (s *ExpenseService) DeleteExpense(ctx context.Context, organizationID string, gameID, expenseID primitive.ObjectID) error {
	unlock := s.locks.Lock(gameID.Hex())
	defer unlock()

	game, err := loadActiveGame(ctx, s.gameRepo, organizationID, gameID)
	if err != nil {
		return err
	}

	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense == nil || expense.GameID != game.ID {
		return fmt.Errorf("%w: expense %s in game %d", models.ErrNotFound, expenseID.Hex(), game.GameNumber)
	}

	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		return err
	}

	return s.agg.RecalculateGame(ctx, game)
}

// ListExpenses returns a game's expenses and donations in date order.
func (s *ExpenseService) ListExpenses(ctx context.Context, organizationID string, gameID primitive.ObjectID) ([]*models.Expense, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil || game.OrganizationID != organizationID {
		return nil, fmt.Errorf("%w: game %s", models.ErrNotFound, gameID.Hex())
	}

	return s.expenseRepo.FindByGame(ctx, game.ID)
}
