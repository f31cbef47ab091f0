package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the database-less mode and the test suite.
// Records are copied on read and write so callers never share storage with
// the repository, matching the behavior of decoding from mongo.

// MemoryGameRepository is an in-memory GameRepository.
type MemoryGameRepository struct {
	mu    sync.RWMutex
	games map[primitive.ObjectID]*models.Game
}

func NewMemoryGameRepository() *MemoryGameRepository {
	return &MemoryGameRepository{games: make(map[primitive.ObjectID]*models.Game)}
}

func copyGame(g *models.Game) *models.Game {
	clone := *g
	if g.EndDate != nil {
		end := *g.EndDate
		clone.EndDate = &end
	}
	if g.CardPayouts != nil {
		clone.CardPayouts = make(map[string]models.CardPayout, len(g.CardPayouts))
		for card, payout := range g.CardPayouts {
			clone.CardPayouts[card] = payout
		}
	}
	return &clone
}

func (r *MemoryGameRepository) Insert(ctx context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.games {
		if existing.OrganizationID == game.OrganizationID && existing.GameNumber == game.GameNumber {
			return fmt.Errorf("%w: game number %d already exists for organization %s",
				models.ErrDuplicateGameNumber, game.GameNumber, game.OrganizationID)
		}
	}

	if game.ID.IsZero() {
		game.ID = primitive.NewObjectID()
	}
	r.games[game.ID] = copyGame(game)
	return nil
}

func (r *MemoryGameRepository) Update(ctx context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[game.ID]; !ok {
		return fmt.Errorf("%w: game %s", models.ErrNotFound, game.ID.Hex())
	}
	r.games[game.ID] = copyGame(game)
	return nil
}

func (r *MemoryGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[id]
	if !ok {
		return nil, nil
	}
	return copyGame(game), nil
}

func (r *MemoryGameRepository) FindActiveByOrganization(ctx context.Context, organizationID string) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, game := range r.games {
		if game.OrganizationID == organizationID && game.IsActive() {
			return copyGame(game), nil
		}
	}
	return nil, nil
}

func (r *MemoryGameRepository) FindLatestCompletedByOrganization(ctx context.Context, organizationID string) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Game
	for _, game := range r.games {
		if game.OrganizationID != organizationID || !game.IsCompleted() {
			continue
		}
		if latest == nil || game.GameNumber > latest.GameNumber {
			latest = game
		}
	}
	if latest == nil {
		return nil, nil
	}
	return copyGame(latest), nil
}

func (r *MemoryGameRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var games []*models.Game
	for _, game := range r.games {
		if game.OrganizationID == organizationID {
			games = append(games, copyGame(game))
		}
	}
	sort.Slice(games, func(i, j int) bool { return games[i].GameNumber < games[j].GameNumber })
	return games, nil
}

// MemoryWeekRepository is an in-memory WeekRepository.
type MemoryWeekRepository struct {
	mu    sync.RWMutex
	weeks map[primitive.ObjectID]*models.Week
}

func NewMemoryWeekRepository() *MemoryWeekRepository {
	return &MemoryWeekRepository{weeks: make(map[primitive.ObjectID]*models.Week)}
}

func copyWeek(w *models.Week) *models.Week {
	clone := *w
	if w.EndingJackpot != nil {
		ending := *w.EndingJackpot
		clone.EndingJackpot = &ending
	}
	if w.WinnerPresent != nil {
		present := *w.WinnerPresent
		clone.WinnerPresent = &present
	}
	return &clone
}

func (r *MemoryWeekRepository) Insert(ctx context.Context, week *models.Week) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if week.ID.IsZero() {
		week.ID = primitive.NewObjectID()
	}
	r.weeks[week.ID] = copyWeek(week)
	return nil
}

func (r *MemoryWeekRepository) Update(ctx context.Context, week *models.Week) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.weeks[week.ID]; !ok {
		return fmt.Errorf("%w: week %s", models.ErrNotFound, week.ID.Hex())
	}
	r.weeks[week.ID] = copyWeek(week)
	return nil
}

func (r *MemoryWeekRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.weeks[id]; !ok {
		return fmt.Errorf("%w: week %s", models.ErrNotFound, id.Hex())
	}
	delete(r.weeks, id)
	return nil
}

func (r *MemoryWeekRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	week, ok := r.weeks[id]
	if !ok {
		return nil, nil
	}
	return copyWeek(week), nil
}

func (r *MemoryWeekRepository) FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var weeks []*models.Week
	for _, week := range r.weeks {
		if week.GameID == gameID {
			weeks = append(weeks, copyWeek(week))
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekNumber < weeks[j].WeekNumber })
	return weeks, nil
}

// MemoryEntryRepository is an in-memory EntryRepository.
type MemoryEntryRepository struct {
	mu      sync.RWMutex
	entries map[primitive.ObjectID]*models.DailyEntry
}

func NewMemoryEntryRepository() *MemoryEntryRepository {
	return &MemoryEntryRepository{entries: make(map[primitive.ObjectID]*models.DailyEntry)}
}

func copyEntry(e *models.DailyEntry) *models.DailyEntry {
	clone := *e
	return &clone
}

func (r *MemoryEntryRepository) Insert(ctx context.Context, entry *models.DailyEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	r.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (r *MemoryEntryRepository) Update(ctx context.Context, entry *models.DailyEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.ID]; !ok {
		return fmt.Errorf("%w: entry %s", models.ErrNotFound, entry.ID.Hex())
	}
	r.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (r *MemoryEntryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("%w: entry %s", models.ErrNotFound, id.Hex())
	}
	delete(r.entries, id)
	return nil
}

func (r *MemoryEntryRepository) DeleteByWeek(ctx context.Context, weekID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.entries {
		if entry.WeekID == weekID {
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *MemoryEntryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DailyEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	return copyEntry(entry), nil
}

func (r *MemoryEntryRepository) FindByGameOrderedByDate(ctx context.Context, gameID primitive.ObjectID) ([]*models.DailyEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*models.DailyEntry
	for _, entry := range r.entries {
		if entry.GameID == gameID {
			entries = append(entries, copyEntry(entry))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID.Hex() < entries[j].ID.Hex()
	})
	return entries, nil
}

// MemoryExpenseRepository is an in-memory ExpenseRepository.
type MemoryExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[primitive.ObjectID]*models.Expense
}

func NewMemoryExpenseRepository() *MemoryExpenseRepository {
	return &MemoryExpenseRepository{expenses: make(map[primitive.ObjectID]*models.Expense)}
}

func (r *MemoryExpenseRepository) Insert(ctx context.Context, expense *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if expense.ID.IsZero() {
		expense.ID = primitive.NewObjectID()
	}
	clone := *expense
	r.expenses[expense.ID] = &clone
	return nil
}

func (r *MemoryExpenseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.expenses[id]; !ok {
		return fmt.Errorf("%w: expense %s", models.ErrNotFound, id.Hex())
	}
	delete(r.expenses, id)
	return nil
}

func (r *MemoryExpenseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expense, ok := r.expenses[id]
	if !ok {
		return nil, nil
	}
	clone := *expense
	return &clone, nil
}

func (r *MemoryExpenseRepository) FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expenses []*models.Expense
	for _, expense := range r.expenses {
		if expense.GameID == gameID {
			clone := *expense
			expenses = append(expenses, &clone)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.Before(expenses[j].Date) })
	return expenses, nil
}

// MemoryConfigurationRepository is an in-memory ConfigurationRepository.
type MemoryConfigurationRepository struct {
	mu      sync.RWMutex
	configs map[string]*models.Configuration
}

func NewMemoryConfigurationRepository() *MemoryConfigurationRepository {
	return &MemoryConfigurationRepository{configs: make(map[string]*models.Configuration)}
}

func copyConfiguration(c *models.Configuration) *models.Configuration {
	clone := *c
	if c.CardPayouts != nil {
		clone.CardPayouts = make(map[string]models.CardPayout, len(c.CardPayouts))
		for card, payout := range c.CardPayouts {
			clone.CardPayouts[card] = payout
		}
	}
	return &clone
}

func (r *MemoryConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
	}
	r.configs[cfg.OrganizationID] = copyConfiguration(cfg)
	return nil
}

func (r *MemoryConfigurationRepository) FindByOrganization(ctx context.Context, organizationID string) (*models.Configuration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[organizationID]
	if !ok {
		return nil, nil
	}
	return copyConfiguration(cfg), nil
}
