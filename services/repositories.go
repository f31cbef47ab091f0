package services

import (
	"context"

	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository interfaces are declared here, next to their consumers. The mongo
// implementations in the database package satisfy them; the in-memory set in
// this package backs the database-less mode and the tests.
//
// Find methods return (nil, nil) when no record matches.

// GameRepository provides persistence for games.
type GameRepository interface {
	Insert(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	FindActiveByOrganization(ctx context.Context, organizationID string) (*models.Game, error)
	FindLatestCompletedByOrganization(ctx context.Context, organizationID string) (*models.Game, error)
	FindByOrganization(ctx context.Context, organizationID string) ([]*models.Game, error)
}

// WeekRepository provides persistence for weeks.
type WeekRepository interface {
	Insert(ctx context.Context, week *models.Week) error
	Update(ctx context.Context, week *models.Week) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Week, error)
	FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Week, error)
}

// EntryRepository provides persistence for daily ticket-sale entries.
type EntryRepository interface {
	Insert(ctx context.Context, entry *models.DailyEntry) error
	Update(ctx context.Context, entry *models.DailyEntry) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByWeek(ctx context.Context, weekID primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DailyEntry, error)
	FindByGameOrderedByDate(ctx context.Context, gameID primitive.ObjectID) ([]*models.DailyEntry, error)
}

// ExpenseRepository provides persistence for expenses and donations.
type ExpenseRepository interface {
	Insert(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error)
	FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Expense, error)
}

// ConfigurationRepository provides persistence for per-organization configuration.
type ConfigurationRepository interface {
	Upsert(ctx context.Context, cfg *models.Configuration) error
	FindByOrganization(ctx context.Context, organizationID string) (*models.Configuration, error)
}
