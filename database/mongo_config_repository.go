package database

import (
	"context"
	"fmt"
	"time"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConfigurationRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoConfigurationRepository(db *MongoDB) *MongoConfigurationRepository {
	collection := db.GetCollection("configurations")
	logger := logging.WithPrefix("mongo_config_repo")

	// One configuration document per organization.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "organizationId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on configurations collection: %v", err)
	}

	return &MongoConfigurationRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	cfg.UpdatedAt = time.Now()

	filter := bson.M{"organizationId": cfg.OrganizationID}
	update := bson.M{"$set": bson.M{
		"organizationId":         cfg.OrganizationID,
		"ticketPrice":            cfg.TicketPrice,
		"organizationPercentage": cfg.OrganizationPercentage,
		"jackpotPercentage":      cfg.JackpotPercentage,
		"minimumStartingJackpot": cfg.MinimumStartingJackpot,
		"penaltyPercentage":      cfg.PenaltyPercentage,
		"cardPayouts":            cfg.CardPayouts,
		"updatedAt":              cfg.UpdatedAt,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert configuration for organization %s: %w", cfg.OrganizationID, err)
	}

	return nil
}

func (r *MongoConfigurationRepository) FindByOrganization(ctx context.Context, organizationID string) (*models.Configuration, error) {
	var cfg models.Configuration
	err := r.collection.FindOne(ctx, bson.M{"organizationId": organizationID}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find configuration for organization %s: %w", organizationID, err)
	}

	return &cfg, nil
}
