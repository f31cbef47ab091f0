package database

import (
	"context"
	"fmt"
	"time"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGameRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoGameRepository(db *MongoDB) *MongoGameRepository {
	collection := db.GetCollection("games")
	logger := logging.WithPrefix("mongo_game_repo")

	// Game numbers are unique per organization; the index backs the
	// DuplicateGameNumber error mapping on insert.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "organizationId", Value: 1}, {Key: "gameNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on games collection: %v", err)
	}

	return &MongoGameRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoGameRepository) Insert(ctx context.Context, game *models.Game) error {
	if game.ID.IsZero() {
		game.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, game)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: game number %d already exists for organization %s",
				models.ErrDuplicateGameNumber, game.GameNumber, game.OrganizationID)
		}
		return fmt.Errorf("failed to insert game %d: %w", game.GameNumber, err)
	}

	return nil
}

func (r *MongoGameRepository) Update(ctx context.Context, game *models.Game) error {
	game.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": game.ID}, game)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: game %s", models.ErrNotFound, game.ID.Hex())
	}

	return nil
}

func (r *MongoGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find game %s: %w", id.Hex(), err)
	}

	return &game, nil
}

// FindActiveByOrganization returns the organization's single active game, or
// nil when no game is running.
func (r *MongoGameRepository) FindActiveByOrganization(ctx context.Context, organizationID string) (*models.Game, error) {
	filter := bson.M{"organizationId": organizationID, "endDate": nil}

	var game models.Game
	err := r.collection.FindOne(ctx, filter).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active game for organization %s: %w", organizationID, err)
	}

	return &game, nil
}

// FindLatestCompletedByOrganization returns the most recently completed game,
// the seed source for a new game's carryover.
func (r *MongoGameRepository) FindLatestCompletedByOrganization(ctx context.Context, organizationID string) (*models.Game, error) {
	filter := bson.M{"organizationId": organizationID, "endDate": bson.M{"$ne": nil}}
	opts := options.FindOne().SetSort(bson.D{{Key: "gameNumber", Value: -1}})

	var game models.Game
	err := r.collection.FindOne(ctx, filter, opts).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest completed game for organization %s: %w", organizationID, err)
	}

	return &game, nil
}

func (r *MongoGameRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*models.Game, error) {
	opts := options.Find().SetSort(bson.D{{Key: "gameNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"organizationId": organizationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find games for organization %s: %w", organizationID, err)
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}

	return games, nil
}
