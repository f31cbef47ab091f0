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

type MongoWeekRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoWeekRepository(db *MongoDB) *MongoWeekRepository {
	collection := db.GetCollection("weeks")
	logger := logging.WithPrefix("mongo_week_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "gameId", Value: 1}, {Key: "weekNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on weeks collection: %v", err)
	}

	return &MongoWeekRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoWeekRepository) Insert(ctx context.Context, week *models.Week) error {
	if week.ID.IsZero() {
		week.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, week); err != nil {
		return fmt.Errorf("failed to insert week %d: %w", week.WeekNumber, err)
	}

	return nil
}

func (r *MongoWeekRepository) Update(ctx context.Context, week *models.Week) error {
	week.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": week.ID}, week)
	if err != nil {
		return fmt.Errorf("failed to update week %s: %w", week.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: week %s", models.ErrNotFound, week.ID.Hex())
	}

	return nil
}

func (r *MongoWeekRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete week %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: week %s", models.ErrNotFound, id.Hex())
	}

	return nil
}

func (r *MongoWeekRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Week, error) {
	var week models.Week
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&week)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find week %s: %w", id.Hex(), err)
	}

	return &week, nil
}

// FindByGame returns all weeks of a game ordered by week number.
func (r *MongoWeekRepository) FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Week, error) {
	opts := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"gameId": gameID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find weeks for game %s: %w", gameID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var weeks []*models.Week
	if err := cursor.All(ctx, &weeks); err != nil {
		return nil, fmt.Errorf("failed to decode weeks: %w", err)
	}

	return weeks, nil
}
