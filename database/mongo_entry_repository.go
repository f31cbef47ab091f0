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

type MongoEntryRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoEntryRepository(db *MongoDB) *MongoEntryRepository {
	collection := db.GetCollection("daily_entries")
	logger := logging.WithPrefix("mongo_entry_repo")

	// One entry per (game, calendar day).
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "gameId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on daily_entries collection: %v", err)
	}

	return &MongoEntryRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoEntryRepository) Insert(ctx context.Context, entry *models.DailyEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert entry for %s: %w", entry.Date.Format("2006-01-02"), err)
	}

	return nil
}

func (r *MongoEntryRepository) Update(ctx context.Context, entry *models.DailyEntry) error {
	entry.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", entry.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: entry %s", models.ErrNotFound, entry.ID.Hex())
	}

	return nil
}

func (r *MongoEntryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: entry %s", models.ErrNotFound, id.Hex())
	}

	return nil
}

// DeleteByWeek removes every entry belonging to a week.
func (r *MongoEntryRepository) DeleteByWeek(ctx context.Context, weekID primitive.ObjectID) error {
	result, err := r.collection.DeleteMany(ctx, bson.M{"weekId": weekID})
	if err != nil {
		return fmt.Errorf("failed to delete entries for week %s: %w", weekID.Hex(), err)
	}

	r.logger.Debugf("Deleted %d entries for week %s", result.DeletedCount, weekID.Hex())
	return nil
}

func (r *MongoEntryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DailyEntry, error) {
	var entry models.DailyEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", id.Hex(), err)
	}

	return &entry, nil
}

// FindByGameOrderedByDate returns all entries of a game in calendar order,
// the input shape every resum pass works over.
func (r *MongoEntryRepository) FindByGameOrderedByDate(ctx context.Context, gameID primitive.ObjectID) ([]*models.DailyEntry, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"gameId": gameID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find entries for game %s: %w", gameID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var entries []*models.DailyEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	return entries, nil
}
