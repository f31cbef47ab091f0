package database

import (
	"context"
	"fmt"

	"qoh-app-go/logging"
	"qoh-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoExpenseRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoExpenseRepository(db *MongoDB) *MongoExpenseRepository {
	return &MongoExpenseRepository{
		collection: db.GetCollection("expenses"),
		logger:     logging.WithPrefix("mongo_expense_repo"),
	}
}

func (r *MongoExpenseRepository) Insert(ctx context.Context, expense *models.Expense) error {
	if expense.ID.IsZero() {
		expense.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

func (r *MongoExpenseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: expense %s", models.ErrNotFound, id.Hex())
	}

	return nil
}

func (r *MongoExpenseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	var expense models.Expense
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&expense)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", id.Hex(), err)
	}

	return &expense, nil
}

func (r *MongoExpenseRepository) FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"gameId": gameID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find expenses for game %s: %w", gameID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var expenses []*models.Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("failed to decode expenses: %w", err)
	}

	return expenses, nil
}
