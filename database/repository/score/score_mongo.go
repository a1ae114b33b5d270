package scoreRepo

import (
	"context"
	"fmt"
	"time"

	"kree/database"
	"kree/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScoreRepo implements ScoreRepository using MongoDB.
type MongoScoreRepo struct {
	coll *mongo.Collection
}

// NewMongoScoreRepo creates a new ScoreRepository using MongoDB.
func NewMongoScoreRepo() ScoreRepository {
	coll := database.DB().Collection("scores")
	repo := &MongoScoreRepo{coll: coll}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "customer", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// GetByCustomer returns the customer's score, or a zero balance when the
// customer has never been awarded points.
func (r *MongoScoreRepo) GetByCustomer(customerID string) (*models.Score, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var score models.Score
	err := r.coll.FindOne(ctx, bson.M{"customer": customerID}).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return &models.Score{Customer: customerID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch score for customer %s: %w", customerID, err)
	}
	return &score, nil
}

// AddPoints upserts the balance and appends a history entry.
func (r *MongoScoreRepo) AddPoints(customerID string, entry models.ScoreEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$inc":  bson.M{"points": entry.Points},
		"$push": bson.M{"history": entry},
		"$set":  bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"id":        uuid.New().String(),
			"customer":  customerID,
			"createdAt": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"customer": customerID}, update, opts); err != nil {
		return fmt.Errorf("failed to add points for customer %s: %w", customerID, err)
	}
	return nil
}
