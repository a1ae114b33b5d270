package requestRepo

import (
	"context"
	"fmt"
	"time"

	"kree/database"
	"kree/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRequestRepo implements RequestRepository using MongoDB.
type MongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo creates a new instance of RequestRepository using MongoDB.
func NewMongoRequestRepo() RequestRepository {
	coll := database.DB().Collection("requests")
	repo := &MongoRequestRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoRequestRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customer", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new request document.
func (r *MongoRequestRepo) Create(req *models.Request) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	req.Normalize()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by its ID.
func (r *MongoRequestRepo) GetByID(id string) (*models.Request, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var req models.Request
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request %s: %w", id, err)
	}
	return &req, nil
}

// Update replaces a request document.
func (r *MongoRequestRepo) Update(req *models.Request) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	req.UpdatedAt = time.Now()
	req.Normalize()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": req.ID}, bson.M{"$set": req})
	if err != nil {
		return fmt.Errorf("failed to update request %s: %w", req.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("request with id %s not found", req.ID)
	}
	return nil
}

// List returns one page of requests matching the filter, newest first.
func (r *MongoRequestRepo) List(filter RequestFilter) ([]models.Request, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Customer != "" {
		query["customer"] = filter.Customer
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	} else if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, fmt.Errorf("failed to decode requests: %w", err)
	}
	return requests, total, nil
}

// SetNotifiedAgencies records the agencies notified at creation time.
func (r *MongoRequestRepo) SetNotifiedAgencies(id string, agencyIDs []string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"notifiedAgencies": agencyIDs, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set notified agencies on request %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("request with id %s not found", id)
	}
	return nil
}

// RegisterProposal bumps the proposals counter; an open request also moves
// into `proposals_received`.
func (r *MongoRequestRepo) RegisterProposal(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"proposalsCount": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to register proposal on request %s: %w", id, err)
	}

	statusUpdate := bson.M{"$set": bson.M{"status": models.RequestStatusProposalsReceived}}
	statusFilter := bson.M{
		"id":     id,
		"status": bson.M{"$in": []string{models.RequestStatusPending, models.RequestStatusOpen}},
	}
	if _, err := r.coll.UpdateOne(ctx, statusFilter, statusUpdate); err != nil {
		return fmt.Errorf("failed to mark request %s proposals_received: %w", id, err)
	}
	return nil
}

// UnregisterProposal decrements the proposals counter, floored at zero.
func (r *MongoRequestRepo) UnregisterProposal(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "proposalsCount": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"proposalsCount": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to unregister proposal on request %s: %w", id, err)
	}
	return nil
}

// UpdateStatus sets the request status.
func (r *MongoRequestRepo) UpdateStatus(id, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update status of request %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("request with id %s not found", id)
	}
	return nil
}

// CountByStatus counts requests in the given status (all when empty).
func (r *MongoRequestRepo) CountByStatus(status string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	query := bson.M{}
	if status != "" {
		query["status"] = status
	}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return total, nil
}
