package proposalRepo

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

// MongoProposalRepo implements ProposalRepository using MongoDB.
type MongoProposalRepo struct {
	coll *mongo.Collection
}

// NewMongoProposalRepo creates a new instance of ProposalRepository using MongoDB.
func NewMongoProposalRepo() ProposalRepository {
	coll := database.DB().Collection("proposals")
	repo := &MongoProposalRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoProposalRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "request", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "agency", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "customer", Value: 1}}},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new proposal document.
func (r *MongoProposalRepo) Create(p *models.Proposal) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Normalize(now)

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	return nil
}

// GetByID retrieves a proposal by its ID. The returned status reflects the
// lazily evaluated expiry.
func (r *MongoProposalRepo) GetByID(id string) (*models.Proposal, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var p models.Proposal
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposal %s: %w", id, err)
	}
	p.Status = models.EffectiveProposalStatus(p.Status, p.ExpiresAt, time.Now())
	return &p, nil
}

// Save replaces the proposal document, re-deriving pricing and expiry.
func (r *MongoProposalRepo) Save(p *models.Proposal) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	p.UpdatedAt = now
	p.Normalize(now)

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": p.ID}, bson.M{"$set": p})
	if err != nil {
		return fmt.Errorf("failed to save proposal %s: %w", p.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("proposal with id %s not found", p.ID)
	}
	return nil
}

// List returns one page of proposals matching the filter, newest first.
func (r *MongoProposalRepo) List(filter ProposalFilter) ([]models.Proposal, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Request != "" {
		query["request"] = filter.Request
	}
	if filter.Agency != "" {
		query["agency"] = filter.Agency
	}
	if filter.Customer != "" {
		query["customer"] = filter.Customer
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ExcludeWithdrawn {
		query["status"] = bson.M{"$ne": models.ProposalStatusWithdrawn}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count proposals: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetSkip(int64((filter.Page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer cursor.Close(ctx)

	var proposals []models.Proposal
	if err := cursor.All(ctx, &proposals); err != nil {
		return nil, 0, fmt.Errorf("failed to decode proposals: %w", err)
	}

	now := time.Now()
	for i := range proposals {
		proposals[i].Status = models.EffectiveProposalStatus(proposals[i].Status, proposals[i].ExpiresAt, now)
	}
	return proposals, total, nil
}

// ExpirePending persists the expired status for pending proposals past their
// deadline. Reads remain correct without it; this keeps the stored documents
// in line with what EffectiveProposalStatus already reports.
func (r *MongoProposalRepo) ExpirePending(now time.Time) (int64, error) {
	ctx, cancel := newContext(30 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.ProposalStatusPending,
		"expiresAt": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{"status": models.ProposalStatusExpired, "updatedAt": now}}

	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending proposals: %w", err)
	}
	return result.ModifiedCount, nil
}
