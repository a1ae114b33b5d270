package chatRepo

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

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	coll *mongo.Collection
}

// NewMongoChatRepo creates a new instance of ChatRepository using MongoDB.
func NewMongoChatRepo() ChatRepository {
	coll := database.DB().Collection("chats")
	repo := &MongoChatRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoChatRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customer", Value: 1}, {Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "agency", Value: 1}, {Key: "isActive", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new chat thread.
func (r *MongoChatRepo) Create(chat *models.Chat) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}

	if _, err := r.coll.InsertOne(ctx, chat); err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

// GetByID retrieves a chat thread by its ID.
func (r *MongoChatRepo) GetByID(id string) (*models.Chat, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var chat models.Chat
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat %s: %w", id, err)
	}
	return &chat, nil
}

// FindActiveByPair returns the active thread for the pair, or nil.
func (r *MongoChatRepo) FindActiveByPair(customerID, agencyID string) (*models.Chat, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"customer": customerID, "agency": agencyID, "isActive": true}
	var chat models.Chat
	err := r.coll.FindOne(ctx, filter).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat for pair: %w", err)
	}
	return &chat, nil
}

// ListForUser returns the user's active threads, most recent activity first.
func (r *MongoChatRepo) ListForUser(userID string, role models.Role) ([]models.Chat, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"isActive": true}
	switch role {
	case models.RoleCustomer:
		filter["customer"] = userID
	case models.RoleAgency:
		filter["agency"] = userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "lastMessage.timestamp", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chats: %w", err)
	}
	return chats, nil
}

// AppendMessage pushes a message and refreshes the last-message summary.
func (r *MongoChatRepo) AppendMessage(chatID string, msg models.Message) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set": bson.M{
			"lastMessage": models.LastMessage{
				Content:   msg.Content,
				Timestamp: msg.Timestamp,
				Sender:    msg.Sender,
			},
			"updatedAt": time.Now(),
		},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": chatID}, update)
	if err != nil {
		return fmt.Errorf("failed to append message to chat %s: %w", chatID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("chat with id %s not found", chatID)
	}
	return nil
}

// MarkRead flips messages not authored by the reader to read. Array filters
// keep the reader's own messages untouched.
func (r *MongoChatRepo) MarkRead(chatID, readerID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"messages.$[m].isRead": true, "updatedAt": time.Now()}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"m.sender": bson.M{"$ne": readerID}, "m.isRead": false}},
	})

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": chatID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to mark chat %s read: %w", chatID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("chat with id %s not found", chatID)
	}
	return nil
}
