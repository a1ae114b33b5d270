package models

import "time"

// Message is one entry in a chat thread's append-only log.
type Message struct {
	ID        string    `bson:"id" json:"id"`
	Sender    string    `bson:"sender" json:"sender"`
	Content   string    `bson:"content" json:"content"`
	IsRead    bool      `bson:"isRead" json:"isRead"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`

	// Sender display fields resolved for responses; not persisted.
	SenderName   string `bson:"-" json:"senderName,omitempty"`
	SenderAvatar string `bson:"-" json:"senderAvatar,omitempty"`
	SenderRole   Role   `bson:"-" json:"senderRole,omitempty"`
}

// LastMessage is the denormalized summary kept for chat list views.
type LastMessage struct {
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Sender    string    `bson:"sender" json:"sender"`
}

// Chat is the single conversation thread between one customer and one
// agency. Messages are embedded in insertion order.
type Chat struct {
	ID          string       `bson:"id" json:"id"`
	Customer    string       `bson:"customer" json:"customer"`
	Agency      string       `bson:"agency" json:"agency"`
	Messages    []Message    `bson:"messages" json:"messages"`
	IsActive    bool         `bson:"isActive" json:"isActive"`
	LastMessage *LastMessage `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`

	// UnreadCount is computed per reader for list views; not persisted.
	UnreadCount int `bson:"-" json:"unreadCount,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Party reports whether userID is one of the two thread parties.
func (c *Chat) Party(userID string) bool {
	return c.Customer == userID || c.Agency == userID
}

// OtherParty returns the user on the opposite side of the thread from userID.
func (c *Chat) OtherParty(userID string) string {
	if c.Customer == userID {
		return c.Agency
	}
	return c.Customer
}
