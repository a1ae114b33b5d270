package models

import "time"

// Notification types.
const (
	NotificationTypeProposal = "proposal"
	NotificationTypeRequest  = "request"
)

// Notification is a persisted inbox entry; real-time delivery of the same
// event over the socket layer is best-effort and separate.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	Recipient string    `bson:"recipient" json:"recipient"`
	Sender    string    `bson:"sender,omitempty" json:"sender,omitempty"`
	Type      string    `bson:"type" json:"type"`
	Message   string    `bson:"message" json:"message"`
	Link      string    `bson:"link,omitempty" json:"link,omitempty"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
