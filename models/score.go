package models

import "time"

// DeliveryPoints is awarded to a customer each time a rental completes.
const DeliveryPoints = 10

// ScoreEntry records one points award.
type ScoreEntry struct {
	Points    int       `bson:"points" json:"points"`
	Reason    string    `bson:"reason" json:"reason"`
	AwardedBy string    `bson:"awardedBy,omitempty" json:"awardedBy,omitempty"`
	AwardedAt time.Time `bson:"awardedAt" json:"awardedAt"`
}

// Score is a customer's loyalty points balance.
type Score struct {
	ID        string       `bson:"id" json:"id"`
	Customer  string       `bson:"customer" json:"customer"`
	Points    int          `bson:"points" json:"points"`
	History   []ScoreEntry `bson:"history,omitempty" json:"history,omitempty"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time    `bson:"updatedAt" json:"updatedAt"`
}
