package scoreRepo

import "kree/models"

// ScoreRepository defines persistence for loyalty point balances.
type ScoreRepository interface {
	GetByCustomer(customerID string) (*models.Score, error)
	// AddPoints upserts the customer's balance and appends a history entry.
	AddPoints(customerID string, entry models.ScoreEntry) error
}
