package chatRepo

import "kree/models"

// ChatRepository defines persistence operations for chat threads.
type ChatRepository interface {
	Create(chat *models.Chat) error
	GetByID(id string) (*models.Chat, error)
	// FindActiveByPair returns the active thread for a customer/agency pair,
	// or nil when none exists yet.
	FindActiveByPair(customerID, agencyID string) (*models.Chat, error)
	// ListForUser returns the user's active threads sorted by last activity.
	ListForUser(userID string, role models.Role) ([]models.Chat, error)
	// AppendMessage pushes a message onto the thread log and refreshes the
	// denormalized last-message summary in one update.
	AppendMessage(chatID string, msg models.Message) error
	// MarkRead flips every message not authored by readerID to read.
	MarkRead(chatID, readerID string) error
}
