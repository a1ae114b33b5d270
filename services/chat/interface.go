package chat

import "kree/models"

// ChatService manages negotiation threads between customers and agencies.
type ChatService interface {
	// OpenThread returns the active thread for the pair, creating it when
	// none exists. Either party may open it.
	OpenThread(actor *models.User, otherID string) (*models.Chat, error)
	// GetThread returns a full thread and marks the other party's messages
	// read for the actor.
	GetThread(actor *models.User, id string) (*models.Chat, error)
	// ListThreads returns the actor's threads with per-reader unread counts.
	ListThreads(actor *models.User) ([]models.Chat, error)
	// PostMessage appends a message from a realtime session and pushes it
	// to both parties' personal rooms.
	PostMessage(actor *models.User, chatID, content string) (*models.Message, error)
	// PostMessageWeb appends a message sent over the REST surface and
	// notifies the other party under the legacy new_message name.
	PostMessageWeb(actor *models.User, chatID, content string) (*models.Message, error)
	// MarkRead flips the other party's messages to read and notifies them.
	MarkRead(actor *models.User, chatID string) error
}
