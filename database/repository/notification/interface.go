package notificationRepo

import "kree/models"

// NotificationRepository defines persistence for inbox notifications.
type NotificationRepository interface {
	Create(n *models.Notification) error
	ListByRecipient(recipientID string, page, limit int) ([]models.Notification, int64, error)
	MarkRead(id, recipientID string) error
	MarkAllRead(recipientID string) error
}
