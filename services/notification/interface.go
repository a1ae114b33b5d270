package notification

import "kree/models"

// Broadcaster is the capability to push an event to a named room. The
// realtime hub implements it; it is injected explicitly wherever domain
// events are emitted, never reached through a global.
type Broadcaster interface {
	Emit(room, event string, payload interface{})
}

// NotificationService translates committed data mutations into addressed
// room events. Every method is fire-and-forget: it runs post-commit, and a
// delivery failure never affects the underlying write.
type NotificationService interface {
	// NotifyNewRequest fans a fresh request out to the matched agencies'
	// personal rooms and persists an inbox entry per recipient.
	NotifyNewRequest(req *models.Request, customer *models.User, agencies []models.User)
	// NotifyNewProposal announces a proposal to the request room and the
	// customer's personal room.
	NotifyNewProposal(p *models.Proposal, agencyName string)
	// NotifyNewMessage delivers a stored chat message to both parties'
	// personal rooms as a newMessage event.
	NotifyNewMessage(chat *models.Chat, msg models.Message)
	// NotifyNewMessageLegacy delivers a message posted over the REST
	// surface to the other party under the legacy new_message name.
	NotifyNewMessageLegacy(chat *models.Chat, msg models.Message)
	// NotifyMessagesRead tells the other party their messages were read.
	NotifyMessagesRead(chat *models.Chat, readerID string)
	// NotifyBookingCreated announces a booking to its customer.
	NotifyBookingCreated(b *models.Booking, agencyName string)
	// NotifyBookingStatus announces a booking status change to its customer.
	NotifyBookingStatus(b *models.Booking, status string)
}
