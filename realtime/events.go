package realtime

import (
	"encoding/json"

	"kree/models"
)

// Client-to-server event names.
const (
	EventTyping          = "typing"
	EventSendMessage     = "sendMessage"
	EventMarkAsRead      = "markAsRead"
	EventJoinChat        = "joinChat"
	EventLeaveChat       = "leaveChat"
	EventJoinRequestRoom = "joinRequestRoom"
	EventGetProposals    = "getProposals"
)

// Server-to-client event names. EventNewProposal doubles as a
// client-originated relay.
const (
	EventUserTyping          = "userTyping"
	EventNewMessage          = "newMessage"
	EventNewMessageLegacy    = "new_message"
	EventMessagesRead        = "messagesRead"
	EventNewProposal         = "newProposal"
	EventProposals           = "proposals"
	EventNewRequest          = "new_request"
	EventBookingCreated      = "booking_created"
	EventBookingStatusUpdate = "booking_status_update"
	EventError               = "error"
)

// Envelope is the wire format for inbound client events.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the wire format for outbound events.
type ServerEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// PersonalRoom names a user's own broadcast channel (`role_userId`).
func PersonalRoom(role models.Role, userID string) string {
	return string(role) + "_" + userID
}

// ChatRoom names the broadcast group for one chat thread.
func ChatRoom(chatID string) string {
	return "chat_" + chatID
}

// RequestRoom names the broadcast group for one rental request.
func RequestRoom(requestID string) string {
	return "request_" + requestID
}

// TypingPayload notifies a chat room that a party is typing.
type TypingPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

// MessagePayload carries a freshly stored chat message.
type MessagePayload struct {
	ChatID  string         `json:"chatId"`
	Message models.Message `json:"message"`
}

// MessagesReadPayload notifies the other party their messages were read.
type MessagesReadPayload struct {
	ChatID string `json:"chatId"`
}

// ProposalPayload announces a new proposal to the request and customer rooms.
type ProposalPayload struct {
	ProposalID     string                `json:"proposalId"`
	RequestID      string                `json:"requestId"`
	Agency         string                `json:"agency"`
	AgencyID       string                `json:"agencyId"`
	Message        string                `json:"message,omitempty"`
	Car            models.CarSnapshot    `json:"car"`
	Pricing        models.Pricing        `json:"pricing"`
	PickupLocation models.PickupLocation `json:"pickupLocation"`
}

// ProposalsPayload answers a getProposals fetch.
type ProposalsPayload struct {
	RequestID string            `json:"requestId"`
	Proposals []models.Proposal `json:"proposals"`
}

// BookingCreatedPayload announces a booking to its customer.
type BookingCreatedPayload struct {
	BookingID     string             `json:"bookingId"`
	BookingNumber string             `json:"bookingNumber"`
	Agency        string             `json:"agency"`
	Car           models.CarSnapshot `json:"car"`
	RentalPeriod  models.DatePeriod  `json:"rentalPeriod"`
}

// BookingStatusPayload announces a booking status change to its customer.
type BookingStatusPayload struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

// ErrorPayload is sent to the originating session only.
type ErrorPayload struct {
	Message string `json:"message"`
}
