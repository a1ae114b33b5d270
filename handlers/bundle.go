package handlers

import (
	"kree/middleware"
	"kree/realtime"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	Auth          *AuthHandler
	Requests      *RequestHandler
	Proposals     *ProposalHandler
	Bookings      *BookingHandler
	Chats         *ChatHandler
	Notifications *NotificationHandler
	Scores        *ScoreHandler
	Admin         *AdminHandler

	Gateway      *realtime.Gateway
	ResolveToken middleware.TokenResolver
}
