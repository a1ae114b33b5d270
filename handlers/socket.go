package handlers

import (
	"encoding/json"
	"errors"

	chatRepo "kree/database/repository/chat"
	requestRepo "kree/database/repository/request"
	userRepo "kree/database/repository/user"
	"kree/models"
	"kree/realtime"
	"kree/services/chat"
	"kree/services/proposal"
	"kree/utils"

	"go.uber.org/zap"
)

// SocketRouter dispatches inbound websocket events. A failing event only
// answers the originating session; nothing leaks to other rooms.
type SocketRouter struct {
	Hub             *realtime.Hub
	ChatService     chat.ChatService
	ProposalService proposal.ProposalService
	ChatRepo        chatRepo.ChatRepository
	RequestRepo     requestRepo.RequestRepository
	UserRepo        userRepo.UserRepository
	Logger          *zap.Logger
}

func NewSocketRouter(
	hub *realtime.Hub,
	cs chat.ChatService,
	ps proposal.ProposalService,
	chats chatRepo.ChatRepository,
	requests requestRepo.RequestRepository,
	users userRepo.UserRepository,
	logger *zap.Logger,
) *SocketRouter {
	return &SocketRouter{
		Hub:             hub,
		ChatService:     cs,
		ProposalService: ps,
		ChatRepo:        chats,
		RequestRepo:     requests,
		UserRepo:        users,
		Logger:          logger,
	}
}

type chatEventPayload struct {
	ChatID   string `json:"chatId"`
	Content  string `json:"content"`
	IsTyping bool   `json:"isTyping"`
}

type requestEventPayload struct {
	RequestID string `json:"requestId"`
}

// HandleEvent routes one inbound envelope from a connected client.
func (r *SocketRouter) HandleEvent(c *realtime.Client, env realtime.Envelope) {
	switch env.Event {
	case realtime.EventTyping:
		r.handleTyping(c, env.Data)
	case realtime.EventSendMessage:
		r.handleSendMessage(c, env.Data)
	case realtime.EventMarkAsRead:
		r.handleMarkAsRead(c, env.Data)
	case realtime.EventJoinChat:
		r.handleJoinChat(c, env.Data)
	case realtime.EventLeaveChat:
		r.handleLeaveChat(c, env.Data)
	case realtime.EventJoinRequestRoom:
		r.handleJoinRequestRoom(c, env.Data)
	case realtime.EventGetProposals:
		r.handleGetProposals(c, env.Data)
	case realtime.EventNewProposal:
		r.handleProposalRelay(c, env.Data)
	default:
		r.Logger.Debug("unknown socket event",
			zap.String("event", env.Event), zap.String("user", c.UserID))
		c.QueueError("Unknown event: " + env.Event)
	}
}

// actor loads the full account behind the session for service calls.
func (r *SocketRouter) actor(c *realtime.Client) *models.User {
	account, err := r.UserRepo.GetByID(c.UserID)
	if err != nil || account == nil {
		return nil
	}
	return account
}

func (r *SocketRouter) handleTyping(c *realtime.Client, data json.RawMessage) {
	var p chatEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == "" {
		return
	}
	r.Hub.Broadcast(realtime.ChatRoom(p.ChatID), realtime.EventUserTyping, realtime.TypingPayload{
		UserID:   c.UserID,
		UserName: c.UserName,
		IsTyping: p.IsTyping,
	}, c)
}

func (r *SocketRouter) handleSendMessage(c *realtime.Client, data json.RawMessage) {
	var p chatEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == "" {
		c.QueueError("sendMessage needs a chatId")
		return
	}
	account := r.actor(c)
	if account == nil {
		c.QueueError("Authentication error")
		return
	}

	// Delivery happens inside the chat service: one newMessage to each
	// party's personal room. No chat-room broadcast, or sessions in the
	// thread room would see the message twice.
	if _, err := r.ChatService.PostMessage(account, p.ChatID, p.Content); err != nil {
		c.QueueError(socketErrorMessage(err, "Failed to send message"))
	}
}

func (r *SocketRouter) handleMarkAsRead(c *realtime.Client, data json.RawMessage) {
	var p chatEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == "" {
		c.QueueError("markAsRead needs a chatId")
		return
	}
	account := r.actor(c)
	if account == nil {
		c.QueueError("Authentication error")
		return
	}

	if err := r.ChatService.MarkRead(account, p.ChatID); err != nil {
		c.QueueError(socketErrorMessage(err, "Failed to mark messages as read"))
		return
	}
	r.Hub.Broadcast(realtime.ChatRoom(p.ChatID), realtime.EventMessagesRead, realtime.MessagesReadPayload{
		ChatID: p.ChatID,
	}, c)
}

func (r *SocketRouter) handleJoinChat(c *realtime.Client, data json.RawMessage) {
	var p chatEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == "" {
		return
	}
	thread, err := r.ChatRepo.GetByID(p.ChatID)
	if err != nil || thread == nil {
		c.QueueError("Chat not found")
		return
	}
	if c.Role != models.RoleAdmin && !thread.Party(c.UserID) {
		c.QueueError("You are not a party to this chat")
		return
	}
	r.Hub.Join(c, realtime.ChatRoom(p.ChatID))
}

func (r *SocketRouter) handleLeaveChat(c *realtime.Client, data json.RawMessage) {
	var p chatEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == "" {
		return
	}
	r.Hub.Leave(c, realtime.ChatRoom(p.ChatID))
}

func (r *SocketRouter) handleJoinRequestRoom(c *realtime.Client, data json.RawMessage) {
	var p requestEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RequestID == "" {
		return
	}
	if c.Role == models.RoleCustomer {
		req, err := r.RequestRepo.GetByID(p.RequestID)
		if err != nil || req == nil || req.Customer != c.UserID {
			c.QueueError("You do not own this request")
			return
		}
	}
	r.Hub.Join(c, realtime.RequestRoom(p.RequestID))
}

// handleGetProposals answers the requester only; a failure degrades to an
// empty list rather than an error broadcast.
func (r *SocketRouter) handleGetProposals(c *realtime.Client, data json.RawMessage) {
	var p requestEventPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RequestID == "" {
		c.Queue(realtime.EventProposals, realtime.ProposalsPayload{Proposals: []models.Proposal{}})
		return
	}

	payload := realtime.ProposalsPayload{RequestID: p.RequestID, Proposals: []models.Proposal{}}
	if account := r.actor(c); account != nil {
		if proposals, err := r.ProposalService.ListForRequest(account, p.RequestID); err == nil {
			payload.Proposals = proposals
		} else {
			r.Logger.Debug("getProposals failed",
				zap.String("request", p.RequestID), zap.String("user", c.UserID), zap.Error(err))
		}
	}
	c.Queue(realtime.EventProposals, payload)
}

// handleProposalRelay forwards an agency's freshly created proposal to the
// request room and the customer's personal room.
func (r *SocketRouter) handleProposalRelay(c *realtime.Client, data json.RawMessage) {
	if c.Role != models.RoleAgency {
		c.QueueError("Only agencies can announce proposals")
		return
	}
	var p realtime.ProposalPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RequestID == "" {
		c.QueueError("newProposal needs a requestId")
		return
	}
	p.AgencyID = c.UserID
	if p.Agency == "" {
		p.Agency = c.UserName
	}

	req, err := r.RequestRepo.GetByID(p.RequestID)
	if err != nil || req == nil {
		c.QueueError("Request not found")
		return
	}
	r.Hub.Broadcast(realtime.RequestRoom(p.RequestID), realtime.EventNewProposal, p, c)
	r.Hub.Emit(realtime.PersonalRoom(models.RoleCustomer, req.Customer), realtime.EventNewProposal, p)
}

// socketErrorMessage exposes typed service errors verbatim and hides
// everything else behind a generic message.
func socketErrorMessage(err error, fallback string) string {
	var svcErr *utils.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return fallback
}
