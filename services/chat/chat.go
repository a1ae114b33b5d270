package chat

import (
	"fmt"
	"strings"
	"time"

	chatRepo "kree/database/repository/chat"
	userRepo "kree/database/repository/user"
	"kree/models"
	"kree/services/notification"
	"kree/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultChatService is the production implementation of ChatService.
type DefaultChatService struct {
	Repo     chatRepo.ChatRepository
	UserRepo userRepo.UserRepository
	Notifier notification.NotificationService
}

func NewDefaultChatService(repo chatRepo.ChatRepository, users userRepo.UserRepository, notifier notification.NotificationService) *DefaultChatService {
	return &DefaultChatService{Repo: repo, UserRepo: users, Notifier: notifier}
}

// OpenThread is idempotent: the customer/agency pair has at most one active
// thread, and repeated opens return it.
func (s *DefaultChatService) OpenThread(actor *models.User, otherID string) (*models.Chat, error) {
	other, err := s.UserRepo.GetByID(otherID)
	if err != nil || other == nil {
		return nil, utils.NewNotFoundError("user not found")
	}

	var customerID, agencyID string
	switch {
	case actor.Role == models.RoleCustomer && other.Role == models.RoleAgency:
		customerID, agencyID = actor.ID, other.ID
	case actor.Role == models.RoleAgency && other.Role == models.RoleCustomer:
		customerID, agencyID = other.ID, actor.ID
	default:
		return nil, utils.NewValidationError("a chat links one customer with one agency")
	}

	existing, err := s.Repo.FindActiveByPair(customerID, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up chat: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	thread := &models.Chat{
		ID:        uuid.New().String(),
		Customer:  customerID,
		Agency:    agencyID,
		Messages:  []models.Message{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(thread); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return thread, nil
}

// GetThread returns a full thread for one of its parties or an admin.
// Viewing marks the other party's messages read.
func (s *DefaultChatService) GetThread(actor *models.User, id string) (*models.Chat, error) {
	thread, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat: %w", err)
	}
	if thread == nil {
		return nil, utils.NewNotFoundError("chat not found")
	}
	if actor.Role != models.RoleAdmin && !thread.Party(actor.ID) {
		return nil, utils.NewAuthzError("you are not a party to this chat")
	}

	if thread.Party(actor.ID) {
		if err := s.Repo.MarkRead(id, actor.ID); err != nil {
			utils.GetLogger().Warn("failed to mark chat read",
				zap.String("chat", id), zap.String("reader", actor.ID), zap.Error(err))
		} else {
			for i := range thread.Messages {
				if thread.Messages[i].Sender != actor.ID {
					thread.Messages[i].IsRead = true
				}
			}
		}
	}

	s.resolveSenders(thread)
	return thread, nil
}

// ListThreads returns the actor's threads newest-activity first, with the
// unread count computed for the actor.
func (s *DefaultChatService) ListThreads(actor *models.User) ([]models.Chat, error) {
	threads, err := s.Repo.ListForUser(actor.ID, actor.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	for i := range threads {
		unread := 0
		for _, m := range threads[i].Messages {
			if m.Sender != actor.ID && !m.IsRead {
				unread++
			}
		}
		threads[i].UnreadCount = unread
	}
	return threads, nil
}

// PostMessage appends a message from a realtime session and pushes it to
// both parties' personal rooms.
func (s *DefaultChatService) PostMessage(actor *models.User, chatID, content string) (*models.Message, error) {
	thread, msg, err := s.post(actor, chatID, content)
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyNewMessage(thread, *msg)
	return msg, nil
}

// PostMessageWeb appends a message sent over the REST surface and notifies
// the other party under the legacy new_message name.
func (s *DefaultChatService) PostMessageWeb(actor *models.User, chatID, content string) (*models.Message, error) {
	thread, msg, err := s.post(actor, chatID, content)
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyNewMessageLegacy(thread, *msg)
	return msg, nil
}

func (s *DefaultChatService) post(actor *models.User, chatID, content string) (*models.Chat, *models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, utils.NewValidationError("message content is required")
	}

	thread, err := s.Repo.GetByID(chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch chat: %w", err)
	}
	if thread == nil {
		return nil, nil, utils.NewNotFoundError("chat not found")
	}
	if !thread.Party(actor.ID) {
		return nil, nil, utils.NewAuthzError("you are not a party to this chat")
	}
	if !thread.IsActive {
		return nil, nil, utils.NewConflictError("this chat has been closed")
	}

	msg := models.Message{
		ID:        uuid.New().String(),
		Sender:    actor.ID,
		Content:   content,
		Timestamp: time.Now(),
	}
	if err := s.Repo.AppendMessage(chatID, msg); err != nil {
		return nil, nil, fmt.Errorf("failed to store message: %w", err)
	}

	msg.SenderName = actor.DisplayName()
	msg.SenderAvatar = actor.Avatar
	msg.SenderRole = actor.Role
	return thread, &msg, nil
}

// MarkRead flips the other party's messages to read on behalf of the actor.
func (s *DefaultChatService) MarkRead(actor *models.User, chatID string) error {
	thread, err := s.Repo.GetByID(chatID)
	if err != nil {
		return fmt.Errorf("failed to fetch chat: %w", err)
	}
	if thread == nil {
		return utils.NewNotFoundError("chat not found")
	}
	if !thread.Party(actor.ID) {
		return utils.NewAuthzError("you are not a party to this chat")
	}

	if err := s.Repo.MarkRead(chatID, actor.ID); err != nil {
		return fmt.Errorf("failed to mark chat read: %w", err)
	}
	s.Notifier.NotifyMessagesRead(thread, actor.ID)
	return nil
}

// resolveSenders fills display fields for each message, one lookup per
// distinct sender.
func (s *DefaultChatService) resolveSenders(thread *models.Chat) {
	profiles := make(map[string]*models.User)
	for i := range thread.Messages {
		id := thread.Messages[i].Sender
		profile, ok := profiles[id]
		if !ok {
			profile, _ = s.UserRepo.GetByID(id)
			profiles[id] = profile
		}
		if profile != nil {
			thread.Messages[i].SenderName = profile.DisplayName()
			thread.Messages[i].SenderAvatar = profile.Avatar
			thread.Messages[i].SenderRole = profile.Role
		}
	}
}
