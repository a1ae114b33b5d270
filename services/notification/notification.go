package notification

import (
	"fmt"

	notificationRepo "kree/database/repository/notification"
	"kree/models"
	"kree/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Broadcaster Broadcaster
	Repo        notificationRepo.NotificationRepository
	Logger      *zap.Logger
}

func NewDefaultNotificationService(b Broadcaster, repo notificationRepo.NotificationRepository, logger *zap.Logger) *DefaultNotificationService {
	return &DefaultNotificationService{Broadcaster: b, Repo: repo, Logger: logger}
}

// NotifyNewRequest persists an inbox entry per matched agency and pushes a
// new_request event to each agency's personal room.
func (s *DefaultNotificationService) NotifyNewRequest(req *models.Request, customer *models.User, agencies []models.User) {
	for _, agency := range agencies {
		n := &models.Notification{
			ID:        uuid.New().String(),
			Recipient: agency.ID,
			Sender:    customer.ID,
			Type:      models.NotificationTypeRequest,
			Message:   fmt.Sprintf("%s has submitted a new request in %s.", customer.DisplayName(), req.Location.City),
			Link:      "/agency/requests/" + req.ID,
		}
		if err := s.Repo.Create(n); err != nil {
			s.Logger.Warn("failed to persist request notification",
				zap.String("agency", agency.ID), zap.Error(err))
			continue
		}
		s.Broadcaster.Emit(realtime.PersonalRoom(models.RoleAgency, agency.ID), realtime.EventNewRequest, n)
	}
}

// NotifyNewProposal announces a proposal to the request room and the
// customer's personal room, and leaves an inbox entry for the customer.
func (s *DefaultNotificationService) NotifyNewProposal(p *models.Proposal, agencyName string) {
	payload := realtime.ProposalPayload{
		ProposalID:     p.ID,
		RequestID:      p.Request,
		Agency:         agencyName,
		AgencyID:       p.Agency,
		Message:        fmt.Sprintf("%s submitted a new proposal.", agencyName),
		Car:            p.Car,
		Pricing:        p.Pricing,
		PickupLocation: p.PickupLocation,
	}
	s.Broadcaster.Emit(realtime.RequestRoom(p.Request), realtime.EventNewProposal, payload)
	s.Broadcaster.Emit(realtime.PersonalRoom(models.RoleCustomer, p.Customer), realtime.EventNewProposal, payload)

	n := &models.Notification{
		ID:        uuid.New().String(),
		Recipient: p.Customer,
		Sender:    p.Agency,
		Type:      models.NotificationTypeProposal,
		Message:   payload.Message,
		Link:      "/customer/requests/" + p.Request,
	}
	if err := s.Repo.Create(n); err != nil {
		s.Logger.Warn("failed to persist proposal notification",
			zap.String("customer", p.Customer), zap.Error(err))
	}
}

// otherPartyRoom resolves the personal room of the thread party opposite
// the acting user.
func otherPartyRoom(chat *models.Chat, actorID string) string {
	if chat.Customer == actorID {
		return realtime.PersonalRoom(models.RoleAgency, chat.Agency)
	}
	return realtime.PersonalRoom(models.RoleCustomer, chat.Customer)
}

// NotifyNewMessage delivers a stored message to both parties' personal
// rooms under the newMessage name realtime sessions listen on. Each session
// sees the message once.
func (s *DefaultNotificationService) NotifyNewMessage(chat *models.Chat, msg models.Message) {
	payload := realtime.MessagePayload{ChatID: chat.ID, Message: msg}
	s.Broadcaster.Emit(realtime.PersonalRoom(models.RoleCustomer, chat.Customer), realtime.EventNewMessage, payload)
	s.Broadcaster.Emit(realtime.PersonalRoom(models.RoleAgency, chat.Agency), realtime.EventNewMessage, payload)
}

// NotifyNewMessageLegacy delivers a message posted over the REST surface to
// the other party only, under the legacy new_message name those clients
// subscribe to.
func (s *DefaultNotificationService) NotifyNewMessageLegacy(chat *models.Chat, msg models.Message) {
	room := otherPartyRoom(chat, msg.Sender)
	s.Broadcaster.Emit(room, realtime.EventNewMessageLegacy, realtime.MessagePayload{ChatID: chat.ID, Message: msg})
}

// NotifyMessagesRead tells the other party their messages were read.
func (s *DefaultNotificationService) NotifyMessagesRead(chat *models.Chat, readerID string) {
	room := otherPartyRoom(chat, readerID)
	s.Broadcaster.Emit(room, realtime.EventMessagesRead, realtime.MessagesReadPayload{ChatID: chat.ID})
}

// NotifyBookingCreated announces a booking to its customer.
func (s *DefaultNotificationService) NotifyBookingCreated(b *models.Booking, agencyName string) {
	payload := realtime.BookingCreatedPayload{
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Agency:        agencyName,
		Car:           b.Car,
		RentalPeriod:  b.RentalPeriod,
	}
	s.Broadcaster.Emit(realtime.PersonalRoom(models.RoleCustomer, b.Customer), realtime.EventBookingCreated, payload)
}

// NotifyBookingStatus announces a booking status change to its customer.
func (s *DefaultNotificationService) NotifyBookingStatus(b *models.Booking, status string) {
	payload := realtime.BookingStatusPayload{BookingID: b.ID, Status: status}
	s.Broadcaster.Emit(realtime.PersonalRoom(models.RoleCustomer, b.Customer), realtime.EventBookingStatusUpdate, payload)
}
