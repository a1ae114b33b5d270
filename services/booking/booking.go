package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kree/config"
	bookingRepo "kree/database/repository/booking"
	proposalRepo "kree/database/repository/proposal"
	requestRepo "kree/database/repository/request"
	scoreRepo "kree/database/repository/score"
	userRepo "kree/database/repository/user"
	"kree/models"
	"kree/services/notification"
	"kree/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService is the production implementation of BookingService.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	ProposalRepo proposalRepo.ProposalRepository
	RequestRepo  requestRepo.RequestRepository
	UserRepo     userRepo.UserRepository
	ScoreRepo    scoreRepo.ScoreRepository
	Notifier     notification.NotificationService
}

func NewDefaultBookingService(
	repo bookingRepo.BookingRepository,
	proposals proposalRepo.ProposalRepository,
	requests requestRepo.RequestRepository,
	users userRepo.UserRepository,
	scores scoreRepo.ScoreRepository,
	notifier notification.NotificationService,
) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:         repo,
		ProposalRepo: proposals,
		RequestRepo:  requests,
		UserRepo:     users,
		ScoreRepo:    scores,
		Notifier:     notifier,
	}
}

// CreateFromProposal accepts a pending proposal into a booking. The write is
// transactional: if another booking claimed the request first, nothing is
// written and a conflict is returned.
func (s *DefaultBookingService) CreateFromProposal(ctx context.Context, customerID string, input CreateInput) (*models.Booking, error) {
	p, err := s.ProposalRepo.GetByID(input.ProposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposal: %w", err)
	}
	if p == nil {
		return nil, utils.NewNotFoundError("proposal not found")
	}
	if p.Customer != customerID {
		return nil, utils.NewAuthzError("this proposal was not made to you")
	}
	if models.EffectiveProposalStatus(p.Status, p.ExpiresAt, time.Now()) != models.ProposalStatusPending {
		return nil, utils.NewConflictError("proposal is no longer open for acceptance")
	}

	agency, err := s.UserRepo.GetByID(p.Agency)
	if err != nil || agency == nil {
		return nil, utils.NewNotFoundError("agency not found")
	}

	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCashOnPickup
	}

	now := time.Now()
	days := models.RentalDays(p.Availability.StartDate, p.Availability.EndDate)
	booking := &models.Booking{
		ID:            uuid.New().String(),
		Customer:      customerID,
		Agency:        p.Agency,
		Request:       p.Request,
		Proposal:      p.ID,
		BookingNumber: utils.GenerateBookingNumber(),
		Car:           p.Car,
		RentalPeriod:  p.Availability,
		NumberOfDays:  days,
		Pricing:       models.SplitPricing(p.Pricing.PricePerDay, p.Pricing.TotalPrice, config.AppConfig.PlatformFeeRate),
		Payment:       models.Payment{Method: method, Status: models.PaymentStatusPending},
		Status:        models.BookingStatusBooked,
		PickupDetails: models.HandoverDetails{
			Address:       p.PickupLocation.Address,
			City:          p.PickupLocation.City,
			ScheduledTime: &p.Availability.StartDate,
			Notes:         input.PickupNotes,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if booking.PickupDetails.City == "" {
		booking.PickupDetails.City = agency.Address.City
	}
	if input.ReturnDetails != nil {
		booking.ReturnDetails = *input.ReturnDetails
	} else {
		booking.ReturnDetails = models.HandoverDetails{
			Address:       booking.PickupDetails.Address,
			City:          booking.PickupDetails.City,
			ScheduledTime: &p.Availability.EndDate,
		}
	}

	if err := s.Repo.CreateFromProposal(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrRequestNotOpen) {
			return nil, utils.NewConflictError("request already has an accepted proposal")
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.Notifier.NotifyBookingCreated(booking, agency.DisplayName())
	return booking, nil
}

// Get returns a booking visible to the actor: its customer, its agency, or
// an admin.
func (s *DefaultBookingService) Get(actor *models.User, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, utils.NewNotFoundError("booking not found")
	}
	if actor.Role != models.RoleAdmin && b.Customer != actor.ID && b.Agency != actor.ID {
		return nil, utils.NewAuthzError("you are not a party to this booking")
	}
	return b, nil
}

func (s *DefaultBookingService) ListForCustomer(customerID string, filter bookingRepo.BookingFilter) ([]models.Booking, int64, error) {
	filter.Customer = customerID
	return s.Repo.List(filter)
}

func (s *DefaultBookingService) ListForAgency(agencyID string, filter bookingRepo.BookingFilter) ([]models.Booking, int64, error) {
	filter.Agency = agencyID
	return s.Repo.List(filter)
}

// ActiveForCustomer returns the customer's newest booking that has not been
// delivered, or nil when none is in flight.
func (s *DefaultBookingService) ActiveForCustomer(customerID string) (*models.Booking, error) {
	b, err := s.Repo.FindActiveByCustomer(customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active booking: %w", err)
	}
	return b, nil
}

func (s *DefaultBookingService) ListAll(filter bookingRepo.BookingFilter) ([]models.Booking, int64, error) {
	return s.Repo.List(filter)
}

// fetchForAgency loads a booking and verifies the acting agency owns it.
func (s *DefaultBookingService) fetchForAgency(agencyID, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, utils.NewNotFoundError("booking not found")
	}
	if b.Agency != agencyID {
		return nil, utils.NewAuthzError("this booking belongs to another agency")
	}
	return b, nil
}

// Confirm moves a fresh booking into `confirmed`.
func (s *DefaultBookingService) Confirm(agencyID, id string) (*models.Booking, error) {
	b, err := s.fetchForAgency(agencyID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusBooked {
		return nil, utils.NewConflictError("only a booked booking can be confirmed")
	}
	b.Status = models.BookingStatusConfirmed
	if err := s.Repo.Update(b); err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	s.Notifier.NotifyBookingStatus(b, b.Status)
	return b, nil
}

// MarkPickedUp stamps the actual pickup time and settles a cash payment.
func (s *DefaultBookingService) MarkPickedUp(agencyID, id string) (*models.Booking, error) {
	b, err := s.fetchForAgency(agencyID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusBooked && b.Status != models.BookingStatusConfirmed {
		return nil, utils.NewConflictError("booking is not awaiting pickup")
	}

	now := time.Now()
	b.Status = models.BookingStatusPickedUp
	b.PickupDetails.ActualTime = &now
	if b.Payment.Status == models.PaymentStatusPending {
		b.Payment.Status = models.PaymentStatusPaid
		b.Payment.PaidAt = &now
	}
	if err := s.Repo.Update(b); err != nil {
		return nil, fmt.Errorf("failed to mark booking picked up: %w", err)
	}
	s.Notifier.NotifyBookingStatus(b, b.Status)
	return b, nil
}

// MarkReturned stamps the actual return time.
func (s *DefaultBookingService) MarkReturned(agencyID, id string) (*models.Booking, error) {
	b, err := s.fetchForAgency(agencyID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusPickedUp {
		return nil, utils.NewConflictError("booking has not been picked up")
	}

	now := time.Now()
	b.Status = models.BookingStatusReturned
	b.ReturnDetails.ActualTime = &now
	if err := s.Repo.Update(b); err != nil {
		return nil, fmt.Errorf("failed to mark booking returned: %w", err)
	}
	s.Notifier.NotifyBookingStatus(b, b.Status)
	return b, nil
}

// Complete closes a returned booking as Delivered, cascades the request, and
// awards the customer's delivery points. The owning agency or an admin may
// close it.
func (s *DefaultBookingService) Complete(actor *models.User, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, utils.NewNotFoundError("booking not found")
	}
	if actor.Role != models.RoleAdmin && b.Agency != actor.ID {
		return nil, utils.NewAuthzError("this booking belongs to another agency")
	}
	if b.Status != models.BookingStatusReturned {
		return nil, utils.NewConflictError("booking has not been returned")
	}

	now := time.Now()
	b.Status = models.BookingStatusDelivered
	b.Payment.Status = models.PaymentStatusDelivered
	b.Payment.DeliveredAt = &now
	if err := s.Repo.Update(b); err != nil {
		return nil, fmt.Errorf("failed to complete booking: %w", err)
	}

	if err := s.RequestRepo.UpdateStatus(b.Request, models.RequestStatusDelivered); err != nil {
		utils.GetLogger().Warn("failed to cascade delivery to request",
			zap.String("booking", b.ID), zap.String("request", b.Request), zap.Error(err))
	}
	entry := models.ScoreEntry{
		Points:    models.DeliveryPoints,
		Reason:    "rental delivered",
		AwardedBy: actor.ID,
		AwardedAt: now,
	}
	if err := s.ScoreRepo.AddPoints(b.Customer, entry); err != nil {
		utils.GetLogger().Warn("failed to award delivery points",
			zap.String("booking", b.ID), zap.String("customer", b.Customer), zap.Error(err))
	}

	s.Notifier.NotifyBookingStatus(b, b.Status)
	return b, nil
}

// Cancel is open to either party or an admin while the booking is still
// cancellable.
func (s *DefaultBookingService) Cancel(actor *models.User, id, reason string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, utils.NewNotFoundError("booking not found")
	}
	if actor.Role != models.RoleAdmin && b.Customer != actor.ID && b.Agency != actor.ID {
		return nil, utils.NewAuthzError("you are not a party to this booking")
	}
	if !b.Cancellable() {
		return nil, utils.NewConflictError("booking can no longer be cancelled")
	}

	b.Status = models.BookingStatusCancelled
	b.Cancellation = &models.Cancellation{
		CancelledBy: actor.ID,
		CancelledAt: time.Now(),
		Reason:      reason,
	}
	if err := s.Repo.Update(b); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	s.Notifier.NotifyBookingStatus(b, b.Status)
	return b, nil
}
