package proposal

import (
	"fmt"
	"time"

	"kree/config"
	proposalRepo "kree/database/repository/proposal"
	requestRepo "kree/database/repository/request"
	userRepo "kree/database/repository/user"
	"kree/models"
	"kree/services/notification"
	"kree/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultProposalService is the production implementation of ProposalService.
type DefaultProposalService struct {
	Repo        proposalRepo.ProposalRepository
	RequestRepo requestRepo.RequestRepository
	UserRepo    userRepo.UserRepository
	Notifier    notification.NotificationService
}

func NewDefaultProposalService(repo proposalRepo.ProposalRepository, requests requestRepo.RequestRepository, users userRepo.UserRepository, notifier notification.NotificationService) *DefaultProposalService {
	return &DefaultProposalService{Repo: repo, RequestRepo: requests, UserRepo: users, Notifier: notifier}
}

func proposalTTL() time.Duration {
	if config.AppConfig.ProposalTTLHours > 0 {
		return time.Duration(config.AppConfig.ProposalTTLHours) * time.Hour
	}
	return models.ProposalTTL
}

// Create stores a proposal against an open request. The availability window
// defaults to the request's rental period, and the expiry clock starts now.
func (s *DefaultProposalService) Create(agencyID string, p *models.Proposal) (*models.Proposal, error) {
	agency, err := s.UserRepo.GetByID(agencyID)
	if err != nil || agency == nil {
		return nil, utils.NewNotFoundError("agency not found")
	}
	if agency.Role != models.RoleAgency {
		return nil, utils.NewAuthzError("only agencies can submit proposals")
	}

	req, err := s.RequestRepo.GetByID(p.Request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}
	if req == nil {
		return nil, utils.NewNotFoundError("request not found")
	}
	if !requestOpen(req.Status) {
		return nil, utils.NewConflictError("request is no longer accepting proposals")
	}
	if p.Pricing.PricePerDay <= 0 {
		return nil, utils.NewValidationError("pricePerDay must be positive")
	}
	if p.Car.Make == "" || p.Car.Model == "" {
		return nil, utils.NewValidationError("the offered car needs a make and model")
	}

	now := time.Now()
	p.ID = uuid.New().String()
	p.Agency = agencyID
	p.Customer = req.Customer
	p.Status = models.ProposalStatusPending
	p.ExpiresAt = now.Add(proposalTTL())
	if p.Availability.StartDate.IsZero() && req.RentalPeriod != nil {
		p.Availability = *req.RentalPeriod
	}
	p.Normalize(now)

	if err := s.Repo.Create(p); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	if err := s.RequestRepo.RegisterProposal(req.ID); err != nil {
		utils.GetLogger().Warn("failed to register proposal on request",
			zap.String("request", req.ID), zap.String("proposal", p.ID), zap.Error(err))
	}

	p.AgencyName = agency.DisplayName()
	s.Notifier.NotifyNewProposal(p, p.AgencyName)
	return p, nil
}

func requestOpen(status string) bool {
	for _, s := range models.RequestOpenStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Get returns a proposal visible to the actor: its agency, its customer, or
// an admin.
func (s *DefaultProposalService) Get(actor *models.User, id string) (*models.Proposal, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposal: %w", err)
	}
	if p == nil {
		return nil, utils.NewNotFoundError("proposal not found")
	}
	if actor.Role != models.RoleAdmin && p.Agency != actor.ID && p.Customer != actor.ID {
		return nil, utils.NewAuthzError("you are not a party to this proposal")
	}
	return p, nil
}

// Update amends a pending proposal. Only the car, pricing, availability,
// pickup location and notes are writable.
func (s *DefaultProposalService) Update(agencyID, id string, updates *models.Proposal) (*models.Proposal, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposal: %w", err)
	}
	if p == nil {
		return nil, utils.NewNotFoundError("proposal not found")
	}
	if p.Agency != agencyID {
		return nil, utils.NewAuthzError("you do not own this proposal")
	}
	if p.Status != models.ProposalStatusPending {
		return nil, utils.NewConflictError("only pending proposals can be amended")
	}

	if updates.Car.Make != "" {
		p.Car = updates.Car
	}
	if updates.Pricing.PricePerDay > 0 {
		p.Pricing.PricePerDay = updates.Pricing.PricePerDay
	}
	if !updates.Availability.StartDate.IsZero() {
		p.Availability = updates.Availability
	}
	if updates.PickupLocation.Address != "" || updates.PickupLocation.City != "" {
		p.PickupLocation = updates.PickupLocation
	}
	if updates.AgencyNotes != "" {
		p.AgencyNotes = updates.AgencyNotes
	}

	if err := s.Repo.Save(p); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}
	return p, nil
}

// Withdraw retracts a pending proposal and frees its slot on the request.
func (s *DefaultProposalService) Withdraw(agencyID, id string) (*models.Proposal, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposal: %w", err)
	}
	if p == nil {
		return nil, utils.NewNotFoundError("proposal not found")
	}
	if p.Agency != agencyID {
		return nil, utils.NewAuthzError("you do not own this proposal")
	}
	if p.Status != models.ProposalStatusPending {
		return nil, utils.NewConflictError("only pending proposals can be withdrawn")
	}

	p.Status = models.ProposalStatusWithdrawn
	if err := s.Repo.Save(p); err != nil {
		return nil, fmt.Errorf("failed to withdraw proposal: %w", err)
	}
	if err := s.RequestRepo.UnregisterProposal(p.Request); err != nil {
		utils.GetLogger().Warn("failed to unregister proposal on request",
			zap.String("request", p.Request), zap.String("proposal", p.ID), zap.Error(err))
	}
	return p, nil
}

// ListForRequest returns the visible proposals on a request, excluding
// withdrawn ones, with agency display names resolved.
func (s *DefaultProposalService) ListForRequest(actor *models.User, requestID string) ([]models.Proposal, error) {
	req, err := s.RequestRepo.GetByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}
	if req == nil {
		return nil, utils.NewNotFoundError("request not found")
	}
	if actor.Role == models.RoleCustomer && req.Customer != actor.ID {
		return nil, utils.NewAuthzError("you do not own this request")
	}

	proposals, _, err := s.Repo.List(proposalRepo.ProposalFilter{
		Request:          requestID,
		ExcludeWithdrawn: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	s.resolveAgencyNames(proposals)
	return proposals, nil
}

func (s *DefaultProposalService) ListForAgency(agencyID string, filter proposalRepo.ProposalFilter) ([]models.Proposal, int64, error) {
	filter.Agency = agencyID
	return s.Repo.List(filter)
}

func (s *DefaultProposalService) ListForCustomer(customerID string, filter proposalRepo.ProposalFilter) ([]models.Proposal, int64, error) {
	filter.Customer = customerID
	filter.ExcludeWithdrawn = true
	proposals, total, err := s.Repo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	s.resolveAgencyNames(proposals)
	return proposals, total, nil
}

func (s *DefaultProposalService) ListAll(filter proposalRepo.ProposalFilter) ([]models.Proposal, int64, error) {
	return s.Repo.List(filter)
}

// resolveAgencyNames fills the display-only AgencyName field, one lookup per
// distinct agency.
func (s *DefaultProposalService) resolveAgencyNames(proposals []models.Proposal) {
	names := make(map[string]string)
	for i := range proposals {
		id := proposals[i].Agency
		name, ok := names[id]
		if !ok {
			if agency, err := s.UserRepo.GetByID(id); err == nil && agency != nil {
				name = agency.DisplayName()
			}
			names[id] = name
		}
		proposals[i].AgencyName = name
	}
}
