package request

import (
	"fmt"
	"strings"

	requestRepo "kree/database/repository/request"
	userRepo "kree/database/repository/user"
	"kree/models"
	"kree/services/notification"
	"kree/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRequestService is the production implementation of RequestService.
type DefaultRequestService struct {
	Repo     requestRepo.RequestRepository
	UserRepo userRepo.UserRepository
	Notifier notification.NotificationService
}

func NewDefaultRequestService(repo requestRepo.RequestRepository, users userRepo.UserRepository, notifier notification.NotificationService) *DefaultRequestService {
	return &DefaultRequestService{Repo: repo, UserRepo: users, Notifier: notifier}
}

// Create stores the request, records which agencies were matched, and fans
// the announcement out to every verified agency in the request's city.
func (s *DefaultRequestService) Create(customerID string, req *models.Request) (*models.Request, error) {
	customer, err := s.UserRepo.GetByID(customerID)
	if err != nil || customer == nil {
		return nil, utils.NewNotFoundError("customer not found")
	}
	if customer.Role != models.RoleCustomer {
		return nil, utils.NewAuthzError("only customers can post rental requests")
	}
	if strings.TrimSpace(req.Location.City) == "" {
		return nil, utils.NewValidationError("a city is required")
	}
	if req.RentalPeriod != nil && !req.RentalPeriod.EndDate.After(req.RentalPeriod.StartDate) {
		return nil, utils.NewValidationError("rental period end must be after its start")
	}

	req.ID = uuid.New().String()
	req.Customer = customerID
	req.Status = models.RequestStatusPending
	req.AcceptedProposal = ""
	req.ProposalsCount = 0

	if err := s.Repo.Create(req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	agencies, err := s.UserRepo.FindVerifiedAgenciesByCity(req.Location.City)
	if err != nil {
		utils.GetLogger().Warn("agency matching failed",
			zap.String("request", req.ID), zap.String("city", req.Location.City), zap.Error(err))
		return req, nil
	}

	if len(agencies) > 0 {
		ids := make([]string, len(agencies))
		for i, a := range agencies {
			ids[i] = a.ID
		}
		if err := s.Repo.SetNotifiedAgencies(req.ID, ids); err != nil {
			utils.GetLogger().Warn("failed to record notified agencies",
				zap.String("request", req.ID), zap.Error(err))
		} else {
			req.NotifiedAgencies = ids
		}
		s.Notifier.NotifyNewRequest(req, customer, agencies)
	}
	return req, nil
}

// Get returns a request visible to the actor. Customers only see their own
// requests; agencies and admins see any.
func (s *DefaultRequestService) Get(actor *models.User, id string) (*models.Request, error) {
	req, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}
	if req == nil {
		return nil, utils.NewNotFoundError("request not found")
	}
	if actor.Role == models.RoleCustomer && req.Customer != actor.ID {
		return nil, utils.NewAuthzError("you do not own this request")
	}
	return req, nil
}

func (s *DefaultRequestService) ListForCustomer(customerID string, filter requestRepo.RequestFilter) ([]models.Request, int64, error) {
	filter.Customer = customerID
	return s.Repo.List(filter)
}

// ListOpen returns requests agencies may still bid on.
func (s *DefaultRequestService) ListOpen(filter requestRepo.RequestFilter) ([]models.Request, int64, error) {
	filter.Status = ""
	filter.Statuses = models.RequestOpenStatuses
	return s.Repo.List(filter)
}

func (s *DefaultRequestService) ListAll(filter requestRepo.RequestFilter) ([]models.Request, int64, error) {
	return s.Repo.List(filter)
}

// Cancel moves a request to `cancelled`. Only the owning customer or an
// admin may cancel, and only while the request is not terminal or booked.
func (s *DefaultRequestService) Cancel(actor *models.User, id string) (*models.Request, error) {
	req, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}
	if req == nil {
		return nil, utils.NewNotFoundError("request not found")
	}
	if actor.Role != models.RoleAdmin && req.Customer != actor.ID {
		return nil, utils.NewAuthzError("you do not own this request")
	}
	if req.Terminal() {
		return nil, utils.NewConflictError("request is already closed")
	}
	if req.Status == models.RequestStatusOncoming {
		return nil, utils.NewConflictError("request already has an accepted proposal")
	}

	if err := s.Repo.UpdateStatus(id, models.RequestStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel request: %w", err)
	}
	req.Status = models.RequestStatusCancelled
	return req, nil
}

// Complete closes a booked request as Delivered. Only the owning customer or
// an admin may complete, and only once the request has an accepted proposal.
func (s *DefaultRequestService) Complete(actor *models.User, id string) (*models.Request, error) {
	req, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}
	if req == nil {
		return nil, utils.NewNotFoundError("request not found")
	}
	if actor.Role != models.RoleAdmin && req.Customer != actor.ID {
		return nil, utils.NewAuthzError("you do not own this request")
	}
	if req.Status == models.RequestStatusDelivered {
		return req, nil
	}
	if req.Status != models.RequestStatusOncoming {
		return nil, utils.NewConflictError("request has no accepted proposal to deliver")
	}

	if err := s.Repo.UpdateStatus(id, models.RequestStatusDelivered); err != nil {
		return nil, fmt.Errorf("failed to complete request: %w", err)
	}
	req.Status = models.RequestStatusDelivered
	return req, nil
}
