package score

import (
	"fmt"
	"time"

	scoreRepo "kree/database/repository/score"
	"kree/models"
	"kree/utils"
)

// ScoreService exposes customer loyalty point balances.
type ScoreService interface {
	// GetForCustomer returns the balance, zero when nothing was awarded yet.
	GetForCustomer(actor *models.User, customerID string) (*models.Score, error)
	// Award adds points manually (admin path).
	Award(adminID, customerID string, points int, reason string) error
}

// DefaultScoreService is the production implementation of ScoreService.
type DefaultScoreService struct {
	Repo scoreRepo.ScoreRepository
}

func NewDefaultScoreService(repo scoreRepo.ScoreRepository) *DefaultScoreService {
	return &DefaultScoreService{Repo: repo}
}

func (s *DefaultScoreService) GetForCustomer(actor *models.User, customerID string) (*models.Score, error) {
	if actor.Role != models.RoleAdmin && actor.ID != customerID {
		return nil, utils.NewAuthzError("you can only view your own score")
	}
	score, err := s.Repo.GetByCustomer(customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch score: %w", err)
	}
	return score, nil
}

func (s *DefaultScoreService) Award(adminID, customerID string, points int, reason string) error {
	if points <= 0 {
		return utils.NewValidationError("points must be positive")
	}
	entry := models.ScoreEntry{
		Points:    points,
		Reason:    reason,
		AwardedBy: adminID,
		AwardedAt: time.Now(),
	}
	if err := s.Repo.AddPoints(customerID, entry); err != nil {
		return fmt.Errorf("failed to award points: %w", err)
	}
	return nil
}
