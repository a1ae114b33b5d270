package proposalRepo

import (
	"time"

	"kree/models"
)

// ProposalFilter narrows proposal listings.
type ProposalFilter struct {
	Request          string
	Agency           string
	Customer         string
	Status           string
	ExcludeWithdrawn bool
	Page             int
	Limit            int
}

// ProposalRepository defines persistence operations for proposals.
type ProposalRepository interface {
	Create(p *models.Proposal) error
	GetByID(id string) (*models.Proposal, error)
	// Save replaces the proposal document after Normalize has run.
	Save(p *models.Proposal) error
	List(filter ProposalFilter) ([]models.Proposal, int64, error)
	// ExpirePending flips pending proposals past their deadline to expired
	// and reports how many were touched.
	ExpirePending(now time.Time) (int64, error)
}
