package proposal

import (
	proposalRepo "kree/database/repository/proposal"
	"kree/models"
)

// ProposalService manages agency offers against rental requests.
type ProposalService interface {
	// Create stores a proposal for the acting agency against an open request
	// and announces it to the customer.
	Create(agencyID string, p *models.Proposal) (*models.Proposal, error)
	Get(actor *models.User, id string) (*models.Proposal, error)
	// Update lets the owning agency amend a pending proposal.
	Update(agencyID, id string, updates *models.Proposal) (*models.Proposal, error)
	// Withdraw retracts a pending proposal and releases its slot on the request.
	Withdraw(agencyID, id string) (*models.Proposal, error)
	// ListForRequest returns the live proposals on a request, with agency
	// display names resolved.
	ListForRequest(actor *models.User, requestID string) ([]models.Proposal, error)
	ListForAgency(agencyID string, filter proposalRepo.ProposalFilter) ([]models.Proposal, int64, error)
	ListForCustomer(customerID string, filter proposalRepo.ProposalFilter) ([]models.Proposal, int64, error)
	ListAll(filter proposalRepo.ProposalFilter) ([]models.Proposal, int64, error)
}
