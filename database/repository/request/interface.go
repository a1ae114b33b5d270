package requestRepo

import "kree/models"

// RequestFilter narrows request listings.
type RequestFilter struct {
	Customer string
	Status   string
	// Statuses matches any of the given statuses; ignored when Status is set.
	Statuses []string
	Page     int
	Limit    int
}

// RequestRepository defines persistence operations for rental requests.
type RequestRepository interface {
	Create(req *models.Request) error
	GetByID(id string) (*models.Request, error)
	Update(req *models.Request) error
	List(filter RequestFilter) ([]models.Request, int64, error)
	SetNotifiedAgencies(id string, agencyIDs []string) error
	// RegisterProposal bumps the proposals counter and moves an open
	// request into `proposals_received`.
	RegisterProposal(id string) error
	// UnregisterProposal decrements the proposals counter (floored at zero).
	UnregisterProposal(id string) error
	UpdateStatus(id, status string) error
	CountByStatus(status string) (int64, error)
}
