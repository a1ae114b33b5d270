package request

import (
	requestRepo "kree/database/repository/request"
	"kree/models"
)

// RequestService manages rental requests and their agency fan-out.
type RequestService interface {
	// Create stores a request for the acting customer and notifies every
	// verified agency in the request's city.
	Create(customerID string, req *models.Request) (*models.Request, error)
	Get(actor *models.User, id string) (*models.Request, error)
	ListForCustomer(customerID string, filter requestRepo.RequestFilter) ([]models.Request, int64, error)
	// ListOpen returns the requests an agency may still bid on.
	ListOpen(filter requestRepo.RequestFilter) ([]models.Request, int64, error)
	ListAll(filter requestRepo.RequestFilter) ([]models.Request, int64, error)
	Cancel(actor *models.User, id string) (*models.Request, error)
	// Complete closes a booked request as Delivered.
	Complete(actor *models.User, id string) (*models.Request, error)
}
