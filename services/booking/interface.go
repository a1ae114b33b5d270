package booking

import (
	"context"

	bookingRepo "kree/database/repository/booking"
	"kree/models"
)

// CreateInput carries the customer's booking choices.
type CreateInput struct {
	ProposalID    string                  `json:"proposalId"`
	PaymentMethod string                  `json:"paymentMethod"`
	PickupNotes   string                  `json:"pickupNotes"`
	ReturnDetails *models.HandoverDetails `json:"returnDetails,omitempty"`
}

// BookingService manages the booking lifecycle from acceptance to delivery.
type BookingService interface {
	// CreateFromProposal accepts a pending proposal into a booking. Exactly
	// one concurrent accept per request succeeds.
	CreateFromProposal(ctx context.Context, customerID string, input CreateInput) (*models.Booking, error)
	Get(actor *models.User, id string) (*models.Booking, error)
	ListForCustomer(customerID string, filter bookingRepo.BookingFilter) ([]models.Booking, int64, error)
	ListForAgency(agencyID string, filter bookingRepo.BookingFilter) ([]models.Booking, int64, error)
	ListAll(filter bookingRepo.BookingFilter) ([]models.Booking, int64, error)
	// ActiveForCustomer returns the customer's newest undelivered booking,
	// or nil when none is in flight.
	ActiveForCustomer(customerID string) (*models.Booking, error)
	// Confirm moves booked to confirmed (agency only).
	Confirm(agencyID, id string) (*models.Booking, error)
	// MarkPickedUp stamps the actual pickup and settles cash payment.
	MarkPickedUp(agencyID, id string) (*models.Booking, error)
	// MarkReturned stamps the actual return.
	MarkReturned(agencyID, id string) (*models.Booking, error)
	// Complete closes the booking as Delivered, cascades to the request, and
	// awards the customer's delivery points. Open to the owning agency or
	// an admin.
	Complete(actor *models.User, id string) (*models.Booking, error)
	// Cancel is open to either party or an admin before pickup.
	Cancel(actor *models.User, id, reason string) (*models.Booking, error)
}
