package bookingRepo

import (
	"context"
	"errors"

	"kree/models"
)

// ErrRequestNotOpen reports that the request was no longer accepting
// proposals when a booking transaction tried to claim it. A second booking
// attempt racing the first observes this error.
var ErrRequestNotOpen = errors.New("request is no longer open for booking")

// BookingFilter narrows booking listings.
type BookingFilter struct {
	Customer      string
	Agency        string
	Statuses      []string
	ExcludeStatus string
	Page          int
	Limit         int
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	GetByID(id string) (*models.Booking, error)
	Update(b *models.Booking) error
	List(filter BookingFilter) ([]models.Booking, int64, error)
	// FindActiveByCustomer returns the customer's most recent booking that
	// has not been delivered, or nil.
	FindActiveByCustomer(customerID string) (*models.Booking, error)
	// CreateFromProposal runs the booking-creation transaction: insert the
	// booking, conditionally move the request to `oncoming` (aborting with
	// ErrRequestNotOpen if another booking got there first), mark the
	// proposal accepted, and bulk-reject sibling pending proposals.
	CreateFromProposal(ctx context.Context, booking *models.Booking) error
	CountByStatus(status string) (int64, error)
}
