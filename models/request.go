package models

import "time"

// Request status values. Transitions are forward-only; a terminal status
// (`oncoming`, `Delivered`, `cancelled`) never regresses.
const (
	RequestStatusPending           = "pending"
	RequestStatusOpen              = "open"
	RequestStatusProposalsReceived = "proposals_received"
	RequestStatusOncoming          = "oncoming"
	RequestStatusDelivered         = "Delivered"
	RequestStatusCancelled         = "cancelled"
)

// RequestOpenStatuses are the statuses from which a proposal may still be
// accepted into a booking.
var RequestOpenStatuses = []string{
	RequestStatusPending,
	RequestStatusOpen,
	RequestStatusProposalsReceived,
}

// Budget is the customer's acceptable price range.
type Budget struct {
	Min float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max float64 `bson:"max,omitempty" json:"max,omitempty"`
}

// Location is the city the car is wanted in; agencies are matched on it.
type Location struct {
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// Request is a customer's dream-car rental request.
type Request struct {
	ID             string         `bson:"id" json:"id"`
	Customer       string         `bson:"customer" json:"customer"`
	RentalPeriod   *DatePeriod    `bson:"rentalPeriod,omitempty" json:"rentalPeriod,omitempty"`
	DurationMonths int            `bson:"durationMonths,omitempty" json:"durationMonths,omitempty"`
	NumberOfDays   int            `bson:"numberOfDays" json:"numberOfDays"`
	Budget         Budget         `bson:"budget,omitempty" json:"budget,omitempty"`
	Location       Location       `bson:"location,omitempty" json:"location,omitempty"`
	VehicleDetails map[string]any `bson:"vehicleDetails,omitempty" json:"vehicleDetails,omitempty"`
	MonthlyPrice   float64        `bson:"monthlyPrice,omitempty" json:"monthlyPrice,omitempty"`
	Mileage        int            `bson:"mileage,omitempty" json:"mileage,omitempty"`
	ClientType     string         `bson:"clientType,omitempty" json:"clientType,omitempty"`
	Services       []string       `bson:"services,omitempty" json:"services,omitempty"`

	Status           string   `bson:"status" json:"status"`
	AcceptedProposal string   `bson:"acceptedProposal,omitempty" json:"acceptedProposal,omitempty"`
	NotifiedAgencies []string `bson:"notifiedAgencies,omitempty" json:"notifiedAgencies,omitempty"`
	ProposalsCount   int      `bson:"proposalsCount" json:"proposalsCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Normalize recomputes derived fields before a save.
func (r *Request) Normalize() {
	if r.RentalPeriod != nil && !r.RentalPeriod.StartDate.IsZero() && !r.RentalPeriod.EndDate.IsZero() {
		r.NumberOfDays = RentalDays(r.RentalPeriod.StartDate, r.RentalPeriod.EndDate)
	}
	if r.Location.Country == "" {
		r.Location.Country = "Morocco"
	}
}

// Terminal reports whether the request can no longer change status.
func (r *Request) Terminal() bool {
	switch r.Status {
	case RequestStatusDelivered, RequestStatusCancelled:
		return true
	}
	return false
}
