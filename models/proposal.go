package models

import "time"

// Proposal status values.
const (
	ProposalStatusPending   = "pending"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusRejected  = "rejected"
	ProposalStatusWithdrawn = "withdrawn"
	ProposalStatusExpired   = "expired"
)

// ProposalTTL is how long a proposal remains open before it lapses.
const ProposalTTL = 48 * time.Hour

// CarSpecifications describes the offered car's configuration.
type CarSpecifications struct {
	Transmission    string `bson:"transmission,omitempty" json:"transmission,omitempty"`
	FuelType        string `bson:"fuelType,omitempty" json:"fuelType,omitempty"`
	Seats           int    `bson:"seats,omitempty" json:"seats,omitempty"`
	Doors           int    `bson:"doors,omitempty" json:"doors,omitempty"`
	AirConditioning bool   `bson:"airConditioning,omitempty" json:"airConditioning,omitempty"`
	Mileage         int    `bson:"mileage,omitempty" json:"mileage,omitempty"`
}

// CarSnapshot is the offered car, embedded on the proposal at creation and
// copied verbatim onto the booking. It never resynchronizes with any source.
type CarSnapshot struct {
	Make           string            `bson:"make" json:"make"`
	Model          string            `bson:"model" json:"model"`
	Year           int               `bson:"year" json:"year"`
	Category       string            `bson:"category" json:"category"`
	Images         []string          `bson:"images,omitempty" json:"images,omitempty"`
	Specifications CarSpecifications `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Features       []string          `bson:"features,omitempty" json:"features,omitempty"`
}

// Pricing carries the per-day rate and the derived total.
type Pricing struct {
	PricePerDay float64 `bson:"pricePerDay" json:"pricePerDay"`
	TotalPrice  float64 `bson:"totalPrice" json:"totalPrice"`
}

// PickupLocation is where the agency hands the car over.
type PickupLocation struct {
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Notes   string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Proposal is an agency's offer against a customer's request. The customer
// reference is denormalized from the request for authorization checks.
type Proposal struct {
	ID             string         `bson:"id" json:"id"`
	Request        string         `bson:"request" json:"request"`
	Agency         string         `bson:"agency" json:"agency"`
	Customer       string         `bson:"customer" json:"customer"`
	Car            CarSnapshot    `bson:"car" json:"car"`
	Pricing        Pricing        `bson:"pricing" json:"pricing"`
	Availability   DatePeriod     `bson:"availability" json:"availability"`
	PickupLocation PickupLocation `bson:"pickupLocation,omitempty" json:"pickupLocation,omitempty"`
	AgencyNotes    string         `bson:"agencyNotes,omitempty" json:"agencyNotes,omitempty"`
	Status         string         `bson:"status" json:"status"`
	ExpiresAt      time.Time      `bson:"expiresAt" json:"expiresAt"`

	// AgencyName is resolved for display when listing; not persisted.
	AgencyName string `bson:"-" json:"agencyName,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveProposalStatus derives the current status from the stored status
// and the expiry deadline. A pending proposal past its deadline is expired,
// whether or not anything has touched it since.
func EffectiveProposalStatus(stored string, expiresAt time.Time, now time.Time) string {
	if stored == ProposalStatusPending && now.After(expiresAt) {
		return ProposalStatusExpired
	}
	return stored
}

// Normalize recomputes derived fields before a save: the total price from
// the availability window and the lazily evaluated expiry.
func (p *Proposal) Normalize(now time.Time) {
	if !p.Availability.StartDate.IsZero() && !p.Availability.EndDate.IsZero() {
		days := RentalDays(p.Availability.StartDate, p.Availability.EndDate)
		p.Pricing.TotalPrice = p.Pricing.PricePerDay * float64(days)
	} else {
		p.Pricing.TotalPrice = p.Pricing.PricePerDay
	}
	p.Status = EffectiveProposalStatus(p.Status, p.ExpiresAt, now)
}
