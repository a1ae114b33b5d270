package models

import (
	"math"
	"time"
)

// Booking status values. `cancelled` is reachable from any status before
// `picked_up`; the pickup/return/delivery chain never regresses.
const (
	BookingStatusBooked    = "booked"
	BookingStatusConfirmed = "confirmed"
	BookingStatusPickedUp  = "picked_up"
	BookingStatusReturned  = "returned"
	BookingStatusDelivered = "Delivered"
	BookingStatusCancelled = "cancelled"
	BookingStatusDisputed  = "disputed"
)

// Payment status values.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusDelivered = "Delivered"
)

// Payment method values.
const (
	PaymentMethodCashOnPickup = "cash_on_pickup"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCash         = "cash"
)

// PlatformFeeRate is the default cut retained from the total price, used
// when no rate is configured.
const PlatformFeeRate = 0.10

// BookingPricing is the immutable pricing block fixed at booking creation.
// Amounts are integer centimes: the fee and earnings must reconcile with
// the total exactly, which float arithmetic cannot guarantee.
type BookingPricing struct {
	PricePerDayCents    int64 `bson:"pricePerDayCents" json:"pricePerDayCents"`
	TotalPriceCents     int64 `bson:"totalPriceCents" json:"totalPriceCents"`
	PlatformFeeCents    int64 `bson:"platformFeeCents" json:"platformFeeCents"`
	AgencyEarningsCents int64 `bson:"agencyEarningsCents" json:"agencyEarningsCents"`
}

// ToCents converts a major-unit amount to integer centimes.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// SplitPricing fixes the fee split in centimes. The fee is rounded to the
// nearest centime and the earnings carry the exact remainder, so
// fee + earnings == total always holds. A rate outside (0, 1) falls back
// to PlatformFeeRate.
func SplitPricing(pricePerDay, totalPrice, feeRate float64) BookingPricing {
	if feeRate <= 0 || feeRate >= 1 {
		feeRate = PlatformFeeRate
	}
	totalCents := ToCents(totalPrice)
	feeCents := int64(math.Round(float64(totalCents) * feeRate))
	return BookingPricing{
		PricePerDayCents:    ToCents(pricePerDay),
		TotalPriceCents:     totalCents,
		PlatformFeeCents:    feeCents,
		AgencyEarningsCents: totalCents - feeCents,
	}
}

// Payment is the booking's payment sub-state.
type Payment struct {
	Method      string     `bson:"method" json:"method"`
	Status      string     `bson:"status" json:"status"`
	PaidAt      *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	DeliveredAt *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
}

// HandoverDetails records a scheduled and actual pickup or return.
type HandoverDetails struct {
	Location      string     `bson:"location,omitempty" json:"location,omitempty"`
	Address       string     `bson:"address,omitempty" json:"address,omitempty"`
	City          string     `bson:"city,omitempty" json:"city,omitempty"`
	ScheduledTime *time.Time `bson:"scheduledTime,omitempty" json:"scheduledTime,omitempty"`
	ActualTime    *time.Time `bson:"actualTime,omitempty" json:"actualTime,omitempty"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Cancellation records who cancelled a booking, when and why.
type Cancellation struct {
	CancelledBy string    `bson:"cancelledBy" json:"cancelledBy"`
	CancelledAt time.Time `bson:"cancelledAt" json:"cancelledAt"`
	Reason      string    `bson:"reason" json:"reason"`
}

// Booking is the committed rental created from one accepted proposal.
// The car snapshot and pricing block are copied from the proposal at
// creation time and never resynchronize.
type Booking struct {
	ID            string          `bson:"id" json:"id"`
	Customer      string          `bson:"customer" json:"customer"`
	Agency        string          `bson:"agency" json:"agency"`
	Request       string          `bson:"request" json:"request"`
	Proposal      string          `bson:"proposal" json:"proposal"`
	BookingNumber string          `bson:"bookingNumber" json:"bookingNumber"`
	Car           CarSnapshot     `bson:"car" json:"car"`
	RentalPeriod  DatePeriod      `bson:"rentalPeriod" json:"rentalPeriod"`
	NumberOfDays  int             `bson:"numberOfDays" json:"numberOfDays"`
	Pricing       BookingPricing  `bson:"pricing" json:"pricing"`
	Payment       Payment         `bson:"payment" json:"payment"`
	Status        string          `bson:"status" json:"status"`
	PickupDetails HandoverDetails `bson:"pickupDetails,omitempty" json:"pickupDetails,omitempty"`
	ReturnDetails HandoverDetails `bson:"returnDetails,omitempty" json:"returnDetails,omitempty"`
	Cancellation  *Cancellation   `bson:"cancellation,omitempty" json:"cancellation,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Cancellable reports whether the booking may still be cancelled: forbidden
// once the car has been picked up.
func (b *Booking) Cancellable() bool {
	switch b.Status {
	case BookingStatusPickedUp, BookingStatusReturned, BookingStatusDelivered:
		return false
	}
	return b.Status != BookingStatusCancelled
}
