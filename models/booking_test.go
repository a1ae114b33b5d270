package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPricing(t *testing.T) {
	t.Run("ten percent platform fee", func(t *testing.T) {
		p := SplitPricing(200, 600, 0)
		assert.Equal(t, int64(20000), p.PricePerDayCents)
		assert.Equal(t, int64(60000), p.TotalPriceCents)
		assert.Equal(t, int64(6000), p.PlatformFeeCents)
		assert.Equal(t, int64(54000), p.AgencyEarningsCents)
	})

	t.Run("fee and earnings always sum to the total", func(t *testing.T) {
		for _, total := range []float64{0, 1, 99.99, 333.33, 1234.56, 0.01, 1000000.07} {
			p := SplitPricing(total, total, 0)
			assert.Equal(t, p.TotalPriceCents, p.PlatformFeeCents+p.AgencyEarningsCents)
			assert.Equal(t, ToCents(total), p.TotalPriceCents)
		}
	})

	t.Run("fractional totals round to the nearest centime", func(t *testing.T) {
		p := SplitPricing(333.33, 333.33, 0)
		assert.Equal(t, int64(33333), p.TotalPriceCents)
		assert.Equal(t, int64(3333), p.PlatformFeeCents)
		assert.Equal(t, int64(30000), p.AgencyEarningsCents)
	})

	t.Run("configured rate overrides the default", func(t *testing.T) {
		p := SplitPricing(100, 500, 0.2)
		assert.Equal(t, int64(10000), p.PlatformFeeCents)
		assert.Equal(t, int64(40000), p.AgencyEarningsCents)
	})

	t.Run("out-of-range rate falls back to the default", func(t *testing.T) {
		p := SplitPricing(100, 500, 1.5)
		assert.Equal(t, int64(5000), p.PlatformFeeCents)
	})
}

func TestBookingCancellable(t *testing.T) {
	cancellable := []string{BookingStatusBooked, BookingStatusConfirmed, BookingStatusDisputed}
	for _, status := range cancellable {
		b := Booking{Status: status}
		assert.True(t, b.Cancellable(), status)
	}

	locked := []string{
		BookingStatusPickedUp,
		BookingStatusReturned,
		BookingStatusDelivered,
		BookingStatusCancelled,
	}
	for _, status := range locked {
		b := Booking{Status: status}
		assert.False(t, b.Cancellable(), status)
	}
}
