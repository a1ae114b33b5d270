package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveProposalStatus(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("pending before deadline stays pending", func(t *testing.T) {
		got := EffectiveProposalStatus(ProposalStatusPending, now.Add(time.Hour), now)
		assert.Equal(t, ProposalStatusPending, got)
	})

	t.Run("pending past deadline reads as expired", func(t *testing.T) {
		got := EffectiveProposalStatus(ProposalStatusPending, now.Add(-time.Minute), now)
		assert.Equal(t, ProposalStatusExpired, got)
	})

	t.Run("non-pending statuses never expire", func(t *testing.T) {
		past := now.Add(-24 * time.Hour)
		for _, stored := range []string{
			ProposalStatusAccepted,
			ProposalStatusRejected,
			ProposalStatusWithdrawn,
			ProposalStatusExpired,
		} {
			assert.Equal(t, stored, EffectiveProposalStatus(stored, past, now))
		}
	})
}

func TestProposalNormalizePricing(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	start := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	t.Run("total derives from rate and rental days", func(t *testing.T) {
		p := Proposal{
			Pricing:      Pricing{PricePerDay: 200},
			Availability: DatePeriod{StartDate: start, EndDate: start.AddDate(0, 0, 3)},
			Status:       ProposalStatusPending,
			ExpiresAt:    now.Add(48 * time.Hour),
		}
		p.Normalize(now)
		assert.Equal(t, 600.0, p.Pricing.TotalPrice)
	})

	t.Run("missing window falls back to one day", func(t *testing.T) {
		p := Proposal{
			Pricing:   Pricing{PricePerDay: 150},
			Status:    ProposalStatusPending,
			ExpiresAt: now.Add(48 * time.Hour),
		}
		p.Normalize(now)
		assert.Equal(t, 150.0, p.Pricing.TotalPrice)
	})

	t.Run("normalize applies lazy expiry", func(t *testing.T) {
		p := Proposal{
			Pricing:   Pricing{PricePerDay: 100},
			Status:    ProposalStatusPending,
			ExpiresAt: now.Add(-time.Hour),
		}
		p.Normalize(now)
		assert.Equal(t, ProposalStatusExpired, p.Status)
	})
}
