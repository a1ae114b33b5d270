package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRentalDays(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("whole days", func(t *testing.T) {
		assert.Equal(t, 3, RentalDays(start, start.AddDate(0, 0, 3)))
	})

	t.Run("partial day rounds up", func(t *testing.T) {
		assert.Equal(t, 3, RentalDays(start, start.AddDate(0, 0, 2).Add(6*time.Hour)))
	})

	t.Run("same instant floors to one day", func(t *testing.T) {
		assert.Equal(t, 1, RentalDays(start, start))
	})

	t.Run("inverted period floors to one day", func(t *testing.T) {
		assert.Equal(t, 1, RentalDays(start, start.AddDate(0, 0, -2)))
	})
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleAgency.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("driver").Valid())
	assert.False(t, Role("").Valid())
}
