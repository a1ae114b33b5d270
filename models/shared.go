package models

import (
	"math"
	"time"
)

// Role distinguishes the three kinds of platform accounts.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgency   Role = "agency"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgency, RoleAdmin:
		return true
	}
	return false
}

// DatePeriod is a start/end date pair used for rental windows.
type DatePeriod struct {
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
}

// RentalDays returns the day count of a period, ceiling partial days,
// with a floor of one day.
func RentalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// Address is a postal address block shared by users and pickup details.
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
}
