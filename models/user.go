package models

import "time"

// User represents a platform account: customer, agency or admin.
type User struct {
	ID                string  `bson:"id" json:"id"`
	FirstName         string  `bson:"firstName" json:"firstName"`
	LastName          string  `bson:"lastName" json:"lastName"`
	Email             string  `bson:"email" json:"email"`
	Password          string  `bson:"-" json:"password,omitempty"` // plain text, input only
	PasswordHash      string  `bson:"passwordHash" json:"-"`
	Phone             string  `bson:"phone" json:"phone"`
	Role              Role    `bson:"role" json:"role"`
	IsActive          bool    `bson:"isActive" json:"isActive"`
	Verified          bool    `bson:"verified" json:"verified"`
	Avatar            string  `bson:"avatar,omitempty" json:"avatar,omitempty"`
	AgencyName        string  `bson:"agencyName,omitempty" json:"agencyName,omitempty"`
	AgencyDescription string  `bson:"agencyDescription,omitempty" json:"agencyDescription,omitempty"`
	Rating            float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	Address           Address `bson:"address,omitempty" json:"address,omitempty"`

	// TokenHash is the SHA-256 of the currently issued session token.
	TokenHash string `bson:"tokenHash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName resolves the name shown to the other chat party: the agency
// name for agencies, the first name otherwise.
func (u *User) DisplayName() string {
	if u.Role == RoleAgency && u.AgencyName != "" {
		return u.AgencyName
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// PublicProfile strips credential material for responses.
func (u User) PublicProfile() User {
	u.Password = ""
	u.PasswordHash = ""
	u.TokenHash = ""
	return u
}
