package user

import (
	"kree/models"
)

// RegistrationInput carries the fields accepted at signup.
type RegistrationInput struct {
	FirstName         string         `json:"firstName"`
	LastName          string         `json:"lastName"`
	Email             string         `json:"email"`
	Password          string         `json:"password"`
	Phone             string         `json:"phone"`
	Role              models.Role    `json:"role"`
	AgencyName        string         `json:"agencyName"`
	AgencyDescription string         `json:"agencyDescription"`
	Address           models.Address `json:"address"`
}

// AuthSession is the result of a successful credential exchange.
type AuthSession struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UserService manages accounts, credentials and session tokens.
type UserService interface {
	Register(input RegistrationInput) (*AuthSession, error)
	Authenticate(email, password string) (*AuthSession, error)
	// ResolveToken validates a session token and returns its account.
	// Used by the HTTP auth middleware and the websocket gateway.
	ResolveToken(token string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdateProfile(id string, updates *models.User) (*models.User, error)
	Logout(id string) error
	ListByRole(role models.Role, page, limit int) ([]models.User, int64, error)
}
