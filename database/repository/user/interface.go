package userRepo

import (
	"kree/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines CRUD operations for user accounts.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id string) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	GetByEmailWithProjection(email string, projection bson.M) (*models.User, error)
	// FindVerifiedAgenciesByCity returns verified agency accounts whose
	// address city matches (case-insensitive substring, mirroring the
	// request fan-out semantics).
	FindVerifiedAgenciesByCity(city string) ([]models.User, error)
	// UpdateTokenHash stores the hash of the currently issued session token.
	UpdateTokenHash(id, tokenHash string) error
	GetAll(role models.Role, page, limit int) ([]models.User, int64, error)
	CountByRole(role models.Role) (int64, error)
}
