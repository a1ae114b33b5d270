package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	userRepo "kree/database/repository/user"
	"kree/models"
	"kree/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const sessionDuration = 7 * 24 * time.Hour

// DefaultUserService is the production implementation of UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func NewDefaultUserService(repo userRepo.UserRepository) *DefaultUserService {
	return &DefaultUserService{Repo: repo}
}

// Register creates an account and opens a session for it.
func (s *DefaultUserService) Register(input RegistrationInput) (*AuthSession, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, utils.NewValidationError("a valid email is required")
	}
	if len(input.Password) < 6 {
		return nil, utils.NewValidationError("password must be at least 6 characters")
	}
	if !input.Role.Valid() || input.Role == models.RoleAdmin {
		return nil, utils.NewValidationError("role must be customer or agency")
	}
	if input.Role == models.RoleAgency && strings.TrimSpace(input.AgencyName) == "" {
		return nil, utils.NewValidationError("agency accounts require an agency name")
	}

	if existing, err := s.Repo.GetByEmail(email); err == nil && existing != nil {
		return nil, utils.NewConflictError("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &models.User{
		ID:                uuid.New().String(),
		FirstName:         strings.TrimSpace(input.FirstName),
		LastName:          strings.TrimSpace(input.LastName),
		Email:             email,
		PasswordHash:      string(hash),
		Phone:             strings.TrimSpace(input.Phone),
		Role:              input.Role,
		IsActive:          true,
		AgencyName:        strings.TrimSpace(input.AgencyName),
		AgencyDescription: strings.TrimSpace(input.AgencyDescription),
		Address:           input.Address,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Repo.Create(account); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.openSession(account)
}

// Authenticate exchanges credentials for a session token.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthSession, error) {
	account, err := s.Repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil || account == nil {
		return nil, utils.NewAuthzError("invalid email or password")
	}
	if !account.IsActive {
		return nil, utils.NewAuthzError("this account has been deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, utils.NewAuthzError("invalid email or password")
	}
	return s.openSession(account)
}

// openSession issues a token, persists its hash, and primes the auth cache.
func (s *DefaultUserService) openSession(account *models.User) (*AuthSession, error) {
	token, err := utils.GenerateToken(account.ID, string(account.Role), sessionDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	tokenHash := utils.HashToken(token)
	if err := s.Repo.UpdateTokenHash(account.ID, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	account.TokenHash = tokenHash

	cacheKey := utils.AuthCachePrefix + account.ID
	if err := utils.GetAuthCacheClient().Set(context.Background(), cacheKey, tokenHash, utils.AuthCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache session token", zap.String("user", account.ID), zap.Error(err))
	}

	return &AuthSession{Token: token, User: account.PublicProfile()}, nil
}

// ResolveToken validates a session token against the stored hash. The auth
// cache is consulted first; a miss falls back to the user record.
func (s *DefaultUserService) ResolveToken(token string) (*models.User, error) {
	userID, err := utils.ExtractIDFromToken(token)
	if err != nil {
		return nil, utils.NewAuthzError("invalid or expired token")
	}

	tokenHash := utils.HashToken(token)
	cacheKey := utils.AuthCachePrefix + userID
	ctx := context.Background()

	if cached, err := utils.GetAuthCacheClient().Get(ctx, cacheKey).Result(); err == nil {
		if cached != tokenHash {
			return nil, utils.NewAuthzError("session has been revoked")
		}
		utils.GetAuthCacheClient().Expire(ctx, cacheKey, utils.AuthCacheTTL)
		account, err := s.Repo.GetByID(userID)
		if err != nil || account == nil {
			return nil, utils.NewAuthzError("account no longer exists")
		}
		return account, nil
	}

	account, err := s.Repo.GetByID(userID)
	if err != nil || account == nil {
		return nil, utils.NewAuthzError("account no longer exists")
	}
	if account.TokenHash == "" || account.TokenHash != tokenHash {
		return nil, utils.NewAuthzError("session has been revoked")
	}
	if err := utils.GetAuthCacheClient().Set(ctx, cacheKey, tokenHash, utils.AuthCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to refresh auth cache", zap.String("user", userID), zap.Error(err))
	}
	return account, nil
}

func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	account, err := s.Repo.GetByID(id)
	if err != nil || account == nil {
		return nil, utils.NewNotFoundError("user not found")
	}
	public := account.PublicProfile()
	return &public, nil
}

// UpdateProfile applies the mutable profile fields. Credentials, role and
// verification state are not writable through this path.
func (s *DefaultUserService) UpdateProfile(id string, updates *models.User) (*models.User, error) {
	account, err := s.Repo.GetByID(id)
	if err != nil || account == nil {
		return nil, utils.NewNotFoundError("user not found")
	}

	if updates.FirstName != "" {
		account.FirstName = updates.FirstName
	}
	if updates.LastName != "" {
		account.LastName = updates.LastName
	}
	if updates.Phone != "" {
		account.Phone = updates.Phone
	}
	if updates.Avatar != "" {
		account.Avatar = updates.Avatar
	}
	if account.Role == models.RoleAgency {
		if updates.AgencyName != "" {
			account.AgencyName = updates.AgencyName
		}
		if updates.AgencyDescription != "" {
			account.AgencyDescription = updates.AgencyDescription
		}
	}
	if updates.Address.City != "" || updates.Address.Street != "" {
		account.Address = updates.Address
	}
	account.UpdatedAt = time.Now()

	if err := s.Repo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	public := account.PublicProfile()
	return &public, nil
}

// Logout revokes the active session.
func (s *DefaultUserService) Logout(id string) error {
	if err := s.Repo.UpdateTokenHash(id, ""); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if err := utils.GetAuthCacheClient().Del(context.Background(), utils.AuthCachePrefix+id).Err(); err != nil {
		utils.GetLogger().Warn("failed to evict auth cache entry", zap.String("user", id), zap.Error(err))
	}
	return nil
}

func (s *DefaultUserService) ListByRole(role models.Role, page, limit int) ([]models.User, int64, error) {
	users, total, err := s.Repo.GetAll(role, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i] = users[i].PublicProfile()
	}
	return users, total, nil
}
