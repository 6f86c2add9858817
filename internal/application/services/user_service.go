package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/notehub/core/internal/converter"
	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

// UserService handles account creation and credential verification.
// A missing user and a wrong password are both reported as NotFound so
// the endpoint cannot be used to enumerate accounts.
type UserService struct {
	userRepo ports.UserRepository
	hasher   ports.PasswordHasher
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, hasher ports.PasswordHasher, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// CreateUser creates a new account. The login must not already exist;
// the check is a case-sensitive exact match performed before the insert.
func (s *UserService) CreateUser(ctx context.Context, credentials ports.Credentials) (entities.Result[ports.UserInfo], error) {
	existing, err := s.userRepo.GetByLogin(ctx, credentials.Login)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		return entities.Fail[ports.UserInfo](entities.StatusFailed), err
	}
	if existing != nil {
		return entities.Fail[ports.UserInfo](entities.StatusAlreadyExists), nil
	}

	hashed, err := s.hasher.Hash(credentials.Password)
	if err != nil {
		return entities.Fail[ports.UserInfo](entities.StatusFailed), err
	}

	user := &entities.User{
		ID:          uuid.New().String(),
		Login:       credentials.Login,
		Password:    hashed,
		DateCreated: time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, entities.ErrNotAcknowledged) {
			s.logger.Error("Create user was not acknowledged", "login", credentials.Login)
			return entities.Fail[ports.UserInfo](entities.StatusFailed), nil
		}
		return entities.Fail[ports.UserInfo](entities.StatusFailed), err
	}

	s.logger.Info("User created", "user_id", user.ID, "login", user.Login)

	return entities.Ok(converter.UserToInfo(user)), nil
}

// GetInfo verifies the supplied credentials and returns the account
// without its password hash. Unknown logins and failed verifications are
// indistinguishable.
func (s *UserService) GetInfo(ctx context.Context, credentials ports.Credentials) (entities.Result[ports.UserInfo], error) {
	user, err := s.userRepo.GetByLogin(ctx, credentials.Login)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return entities.Fail[ports.UserInfo](entities.StatusNotFound), nil
		}
		return entities.Fail[ports.UserInfo](entities.StatusFailed), err
	}

	ok, err := s.hasher.Verify(credentials.Password, user.Password)
	if err != nil || !ok {
		s.logger.Info("Credential verification failed", "login", credentials.Login)
		return entities.Fail[ports.UserInfo](entities.StatusNotFound), nil
	}

	return entities.Ok(converter.UserToInfo(user)), nil
}
