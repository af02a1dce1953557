// userservice.go
package userservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/models"
	"github.com/haguru/tracker/pkg/helper"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	UserRepo   interfaces.UserRepository
	Tokens     interfaces.TokenService
	BcryptCost int
	Logger     interfaces.Logger
}

// NewUserService creates a new UserService instance.
// A bcryptCost of 0 selects DefaultBcryptCost.
func NewUserService(repo interfaces.UserRepository, tokens interfaces.TokenService, bcryptCost int, logger interfaces.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &UserService{
		UserRepo:   repo,
		Tokens:     tokens,
		BcryptCost: bcryptCost,
		Logger:     logger,
	}
}

// RegisterUser hashes the password, then stores the user together with its
// first session token. Input is expected to be validated by the caller.
func (s *UserService) RegisterUser(ctx context.Context, username, password string) (*models.User, string, error) {
	funcName := helper.GetFuncName()
	username = strings.TrimSpace(username)
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	s.Logger.Info("Registering user", "func", funcName, "user", username)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.BcryptCost)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", username, "error", err)
		return nil, "", fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	user := models.NewUser(username, string(hashedPassword))

	token, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "user", username, "error", err)
		return nil, "", fmt.Errorf("%s: %w", ErrFailedToRegisterUser, err)
	}

	s.Logger.Info("User registered successfully", "func", funcName, "user", username, "ID", user.ID)
	return user, token, nil
}

// AuthenticateUser verifies a user's credentials and issues an additional session token.
// An unknown username and a wrong password both return apperrors.ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, string, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return nil, "", fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		s.Logger.Warn(ErrUserNotFound, "func", funcName, "user", username)
		return nil, "", fmt.Errorf("%s: %w", ErrUserNotFound, apperrors.ErrInvalidCredentials)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password))
	if err != nil {
		s.Logger.Warn(ErrInvalidPassword, "func", funcName, "user", username)
		return nil, "", fmt.Errorf("%s: %w", ErrInvalidPassword, apperrors.ErrInvalidCredentials)
	}

	token, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		s.Logger.Error(ErrFailedToIssueToken, "func", funcName, "user", username, "error", err)
		return nil, "", fmt.Errorf("%s: %w", ErrFailedToIssueToken, err)
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "user", username)
	return user, token, nil
}

// Logout revokes every session of user.
func (s *UserService) Logout(ctx context.Context, user *models.User, token string) error {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", user.Username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", user.Username)

	if err := s.Tokens.Revoke(ctx, user, token); err != nil {
		s.Logger.Error(ErrFailedToLogout, "func", funcName, "user", user.Username, "error", err)
		return fmt.Errorf("%s: %w", ErrFailedToLogout, err)
	}

	s.Logger.Info("User logged out", "func", funcName, "user", user.Username)
	return nil
}

// GetUser looks a user up by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !s.UserRepo.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", helper.GetFuncName(), "id", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%s: %w", ErrUserNotFound, apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.UserRepo.ListUsers(ctx)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", helper.GetFuncName(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	return users, nil
}
