package auth

import (
	"context"
	"fmt"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/models"
	"github.com/haguru/tracker/pkg/helper"
)

// TokenService keeps issued tokens on the user record so a revoked token
// stops resolving even while its signature is still valid.
type TokenService struct {
	Signer   *Signer
	UserRepo interfaces.UserRepository
	Logger   interfaces.Logger
}

func NewTokenService(signer *Signer, userRepo interfaces.UserRepository, logger interfaces.Logger) interfaces.TokenService {
	return &TokenService{
		Signer:   signer,
		UserRepo: userRepo,
		Logger:   logger,
	}
}

// Issue signs a token for user and stores it on the user record.
// A pending user is inserted together with its first token, so a duplicate
// username leaves nothing behind.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (string, error) {
	s.Logger.Debug("Entering function", "func", helper.GetFuncName())
	defer s.Logger.Debug("Exiting function", "func", helper.GetFuncName())

	pending := user.IsPending()
	if pending {
		user.ID = s.UserRepo.NewID()
	}

	token, err := s.Signer.Sign(user.ID)
	if err != nil {
		if pending {
			user.ID = ""
		}
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	entry := models.Token{Access: models.AccessAuth, Token: token}

	if pending {
		user.Tokens = append(user.Tokens, entry)
		if _, err := s.UserRepo.AddUser(ctx, user); err != nil {
			user.ID = ""
			user.Tokens = user.Tokens[:len(user.Tokens)-1]
			return "", err
		}
		return token, nil
	}

	if err := s.UserRepo.AddToken(ctx, user.ID, entry); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	user.Tokens = append(user.Tokens, entry)
	return token, nil
}

// Verify resolves token to the user holding it.
func (s *TokenService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.Signer.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Access != models.AccessAuth {
		return nil, fmt.Errorf("%w: unexpected access %q", apperrors.ErrInvalidToken, claims.Access)
	}

	user, err := s.UserRepo.FindByToken(ctx, claims.UserID, token, models.AccessAuth)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("session: %w", apperrors.ErrNotFound)
	}
	return user, nil
}

// Revoke empties the user's token list, ending every session of the user.
func (s *TokenService) Revoke(ctx context.Context, user *models.User, token string) error {
	s.Logger.Debug("Entering function", "func", helper.GetFuncName())
	defer s.Logger.Debug("Exiting function", "func", helper.GetFuncName())

	if err := s.UserRepo.ClearTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	user.Tokens = []models.Token{}
	return nil
}
