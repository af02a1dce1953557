package interfaces

import (
	"context"

	"github.com/haguru/tracker/internal/models"
)

// TokenService issues, resolves and revokes session tokens.
type TokenService interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Verify(ctx context.Context, token string) (*models.User, error)
	Revoke(ctx context.Context, user *models.User, token string) error
}
