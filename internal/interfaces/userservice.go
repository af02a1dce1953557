package interfaces

import (
	"context"

	"github.com/haguru/tracker/internal/models"
)

type UserService interface {
	RegisterUser(ctx context.Context, username, password string) (*models.User, string, error)
	AuthenticateUser(ctx context.Context, username, password string) (*models.User, string, error)
	Logout(ctx context.Context, user *models.User, token string) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}
