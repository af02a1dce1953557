package interfaces

import (
	"context"

	"github.com/haguru/tracker/internal/models"
)

// UserRepository defines the contract for storing and retrieving User data.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	// NewID returns a fresh identifier in the store's native format.
	NewID() string
	// ValidID reports whether id has the store's native identifier shape.
	ValidID(id string) bool

	AddUser(ctx context.Context, user *models.User) (string, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// FindByToken returns the user with id holding token with the given access kind.
	FindByToken(ctx context.Context, id, token, access string) (*models.User, error)

	AddToken(ctx context.Context, userID string, token models.Token) error
	// ClearTokens replaces the user's token list with an empty one.
	ClearTokens(ctx context.Context, userID string) error

	AddExerciseRef(ctx context.Context, userID, exerciseID string) error
	RemoveExerciseRef(ctx context.Context, userID, exerciseID string) error

	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
