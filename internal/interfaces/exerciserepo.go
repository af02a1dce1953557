package interfaces

import (
	"context"

	"github.com/haguru/tracker/internal/models"
)

// ExerciseRepository defines the contract for storing and retrieving Exercise data.
// Lookups return (nil, nil) when the exercise does not exist.
type ExerciseRepository interface {
	ValidID(id string) bool

	AddExercise(ctx context.Context, exercise *models.Exercise) (string, error)
	GetExerciseByID(ctx context.Context, id string) (*models.Exercise, error)
	ListExercisesByCreator(ctx context.Context, creatorID string) ([]models.Exercise, error)
	// UpdateExercise applies update to the exercise matching both id and creatorID.
	UpdateExercise(ctx context.Context, id, creatorID string, update models.ExerciseUpdate) (*models.Exercise, error)
	// DeleteExercise removes the exercise matching both id and creatorID and returns the deleted count.
	DeleteExercise(ctx context.Context, id, creatorID string) (int64, error)

	EnsureIndices(ctx context.Context) error
}
