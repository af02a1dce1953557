package interfaces

import (
	"context"

	"github.com/haguru/tracker/internal/models"
)

type ExerciseService interface {
	ListExercises(ctx context.Context, owner *models.User) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id string) (*models.Exercise, error)
	CreateExercise(ctx context.Context, owner *models.User, input models.ExerciseInput) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, owner *models.User, id string, input models.ExerciseInput) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, owner *models.User, id string) error
}
