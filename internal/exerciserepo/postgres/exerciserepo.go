package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/constants"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/migrations"
	"github.com/haguru/tracker/internal/models"
	"github.com/haguru/tracker/pkg/databases/postgres"
)

// PostgresExerciseRepository implements ExerciseRepository for PostgreSQL databases.
type PostgresExerciseRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresExerciseRepository creates a new PostgreSQL repository instance.
func NewPostgresExerciseRepository(dbClient interfaces.DBClient) (interfaces.ExerciseRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*postgres.PostgresDatabaseClient); !ok {
		return nil, fmt.Errorf("dbClient must be a PostgreSQL client")
	}
	return &PostgresExerciseRepository{dbClient: dbClient}, nil
}

func (r *PostgresExerciseRepository) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostgresExerciseRepository) AddExercise(ctx context.Context, exercise *models.Exercise) (string, error) {
	doc := map[string]interface{}{
		"description": exercise.Description,
		"duration":    exercise.Duration,
		"date":        exercise.Date,
		"creator_id":  exercise.CreatorID,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.ExercisesCollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add exercise to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

func (r *PostgresExerciseRepository) GetExerciseByID(ctx context.Context, id string) (*models.Exercise, error) {
	if !r.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	var exercise models.Exercise
	err := r.dbClient.FindOne(ctx, constants.ExercisesCollection, map[string]interface{}{"id": id}, &exercise)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exercise from PostgreSQL: %w", err)
	}
	return &exercise, nil
}

func (r *PostgresExerciseRepository) ListExercisesByCreator(ctx context.Context, creatorID string) ([]models.Exercise, error) {
	exercises := []models.Exercise{}
	err := r.dbClient.FindMany(ctx, constants.ExercisesCollection, map[string]interface{}{"creator_id": creatorID}, &exercises)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises from PostgreSQL: %w", err)
	}
	return exercises, nil
}

// UpdateExercise runs a single UPDATE ... RETURNING filtered on id and creator.
func (r *PostgresExerciseRepository) UpdateExercise(ctx context.Context, id, creatorID string, update models.ExerciseUpdate) (*models.Exercise, error) {
	if !r.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	set := map[string]interface{}{"date": update.Date}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Duration != nil {
		set["duration"] = *update.Duration
	}

	var exercise models.Exercise
	filter := map[string]interface{}{"id": id, "creator_id": creatorID}
	err := r.dbClient.FindOneAndUpdate(ctx, constants.ExercisesCollection, filter, set, &exercise)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update exercise in PostgreSQL: %w", err)
	}
	return &exercise, nil
}

func (r *PostgresExerciseRepository) DeleteExercise(ctx context.Context, id, creatorID string) (int64, error) {
	if !r.ValidID(id) {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	deleted, err := r.dbClient.DeleteOne(ctx, constants.ExercisesCollection, map[string]interface{}{"id": id, "creator_id": creatorID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete exercise from PostgreSQL: %w", err)
	}
	return deleted, nil
}

// EnsureIndices runs the embedded migrations. goose skips the ones already applied.
func (r *PostgresExerciseRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.ExercisesCollection, migrations.FS)
}
