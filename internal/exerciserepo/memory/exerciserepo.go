package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/models"
)

// MemoryExerciseRepository keeps exercises in process memory.
type MemoryExerciseRepository struct {
	mu        sync.RWMutex
	exercises map[string]models.Exercise
	order     []string
}

func NewMemoryExerciseRepository() interfaces.ExerciseRepository {
	return &MemoryExerciseRepository{
		exercises: make(map[string]models.Exercise),
	}
}

func (r *MemoryExerciseRepository) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *MemoryExerciseRepository) AddExercise(ctx context.Context, exercise *models.Exercise) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *exercise
	stored.ID = uuid.New().String()
	r.exercises[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return stored.ID, nil
}

func (r *MemoryExerciseRepository) GetExerciseByID(ctx context.Context, id string) (*models.Exercise, error) {
	if !r.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	exercise, ok := r.exercises[id]
	if !ok {
		return nil, nil
	}
	return &exercise, nil
}

// ListExercisesByCreator returns the creator's exercises in insertion order.
func (r *MemoryExerciseRepository) ListExercisesByCreator(ctx context.Context, creatorID string) ([]models.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exercises := []models.Exercise{}
	for _, id := range r.order {
		if e := r.exercises[id]; e.CreatorID == creatorID {
			exercises = append(exercises, e)
		}
	}
	return exercises, nil
}

func (r *MemoryExerciseRepository) UpdateExercise(ctx context.Context, id, creatorID string, update models.ExerciseUpdate) (*models.Exercise, error) {
	if !r.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exercise, ok := r.exercises[id]
	if !ok || exercise.CreatorID != creatorID {
		return nil, nil
	}
	if update.Description != nil {
		exercise.Description = *update.Description
	}
	if update.Duration != nil {
		exercise.Duration = *update.Duration
	}
	exercise.Date = update.Date
	r.exercises[id] = exercise
	return &exercise, nil
}

func (r *MemoryExerciseRepository) DeleteExercise(ctx context.Context, id, creatorID string) (int64, error) {
	if !r.ValidID(id) {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exercise, ok := r.exercises[id]
	if !ok || exercise.CreatorID != creatorID {
		return 0, nil
	}
	delete(r.exercises, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (r *MemoryExerciseRepository) EnsureIndices(ctx context.Context) error {
	return nil
}
