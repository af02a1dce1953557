package exerciseservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	structValidator "github.com/go-playground/validator/v10"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/models"
	"github.com/haguru/tracker/pkg/helper"
)

// ExerciseService scopes every write to the requesting owner.
type ExerciseService struct {
	ExerciseRepo interfaces.ExerciseRepository
	UserRepo     interfaces.UserRepository
	// DB, when set, wraps delete and reference removal in one transaction.
	DB        interfaces.DBClient
	Validator *structValidator.Validate
	Logger    interfaces.Logger
	now       func() time.Time
}

func NewExerciseService(exerciseRepo interfaces.ExerciseRepository, userRepo interfaces.UserRepository,
	db interfaces.DBClient, validator *structValidator.Validate, logger interfaces.Logger,
) *ExerciseService {
	return &ExerciseService{
		ExerciseRepo: exerciseRepo,
		UserRepo:     userRepo,
		DB:           db,
		Validator:    validator,
		Logger:       logger,
		now:          time.Now,
	}
}

// ListExercises returns the exercises created by owner, never nil.
func (s *ExerciseService) ListExercises(ctx context.Context, owner *models.User) ([]models.Exercise, error) {
	exercises, err := s.ExerciseRepo.ListExercisesByCreator(ctx, owner.ID)
	if err != nil {
		s.Logger.Error(ErrRetrievingExercise, "func", helper.GetFuncName(), "user", owner.ID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingExercise, err)
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	return exercises, nil
}

// GetExercise returns any exercise by id regardless of its owner.
func (s *ExerciseService) GetExercise(ctx context.Context, id string) (*models.Exercise, error) {
	if !s.ExerciseRepo.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	exercise, err := s.ExerciseRepo.GetExerciseByID(ctx, id)
	if err != nil {
		s.Logger.Error(ErrRetrievingExercise, "func", helper.GetFuncName(), "id", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingExercise, err)
	}
	if exercise == nil {
		return nil, fmt.Errorf("%s: %w", ErrExerciseNotFound, apperrors.ErrNotFound)
	}
	return exercise, nil
}

// CreateExercise stores a new exercise owned by owner and records it on the owner.
func (s *ExerciseService) CreateExercise(ctx context.Context, owner *models.User, input models.ExerciseInput) (*models.Exercise, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", owner.ID)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", owner.ID)

	if input.Duration == nil {
		return nil, fmt.Errorf("%w: duration is required", apperrors.ErrValidation)
	}
	if input.Description == nil {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	exercise := &models.Exercise{
		Description: *input.Description,
		Duration:    *input.Duration,
		Date:        s.dateOrNow(input.Date),
		CreatorID:   owner.ID,
	}

	id, err := s.ExerciseRepo.AddExercise(ctx, exercise)
	if err != nil {
		s.Logger.Error(ErrFailedToCreateExercise, "func", funcName, "user", owner.ID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToCreateExercise, err)
	}
	exercise.ID = id

	// The exercise stays even if the owner's list cannot be updated.
	if err := s.UserRepo.AddExerciseRef(ctx, owner.ID, id); err != nil {
		s.Logger.Error("failed to record exercise on user", "func", funcName, "user", owner.ID, "exercise", id, "error", err)
	} else {
		owner.Exercises = append(owner.Exercises, id)
	}

	s.Logger.Info("Exercise created", "func", funcName, "user", owner.ID, "exercise", id)
	return exercise, nil
}

// UpdateExercise applies input to the exercise when owner created it.
// Another user's exercise is reported as not found.
func (s *ExerciseService) UpdateExercise(ctx context.Context, owner *models.User, id string, input models.ExerciseInput) (*models.Exercise, error) {
	funcName := helper.GetFuncName()

	if !s.ExerciseRepo.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	update := models.ExerciseUpdate{
		Description: input.Description,
		Duration:    input.Duration,
		Date:        s.dateOrNow(input.Date),
	}

	exercise, err := s.ExerciseRepo.UpdateExercise(ctx, id, owner.ID, update)
	if err != nil {
		s.Logger.Error(ErrFailedToUpdateExercise, "func", funcName, "user", owner.ID, "exercise", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToUpdateExercise, err)
	}
	if exercise == nil {
		return nil, fmt.Errorf("%s: %w", ErrExerciseNotFound, apperrors.ErrNotFound)
	}

	s.Logger.Info("Exercise updated", "func", funcName, "user", owner.ID, "exercise", id)
	return exercise, nil
}

// DeleteExercise removes the exercise when owner created it, then removes
// the reference from the owner.
func (s *ExerciseService) DeleteExercise(ctx context.Context, owner *models.User, id string) error {
	funcName := helper.GetFuncName()

	if !s.ExerciseRepo.ValidID(id) {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	deleteFn := func(ctx context.Context) error {
		deleted, err := s.ExerciseRepo.DeleteExercise(ctx, id, owner.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrFailedToDeleteExercise, err)
		}
		if deleted == 0 {
			return fmt.Errorf("%s: %w", ErrExerciseNotFound, apperrors.ErrNotFound)
		}

		if err := s.UserRepo.RemoveExerciseRef(ctx, owner.ID, id); err != nil {
			return &danglingRefError{exerciseID: id, err: err}
		}
		return nil
	}

	var err error
	if s.DB != nil {
		err = s.DB.WithTransaction(ctx, deleteFn)
	} else {
		err = deleteFn(ctx)
	}
	if err != nil {
		var dangling *danglingRefError
		if errors.As(err, &dangling) {
			s.Logger.Error(ErrDanglingReference, "func", funcName, "user", owner.ID, "exercise", id, "error", dangling.err)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.Logger.Error(ErrFailedToDeleteExercise, "func", funcName, "user", owner.ID, "exercise", id, "error", err)
		}
		return err
	}

	owner.Exercises = removeID(owner.Exercises, id)
	s.Logger.Info("Exercise deleted", "func", funcName, "user", owner.ID, "exercise", id)
	return nil
}

// validate checks only the fields present in input.
func (s *ExerciseService) validate(input models.ExerciseInput) error {
	if input.Description != nil {
		if err := s.Validator.Var(*input.Description, descriptionRule); err != nil {
			return fmt.Errorf("%w: description must be 1 to 50 characters", apperrors.ErrValidation)
		}
	}
	return nil
}

// dateOrNow returns date, or the current time in epoch milliseconds when date is absent or zero.
func (s *ExerciseService) dateOrNow(date *int64) int64 {
	if date == nil || *date == 0 {
		return s.now().UnixMilli()
	}
	return *date
}

type danglingRefError struct {
	exerciseID string
	err        error
}

func (e *danglingRefError) Error() string {
	return fmt.Sprintf("%s: exercise %s: %v", ErrDanglingReference, e.exerciseID, e.err)
}

func (e *danglingRefError) Unwrap() error {
	return e.err
}

func removeID(ids []string, id string) []string {
	kept := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}
