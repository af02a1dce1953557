package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryExerciseRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryExerciseRepository()
	alice := uuid.New().String()
	bob := uuid.New().String()

	runID, err := repo.AddExercise(ctx, &models.Exercise{Description: "run", Duration: 30, Date: 1, CreatorID: alice})
	require.NoError(t, err)
	_, err = repo.AddExercise(ctx, &models.Exercise{Description: "swim", Duration: 45, Date: 2, CreatorID: bob})
	require.NoError(t, err)
	liftID, err := repo.AddExercise(ctx, &models.Exercise{Description: "lift", Duration: 20, Date: 3, CreatorID: alice})
	require.NoError(t, err)

	list, err := repo.ListExercisesByCreator(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "run", list[0].Description)
	assert.Equal(t, "lift", list[1].Description)

	empty, err := repo.ListExercisesByCreator(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	t.Run("update by owner", func(t *testing.T) {
		duration := 35.5
		got, err := repo.UpdateExercise(ctx, runID, alice, models.ExerciseUpdate{Duration: &duration, Date: 10})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "run", got.Description)
		assert.Equal(t, 35.5, got.Duration)
		assert.Equal(t, int64(10), got.Date)
	})

	t.Run("update by other user", func(t *testing.T) {
		description := "hijack"
		got, err := repo.UpdateExercise(ctx, runID, bob, models.ExerciseUpdate{Description: &description, Date: 10})
		require.NoError(t, err)
		assert.Nil(t, got)

		stored, err := repo.GetExerciseByID(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, "run", stored.Description)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := repo.DeleteExercise(ctx, liftID, bob)
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)

		deleted, err = repo.DeleteExercise(ctx, liftID, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		got, err := repo.GetExerciseByID(ctx, liftID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := repo.GetExerciseByID(ctx, "abc")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidID))
	})
}
