package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/constants"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/interfaces/mocks"
	"github.com/haguru/tracker/internal/migrations"
	"github.com/haguru/tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const userID = "6f1c2b1e-4b9a-4c55-9a57-1f0c3e7b9d21"

func TestNewPostgresUserRepository(t *testing.T) {
	_, err := NewPostgresUserRepository(nil)
	assert.Error(t, err)

	_, err = NewPostgresUserRepository(mocks.NewMockDBClient(t))
	assert.ErrorContains(t, err, "must be a PostgreSQL client")
}

func TestPostgresUserRepository_AddUser(t *testing.T) {
	tests := []struct {
		name      string
		insertErr error
		wantErr   error
	}{
		{name: "inserts user and tokens"},
		{name: "duplicate username", insertErr: fmt.Errorf("PostgreSQL: %w in users", interfaces.ErrDuplicateKey), wantErr: apperrors.ErrDuplicateUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := mocks.NewMockDBClient(t)
			repo := &PostgresUserRepository{dbClient: db}

			user := models.NewUser("alice", "hash")
			user.ID = userID
			user.Tokens = append(user.Tokens, models.Token{Access: models.AccessAuth, Token: "t1"})

			db.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
			db.On("InsertOne", mock.Anything, constants.UsersCollection, map[string]interface{}{
				"id": userID, "username": "alice", "hashed_password": "hash",
			}).Return(userID, tt.insertErr)
			if tt.insertErr == nil {
				db.On("InsertOne", mock.Anything, constants.UserTokensTable, map[string]interface{}{
					"user_id": userID, "access": models.AccessAuth, "token": "t1",
				}).Return("token-row", nil)
			}

			id, err := repo.AddUser(context.Background(), user)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, id)
		})
	}
}

func TestPostgresUserRepository_GetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		repo := &PostgresUserRepository{dbClient: mocks.NewMockDBClient(t)}
		_, err := repo.GetUserByID(ctx, "nope")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidID))
	})

	t.Run("not found", func(t *testing.T) {
		db := mocks.NewMockDBClient(t)
		repo := &PostgresUserRepository{dbClient: db}
		db.On("FindOne", ctx, constants.UsersCollection, map[string]interface{}{"id": userID}, mock.Anything).
			Return(fmt.Errorf("PostgreSQL: %w in users", interfaces.ErrNoDocuments))

		user, err := repo.GetUserByID(ctx, userID)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("loads lists", func(t *testing.T) {
		db := mocks.NewMockDBClient(t)
		repo := &PostgresUserRepository{dbClient: db}
		listFilter := map[string]interface{}{"user_id": userID}

		db.On("FindOne", ctx, constants.UsersCollection, map[string]interface{}{"id": userID}, mock.Anything).
			Run(func(args mock.Arguments) {
				u := args.Get(3).(*models.User)
				u.ID = userID
				u.Username = "alice"
			}).Return(nil)
		db.On("FindMany", ctx, constants.UserTokensTable, listFilter, mock.Anything).
			Run(func(args mock.Arguments) {
				tokens := args.Get(3).(*[]models.Token)
				*tokens = append(*tokens, models.Token{Access: models.AccessAuth, Token: "t1"})
			}).Return(nil)
		db.On("FindMany", ctx, constants.UserExercisesTable, listFilter, mock.Anything).
			Run(func(args mock.Arguments) {
				refs := args.Get(3).(*[]exerciseRef)
				*refs = []exerciseRef{{ExerciseID: "e1"}}
			}).Return(nil)

		user, err := repo.GetUserByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, []models.Token{{Access: models.AccessAuth, Token: "t1"}}, user.Tokens)
		assert.Equal(t, []string{"e1"}, user.Exercises)
	})
}

func TestPostgresUserRepository_FindByToken_NoMatch(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewMockDBClient(t)
	repo := &PostgresUserRepository{dbClient: db}

	db.On("FindMany", ctx, constants.UserTokensTable,
		map[string]interface{}{"user_id": userID, "token": "t1", "access": models.AccessAuth}, mock.Anything).
		Return(nil)

	user, err := repo.FindByToken(ctx, userID, "t1", models.AccessAuth)
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.FindByToken(ctx, "nope", "t1", models.AccessAuth)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestPostgresUserRepository_Lists(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewMockDBClient(t)
	repo := &PostgresUserRepository{dbClient: db}

	db.On("DeleteMany", ctx, constants.UserTokensTable, map[string]interface{}{"user_id": userID}).Return(int64(2), nil)
	db.On("InsertOne", ctx, constants.UserExercisesTable, map[string]interface{}{"user_id": userID, "exercise_id": "e1"}).Return("ref", nil)
	db.On("DeleteMany", ctx, constants.UserExercisesTable, map[string]interface{}{"user_id": userID, "exercise_id": "e1"}).Return(int64(0), errors.New("boom"))
	db.On("EnsureSchema", ctx, constants.UsersCollection, migrations.FS).Return(nil)

	assert.NoError(t, repo.ClearTokens(ctx, userID))
	assert.NoError(t, repo.AddExerciseRef(ctx, userID, "e1"))
	assert.ErrorContains(t, repo.RemoveExerciseRef(ctx, userID, "e1"), "boom")
	assert.NoError(t, repo.EnsureIndices(ctx))
}

func TestPostgresUserRepository_IDs(t *testing.T) {
	repo := &PostgresUserRepository{}
	assert.True(t, repo.ValidID(repo.NewID()))
	assert.False(t, repo.ValidID("507f1f77bcf86cd799439011"))
}
