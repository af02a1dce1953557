package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepository_AddUser(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := models.NewUser("alice", "hash")
	user.ID = repo.NewID()
	user.Tokens = append(user.Tokens, models.Token{Access: models.AccessAuth, Token: "t1"})

	id, err := repo.AddUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = repo.AddUser(ctx, models.NewUser("alice", "other"))
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateUsername))

	generated, err := repo.AddUser(ctx, models.NewUser("bob", "hash"))
	require.NoError(t, err)
	assert.True(t, repo.ValidID(generated))

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestMemoryUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := models.NewUser("alice", "hash")
	user.Tokens = append(user.Tokens, models.Token{Access: models.AccessAuth, Token: "t1"})
	id, err := repo.AddUser(ctx, user)
	require.NoError(t, err)

	tests := []struct {
		name   string
		lookup func() (*models.User, error)
		found  bool
		err    error
	}{
		{name: "by id", lookup: func() (*models.User, error) { return repo.GetUserByID(ctx, id) }, found: true},
		{name: "by missing id", lookup: func() (*models.User, error) { return repo.GetUserByID(ctx, repo.NewID()) }},
		{name: "by invalid id", lookup: func() (*models.User, error) { return repo.GetUserByID(ctx, "nope") }, err: apperrors.ErrInvalidID},
		{name: "by username", lookup: func() (*models.User, error) { return repo.GetUserByUsername(ctx, "alice") }, found: true},
		{name: "by missing username", lookup: func() (*models.User, error) { return repo.GetUserByUsername(ctx, "carol") }},
		{name: "by token", lookup: func() (*models.User, error) { return repo.FindByToken(ctx, id, "t1", models.AccessAuth) }, found: true},
		{name: "by token with other access", lookup: func() (*models.User, error) { return repo.FindByToken(ctx, id, "t1", "refresh") }},
		{name: "by unknown token", lookup: func() (*models.User, error) { return repo.FindByToken(ctx, id, "t2", models.AccessAuth) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found, got != nil)
		})
	}
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	id, err := repo.AddUser(ctx, models.NewUser("alice", "hash"))
	require.NoError(t, err)

	got, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	got.Tokens = append(got.Tokens, models.Token{Access: models.AccessAuth, Token: "forged"})

	again, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, again.Tokens)
}

func TestMemoryUserRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	id, err := repo.AddUser(ctx, models.NewUser("alice", "hash"))
	require.NoError(t, err)

	require.NoError(t, repo.AddToken(ctx, id, models.Token{Access: models.AccessAuth, Token: "t1"}))
	require.NoError(t, repo.AddToken(ctx, id, models.Token{Access: models.AccessAuth, Token: "t2"}))
	require.NoError(t, repo.AddExerciseRef(ctx, id, "e1"))
	require.NoError(t, repo.AddExerciseRef(ctx, id, "e2"))
	require.NoError(t, repo.RemoveExerciseRef(ctx, id, "e1"))
	require.NoError(t, repo.RemoveExerciseRef(ctx, id, "missing"))

	user, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, user.Tokens, 2)
	assert.Equal(t, []string{"e2"}, user.Exercises)

	require.NoError(t, repo.ClearTokens(ctx, id))
	user, err = repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, user.Tokens)
	assert.Empty(t, user.Tokens)

	err = repo.AddToken(ctx, repo.NewID(), models.Token{Access: models.AccessAuth, Token: "t3"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMemoryUserRepository_ConcurrentTokens(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	id, err := repo.AddUser(ctx, models.NewUser("alice", "hash"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.AddToken(ctx, id, models.Token{Access: models.AccessAuth, Token: "t"}))
		}()
	}
	wg.Wait()

	user, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, user.Tokens, 50)
}
