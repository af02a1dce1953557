package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/haguru/tracker/config"
	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/models"
	mongoClient "github.com/haguru/tracker/pkg/databases/mongo"
	"github.com/haguru/tracker/pkg/zerolog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRepo(t *testing.T) *MongoExerciseRepository {
	t.Helper()
	client, err := mongoClient.NewMongoDB(&config.MongoDBConfig{
		DatabaseName:     "trackerDB",
		ValidCollections: []string{"exercises"},
		ValidFields:      []string{"_id", "creator_id"},
	}, zerolog.NewNopLogger())
	require.NoError(t, err)

	repo, err := NewMongoExerciseRepository(client)
	require.NoError(t, err)
	return repo.(*MongoExerciseRepository)
}

func TestNewMongoExerciseRepository(t *testing.T) {
	_, err := NewMongoExerciseRepository(nil)
	assert.Error(t, err)
}

func TestOwnedFilter(t *testing.T) {
	id := primitive.NewObjectID()
	creator := primitive.NewObjectID()

	tests := []struct {
		name      string
		id        string
		creatorID string
		want      bson.M
		wantErr   bool
	}{
		{name: "valid", id: id.Hex(), creatorID: creator.Hex(), want: bson.M{"_id": id, "creator_id": creator}},
		{name: "invalid exercise id", id: "nope", creatorID: creator.Hex(), wantErr: true},
		{name: "invalid creator id", id: id.Hex(), creatorID: "nope", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ownedFilter(tt.id, tt.creatorID)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrInvalidID))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMongoExerciseRepository_InvalidIDs(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	assert.False(t, repo.ValidID("123"))
	assert.True(t, repo.ValidID(primitive.NewObjectID().Hex()))

	_, err := repo.GetExerciseByID(ctx, "123")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidID))

	_, err = repo.AddExercise(ctx, &models.Exercise{CreatorID: "123"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidID))

	_, err = repo.DeleteExercise(ctx, "123", primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, apperrors.ErrInvalidID))
}

func TestToModel(t *testing.T) {
	doc := &mongoExercise{
		ID:          primitive.NewObjectID(),
		Description: "run",
		Duration:    30,
		Date:        1700000000000,
		CreatorID:   primitive.NewObjectID(),
	}
	assert.Equal(t, &models.Exercise{
		ID:          doc.ID.Hex(),
		Description: "run",
		Duration:    30,
		Date:        1700000000000,
		CreatorID:   doc.CreatorID.Hex(),
	}, toModel(doc))
}
