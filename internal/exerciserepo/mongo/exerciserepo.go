package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/constants"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/haguru/tracker/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
)

// mongoExercise is the BSON shape of an exercise document.
type mongoExercise struct {
	ID          primitive.ObjectID `bson:"_id"`
	Description string             `bson:"description"`
	Duration    float64            `bson:"duration"`
	Date        int64              `bson:"date"`
	CreatorID   primitive.ObjectID `bson:"creator_id"`
}

// MongoExerciseRepository implements ExerciseRepository using the generic DBClient.
type MongoExerciseRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoExerciseRepository creates a new MongoDB repository instance.
func NewMongoExerciseRepository(dbClient interfaces.DBClient) (interfaces.ExerciseRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoExerciseRepository{dbClient: dbClient}, nil
}

func (r *MongoExerciseRepository) ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// AddExercise inserts the exercise and returns the generated id.
func (r *MongoExerciseRepository) AddExercise(ctx context.Context, exercise *models.Exercise) (string, error) {
	creatorID, err := objectID(exercise.CreatorID)
	if err != nil {
		return "", err
	}

	doc := bson.M{
		"_id":         primitive.NewObjectID(),
		"description": exercise.Description,
		"duration":    exercise.Duration,
		"date":        exercise.Date,
		"creator_id":  creatorID,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.ExercisesCollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add exercise to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

func (r *MongoExerciseRepository) GetExerciseByID(ctx context.Context, id string) (*models.Exercise, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc mongoExercise
	err = r.dbClient.FindOne(ctx, constants.ExercisesCollection, bson.M{"_id": objID}, &doc)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exercise from MongoDB: %w", err)
	}
	return toModel(&doc), nil
}

func (r *MongoExerciseRepository) ListExercisesByCreator(ctx context.Context, creatorID string) ([]models.Exercise, error) {
	creatorObjID, err := objectID(creatorID)
	if err != nil {
		return nil, err
	}

	var docs []mongoExercise
	if err := r.dbClient.FindMany(ctx, constants.ExercisesCollection, bson.M{"creator_id": creatorObjID}, &docs); err != nil {
		return nil, fmt.Errorf("failed to list exercises from MongoDB: %w", err)
	}

	exercises := make([]models.Exercise, 0, len(docs))
	for i := range docs {
		exercises = append(exercises, *toModel(&docs[i]))
	}
	return exercises, nil
}

// UpdateExercise applies update in a single FindOneAndUpdate filtered on id and creator.
func (r *MongoExerciseRepository) UpdateExercise(ctx context.Context, id, creatorID string, update models.ExerciseUpdate) (*models.Exercise, error) {
	filter, err := ownedFilter(id, creatorID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"date": update.Date}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Duration != nil {
		set["duration"] = *update.Duration
	}

	var doc mongoExercise
	err = r.dbClient.FindOneAndUpdate(ctx, constants.ExercisesCollection, filter, bson.M{"$set": set}, &doc)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update exercise in MongoDB: %w", err)
	}
	return toModel(&doc), nil
}

func (r *MongoExerciseRepository) DeleteExercise(ctx context.Context, id, creatorID string) (int64, error) {
	filter, err := ownedFilter(id, creatorID)
	if err != nil {
		return 0, err
	}

	deleted, err := r.dbClient.DeleteOne(ctx, constants.ExercisesCollection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete exercise from MongoDB: %w", err)
	}
	return deleted, nil
}

// EnsureIndices indexes exercises by creator for the per user listing.
func (r *MongoExerciseRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys: bson.M{"creator_id": 1},
	}
	return r.dbClient.EnsureSchema(ctx, constants.ExercisesCollection, indexModel)
}

func ownedFilter(id, creatorID string) (bson.M, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	creatorObjID, err := objectID(creatorID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": objID, "creator_id": creatorObjID}, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}
	return objID, nil
}

func toModel(doc *mongoExercise) *models.Exercise {
	return &models.Exercise{
		ID:          doc.ID.Hex(),
		Description: doc.Description,
		Duration:    doc.Duration,
		Date:        doc.Date,
		CreatorID:   doc.CreatorID.Hex(),
	}
}
