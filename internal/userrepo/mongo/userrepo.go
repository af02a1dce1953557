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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoToken struct {
	Access string `bson:"access"`
	Token  string `bson:"token"`
}

// mongoUser is the BSON shape of a user document.
type mongoUser struct {
	ID             primitive.ObjectID   `bson:"_id"`
	Username       string               `bson:"username"`
	HashedPassword string               `bson:"hashed_password"`
	Tokens         []mongoToken         `bson:"tokens"`
	Exercises      []primitive.ObjectID `bson:"exercises"`
}

// MongoUserRepository implements UserRepository using the generic DBClient.
type MongoUserRepository struct {
	dbClient interfaces.DBClient // Here we use the concrete Mongo implementation of DBClient
}

// NewMongoUserRepository creates a new MongoDB repository instance.
// It takes a concrete mongo.MongoDBClient.
func NewMongoUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	// Ensure the dbClient is of type MongoDBClient
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoUserRepository{dbClient: dbClient}, nil
}

// NewID returns a fresh ObjectID hex string.
func (r *MongoUserRepository) NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a 24 character ObjectID hex string.
func (r *MongoUserRepository) ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// AddUser saves a new user to MongoDB via DBClient.
// The user's ID is kept when set, otherwise a new ObjectID is generated.
func (r *MongoUserRepository) AddUser(ctx context.Context, user *models.User) (string, error) {
	objID := primitive.NewObjectID()
	if user.ID != "" {
		var err error
		if objID, err = primitive.ObjectIDFromHex(user.ID); err != nil {
			return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidID, user.ID)
		}
	}

	tokens := bson.A{}
	for _, t := range user.Tokens {
		tokens = append(tokens, bson.M{"access": t.Access, "token": t.Token})
	}
	exercises := bson.A{}
	for _, id := range user.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
		}
		exercises = append(exercises, exerciseID)
	}

	doc := bson.M{
		"_id":             objID,
		"username":        user.Username,
		"hashed_password": user.HashedPassword, // Hashed password
		"tokens":          tokens,
		"exercises":       exercises,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return "", fmt.Errorf("%w: '%s'", apperrors.ErrDuplicateUsername, user.Username)
		}
		return "", fmt.Errorf("failed to add user to MongoDB: %w", err)
	}

	insertedObjID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return insertedObjID.Hex(), nil
}

// GetUserByID retrieves a user by its ObjectID hex string.
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// GetUserByUsername retrieves a user from MongoDB via DBClient.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// ListUsers returns every stored user.
func (r *MongoUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var docs []mongoUser
	if err := r.dbClient.FindMany(ctx, constants.UsersCollection, bson.M{}, &docs); err != nil {
		return nil, fmt.Errorf("failed to list users from MongoDB: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for i := range docs {
		users = append(users, *toModel(&docs[i]))
	}
	return users, nil
}

// FindByToken matches the user id and a single token entry with both token and access.
func (r *MongoUserRepository) FindByToken(ctx context.Context, id, token, access string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	filter := bson.M{
		"_id": objID,
		"tokens": bson.M{
			"$elemMatch": bson.M{"token": token, "access": access},
		},
	}
	return r.findOne(ctx, filter)
}

// AddToken appends a token to the user's token list.
func (r *MongoUserRepository) AddToken(ctx context.Context, userID string, token models.Token) error {
	update := bson.M{"$push": bson.M{"tokens": bson.M{"access": token.Access, "token": token.Token}}}
	return r.updateUser(ctx, userID, update)
}

// ClearTokens replaces the user's token list with an empty one.
func (r *MongoUserRepository) ClearTokens(ctx context.Context, userID string) error {
	return r.updateUser(ctx, userID, bson.M{"$set": bson.M{"tokens": bson.A{}}})
}

// AddExerciseRef appends an exercise id to the user's exercise list.
func (r *MongoUserRepository) AddExerciseRef(ctx context.Context, userID, exerciseID string) error {
	exerciseObjID, err := primitive.ObjectIDFromHex(exerciseID)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidID, exerciseID)
	}
	return r.updateUser(ctx, userID, bson.M{"$push": bson.M{"exercises": exerciseObjID}})
}

// RemoveExerciseRef pulls an exercise id from the user's exercise list.
func (r *MongoUserRepository) RemoveExerciseRef(ctx context.Context, userID, exerciseID string) error {
	exerciseObjID, err := primitive.ObjectIDFromHex(exerciseID)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidID, exerciseID)
	}
	return r.updateUser(ctx, userID, bson.M{"$pull": bson.M{"exercises": exerciseObjID}})
}

// EnsureIndices creates unique indices for username in MongoDB.
func (r *MongoUserRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc mongoUser
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &doc)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to get user from MongoDB: %w", err)
	}
	return toModel(&doc), nil
}

func (r *MongoUserRepository) updateUser(ctx context.Context, userID string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidID, userID)
	}

	matched, err := r.dbClient.UpdateOne(ctx, constants.UsersCollection, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user in MongoDB: %w", err)
	}
	if matched == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func toModel(doc *mongoUser) *models.User {
	user := &models.User{
		ID:             doc.ID.Hex(),
		Username:       doc.Username,
		HashedPassword: doc.HashedPassword,
		Tokens:         make([]models.Token, 0, len(doc.Tokens)),
		Exercises:      make([]string, 0, len(doc.Exercises)),
	}
	for _, t := range doc.Tokens {
		user.Tokens = append(user.Tokens, models.Token{Access: t.Access, Token: t.Token})
	}
	for _, id := range doc.Exercises {
		user.Exercises = append(user.Exercises, id.Hex())
	}
	return user
}
