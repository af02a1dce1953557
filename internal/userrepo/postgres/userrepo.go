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

// exerciseRef is a row of the user_exercises table.
type exerciseRef struct {
	ExerciseID string `mapstructure:"exercise_id"`
}

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
// The token and exercise lists live in side tables keyed by user_id.
type PostgresUserRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*postgres.PostgresDatabaseClient); !ok {
		return nil, fmt.Errorf("dbClient must be a PostgreSQL client")
	}
	return &PostgresUserRepository{dbClient: dbClient}, nil
}

// NewID returns a fresh UUID string.
func (r *PostgresUserRepository) NewID() string {
	return uuid.New().String()
}

// ValidID reports whether id parses as a UUID.
func (r *PostgresUserRepository) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// AddUser saves a new user and its token and exercise lists in one transaction.
func (r *PostgresUserRepository) AddUser(ctx context.Context, user *models.User) (string, error) {
	if user.ID == "" {
		user.ID = r.NewID()
	} else if !r.ValidID(user.ID) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidID, user.ID)
	}

	err := r.dbClient.WithTransaction(ctx, func(ctx context.Context) error {
		doc := map[string]interface{}{
			"id":              user.ID,
			"username":        user.Username,
			"hashed_password": user.HashedPassword,
		}
		if _, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc); err != nil {
			return err
		}
		for _, t := range user.Tokens {
			if err := r.AddToken(ctx, user.ID, t); err != nil {
				return err
			}
		}
		for _, exerciseID := range user.Exercises {
			if err := r.AddExerciseRef(ctx, user.ID, exerciseID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return "", fmt.Errorf("%w: '%s'", apperrors.ErrDuplicateUsername, user.Username)
		}
		return "", fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	return user.ID, nil
}

// GetUserByID retrieves a user and its lists by UUID.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !r.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, map[string]interface{}{"id": id})
}

// GetUserByUsername retrieves a user from PostgreSQL via DBClient.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, map[string]interface{}{"username": username})
}

// ListUsers returns every stored user.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.dbClient.FindMany(ctx, constants.UsersCollection, map[string]interface{}{}, &users); err != nil {
		return nil, fmt.Errorf("failed to list users from PostgreSQL: %w", err)
	}
	if users == nil {
		return []models.User{}, nil
	}
	for i := range users {
		if err := r.loadLists(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// FindByToken returns the user with id when a single token row matches both token and access.
func (r *PostgresUserRepository) FindByToken(ctx context.Context, id, token, access string) (*models.User, error) {
	if !r.ValidID(id) {
		return nil, nil
	}

	var tokens []models.Token
	filter := map[string]interface{}{"user_id": id, "token": token, "access": access}
	if err := r.dbClient.FindMany(ctx, constants.UserTokensTable, filter, &tokens); err != nil {
		return nil, fmt.Errorf("failed to find token in PostgreSQL: %w", err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return r.findOne(ctx, map[string]interface{}{"id": id})
}

// AddToken inserts a token row for the user.
func (r *PostgresUserRepository) AddToken(ctx context.Context, userID string, token models.Token) error {
	doc := map[string]interface{}{
		"user_id": userID,
		"access":  token.Access,
		"token":   token.Token,
	}
	if _, err := r.dbClient.InsertOne(ctx, constants.UserTokensTable, doc); err != nil {
		return fmt.Errorf("failed to add token in PostgreSQL: %w", err)
	}
	return nil
}

// ClearTokens removes every token row of the user.
func (r *PostgresUserRepository) ClearTokens(ctx context.Context, userID string) error {
	if !r.ValidID(userID) {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidID, userID)
	}
	if _, err := r.dbClient.DeleteMany(ctx, constants.UserTokensTable, map[string]interface{}{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear tokens in PostgreSQL: %w", err)
	}
	return nil
}

// AddExerciseRef records exerciseID in the user's exercise list.
func (r *PostgresUserRepository) AddExerciseRef(ctx context.Context, userID, exerciseID string) error {
	doc := map[string]interface{}{
		"user_id":     userID,
		"exercise_id": exerciseID,
	}
	if _, err := r.dbClient.InsertOne(ctx, constants.UserExercisesTable, doc); err != nil {
		return fmt.Errorf("failed to add exercise reference in PostgreSQL: %w", err)
	}
	return nil
}

// RemoveExerciseRef deletes exerciseID from the user's exercise list.
func (r *PostgresUserRepository) RemoveExerciseRef(ctx context.Context, userID, exerciseID string) error {
	filter := map[string]interface{}{"user_id": userID, "exercise_id": exerciseID}
	if _, err := r.dbClient.DeleteMany(ctx, constants.UserExercisesTable, filter); err != nil {
		return fmt.Errorf("failed to remove exercise reference in PostgreSQL: %w", err)
	}
	return nil
}

// EnsureIndices runs the embedded migrations, which create the tables and the unique username index.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, migrations.FS)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, filter map[string]interface{}) (*models.User, error) {
	var user models.User
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &user)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user from PostgreSQL: %w", err)
	}
	if err := r.loadLists(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// loadLists fills the user's tokens and exercise ids from the side tables.
func (r *PostgresUserRepository) loadLists(ctx context.Context, user *models.User) error {
	filter := map[string]interface{}{"user_id": user.ID}

	user.Tokens = []models.Token{}
	if err := r.dbClient.FindMany(ctx, constants.UserTokensTable, filter, &user.Tokens); err != nil {
		return fmt.Errorf("failed to load tokens from PostgreSQL: %w", err)
	}

	var refs []exerciseRef
	if err := r.dbClient.FindMany(ctx, constants.UserExercisesTable, filter, &refs); err != nil {
		return fmt.Errorf("failed to load exercise references from PostgreSQL: %w", err)
	}
	user.Exercises = make([]string, 0, len(refs))
	for _, ref := range refs {
		user.Exercises = append(user.Exercises, ref.ExerciseID)
	}
	return nil
}
