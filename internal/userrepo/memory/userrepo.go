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

// MemoryUserRepository keeps users in process memory. Every read returns a copy.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	users      map[string]*models.User
	byUsername map[string]string
	order      []string
}

// NewMemoryUserRepository creates an empty in-memory repository.
func NewMemoryUserRepository() interfaces.UserRepository {
	return &MemoryUserRepository{
		users:      make(map[string]*models.User),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryUserRepository) NewID() string {
	return uuid.New().String()
}

func (r *MemoryUserRepository) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// AddUser stores a copy of user. Usernames are unique.
func (r *MemoryUserRepository) AddUser(ctx context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return "", fmt.Errorf("%w: '%s'", apperrors.ErrDuplicateUsername, user.Username)
	}

	stored := clone(user)
	if stored.ID == "" {
		stored.ID = r.NewID()
	}
	if _, exists := r.users[stored.ID]; exists {
		return "", fmt.Errorf("user id %s already exists", stored.ID)
	}

	r.users[stored.ID] = stored
	r.byUsername[stored.Username] = stored.ID
	r.order = append(r.order, stored.ID)
	return stored.ID, nil
}

func (r *MemoryUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !r.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if user, ok := r.users[id]; ok {
		return clone(user), nil
	}
	return nil, nil
}

func (r *MemoryUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byUsername[username]; ok {
		return clone(r.users[id]), nil
	}
	return nil, nil
}

// ListUsers returns users in insertion order.
func (r *MemoryUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, *clone(r.users[id]))
	}
	return users, nil
}

func (r *MemoryUserRepository) FindByToken(ctx context.Context, id, token, access string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok || !user.HasToken(token, access) {
		return nil, nil
	}
	return clone(user), nil
}

func (r *MemoryUserRepository) AddToken(ctx context.Context, userID string, token models.Token) error {
	return r.update(userID, func(u *models.User) {
		u.Tokens = append(u.Tokens, token)
	})
}

func (r *MemoryUserRepository) ClearTokens(ctx context.Context, userID string) error {
	return r.update(userID, func(u *models.User) {
		u.Tokens = []models.Token{}
	})
}

func (r *MemoryUserRepository) AddExerciseRef(ctx context.Context, userID, exerciseID string) error {
	return r.update(userID, func(u *models.User) {
		u.Exercises = append(u.Exercises, exerciseID)
	})
}

// RemoveExerciseRef drops every occurrence of exerciseID, like a $pull.
func (r *MemoryUserRepository) RemoveExerciseRef(ctx context.Context, userID, exerciseID string) error {
	return r.update(userID, func(u *models.User) {
		kept := u.Exercises[:0]
		for _, id := range u.Exercises {
			if id != exerciseID {
				kept = append(kept, id)
			}
		}
		u.Exercises = kept
	})
}

func (r *MemoryUserRepository) EnsureIndices(ctx context.Context) error {
	return nil
}

func (r *MemoryUserRepository) Close(ctx context.Context) error {
	return nil
}

func (r *MemoryUserRepository) update(userID string, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	fn(user)
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	c.Tokens = append(make([]models.Token, 0, len(u.Tokens)), u.Tokens...)
	c.Exercises = append(make([]string, 0, len(u.Exercises)), u.Exercises...)
	return &c
}
