package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/interfaces/mocks"
	"github.com/haguru/tracker/internal/models"
	"github.com/haguru/tracker/pkg/zerolog"
)

const testUserID = "507f1f77bcf86cd799439011"

func newTokenService(t *testing.T) (*TokenService, *mocks.MockUserRepository) {
	t.Helper()
	signer, err := NewHMACSigner([]byte("test-secret"), 0)
	require.NoError(t, err)

	repo := mocks.NewMockUserRepository(t)
	return NewTokenService(signer, repo, zerolog.NewNopLogger()).(*TokenService), repo
}

func TestTokenService_Issue_PendingUser(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts user with first token", func(t *testing.T) {
		svc, repo := newTokenService(t)
		user := models.NewUser("alice", "hash")

		repo.On("NewID").Return(testUserID).Once()
		repo.On("AddUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.ID == testUserID && len(u.Tokens) == 1 && u.Tokens[0].Access == models.AccessAuth
		})).Return(testUserID, nil).Once()

		token, err := svc.Issue(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, testUserID, user.ID)
		require.Len(t, user.Tokens, 1)
		assert.Equal(t, token, user.Tokens[0].Token)

		claims, err := svc.Signer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, testUserID, claims.UserID)
	})

	t.Run("duplicate username leaves user pending", func(t *testing.T) {
		svc, repo := newTokenService(t)
		user := models.NewUser("alice", "hash")

		repo.On("NewID").Return(testUserID).Once()
		repo.On("AddUser", ctx, mock.Anything).
			Return("", fmt.Errorf("%w: 'alice'", apperrors.ErrDuplicateUsername)).Once()

		token, err := svc.Issue(ctx, user)
		assert.True(t, errors.Is(err, apperrors.ErrDuplicateUsername))
		assert.Empty(t, token)
		assert.True(t, user.IsPending())
		assert.Empty(t, user.Tokens)
	})
}

func TestTokenService_Issue_ExistingUser(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTokenService(t)

	user := &models.User{ID: testUserID, Username: "alice", Tokens: []models.Token{{Access: models.AccessAuth, Token: "old"}}}
	repo.On("AddToken", ctx, testUserID, mock.MatchedBy(func(tok models.Token) bool {
		return tok.Access == models.AccessAuth && tok.Token != ""
	})).Return(nil).Once()

	token, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	assert.Len(t, user.Tokens, 2)
	assert.Equal(t, token, user.Tokens[1].Token)
}

func TestTokenService_Verify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		token     func(svc *TokenService) string
		repoUser  *models.User
		repoErr   error
		expectDB  bool
		wantErr   error
		wantFound bool
	}{
		{
			name: "stored token resolves to user",
			token: func(svc *TokenService) string {
				tok, _ := svc.Signer.Sign(testUserID)
				return tok
			},
			repoUser:  &models.User{ID: testUserID, Username: "alice"},
			expectDB:  true,
			wantFound: true,
		},
		{
			name: "revoked token is not found",
			token: func(svc *TokenService) string {
				tok, _ := svc.Signer.Sign(testUserID)
				return tok
			},
			expectDB: true,
			wantErr:  apperrors.ErrNotFound,
		},
		{
			name:    "malformed token",
			token:   func(svc *TokenService) string { return "garbage" },
			wantErr: apperrors.ErrInvalidToken,
		},
		{
			name: "store failure",
			token: func(svc *TokenService) string {
				tok, _ := svc.Signer.Sign(testUserID)
				return tok
			},
			repoErr:  errors.New("connection refused"),
			expectDB: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTokenService(t)
			token := tt.token(svc)
			if tt.expectDB {
				repo.On("FindByToken", ctx, testUserID, token, models.AccessAuth).Return(tt.repoUser, tt.repoErr).Once()
			}

			user, err := svc.Verify(ctx, token)
			if tt.wantFound {
				require.NoError(t, err)
				assert.Equal(t, "alice", user.Username)
				return
			}
			assert.Error(t, err)
			assert.Nil(t, user)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestTokenService_Revoke(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTokenService(t)

	user := &models.User{ID: testUserID, Tokens: []models.Token{
		{Access: models.AccessAuth, Token: "a"},
		{Access: models.AccessAuth, Token: "b"},
	}}

	repo.On("ClearTokens", ctx, testUserID).Return(nil).Once()
	require.NoError(t, svc.Revoke(ctx, user, "a"))
	assert.NotNil(t, user.Tokens)
	assert.Empty(t, user.Tokens)

	repo.On("ClearTokens", ctx, "broken").Return(errors.New("boom")).Once()
	assert.Error(t, svc.Revoke(ctx, &models.User{ID: "broken"}, "a"))
}
