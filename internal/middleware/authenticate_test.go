package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/interfaces/mocks"
	"github.com/haguru/tracker/internal/models"
	"github.com/haguru/tracker/pkg/zerolog"
)

func TestAuthenticate(t *testing.T) {
	alice := &models.User{ID: "u1", Username: "alice"}

	tests := []struct {
		name      string
		header    string
		verifyErr error
		verifyHit bool
		wantUser  *models.User
	}{
		{name: "no header stays anonymous"},
		{name: "valid token attaches identity", header: "good", verifyHit: true, wantUser: alice},
		{name: "malformed token stays anonymous", header: "garbage", verifyHit: true, verifyErr: apperrors.ErrInvalidToken},
		{name: "revoked token stays anonymous", header: "revoked", verifyHit: true, verifyErr: apperrors.ErrNotFound},
		{name: "store failure stays anonymous", header: "good", verifyHit: true, verifyErr: errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mocks.NewMockTokenService(t)
			if tt.verifyHit {
				tokens.On("Verify", mock.Anything, tt.header).Return(tt.wantUser, tt.verifyErr).Once()
			}

			var called bool
			handler := Authenticate(tokens, zerolog.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				id, ok := IdentityFromContext(r.Context())
				if tt.wantUser == nil {
					assert.False(t, ok)
					assert.Nil(t, id)
					return
				}
				require.True(t, ok)
				assert.Equal(t, tt.wantUser, id.User)
				assert.Equal(t, tt.header, id.Token)
			}))

			req := httptest.NewRequest(http.MethodGet, "/exercise", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeader, tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.True(t, called, "middleware must always call the next handler")
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Empty(t, rr.Body.String())
		})
	}
}

func TestIdentityFromContext_NilUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithIdentity(req.Context(), &Identity{Token: "t"})
	_, ok := IdentityFromContext(ctx)
	assert.False(t, ok)
}
