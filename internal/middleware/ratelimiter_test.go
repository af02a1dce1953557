package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/tracker/internal/models/dto"
	"github.com/haguru/tracker/pkg/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	m := metrics.NewMetrics("test")
	RegisterMetrics(m)

	limiter := NewLimiter(0.0001, 2)
	require.NotNil(t, limiter)
	handler := RateLimitMiddleware(limiter, m, "POST /users/login")(okHandler())

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, httptest.NewRequest(http.MethodPost, "/users/login", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, ContentTypeJson, last.Header().Get(ContentType))

	var body dto.RateLimitResponse
	require.NoError(t, json.NewDecoder(last.Body).Decode(&body))
	assert.Equal(t, MsgTooManyRequests, body.Message)

	count, err := testutil.GatherAndCount(m.GetRegistry(), "test_"+HTTPRateLimitedTotal)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 10))

	handler := RateLimitMiddleware(nil, nil, "POST /users")(okHandler())
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/users", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}
}
