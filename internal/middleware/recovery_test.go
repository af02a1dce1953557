package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/tracker/pkg/metrics"
	"github.com/haguru/tracker/pkg/zerolog"
)

func TestRecovery(t *testing.T) {
	m := metrics.NewMetrics("test")
	RegisterMetrics(m)

	handler := Recovery(zerolog.NewNopLogger(), m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/exercise", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, MsgUnexpectedFailure, body["message"])

	count, err := testutil.GatherAndCount(m.GetRegistry(), "test_"+HTTPPanicsRecoveredTotal)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecovery_AbortHandlerPropagates(t *testing.T) {
	handler := Recovery(zerolog.NewNopLogger(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.Panics(t, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
