package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/tracker/pkg/metrics"
)

func TestInstrument(t *testing.T) {
	m := metrics.NewMetrics("test")
	RegisterMetrics(m)

	route := "GET /exercise/{id}"
	handler := Instrument(m, route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/exercise/a", "/exercise/b", "/exercise/missing"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP test_http_requests_total Total number of HTTP requests by route and status code
# TYPE test_http_requests_total counter
test_http_requests_total{code="200",route="GET /exercise/{id}"} 2
test_http_requests_total{code="404",route="GET /exercise/{id}"} 1
# HELP test_http_requests_in_flight Number of HTTP requests currently being served
# TYPE test_http_requests_in_flight gauge
test_http_requests_in_flight 0
`
	require.NoError(t, testutil.GatherAndCompare(m.GetRegistry(), strings.NewReader(expected),
		"test_"+HTTPRequestsTotal, "test_"+HTTPRequestsInFlight))

	count, err := testutil.GatherAndCount(m.GetRegistry(), "test_"+HTTPRequestDurationSeconds)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInstrument_NilMetrics(t *testing.T) {
	rr := httptest.NewRecorder()
	Instrument(nil, "GET /")(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
