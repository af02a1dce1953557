package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/haguru/tracker/internal/interfaces"
)

// Instrument records request count, latency and in-flight requests for route.
// route is the mux pattern, never the raw path, to keep label cardinality bounded.
func Instrument(metrics interfaces.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.IncGauge(HTTPRequestsInFlight)
			defer metrics.DecGauge(HTTPRequestsInFlight)

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			metrics.IncCounterVec(HTTPRequestsTotal, route, strconv.Itoa(rec.status))
			metrics.ObserveHistogramVec(HTTPRequestDurationSeconds, time.Since(start).Seconds(), route)
		})
	}
}
