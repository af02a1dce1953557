package middleware

import "github.com/haguru/tracker/internal/interfaces"

var HTTPRequestDurationSecondsBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

const (
	// AuthHeader carries the session token on requests and on register/login responses.
	AuthHeader = "x-auth"

	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	MsgTooManyRequests   = "Too many requests. Please try again later."
	MsgUnexpectedFailure = "the server hit an unexpected failure"

	// metrics constants
	HTTPRequestsTotal              = "http_requests_total"
	HTTPRequestsTotalHelp          = "Total number of HTTP requests by route and status code"
	HTTPRequestDurationSeconds     = "http_request_duration_seconds"
	HTTPRequestDurationSecondsHelp = "Duration of HTTP requests in seconds by route"
	HTTPRequestsInFlight           = "http_requests_in_flight"
	HTTPRequestsInFlightHelp       = "Number of HTTP requests currently being served"
	HTTPRateLimitedTotal           = "http_rate_limited_total"
	HTTPRateLimitedTotalHelp       = "Total number of requests rejected by the rate limiter"
	HTTPPanicsRecoveredTotal       = "http_panics_recovered_total"
	HTTPPanicsRecoveredTotalHelp   = "Total number of handler panics recovered"
)

// RegisterMetrics registers the metrics written by this package.
func RegisterMetrics(m interfaces.Metrics) {
	m.RegisterCounterVec(HTTPRequestsTotal, HTTPRequestsTotalHelp, []string{"route", "code"})
	m.RegisterHistogramVec(HTTPRequestDurationSeconds, HTTPRequestDurationSecondsHelp,
		HTTPRequestDurationSecondsBuckets, []string{"route"})
	m.RegisterGauge(HTTPRequestsInFlight, HTTPRequestsInFlightHelp)
	m.RegisterCounterVec(HTTPRateLimitedTotal, HTTPRateLimitedTotalHelp, []string{"route"})
	m.RegisterCounter(HTTPPanicsRecoveredTotal, HTTPPanicsRecoveredTotalHelp)
}
