package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/models/dto"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware rejects requests with 429 once limiter runs out of tokens.
// A nil limiter lets every request through. Rejections are counted under route
// when metrics is set.
func RateLimitMiddleware(limiter *rate.Limiter, metrics interfaces.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if metrics != nil {
					metrics.IncCounterVec(HTTPRateLimitedTotal, route)
				}
				w.Header().Set(ContentType, ContentTypeJson)
				w.WriteHeader(http.StatusTooManyRequests)
				resp := dto.RateLimitResponse{Message: MsgTooManyRequests}
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewLimiter builds a limiter allowing rps requests per second with the given burst.
// It returns nil when rps is not positive.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
