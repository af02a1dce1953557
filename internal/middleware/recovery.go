package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/haguru/tracker/internal/interfaces"
)

// Recovery turns a handler panic into a 500 JSON response and logs the stack.
func Recovery(logger interfaces.Logger, metrics interfaces.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("Panic recovered",
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					if metrics != nil {
						metrics.IncCounter(HTTPPanicsRecoveredTotal)
					}
					w.Header().Set(ContentType, ContentTypeJson)
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error":   http.StatusText(http.StatusInternalServerError),
						"message": MsgUnexpectedFailure,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
