package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/tracker/pkg/zerolog"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success logs at info", status: http.StatusOK, wantLevel: "info"},
		{name: "implicit status logs at info", status: 0, wantLevel: "info"},
		{name: "client error logs at warn", status: http.StatusNotFound, wantLevel: "warn"},
		{name: "server error logs at error", status: http.StatusInternalServerError, wantLevel: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.NewLoggerWithWriter("test", &buf)

			handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("body"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
			req.Header.Set(AuthHeader, "secret-token")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			line := strings.TrimSpace(buf.String())
			assert.NotContains(t, line, "secret-token")

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(line), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "HTTP request", entry["message"])
			assert.Equal(t, "GET", entry["method"])
			assert.Equal(t, "/users/abc", entry["path"])
			assert.EqualValues(t, 4, entry["bytes_written"])
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			assert.EqualValues(t, wantStatus, entry["status"])
		})
	}
}
