package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/promotion-service/pkg/logger"
)

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{"propagates inbound id", "req-123", true},
		{"generates when missing", "", false},
		{"replaces id with spaces", "bad id", false},
		{"replaces oversized id", strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = logger.CorrelationIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/promotions", nil)
			if tt.inbound != "" {
				req.Header.Set(CorrelationIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))
			if tt.keep {
				assert.Equal(t, tt.inbound, seen)
			} else {
				assert.NotEqual(t, tt.inbound, seen)
				assert.Len(t, seen, 36)
			}
		})
	}
}

func accessLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		lines = append(lines, line)
	}
	return lines
}

func TestRequestLogger_AccessLine(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("promotion", "info", &buf)

	mw := func(next http.Handler) http.Handler {
		return CorrelationID(RequestLogger(base)(next))
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/promotions/p-1", nil)
	req.Header.Set(CorrelationIDHeader, "corr-1")
	req.Header.Set("X-User-ID", "user-9")

	rec := serve(mw, "/api/v1/promotions/{id}", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).InfoContext(r.Context(), "loading promotion")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	lines := accessLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "loading promotion", lines[0]["msg"])
	assert.Equal(t, "corr-1", lines[0]["correlation_id"])
	assert.Equal(t, "user-9", lines[0]["user_id"])

	access := lines[1]
	assert.Equal(t, "http request", access["msg"])
	assert.Equal(t, "WARN", access["level"])
	assert.Equal(t, "/api/v1/promotions/{id}", access["route"])
	assert.EqualValues(t, http.StatusNotFound, access["status"])
	assert.EqualValues(t, 2, access["bytes"])
	assert.Equal(t, "corr-1", access["correlation_id"])
}

func TestRequestLogger_AuthUserTakesPrecedence(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("promotion", "info", &buf)

	var got string
	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "header-user")
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "jwt-user"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "jwt-user", got)
}

func TestRequestLogger_QuietPaths(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("promotion", "info", &buf)
	h := RequestLogger(base, "/health/live")(http.HandlerFunc(okHandler))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Zero(t, buf.Len())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.NotZero(t, buf.Len())
}

func TestAccessLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, accessLevel(http.StatusOK))
	assert.Equal(t, slog.LevelInfo, accessLevel(http.StatusNotModified))
	assert.Equal(t, slog.LevelWarn, accessLevel(http.StatusTooManyRequests))
	assert.Equal(t, slog.LevelError, accessLevel(http.StatusBadGateway))
}
