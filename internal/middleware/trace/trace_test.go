package trace

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/log"
)

var requestIDPattern = regexp.MustCompile(`^req_[0-9a-f]{16}$`)

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.Regexp(t, requestIDPattern, a)
	assert.NotEqual(t, a, b)
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Format: "json", Component: log.ComponentHTTP, Output: &buf})

	var seenID string
	var ctxLogger *log.Logger
	m := NewMiddleware(logger, func(*http.Request) string { return "10.1.1.1" })
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		ctxLogger = log.FromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ui/expenses?sort=amount", nil))

	require.Regexp(t, requestIDPattern, seenID)
	assert.Equal(t, seenID, rr.Header().Get(HeaderRequestID))
	assert.Equal(t, log.ComponentHTTP, ctxLogger.Component())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var end map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &end))
	assert.Equal(t, "HTTP request completed", end["msg"])
	assert.Equal(t, "WARN", end["level"])
	assert.EqualValues(t, http.StatusNotFound, end[log.FieldStatusCode])
	assert.Equal(t, seenID, end[log.FieldRequestID])
	assert.Equal(t, "10.1.1.1", end[log.FieldClientIP])

	assert.EqualValues(t, 1, m.GetMetrics().TotalRequests)
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
