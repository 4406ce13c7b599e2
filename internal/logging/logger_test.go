package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, FormatJSON, false).WithComponent("session")
	l.Info("hello", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, FormatText, false).LogGeneration("a..b", 3, true, time.Millisecond)
	assert.Empty(t, buf.String())

	New(&buf, FormatText, true).LogGeneration("a..b", 3, true, time.Millisecond)
	assert.Contains(t, buf.String(), "usage table ready")
	assert.Contains(t, buf.String(), "cached=true")
}

func TestLogRejected(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, FormatText, false).LogRejected("range:set", errors.New("bad range"))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "bad range")
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, FormatText, true)

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), "path=/health")
	assert.Contains(t, buf.String(), "status_code=418")
}
