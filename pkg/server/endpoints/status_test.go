package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
)

func TestHandleOverview(t *testing.T) {
	t.Run("returns HTML rendered from markdown", func(t *testing.T) {
		handler := handleOverview(zap.NewNop())

		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "<h1>tdd101 people API</h1>")
		assert.Contains(t, w.Body.String(), "<table>")
		assert.Contains(t, w.Body.String(), "Version "+Version)
	})

	t.Run("returns JSON when Accept header is application/json", func(t *testing.T) {
		handler := handleOverview(zap.NewNop())

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.JSONEq(t, `{"version":"`+Version+`"}`, w.Body.String())
	})

	t.Run("returns JSON for format=json", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleOverview(zap.NewNop())(w, httptest.NewRequest("GET", "/?format=json", nil))

		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	})
}

func TestHandleHealth(t *testing.T) {
	now := clock.Fixed{At: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	t.Run("ok when the database answers", func(t *testing.T) {
		health := &MockHealthStore{}
		health.On("CheckConnectivity", mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		handleHealth(health, now, zap.NewNop())(w, httptest.NewRequest("GET", "/status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","time":"2024-01-02T03:04:05Z"}`, w.Body.String())
	})

	t.Run("503 when the database is down", func(t *testing.T) {
		health := &MockHealthStore{}
		health.On("CheckConnectivity", mock.Anything).Return(errors.New("dial tcp: connection refused"))

		w := httptest.NewRecorder()
		handleHealth(health, now, zap.NewNop())(w, httptest.NewRequest("GET", "/status", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"error","time":"2024-01-02T03:04:05Z","error":"database connectivity check failed"}`, w.Body.String())
	})
}
