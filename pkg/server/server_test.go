package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/middleware"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(secret string) *config.Config {
	return &config.Config{
		BindAddress:  "127.0.0.1",
		Port:         "0",
		ListLimitMax: 10,
		JWTSecret:    secret,
	}
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	subject, _ := middleware.SubjectFrom(r.Context())
	_, _ = w.Write([]byte(subject))
})

func TestNewServer(t *testing.T) {
	s := NewServer(testConfig(""), nil, nil, nil, nil, nil)

	assert.Equal(t, "127.0.0.1:0", s.Addr())
	assert.Nil(t, s.Auth)
	assert.NotNil(t, s.Logger)
	assert.Equal(t, clock.Default, s.Clock)
}

func TestProtectWithoutSecret(t *testing.T) {
	s := NewServer(testConfig(""), nil, nil, nil, nil, zap.NewNop())

	w := httptest.NewRecorder()
	s.Protect(ok).ServeHTTP(w, httptest.NewRequest("DELETE", "/api/people/1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectWithSecret(t *testing.T) {
	s := NewServer(testConfig("s3cret"), nil, nil, nil, nil, zap.NewNop())
	require.NotNil(t, s.Auth)

	w := httptest.NewRecorder()
	s.Protect(ok).ServeHTTP(w, httptest.NewRequest("DELETE", "/api/people/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.IssueToken([]byte("s3cret"), "alice", time.Minute, clock.Default)
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/api/people/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	s.Protect(ok).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestHandlerRecoversFromPanics(t *testing.T) {
	s := NewServer(testConfig(""), nil, nil, nil, nil, zap.NewNop())
	s.Router.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandlerSetsRequestID(t *testing.T) {
	s := NewServer(testConfig(""), nil, nil, nil, nil, zap.NewNop())
	s.Router.Handle("/", ok)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestStartAndShutdown(t *testing.T) {
	s := NewServer(testConfig(""), nil, nil, nil, nil, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- s.Start()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
