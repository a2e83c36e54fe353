package endpoints

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
)

// MockQueryExecutor implements cqrs.QueryExecutor for testing using testify/mock
type MockQueryExecutor struct {
	mock.Mock
}

func (m *MockQueryExecutor) Execute(ctx context.Context, query cqrs.Query) error {
	args := m.Called(ctx, query)
	return args.Error(0)
}

// MockCommandExecutor implements cqrs.CommandExecutor for testing using testify/mock
type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) Execute(ctx context.Context, command cqrs.Command) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func withMuxVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}
