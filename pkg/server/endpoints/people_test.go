package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/audit"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/people"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

var ada = model.Person{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

func TestHandleGetPerson(t *testing.T) {
	t.Run("returns the person", func(t *testing.T) {
		queries := &MockQueryExecutor{}
		queries.On("Execute", mock.Anything, &people.FindPersonByID{ID: 1}).
			Run(func(args mock.Arguments) {
				args.Get(1).(*people.FindPersonByID).Person = &ada
			}).
			Return(nil)

		req := withMuxVars(httptest.NewRequest("GET", "/api/people/1", nil), map[string]string{"id": "1"})
		w := httptest.NewRecorder()
		handleGetPerson(queries, zap.NewNop())(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.JSONEq(t, `{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`, w.Body.String())
		queries.AssertExpectations(t)
	})

	t.Run("404 when missing", func(t *testing.T) {
		queries := &MockQueryExecutor{}
		queries.On("Execute", mock.Anything, mock.AnythingOfType("*people.FindPersonByID")).
			Return(store.ErrPersonNotFound)

		req := withMuxVars(httptest.NewRequest("GET", "/api/people/9", nil), map[string]string{"id": "9"})
		w := httptest.NewRecorder()
		handleGetPerson(queries, zap.NewNop())(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"person not found"}`, w.Body.String())
	})

	for _, id := range []string{"abc", "0", "-3", "1.5"} {
		t.Run("400 for id "+id, func(t *testing.T) {
			queries := &MockQueryExecutor{}

			req := withMuxVars(httptest.NewRequest("GET", "/api/people/x", nil), map[string]string{"id": id})
			w := httptest.NewRecorder()
			handleGetPerson(queries, zap.NewNop())(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"id must be a positive integer"}`, w.Body.String())
			queries.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}

	t.Run("500 hides unexpected errors", func(t *testing.T) {
		queries := &MockQueryExecutor{}
		queries.On("Execute", mock.Anything, mock.Anything).Return(errors.New("pq: connection refused"))

		req := withMuxVars(httptest.NewRequest("GET", "/api/people/1", nil), map[string]string{"id": "1"})
		w := httptest.NewRecorder()
		handleGetPerson(queries, zap.NewNop())(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestHandleListPeople(t *testing.T) {
	t.Run("caps the limit and passes the offset", func(t *testing.T) {
		queries := &MockQueryExecutor{}
		queries.On("Execute", mock.Anything, &people.FindAllPeople{Limit: 50, Offset: 10}).
			Run(func(args mock.Arguments) {
				args.Get(1).(*people.FindAllPeople).People = []model.Person{ada}
			}).
			Return(nil)

		w := httptest.NewRecorder()
		handleListPeople(queries, 50, zap.NewNop())(w, httptest.NewRequest("GET", "/api/people?limit=500&offset=10", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got []model.Person
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []model.Person{ada}, got)
		queries.AssertExpectations(t)
	})

	t.Run("defaults the limit to the maximum", func(t *testing.T) {
		queries := &MockQueryExecutor{}
		queries.On("Execute", mock.Anything, &people.FindAllPeople{Limit: 1000}).Return(nil)

		w := httptest.NewRecorder()
		handleListPeople(queries, 1000, zap.NewNop())(w, httptest.NewRequest("GET", "/api/people", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
		queries.AssertExpectations(t)
	})

	for _, query := range []string{"limit=ten", "limit=-1", "offset=-5", "offset=x"} {
		t.Run("400 for "+query, func(t *testing.T) {
			queries := &MockQueryExecutor{}

			w := httptest.NewRecorder()
			handleListPeople(queries, 1000, zap.NewNop())(w, httptest.NewRequest("GET", "/api/people?"+query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			queries.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleCreatePerson(t *testing.T) {
	t.Run("creates and audits", func(t *testing.T) {
		commands := &MockCommandExecutor{}
		commands.On("Execute", mock.Anything, &people.CreatePerson{Person: model.Person{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}}).
			Run(func(args mock.Arguments) {
				args.Get(1).(*people.CreatePerson).ID = 42
			}).
			Return(nil)

		var auditLog bytes.Buffer
		logger := audit.NewLogger()
		logger.SetWriter(&auditLog)

		body := `{"id":99,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`
		w := httptest.NewRecorder()
		handleCreatePerson(commands, audit.NewAuditor(logger, nil, nil), zap.NewNop())(w, httptest.NewRequest("PUT", "/api/people", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":42}`, w.Body.String())
		assert.Equal(t, "/api/people/42", w.Header().Get("Location"))
		assert.Contains(t, auditLog.String(), "anonymous created person 42")
		commands.AssertExpectations(t)
	})

	t.Run("400 on validation failure", func(t *testing.T) {
		commands := &MockCommandExecutor{}
		commands.On("Execute", mock.Anything, mock.Anything).Return(cqrs.AssertIsSet("", "Email"))

		w := httptest.NewRecorder()
		handleCreatePerson(commands, nil, zap.NewNop())(w, httptest.NewRequest("PUT", "/api/people", strings.NewReader(`{"firstName":"Ada"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Email not set"}`, w.Body.String())
	})

	t.Run("400 on malformed json", func(t *testing.T) {
		commands := &MockCommandExecutor{}

		w := httptest.NewRecorder()
		handleCreatePerson(commands, nil, zap.NewNop())(w, httptest.NewRequest("PUT", "/api/people", strings.NewReader(`{"firstName":`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
		commands.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})
}

func TestHandleUpdatePerson(t *testing.T) {
	t.Run("updates the person in the path", func(t *testing.T) {
		commands := &MockCommandExecutor{}
		commands.On("Execute", mock.Anything, &people.UpdatePerson{Person: ada}).Return(nil)

		body := `{"id":7,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`
		req := withMuxVars(httptest.NewRequest("PATCH", "/api/people/1", strings.NewReader(body)), map[string]string{"id": "1"})
		w := httptest.NewRecorder()
		handleUpdatePerson(commands, nil, zap.NewNop())(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		commands.AssertExpectations(t)
	})

	t.Run("404 when missing", func(t *testing.T) {
		commands := &MockCommandExecutor{}
		commands.On("Execute", mock.Anything, mock.Anything).Return(store.ErrPersonNotFound)

		body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`
		req := withMuxVars(httptest.NewRequest("PATCH", "/api/people/5", strings.NewReader(body)), map[string]string{"id": "5"})
		w := httptest.NewRecorder()
		handleUpdatePerson(commands, nil, zap.NewNop())(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleDeletePerson(t *testing.T) {
	t.Run("deletes and audits", func(t *testing.T) {
		commands := &MockCommandExecutor{}
		commands.On("Execute", mock.Anything, &people.DeletePerson{ID: 3}).Return(nil)

		var auditLog bytes.Buffer
		logger := audit.NewLogger()
		logger.SetWriter(&auditLog)

		req := withMuxVars(httptest.NewRequest("DELETE", "/api/people/3", nil), map[string]string{"id": "3"})
		w := httptest.NewRecorder()
		handleDeletePerson(commands, audit.NewAuditor(logger, nil, nil), zap.NewNop())(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, auditLog.String(), "anonymous deleted person 3")
		commands.AssertExpectations(t)
	})

	t.Run("audits failures", func(t *testing.T) {
		commands := &MockCommandExecutor{}
		commands.On("Execute", mock.Anything, mock.Anything).Return(store.ErrPersonNotFound)

		var auditLog bytes.Buffer
		logger := audit.NewLogger()
		logger.SetWriter(&auditLog)

		req := withMuxVars(httptest.NewRequest("DELETE", "/api/people/3", nil), map[string]string{"id": "3"})
		w := httptest.NewRecorder()
		handleDeletePerson(commands, audit.NewAuditor(logger, nil, nil), zap.NewNop())(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, auditLog.String(), "anonymous tried to delete person 3: person not found")
	})
}
