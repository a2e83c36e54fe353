package endpoints

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/audit"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/people"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/middleware"
)

// CreatedResponse is the body of a successful PUT /api/people
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// RegisterPeopleEndpoints registers the people endpoints
func RegisterPeopleEndpoints(s *server.Server) {
	logger := s.Logger.Named("people")

	s.Router.HandleFunc("/api/people", handleListPeople(s.Queries, s.Config.ListLimitMax, logger)).Methods("GET")
	s.Router.HandleFunc("/api/people/{id}", handleGetPerson(s.Queries, logger)).Methods("GET")

	s.Router.Handle("/api/people", s.Protect(handleCreatePerson(s.Commands, s.Auditor, logger))).Methods("PUT")
	s.Router.Handle("/api/people/{id}", s.Protect(handleUpdatePerson(s.Commands, s.Auditor, logger))).Methods("PATCH")
	s.Router.Handle("/api/people/{id}", s.Protect(handleDeletePerson(s.Commands, s.Auditor, logger))).Methods("DELETE")
}

func handleGetPerson(queries cqrs.QueryExecutor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}

		query := &people.FindPersonByID{ID: id}
		if err := queries.Execute(r.Context(), query); err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, query.Person)
	}
}

func handleListPeople(queries cqrs.QueryExecutor, limitMax int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit")
		if err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}
		offset, err := queryInt(r, "offset")
		if err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}
		if limit == 0 || limit > limitMax {
			limit = limitMax
		}

		query := &people.FindAllPeople{Limit: limit, Offset: offset}
		if err := queries.Execute(r.Context(), query); err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}

		result := query.People
		if result == nil {
			result = []model.Person{}
		}
		respondWithJSON(w, http.StatusOK, result)
	}
}

func handleCreatePerson(commands cqrs.CommandExecutor, auditor *audit.Auditor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var person model.Person
		if err := decodeJSON(w, r, &person); err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}
		person.ID = 0

		command := &people.CreatePerson{Person: person}
		err := commands.Execute(r.Context(), command)
		auditor.Log(r.Context(), personEvent(r, audit.OperationCreate, command.ID, err))
		if err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}

		w.Header().Set("Location", "/api/people/"+strconv.FormatInt(command.ID, 10))
		respondWithJSON(w, http.StatusCreated, CreatedResponse{ID: command.ID})
	}
}

func handleUpdatePerson(commands cqrs.CommandExecutor, auditor *audit.Auditor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}

		var person model.Person
		if err := decodeJSON(w, r, &person); err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}
		person.ID = id

		err = commands.Execute(r.Context(), &people.UpdatePerson{Person: person})
		auditor.Log(r.Context(), personEvent(r, audit.OperationUpdate, id, err))
		if err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDeletePerson(commands cqrs.CommandExecutor, auditor *audit.Auditor, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}

		err = commands.Execute(r.Context(), &people.DeletePerson{ID: id})
		auditor.Log(r.Context(), personEvent(r, audit.OperationDelete, id, err))
		if err != nil {
			respondWithFailure(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func personEvent(r *http.Request, operation string, id int64, err error) audit.PersonEvent {
	subject, _ := middleware.SubjectFrom(r.Context())
	event := audit.PersonEvent{
		Operation: operation,
		PersonID:  id,
		Subject:   subject,
		ClientIP:  clientIP(r),
		RequestID: middleware.RequestIDFrom(r.Context()),
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	return event
}
