package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/middleware"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterPeopleEndpoints(srv)
	RegisterStatusEndpoints(srv)

	// mux skips Router.Use middleware when no route matches
	srv.Router.MethodNotAllowedHandler = unmatched(methodNotAllowed)
	srv.Router.NotFoundHandler = unmatched(notFound)
}

func unmatched(h http.HandlerFunc) http.Handler {
	return middleware.RequestID(middleware.Metrics(h))
}
