// Package endpoints registers the HTTP handlers of the people API.
//
// Handlers are closures over the dependencies they use, so tests can call
// them directly with mocked executors:
//
//	handler := handleGetPerson(queries, zap.NewNop())
//	handler(w, req)
package endpoints
