// Package server provides the HTTP server for the people API.
//
// It uses gorilla/mux for routing. Every route gets a request id and
// Prometheus metrics; the whole router is wrapped in gorilla's access log
// and panic recovery handlers.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, queries, commands, healthStore, auditor, logger)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - GET /api/people, GET /api/people/{id}
//   - PUT /api/people, PATCH /api/people/{id}, DELETE /api/people/{id}
//   - GET /, GET /status, GET /metrics
//
// Mutating routes go through Server.Protect, which enforces bearer tokens
// when a jwt_secret is configured.
package server
