package endpoints

import (
	"bytes"
	_ "embed"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

// Version is reported by GET /. Overridden at build time with
// -ldflags "-X github.com/doodlesbykumbi/tdd101-in-go/pkg/server/endpoints.Version=..."
var Version = "0.1.0"

//go:embed overview.md
var overview []byte

// StatusResponse represents the response from /status
type StatusResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Error  string    `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status and info endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - API overview (no auth required)
	s.Router.HandleFunc("/", handleOverview(s.Logger)).Methods("GET")

	s.Router.HandleFunc("/status", handleHealth(s.HealthStore, s.Clock, s.Logger)).Methods("GET")

	s.Router.Handle("/metrics", metrics.Handler()).Methods("GET")
}

// renderOverview converts the embedded markdown into a standalone page.
func renderOverview() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert(overview, &body); err != nil {
		return nil, err
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n  <head>\n    <meta charset=\"utf-8\">\n")
	page.WriteString("    <title>tdd101 status</title>\n  </head>\n  <body>\n")
	page.Write(body.Bytes())
	page.WriteString("    <p>Version " + Version + "</p>\n  </body>\n</html>\n")
	return page.Bytes(), nil
}

func handleOverview(logger *zap.Logger) http.HandlerFunc {
	page, err := renderOverview()
	if err != nil {
		logger.Error("failed to render overview", zap.Error(err))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// Check if JSON is requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			respondWithJSON(w, http.StatusOK, map[string]string{"version": Version})
			return
		}

		if page == nil {
			respondWithError(w, http.StatusInternalServerError, "overview unavailable")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}

func handleHealth(healthStore store.HealthStore, c clock.Provider, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			logger.Warn("database connectivity check failed", zap.Error(err))
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
				Status: "error",
				Time:   c.UTCNow(),
				Error:  "database connectivity check failed",
			})
			return
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{
			Status: "ok",
			Time:   c.UTCNow(),
		})
	}
}
