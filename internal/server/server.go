// Package server provides the HTTP control surface for the Mudra
// finger counting system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir   string
	Store       *store.Store
	Calibration *counter.Calibration
	Frames      *app.FrameBuffer
	Counts      *app.CountHub
	Plugins     *plugin.Manager
}

// Server is the HTTP server for the Mudra application. It never touches
// the camera or detector directly; annotated frames and count events
// arrive through the pipeline's FrameBuffer and CountHub.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Calibration != nil {
		calibrationHandler := api.NewCalibrationHandler(s.config.Calibration)
		s.mux.Handle("/api/calibration", calibrationHandler)

		if s.config.Store != nil {
			suggestHandler := api.NewSuggestHandler(s.config.Store)
			s.mux.Handle("/api/calibration/suggest", suggestHandler)
		}
	}

	if s.config.Store != nil {
		snapshotHandler := api.NewSnapshotHandler(s.config.Store, s.config.Calibration)
		s.mux.Handle("/api/snapshots", snapshotHandler)
		s.mux.Handle("/api/snapshots/", snapshotHandler)

		bindingHandler := api.NewBindingHandler(s.config.Store, s.config.Plugins)
		s.mux.Handle("/api/bindings", bindingHandler)
		s.mux.Handle("/api/bindings/", bindingHandler)
	}

	// Register the annotated frame stream if the pipeline is wired in
	if s.config.Frames != nil {
		streamHandler := NewStreamHandler(s.config.Frames)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Register the count WebSocket feed if the pipeline is wired in
	if s.config.Counts != nil {
		countsHandler := NewCountsHandler(s.config.Counts)
		s.mux.Handle("/api/counts", countsHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
