// Package server provides an optional HTTP status surface for sighted
// helpers: session health, a live stream of announced facts, and an MJPEG
// camera view. Frames come through the coordinator so the single-owner
// capture rule holds.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Amogh-Hegde/speX/internal/capture"
	"github.com/Amogh-Hegde/speX/internal/store"
)

// FrameProvider captures one frame on behalf of the server. The server
// never opens its own camera handle.
type FrameProvider func() (*capture.Frame, error)

// Config holds the server configuration.
type Config struct {
	Store  *store.Store
	Frames FrameProvider
	Facts  *FactsHandler
}

// Server represents the HTTP status server.
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

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/identities", s.handleIdentities)
	}

	if s.config.Facts != nil {
		s.mux.Handle("/api/facts", s.config.Facts)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
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

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Store != nil {
		if started, err := s.config.Store.Settings().Get(store.SettingLastSessionStart); err == nil {
			response["session_started"] = started
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleIdentities handles GET requests listing the trained gallery.
func (s *Server) handleIdentities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identities, err := s.config.Store.Identities().List()
	if err != nil {
		http.Error(w, "Failed to list identities", http.StatusInternalServerError)
		return
	}

	type identityJSON struct {
		Name     string `json:"name"`
		Relation string `json:"relation"`
		Samples  int    `json:"samples"`
	}
	out := make([]identityJSON, 0, len(identities))
	for _, ident := range identities {
		out = append(out, identityJSON{
			Name:     ident.Name,
			Relation: ident.Relation,
			Samples:  ident.Samples,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
