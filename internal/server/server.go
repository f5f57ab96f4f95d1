// Package server exposes the demo's state over HTTP: health, status, the
// interaction journal, a camera preview and a live hand feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/handgrab/internal/capture"
	"github.com/ayusman/handgrab/internal/server/api"
	"github.com/ayusman/handgrab/internal/status"
	"github.com/ayusman/handgrab/internal/store"
	"github.com/ayusman/handgrab/internal/tracking"
)

// HandSource provides the latest tracking snapshot.
type HandSource interface {
	Snapshot() tracking.Snapshot
}

// Config holds the server configuration. Routes whose dependency is nil are
// not registered.
type Config struct {
	StaticDir string
	Store     *store.Store
	SessionID string
	Preview   *capture.Preview
	Hands     HandSource
	Status    *status.Board
}

// Server is the HTTP status server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	hands  *HandsHandler

	mu     sync.Mutex
	http   *http.Server
	closed bool
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

	if s.config.Status != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
	}

	if s.config.Store != nil && s.config.SessionID != "" {
		s.mux.Handle("/api/events", api.NewEventsHandler(s.config.Store, s.config.SessionID))
	}

	if s.config.Preview != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Preview))
	}

	if s.config.Hands != nil {
		s.hands = NewHandsHandler(s.config.Hands)
		s.mux.Handle("/api/hands", s.hands)
	}

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

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	writeJSON(w, response)
}

type handStatus struct {
	Active   bool `json:"active"`
	Grabbing bool `json:"grabbing"`
}

type statusResponse struct {
	Phase   string                `json:"phase"`
	Message string                `json:"message"`
	Visible bool                  `json:"message_visible"`
	Session string                `json:"session,omitempty"`
	Hands   map[string]handStatus `json:"hands"`
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	v := s.config.Status.View()
	response := statusResponse{
		Phase:   v.Phase.String(),
		Message: v.Message,
		Visible: v.ShowMessage,
		Session: s.config.SessionID,
		Hands:   make(map[string]handStatus, len(tracking.Hands)),
	}
	for _, h := range tracking.Hands {
		response.Hands[h.String()] = handStatus{Active: v.Hands[h].Active, Grabbing: v.Hands[h].Grabbing}
	}
	writeJSON(w, response)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address. It returns nil
// after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.http = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the hand broadcaster and the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hands != nil {
		s.hands.Close()
	}

	s.mu.Lock()
	s.closed = true
	srv := s.http
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
