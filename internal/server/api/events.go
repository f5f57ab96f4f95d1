package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/handgrab/internal/store"
)

// MaxEventsLimit caps the limit query parameter.
const MaxEventsLimit = 500

// EventsHandler serves the grab and release journal of one session.
type EventsHandler struct {
	store     *store.Store
	sessionID string
}

// NewEventsHandler creates a handler for the given session.
func NewEventsHandler(s *store.Store, sessionID string) *EventsHandler {
	return &EventsHandler{store: s, sessionID: sessionID}
}

type eventResponse struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Hand       string     `json:"hand"`
	ParticleID int        `json:"particle_id"`
	Shape      string     `json:"shape"`
	Position   [3]float64 `json:"position"`
	Velocity   [3]float64 `json:"velocity"`
	CreatedAt  string     `json:"created_at"`
}

type statsResponse struct {
	Grabs    int            `json:"grabs"`
	Releases int            `json:"releases"`
	ByHand   map[string]int `json:"grabs_by_hand"`
}

type listEventsResponse struct {
	Session   string          `json:"session"`
	StartedAt string          `json:"started_at"`
	Stats     statsResponse   `json:"stats"`
	Events    []eventResponse `json:"events"`
}

// ServeHTTP handles GET /api/events?limit=N.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxEventsLimit)
	}

	sess, err := h.store.Sessions().GetByID(h.sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	events, err := h.store.Events().List(h.sessionID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	stats, err := h.store.Events().Stats(h.sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}

	response := listEventsResponse{
		Session:   sess.ID,
		StartedAt: sess.StartedAt.Format(time.RFC3339),
		Stats: statsResponse{
			Grabs:    stats.Grabs,
			Releases: stats.Releases,
			ByHand:   stats.ByHand,
		},
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:         e.ID,
			Kind:       e.Kind,
			Hand:       e.Hand,
			ParticleID: e.ParticleID,
			Shape:      e.Shape,
			Position:   e.Position,
			Velocity:   e.Velocity,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
