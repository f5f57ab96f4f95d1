package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ayusman/handgrab/internal/store"
)

// newTestStore creates an in-memory store with one session.
func newTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()

	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	sess := &store.Session{ID: uuid.New().String(), ParticleCount: 3}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return s, sess.ID
}

func record(t *testing.T, s *store.Store, sessionID, kind, hand string, particle int) {
	t.Helper()
	e := &store.Event{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Kind:       kind,
		Hand:       hand,
		ParticleID: particle,
		Shape:      "box",
		Position:   [3]float64{0.1, 0.2, 0},
	}
	if err := s.Events().Record(e); err != nil {
		t.Fatalf("failed to record event: %v", err)
	}
}

func TestEventsHandler_List(t *testing.T) {
	s, sessionID := newTestStore(t)
	handler := NewEventsHandler(s, sessionID)

	record(t, s, sessionID, "grab", "left", 0)
	record(t, s, sessionID, "release", "left", 0)
	record(t, s, sessionID, "grab", "right", 2)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response listEventsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Session != sessionID {
		t.Errorf("expected session %s, got %s", sessionID, response.Session)
	}
	if len(response.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(response.Events))
	}
	if response.Events[0].Hand != "right" || response.Events[0].ParticleID != 2 {
		t.Errorf("expected newest event first, got %+v", response.Events[0])
	}
	if response.Stats.Grabs != 2 || response.Stats.Releases != 1 {
		t.Errorf("unexpected stats %+v", response.Stats)
	}
	if response.Stats.ByHand["left"] != 1 || response.Stats.ByHand["right"] != 1 {
		t.Errorf("unexpected grabs by hand %v", response.Stats.ByHand)
	}
}

func TestEventsHandler_Limit(t *testing.T) {
	s, sessionID := newTestStore(t)
	handler := NewEventsHandler(s, sessionID)

	for i := 0; i < 4; i++ {
		record(t, s, sessionID, "grab", "left", i)
	}

	tests := []struct {
		query      string
		wantStatus int
		wantCount  int
	}{
		{"?limit=2", http.StatusOK, 2},
		{"?limit=100", http.StatusOK, 4},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/events"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var response listEventsResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(response.Events) != tt.wantCount {
				t.Errorf("expected %d events, got %d", tt.wantCount, len(response.Events))
			}
		})
	}
}

func TestEventsHandler_Errors(t *testing.T) {
	s, _ := newTestStore(t)

	t.Run("unknown session", func(t *testing.T) {
		handler := NewEventsHandler(s, "missing")
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("only allows GET", func(t *testing.T) {
		handler := NewEventsHandler(s, "missing")
		req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}
