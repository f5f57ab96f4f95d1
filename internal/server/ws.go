package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handgrab/internal/tracking"
)

// handsInterval paces the hand feed at about 15 messages per second.
const handsInterval = 66 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// HandMessage is one hand in the feed. Coordinates are normalized.
type HandMessage struct {
	Hand          string     `json:"hand"`
	Palm          [3]float64 `json:"palm"`
	PinchPoint    [3]float64 `json:"pinch_point"`
	PinchDistance float64    `json:"pinch_distance"`
	Pinching      bool       `json:"pinching"`
}

// FeedMessage is one message of the hand feed.
type FeedMessage struct {
	Hands     []HandMessage `json:"hands"`
	Timestamp int64         `json:"timestamp"`
}

// NewFeedMessage converts a snapshot into a feed message.
func NewFeedMessage(snap tracking.Snapshot, now time.Time) FeedMessage {
	msg := FeedMessage{Hands: []HandMessage{}, Timestamp: now.UnixMilli()}
	for _, h := range tracking.Hands {
		s := snap.Get(h)
		if s == nil {
			continue
		}
		msg.Hands = append(msg.Hands, HandMessage{
			Hand:          h.String(),
			Palm:          s.Palm,
			PinchPoint:    s.PinchPoint,
			PinchDistance: s.PinchDistance,
			Pinching:      s.Pinching,
		})
	}
	return msg
}

// HandsHandler broadcasts tracked hands to WebSocket clients.
type HandsHandler struct {
	source  HandSource
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	stop    chan struct{}
	once    sync.Once
}

// NewHandsHandler creates a handler and starts its broadcaster.
func NewHandsHandler(source HandSource) *HandsHandler {
	h := &HandsHandler{
		source:  source,
		clients: make(map[*websocket.Conn]bool),
		stop:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *HandsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *HandsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the broadcaster.
func (h *HandsHandler) Close() {
	h.once.Do(func() { close(h.stop) })
}

// broadcast sends the latest snapshot to all connected clients.
func (h *HandsHandler) broadcast() {
	ticker := time.NewTicker(handsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}

		if h.Clients() == 0 {
			continue
		}

		msg, err := json.Marshal(NewFeedMessage(h.source.Snapshot(), time.Now()))
		if err != nil {
			log.Printf("hand feed encode error: %v", err)
			continue
		}

		// Writes are serialized by holding the write lock.
		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}
