// Package status tracks the user-facing status line and per-hand indicators.
package status

import (
	"sync"
	"time"

	"github.com/ayusman/handgrab/internal/tracking"
)

// Messages shown while the demo starts.
const (
	MsgRequestingCamera = "Requesting camera access..."
	MsgLoadingModel     = "Loading hand tracking model..."
	MsgReady            = "Ready! Show your hands to interact"
	MsgCameraFailed     = "Camera access denied or not available"
	MsgTrackingOff      = "Hand tracking disabled"
)

// DefaultReadyTimeout is how long the ready message stays on screen.
const DefaultReadyTimeout = 2 * time.Second

// Phase is the startup state of hand tracking.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// HandIndicator is the state of one hand's indicator.
type HandIndicator struct {
	Active   bool `json:"active"`
	Grabbing bool `json:"grabbing"`
}

// View is a copy of the board for display.
type View struct {
	Phase   Phase
	Message string
	// ShowMessage is false once a timed message has expired.
	ShowMessage bool
	Hands       [2]HandIndicator
}

// Board is the shared status state. The frame loop writes it; the overlay,
// tray and HTTP server read it.
type Board struct {
	mu      sync.RWMutex
	phase   Phase
	message string
	hideAt  time.Time
	hands   [2]HandIndicator
	now     func() time.Time
}

// NewBoard returns a board in the starting phase with no message.
func NewBoard() *Board {
	return &Board{now: time.Now}
}

// Set shows a message until it is replaced.
func (b *Board) Set(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = msg
	b.hideAt = time.Time{}
}

// Ready switches to the ready phase and shows msg for hideAfter.
// A non-positive hideAfter keeps the message up.
func (b *Board) Ready(msg string, hideAfter time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phase = PhaseReady
	b.message = msg
	b.hideAt = time.Time{}
	if hideAfter > 0 {
		b.hideAt = b.now().Add(hideAfter)
	}
}

// Fail switches to the failed phase and shows msg permanently.
func (b *Board) Fail(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phase = PhaseFailed
	b.message = msg
	b.hideAt = time.Time{}
}

// SetHands updates the indicators: a hand is active while tracked and
// grabbing while it pinches.
func (b *Board) SetHands(snap tracking.Snapshot) {
	var hands [2]HandIndicator
	for _, h := range tracking.Hands {
		if s := snap.Get(h); s != nil {
			hands[h] = HandIndicator{Active: true, Grabbing: s.Pinching}
		}
	}

	b.mu.Lock()
	b.hands = hands
	b.mu.Unlock()
}

// Phase returns the current phase.
func (b *Board) Phase() Phase {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.phase
}

// View returns a copy of the board.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return View{
		Phase:       b.phase,
		Message:     b.message,
		ShowMessage: b.message != "" && (b.hideAt.IsZero() || b.now().Before(b.hideAt)),
		Hands:       b.hands,
	}
}
