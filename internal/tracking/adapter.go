package tracking

import (
	"sync/atomic"
	"time"

	"github.com/ayusman/handgrab/internal/detector"
)

// DefaultStaleAfter is how old a snapshot may get before it reads as empty.
const DefaultStaleAfter = 500 * time.Millisecond

// Snapshot holds the tracked hands for one processed camera frame.
type Snapshot struct {
	Hands      [2]*Sample
	CapturedAt time.Time
	// Rejected counts detected hands dropped because of unusable landmarks.
	Rejected int
}

// Get returns the sample for a hand, or nil when the hand is not tracked.
func (s Snapshot) Get(h Hand) *Sample {
	if h < Left || h > Right {
		return nil
	}
	return s.Hands[h]
}

// Tracked reports whether the hand has a sample.
func (s Snapshot) Tracked(h Hand) bool {
	return s.Get(h) != nil
}

// Empty reports whether neither hand is tracked.
func (s Snapshot) Empty() bool {
	return s.Hands[Left] == nil && s.Hands[Right] == nil
}

// Config holds the adapter settings.
type Config struct {
	PinchThreshold float64
	// StaleAfter is the age after which a snapshot is ignored. Zero disables it.
	StaleAfter time.Duration
}

// DefaultConfig returns the pinch threshold and staleness window used by the demo.
func DefaultConfig() Config {
	return Config{
		PinchThreshold: DefaultPinchThreshold,
		StaleAfter:     DefaultStaleAfter,
	}
}

// Adapter is a single-slot mailbox between the landmark pipeline and the
// render loop. Ingest overwrites the slot; Snapshot reads it without blocking.
type Adapter struct {
	config Config
	slot   atomic.Pointer[Snapshot]
	now    func() time.Time
}

// NewAdapter creates an adapter with an empty slot.
func NewAdapter(config Config) *Adapter {
	if config.PinchThreshold <= 0 {
		config.PinchThreshold = DefaultPinchThreshold
	}
	return &Adapter{
		config: config,
		now:    time.Now,
	}
}

// Ingest replaces the current state with the hands detected in one frame.
// Both hands start out untracked; only hands present in this result are set.
// If two results map to the same hand the later one wins.
func (a *Adapter) Ingest(hands []detector.HandLandmarks) Snapshot {
	snap := Snapshot{CapturedAt: a.now()}

	for i := range hands {
		hand, ok := FromHandedness(hands[i].Handedness)
		if !ok {
			snap.Rejected++
			continue
		}
		sample, ok := Extract(&hands[i], a.config.PinchThreshold)
		if !ok {
			snap.Rejected++
			continue
		}
		snap.Hands[hand] = &sample
	}

	a.slot.Store(&snap)
	return snap
}

// Snapshot returns the last ingested state. It is empty when nothing has been
// ingested, after Clear, or when the last state is older than StaleAfter.
func (a *Adapter) Snapshot() Snapshot {
	snap := a.slot.Load()
	if snap == nil {
		return Snapshot{}
	}
	if a.config.StaleAfter > 0 && a.now().Sub(snap.CapturedAt) > a.config.StaleAfter {
		return Snapshot{CapturedAt: snap.CapturedAt}
	}
	return *snap
}

// Clear empties the slot so that both hands read as untracked.
func (a *Adapter) Clear() {
	a.slot.Store(nil)
}

// PinchThreshold returns the threshold used for new samples.
func (a *Adapter) PinchThreshold() float64 {
	return a.config.PinchThreshold
}
