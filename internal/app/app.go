// Package app ties hand tracking to the interactive scene.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handgrab/internal/capture"
	"github.com/ayusman/handgrab/internal/detector"
	"github.com/ayusman/handgrab/internal/interaction"
	"github.com/ayusman/handgrab/internal/status"
	"github.com/ayusman/handgrab/internal/store"
	"github.com/ayusman/handgrab/internal/tracking"
)

// JournalBuffer is how many interaction events may wait for the journal
// writer before new ones are dropped.
const JournalBuffer = 64

// Config holds configuration options for the application.
type Config struct {
	Camera   capture.Config
	Detector detector.Config
	Tracking tracking.Config
	// Store receives the interaction journal. Nil disables journaling.
	Store *store.Store
	// ReadyTimeout is how long the ready message stays on screen.
	ReadyTimeout time.Duration
}

// DefaultConfig returns the component defaults without a store.
func DefaultConfig() Config {
	return Config{
		Camera:       capture.DefaultConfig(),
		Detector:     detector.DefaultConfig(),
		Tracking:     tracking.DefaultConfig(),
		ReadyTimeout: status.DefaultReadyTimeout,
	}
}

// App runs the tracking pipeline and feeds its snapshots into a session.
type App struct {
	config   Config
	session  *Session
	camera   capture.Camera
	detector detector.Detector
	adapter  *tracking.Adapter
	board    *status.Board
	preview  *capture.Preview
	enabled  bool
	mu       sync.RWMutex
	stopCh   chan struct{}
	done     chan struct{}

	journal     chan store.Event
	journalDone chan struct{}
	closeOnce   sync.Once
}

// New creates an App for session. When a store is configured the session is
// registered in it and grab/release events are journaled.
func New(config Config, session *Session) *App {
	if config.ReadyTimeout <= 0 {
		config.ReadyTimeout = status.DefaultReadyTimeout
	}

	a := &App{
		config:  config,
		session: session,
		camera:  capture.NewCamera(config.Camera),
		adapter: tracking.NewAdapter(config.Tracking),
		board:   status.NewBoard(),
		preview: capture.NewPreview(),
	}

	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	if config.Store != nil {
		a.openJournal()
	}

	return a
}

func (a *App) openJournal() {
	rec := &store.Session{
		ID:            a.session.ID,
		ParticleCount: len(a.session.Scene.Particles()),
		StartedAt:     time.Now(),
	}
	if err := a.config.Store.Sessions().Create(rec); err != nil {
		log.Printf("Failed to record session: %v", err)
		return
	}

	a.journal = make(chan store.Event, JournalBuffer)
	a.journalDone = make(chan struct{})
	go a.writeJournal()
	a.session.Controller.OnEvent(a.recordEvent)
}

// recordEvent runs on the render thread and never blocks it.
func (a *App) recordEvent(e interaction.Event) {
	rec := store.Event{
		ID:         uuid.New().String(),
		SessionID:  a.session.ID,
		Kind:       e.Kind.String(),
		Hand:       e.Hand.String(),
		ParticleID: e.ParticleID,
		Shape:      e.Shape.String(),
		Position:   [3]float64(e.Position),
		Velocity:   [3]float64(e.Velocity),
		CreatedAt:  time.Now(),
	}
	select {
	case a.journal <- rec:
	default:
		log.Printf("Journal full, dropping %s event", rec.Kind)
	}
}

func (a *App) writeJournal() {
	defer close(a.journalDone)
	for e := range a.journal {
		if err := a.config.Store.Events().Record(&e); err != nil {
			log.Printf("Failed to record %s event: %v", e.Kind, err)
		}
	}
}

// Start opens the camera and launches the tracking pipeline. If the camera
// cannot be opened the board shows the failure and the error is returned;
// the scene keeps working without hands.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	a.board.Set(status.MsgRequestingCamera)
	if err := a.camera.Open(); err != nil {
		a.board.Fail(status.MsgCameraFailed)
		return fmt.Errorf("start tracking: %w", err)
	}

	a.board.Set(status.MsgLoadingModel)
	a.enabled = true
	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	if err := a.Camera().Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
	a.adapter.Clear()

	log.Println("Tracking pipeline stopped")
}

// Close stops the pipeline, flushes the journal and marks the session ended.
func (a *App) Close() {
	a.Stop()
	a.closeOnce.Do(func() {
		if a.journal == nil {
			return
		}
		close(a.journal)
		<-a.journalDone
		if err := a.config.Store.Sessions().End(a.session.ID); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
	})
}

// Frame reads the current hand snapshot once and advances the session with it.
func (a *App) Frame() tracking.Snapshot {
	snap := a.adapter.Snapshot()
	a.board.SetHands(snap)
	a.session.Tick(snap)
	return snap
}

// SetEnabled pauses or resumes tracking. Pausing forgets the last snapshot so
// held particles are released on the next frame.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
	if !enabled {
		a.adapter.Clear()
	}
}

// IsEnabled returns whether tracking is running.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetCamera replaces the camera. It has no effect on a running pipeline.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

func (a *App) Session() *Session { return a.session }

func (a *App) Adapter() *tracking.Adapter { return a.adapter }

func (a *App) Board() *status.Board { return a.board }

func (a *App) Preview() *capture.Preview { return a.preview }

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}
