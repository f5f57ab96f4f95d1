package app

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handgrab/internal/cursor"
	"github.com/ayusman/handgrab/internal/interaction"
	"github.com/ayusman/handgrab/internal/physics"
	"github.com/ayusman/handgrab/internal/scene"
	"github.com/ayusman/handgrab/internal/tracking"
)

// SessionConfig collects the settings of everything a session owns.
type SessionConfig struct {
	Scene       scene.Config
	Interaction interaction.Config
	Physics     physics.Config
	Width       int
	Height      int
	// Seed drives particle spawning. Zero picks a time-based seed.
	Seed int64
}

// DefaultSessionConfig returns the component defaults for a 1280x720 view.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Scene:       scene.DefaultConfig(),
		Interaction: interaction.DefaultConfig(),
		Physics:     physics.DefaultConfig(),
		Width:       1280,
		Height:      720,
	}
}

// Session is the per-run world state. It is driven by the render thread only.
type Session struct {
	ID         string
	Scene      *scene.Manager
	Cursors    cursor.Set
	Controller *interaction.Controller
	Physics    *physics.Updater
}

// NewSession spawns the scene and wires the cursors, controller and physics to it.
func NewSession(config SessionConfig) *Session {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m := scene.NewManager(config.Scene, config.Width, config.Height, rand.New(rand.NewSource(seed)))

	return &Session{
		ID:         uuid.New().String(),
		Scene:      m,
		Cursors:    cursor.NewSet(m),
		Controller: interaction.NewController(config.Interaction, m),
		Physics:    physics.NewUpdater(config.Physics, config.Interaction),
	}
}

// Tick advances the world by one frame using snap as the hand state.
func (s *Session) Tick(snap tracking.Snapshot) {
	s.Cursors.Update(snap)
	s.Controller.Update(snap)
	s.Physics.Step(s.Scene.Particles(), snap)
}

// Render draws the scene and the cursors.
func (s *Session) Render(r scene.Renderer) {
	s.Scene.Render(r)
}

// Resize updates the camera aspect for a new viewport.
func (s *Session) Resize(width, height int) {
	s.Scene.Resize(width, height)
}
