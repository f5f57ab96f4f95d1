package app

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/handgrab/internal/tracking"
)

// newTestSession returns a seeded session with particle 0 at the origin and
// the others out of grab range.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	cfg := DefaultSessionConfig()
	cfg.Seed = 7
	s := NewSession(cfg)

	far := []mgl64.Vec3{{2, 1.5, 0}, {-2, 1.5, 0}}
	for i, p := range s.Scene.Particles() {
		p.Velocity = mgl64.Vec3{}
		p.AngularVelocity = mgl64.Vec3{}
		if i == 0 {
			p.Position = mgl64.Vec3{}
			continue
		}
		p.Position = far[(i-1)%len(far)]
	}
	return s
}

func pinchAt(h tracking.Hand, x, y float64, pinching bool) tracking.Snapshot {
	var snap tracking.Snapshot
	snap.Hands[h] = &tracking.Sample{Palm: mgl64.Vec3{x, y, 0}, Pinching: pinching}
	return snap
}

func TestNewSession_Seeded(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.Seed = 42

	a := NewSession(cfg)
	b := NewSession(cfg)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("session ids should be unique, got %q and %q", a.ID, b.ID)
	}
	if len(a.Scene.Particles()) != cfg.Scene.ParticleCount {
		t.Fatalf("particles = %d, want %d", len(a.Scene.Particles()), cfg.Scene.ParticleCount)
	}
	for i, p := range a.Scene.Particles() {
		q := b.Scene.Particles()[i]
		if p.Shape != q.Shape || p.Position != q.Position || p.Color != q.Color {
			t.Errorf("particle %d differs between sessions with the same seed", i)
		}
	}
}

func TestSession_TickGrabAndRelease(t *testing.T) {
	s := newTestSession(t)
	p := s.Scene.Particles()[0]

	s.Tick(pinchAt(tracking.Right, 0.5, 0.5, true))

	if !p.Grabbed {
		t.Fatal("particle at the pinch point should be grabbed")
	}
	if s.Controller.Holding(tracking.Right) != p {
		t.Error("right hand should hold particle 0")
	}
	if !s.Cursors[tracking.Right].Visible || s.Cursors[tracking.Left].Visible {
		t.Error("only the right cursor should be visible")
	}
	if p.Emissive != 0.8 {
		t.Errorf("grabbed emissive = %v, want 0.8", p.Emissive)
	}

	// Hand moves left in the image, so the particle follows to the right.
	s.Tick(pinchAt(tracking.Right, 0.3, 0.5, true))
	if p.Position.X() <= 0 {
		t.Errorf("held particle should move towards +x, got %v", p.Position)
	}

	s.Tick(tracking.Snapshot{})
	if p.Grabbed {
		t.Error("particle should be released when the hand disappears")
	}
	if s.Cursors[tracking.Right].Visible {
		t.Error("cursor should hide when the hand disappears")
	}
	if p.Velocity.X() <= 0 {
		t.Errorf("released particle should keep moving towards +x, got %v", p.Velocity)
	}
}

func TestSession_TickWithoutHands(t *testing.T) {
	s := newTestSession(t)
	p := s.Scene.Particles()[0]
	p.Velocity = mgl64.Vec3{0.01, 0, 0}

	s.Tick(tracking.Snapshot{})

	if p.Grabbed {
		t.Error("nothing should be grabbed without hands")
	}
	if got := p.Position.X(); got <= 0 {
		t.Errorf("free particle should drift, x = %v", got)
	}
}

func TestSession_Resize(t *testing.T) {
	s := newTestSession(t)
	s.Resize(800, 800)
	if got := s.Scene.Camera().Aspect; got != 1 {
		t.Errorf("Aspect = %v, want 1", got)
	}
}
