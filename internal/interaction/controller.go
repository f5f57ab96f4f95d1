// Package interaction binds pinching hands to particles and moves the bound
// particles toward the hand.
package interaction

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/handgrab/internal/scene"
	"github.com/ayusman/handgrab/internal/tracking"
)

// Config holds the grab tuning.
type Config struct {
	// GrabDistance is the exclusive upper bound on the distance between the
	// interaction point and a particle for the particle to be grabbed.
	GrabDistance float64
	// Smoothing is the fraction of the remaining distance a held particle
	// covers each frame.
	Smoothing float64
	// ThrowDamping scales the per-frame motion into the velocity a particle
	// keeps when released.
	ThrowDamping    float64
	GrabEmissive    float64
	GrabScale       float64
	ReleaseEmissive float64
	Mapping         Mapping
}

// DefaultConfig returns the demo's grab tuning.
func DefaultConfig() Config {
	return Config{
		GrabDistance:    0.6,
		Smoothing:       0.25,
		ThrowDamping:    0.5,
		GrabEmissive:    0.8,
		GrabScale:       1.2,
		ReleaseEmissive: 0.2,
		Mapping:         DefaultMapping(),
	}
}

// EventKind is the type of a grab transition.
type EventKind int

const (
	EventGrab EventKind = iota
	EventRelease
)

func (k EventKind) String() string {
	switch k {
	case EventGrab:
		return "grab"
	case EventRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Event describes one grab or release.
type Event struct {
	Kind       EventKind
	Hand       tracking.Hand
	ParticleID int
	Shape      scene.Shape
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
}

// Listener is called synchronously for every event.
type Listener func(Event)

// Controller owns the grab bindings. It is not safe for concurrent use; the
// frame loop is its only caller.
type Controller struct {
	config    Config
	scene     *scene.Manager
	bindings  [2]*scene.Particle
	listeners []Listener
}

// NewController creates a controller with no bindings.
func NewController(config Config, m *scene.Manager) *Controller {
	return &Controller{config: config, scene: m}
}

// OnEvent registers a listener for grab and release events.
func (c *Controller) OnEvent(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// Config returns the controller settings.
func (c *Controller) Config() Config {
	return c.config
}

// Holding returns the particle bound to a hand, or nil.
func (c *Controller) Holding(h tracking.Hand) *scene.Particle {
	if h < tracking.Left || h > tracking.Right {
		return nil
	}
	return c.bindings[h]
}

// Update applies one frame of grab, move and release for both hands, left first.
func (c *Controller) Update(snap tracking.Snapshot) {
	for _, h := range tracking.Hands {
		c.updateHand(h, snap.Get(h))
	}
}

func (c *Controller) updateHand(h tracking.Hand, s *tracking.Sample) {
	if s == nil || !s.Pinching {
		c.Release(h)
		return
	}

	target := c.config.Mapping.Point(s.Palm)

	if c.bindings[h] == nil {
		p := c.Select(target)
		if p == nil {
			return
		}
		c.bind(h, p)
	}

	c.move(c.bindings[h], target)
}

// Select returns the nearest non-grabbed particle strictly within the grab
// distance of point, or nil. Ties go to the particle that comes first.
func (c *Controller) Select(point mgl64.Vec3) *scene.Particle {
	var best *scene.Particle
	bestDist := c.config.GrabDistance

	for _, p := range c.scene.Particles() {
		if p.Grabbed {
			continue
		}
		if d := p.Position.Sub(point).Len(); d < bestDist {
			best, bestDist = p, d
		}
	}

	return best
}

func (c *Controller) bind(h tracking.Hand, p *scene.Particle) {
	c.bindings[h] = p
	p.Grabbed = true
	p.Emissive = c.config.GrabEmissive
	p.Scale = p.Size * c.config.GrabScale
	c.emit(EventGrab, h, p)
}

func (c *Controller) move(p *scene.Particle, target mgl64.Vec3) {
	prev := p.Position
	p.Position = prev.Add(target.Sub(prev).Mul(c.config.Smoothing))
	p.Velocity = target.Sub(prev).Mul(c.config.ThrowDamping)
}

// Release drops the particle held by a hand. It reports whether anything was
// released; releasing an empty hand changes nothing.
func (c *Controller) Release(h tracking.Hand) bool {
	if h < tracking.Left || h > tracking.Right {
		return false
	}
	p := c.bindings[h]
	if p == nil {
		return false
	}

	c.bindings[h] = nil
	p.Grabbed = false
	p.Emissive = c.config.ReleaseEmissive
	p.Scale = p.Size
	c.emit(EventRelease, h, p)
	return true
}

// ReleaseAll drops every binding.
func (c *Controller) ReleaseAll() {
	for _, h := range tracking.Hands {
		c.Release(h)
	}
}

func (c *Controller) emit(kind EventKind, h tracking.Hand, p *scene.Particle) {
	if len(c.listeners) == 0 {
		return
	}
	ev := Event{
		Kind:       kind,
		Hand:       h,
		ParticleID: p.ID,
		Shape:      p.Shape,
		Position:   p.Position,
		Velocity:   p.Velocity,
	}
	for _, fn := range c.listeners {
		fn(ev)
	}
}
