// Package scene owns the 3D world: camera, lights and the interactive particles.
package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Config controls how the scene is populated.
type Config struct {
	ParticleCount int
	MinSize       float64
	MaxSize       float64
	// SpawnExtent is the full width of the spawn box on each axis, centred on the origin.
	SpawnExtent mgl64.Vec3
	// MaxAngularSpeed bounds the per-axis rotation speed, in radians per frame.
	MaxAngularSpeed float64
	// InitialEmissive is the glow a particle starts with.
	InitialEmissive float64
	Background      Color
}

// DefaultConfig returns three particles in a small box around the origin.
func DefaultConfig() Config {
	return Config{
		ParticleCount:   3,
		MinSize:         0.25,
		MaxSize:         0.4,
		SpawnExtent:     mgl64.Vec3{2, 1, 1},
		MaxAngularSpeed: 0.01,
		InitialEmissive: 0.1,
		Background:      White,
	}
}

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	// FOV is the vertical field of view in degrees.
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64
}

// Projection returns the camera's projection matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// View returns the camera's view matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Renderer draws scene content inside one 3D pass.
type Renderer interface {
	Begin3D(cam Camera, background Color)
	DrawParticle(p *Particle, tint RGBA)
	DrawSphere(center mgl64.Vec3, radius float64, tint RGBA)
	DrawLine(from, to mgl64.Vec3, tint RGBA)
	End3D()
}

// Member is anything besides particles that lives in the scene, such as a hand cursor.
type Member interface {
	Draw(r Renderer, lights []Light)
}

// Manager holds the scene state for one session.
type Manager struct {
	config    Config
	camera    Camera
	lights    []Light
	particles []*Particle
	members   []Member
}

// NewManager builds the camera and lights and spawns the configured particles
// using rng for every random choice.
func NewManager(config Config, width, height int, rng *rand.Rand) *Manager {
	m := &Manager{
		config: config,
		camera: Camera{
			Position: mgl64.Vec3{0, 0, 3},
			Target:   mgl64.Vec3{0, 0, 0},
			Up:       mgl64.Vec3{0, 1, 0},
			FOV:      75,
			Near:     0.1,
			Far:      1000,
		},
		lights: DefaultLights(),
	}
	m.Resize(width, height)

	m.particles = make([]*Particle, 0, config.ParticleCount)
	for i := 0; i < config.ParticleCount; i++ {
		m.particles = append(m.particles, m.spawn(i, rng))
	}

	return m
}

func (m *Manager) spawn(id int, rng *rand.Rand) *Particle {
	cfg := m.config
	shape := Shape(rng.Intn(NumShapes))
	color := Palette[rng.Intn(len(Palette))]
	size := cfg.MinSize + rng.Float64()*(cfg.MaxSize-cfg.MinSize)

	var pos mgl64.Vec3
	for i := range pos {
		pos[i] = (rng.Float64() - 0.5) * cfg.SpawnExtent[i]
	}
	var spin mgl64.Vec3
	for i := range spin {
		spin[i] = (rng.Float64() - 0.5) * 2 * cfg.MaxAngularSpeed
	}

	return &Particle{
		ID:              id,
		Shape:           shape,
		Color:           color,
		Size:            size,
		Scale:           size,
		Position:        pos,
		AngularVelocity: spin,
		Emissive:        cfg.InitialEmissive,
	}
}

// Particles returns the live particles in insertion order.
func (m *Manager) Particles() []*Particle {
	return m.particles
}

// Particle returns the particle with the given ID, or nil.
func (m *Manager) Particle(id int) *Particle {
	if id < 0 || id >= len(m.particles) {
		return nil
	}
	return m.particles[id]
}

// Camera returns the current camera.
func (m *Manager) Camera() Camera {
	return m.camera
}

// Lights returns the scene lights.
func (m *Manager) Lights() []Light {
	return m.lights
}

// Add registers a member to be drawn after the particles.
func (m *Manager) Add(member Member) {
	m.members = append(m.members, member)
}

// Resize recomputes the camera aspect ratio for a new viewport.
// Non-positive sizes are ignored.
func (m *Manager) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.camera.Aspect = float64(width) / float64(height)
}

// Render draws every particle and member in one 3D pass.
func (m *Manager) Render(r Renderer) {
	r.Begin3D(m.camera, m.config.Background)
	for _, p := range m.particles {
		r.DrawParticle(p, Shade(p.Color, p.Emissive, p.Position, m.lights))
	}
	for _, member := range m.members {
		member.Draw(r, m.lights)
	}
	r.End3D()
}
