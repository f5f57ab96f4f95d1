// Package physics settles the particles that no hand is holding.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/handgrab/internal/interaction"
	"github.com/ayusman/handgrab/internal/scene"
	"github.com/ayusman/handgrab/internal/tracking"
)

// Config holds the physics tuning. All rates are per frame.
type Config struct {
	Gravity      float64
	Friction     float64
	BounceEnergy float64
	// Bounds are the half-extents of the box particles stay in.
	Bounds      mgl64.Vec3
	GrabbedSpin float64

	// GlowRadiusFactor scales the grab distance into the proximity radius.
	GlowRadiusFactor float64
	GlowNear         float64
	GlowFar          float64
	// GlowRate is the fraction of the gap to the target glow closed each frame.
	GlowRate float64
}

// DefaultConfig returns weightless, slightly damped physics.
func DefaultConfig() Config {
	return Config{
		Gravity:          0,
		Friction:         0.98,
		BounceEnergy:     0.6,
		Bounds:           mgl64.Vec3{2.5, 2, 1.5},
		GrabbedSpin:      0.05,
		GlowRadiusFactor: 1.2,
		GlowNear:         0.5,
		GlowFar:          0.2,
		GlowRate:         0.1,
	}
}

// Updater advances particles by one frame.
type Updater struct {
	config     Config
	mapping    interaction.Mapping
	glowRadius float64
}

// NewUpdater creates an updater that measures proximity the same way grabs do.
func NewUpdater(config Config, grab interaction.Config) *Updater {
	return &Updater{
		config:     config,
		mapping:    grab.Mapping,
		glowRadius: grab.GrabDistance * config.GlowRadiusFactor,
	}
}

// Step updates every particle. Held particles only spin; free ones move,
// bounce off the bounds and glow when a tracked hand is near.
func (u *Updater) Step(particles []*scene.Particle, snap tracking.Snapshot) {
	var points []mgl64.Vec3
	for _, h := range tracking.Hands {
		if s := snap.Get(h); s != nil {
			points = append(points, u.mapping.Point(s.Palm))
		}
	}

	for _, p := range particles {
		if p.Grabbed {
			p.Rotation[0] += u.config.GrabbedSpin
			p.Rotation[1] += u.config.GrabbedSpin
			continue
		}
		u.Integrate(p)
		u.Reflect(p)
		u.Glow(p, points)
	}
}

// Integrate applies gravity and friction, then moves and rotates the particle.
func (u *Updater) Integrate(p *scene.Particle) {
	p.Velocity[1] -= u.config.Gravity
	p.Velocity = p.Velocity.Mul(u.config.Friction)
	p.Position = p.Position.Add(p.Velocity)
	p.Rotation = p.Rotation.Add(p.AngularVelocity)
}

// Reflect clamps the particle into the bounds. On each axis where it has
// left the box, or sits on the wall moving outward, the velocity is turned
// inward and scaled by the bounce energy.
func (u *Updater) Reflect(p *scene.Particle) {
	for axis := 0; axis < 3; axis++ {
		limit := u.config.Bounds[axis]
		pos, vel := p.Position[axis], p.Velocity[axis]

		switch {
		case pos > limit || (pos == limit && vel > 0):
			p.Position[axis] = limit
			p.Velocity[axis] = -math.Abs(vel) * u.config.BounceEnergy
		case pos < -limit || (pos == -limit && vel < 0):
			p.Position[axis] = -limit
			p.Velocity[axis] = math.Abs(vel) * u.config.BounceEnergy
		}
	}
}

// Glow moves the particle's emissive intensity toward the near value when any
// of the interaction points is within the glow radius, otherwise toward the
// far value.
func (u *Updater) Glow(p *scene.Particle, points []mgl64.Vec3) {
	target := u.config.GlowFar
	for _, pt := range points {
		if p.Position.Sub(pt).Len() < u.glowRadius {
			target = u.config.GlowNear
			break
		}
	}
	p.Emissive += (target - p.Emissive) * u.config.GlowRate
}
