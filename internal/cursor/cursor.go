// Package cursor draws a hand proxy for each tracked hand: a palm sphere,
// thumb and index fingertip markers and the line between them.
package cursor

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/handgrab/internal/scene"
	"github.com/ayusman/handgrab/internal/tracking"
)

// Scale maps normalized landmark offsets to scene units. X and Y are negated
// because normalized image coordinates grow right and down.
var Scale = mgl64.Vec3{-4, -3, -2}

const (
	palmRadius   = 0.06
	fingerRadius = 0.025
)

// Part is one sphere of the cursor. Offset is relative to the cursor position.
type Part struct {
	Offset   mgl64.Vec3
	Radius   float64
	Color    scene.Color
	Emissive float64
	Opacity  float64
	Scale    float64
}

// Line connects the thumb and index markers.
type Line struct {
	From, To mgl64.Vec3
	Color    scene.Color
	Opacity  float64
}

// Cursor is the visual proxy for one hand.
type Cursor struct {
	Hand     tracking.Hand
	Position mgl64.Vec3
	Visible  bool
	Pinching bool

	Palm  Part
	Thumb Part
	Index Part
	Line  Line
}

// New returns a hidden cursor coloured for the given hand.
func New(hand tracking.Hand) *Cursor {
	palmColor := scene.Purple
	if hand == tracking.Right {
		palmColor = scene.Blue
	}
	return &Cursor{
		Hand:  hand,
		Palm:  Part{Radius: palmRadius, Color: palmColor, Emissive: 0.5, Opacity: 0.8, Scale: 1},
		Thumb: Part{Radius: fingerRadius, Color: scene.Yellow, Emissive: 0.3, Opacity: 0.9, Scale: 1},
		Index: Part{Radius: fingerRadius, Color: scene.Green, Emissive: 0.3, Opacity: 0.9, Scale: 1},
		Line:  Line{Color: scene.White, Opacity: 0.5},
	}
}

// Update positions the cursor from a tracking sample. A nil sample hides it.
func (c *Cursor) Update(s *tracking.Sample) {
	if s == nil {
		c.Visible = false
		c.Pinching = false
		return
	}

	c.Visible = true
	c.Pinching = s.Pinching
	c.Position = mgl64.Vec3{
		(s.Palm.X() - 0.5) * Scale.X(),
		(s.Palm.Y() - 0.5) * Scale.Y(),
		s.Palm.Z()*Scale.Z() + 1,
	}

	c.Thumb.Offset = relative(s.Thumb, s.Palm)
	c.Index.Offset = relative(s.Index, s.Palm)
	c.Line.From = c.Thumb.Offset
	c.Line.To = c.Index.Offset

	if s.Pinching {
		c.Line.Opacity = 1.0
		c.Palm.Emissive = 1.0
		c.Palm.Scale = 1.3
	} else {
		c.Line.Opacity = 0.3
		c.Palm.Emissive = 0.5
		c.Palm.Scale = 1.0
	}
}

func relative(p, palm mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(palm)
	return mgl64.Vec3{d.X() * Scale.X(), d.Y() * Scale.Y(), d.Z() * Scale.Z()}
}

// Draw renders the cursor when it is visible.
func (c *Cursor) Draw(r scene.Renderer, lights []scene.Light) {
	if !c.Visible {
		return
	}
	for _, part := range []*Part{&c.Palm, &c.Thumb, &c.Index} {
		center := c.Position.Add(part.Offset)
		tint := scene.Shade(part.Color, part.Emissive, center, lights).WithAlpha(part.Opacity)
		r.DrawSphere(center, part.Radius*part.Scale, tint)
	}
	r.DrawLine(c.Position.Add(c.Line.From), c.Position.Add(c.Line.To), c.Line.Color.Opaque().WithAlpha(c.Line.Opacity))
}

// Set holds the cursors for both hands, indexed by tracking.Hand.
type Set [2]*Cursor

// NewSet creates both cursors and registers them with the scene.
func NewSet(m *scene.Manager) Set {
	var s Set
	for _, h := range tracking.Hands {
		s[h] = New(h)
		m.Add(s[h])
	}
	return s
}

// Update shows, moves or hides each cursor from the snapshot.
func (s Set) Update(snap tracking.Snapshot) {
	for _, h := range tracking.Hands {
		s[h].Update(snap.Get(h))
	}
}
