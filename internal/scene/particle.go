package scene

import "github.com/go-gl/mathgl/mgl64"

// Shape is one of the base primitives a particle can take.
type Shape int

const (
	ShapeSphere Shape = iota
	ShapeBox
	ShapeOctahedron
	ShapeIcosahedron
	ShapeTorus

	// NumShapes is the number of base primitives.
	NumShapes = 5
)

func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeOctahedron:
		return "octahedron"
	case ShapeIcosahedron:
		return "icosahedron"
	case ShapeTorus:
		return "torus"
	default:
		return "unknown"
	}
}

// Particle is an interactive shape in the scene. It is created once at startup
// and mutated every frame, either by the physics step or, while Grabbed, by
// the hand holding it.
type Particle struct {
	// ID is the particle's index in the scene and never changes.
	ID    int
	Shape Shape
	Color Color
	// Size is the base scale; Scale is the scale currently drawn.
	Size  float64
	Scale float64

	Position        mgl64.Vec3
	Rotation        mgl64.Vec3
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Grabbed bool
	// Emissive is the current glow intensity.
	Emissive float64
}
