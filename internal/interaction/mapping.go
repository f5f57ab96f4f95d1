package interaction

import "github.com/go-gl/mathgl/mgl64"

// Mapping is the affine transform from a normalized palm center to the scene
// point used for grabbing and proximity. Depth is not tracked: every point
// lies on the plane z = PlaneZ.
type Mapping struct {
	ScaleX float64
	ScaleY float64
	PlaneZ float64
}

// DefaultMapping mirrors X, flips Y and pins points to the z = 0 plane.
func DefaultMapping() Mapping {
	return Mapping{ScaleX: -5, ScaleY: -4, PlaneZ: 0}
}

// Point maps a normalized palm center into scene space.
func (m Mapping) Point(palm mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		(palm.X() - 0.5) * m.ScaleX,
		(palm.Y() - 0.5) * m.ScaleY,
		m.PlaneZ,
	}
}
