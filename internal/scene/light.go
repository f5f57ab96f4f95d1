package scene

import "github.com/go-gl/mathgl/mgl64"

// LightKind distinguishes ambient from point lights.
type LightKind int

const (
	AmbientLight LightKind = iota
	PointLight
)

// Light is a scene light. Position and Range apply to point lights only.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float64
	Position  mgl64.Vec3
	// Range is the distance at which a point light's contribution reaches zero.
	Range float64
}

// DefaultLights returns a soft white ambient light and two coloured point lights.
func DefaultLights() []Light {
	return []Light{
		{Kind: AmbientLight, Color: White, Intensity: 0.4},
		{Kind: PointLight, Color: Purple, Intensity: 1, Position: mgl64.Vec3{2, 2, 2}, Range: 10},
		{Kind: PointLight, Color: Blue, Intensity: 1, Position: mgl64.Vec3{-2, -2, 2}, Range: 10},
	}
}

// pointDiffuse is the share of a point light reaching a surface. Shapes are
// shaded flat per object, so there is no surface normal to weigh it by.
const pointDiffuse = 0.5

// Shade returns the flat colour of an object with the given base colour and
// emissive intensity at pos:
//
//	base * (ambient + sum(point * falloff)) + base * emissive
//
// where falloff decreases linearly from 1 at the light to 0 at its range.
func Shade(base Color, emissive float64, pos mgl64.Vec3, lights []Light) RGBA {
	br, bg, bb := base.RGB()

	var lr, lg, lb float64
	for _, l := range lights {
		cr, cg, cb := l.Color.RGB()
		w := l.Intensity
		if l.Kind == PointLight {
			w *= pointDiffuse * falloff(pos.Sub(l.Position).Len(), l.Range)
		}
		lr += cr * w
		lg += cg * w
		lb += cb * w
	}

	return RGBA{
		R: clamp01(br*lr + br*emissive),
		G: clamp01(bg*lg + bg*emissive),
		B: clamp01(bb*lb + bb*emissive),
		A: 1,
	}
}

func falloff(distance, rng float64) float64 {
	if rng <= 0 {
		return 1
	}
	f := 1 - distance/rng
	if f < 0 {
		return 0
	}
	return f
}
