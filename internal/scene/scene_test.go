package scene

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	began, ended int
	camera       Camera
	background   Color
	particles    []int
	tints        []RGBA
	spheres      int
	lines        int
}

func (r *recordingRenderer) Begin3D(cam Camera, background Color) {
	r.began++
	r.camera = cam
	r.background = background
}

func (r *recordingRenderer) DrawParticle(p *Particle, tint RGBA) {
	r.particles = append(r.particles, p.ID)
	r.tints = append(r.tints, tint)
}

func (r *recordingRenderer) DrawSphere(center mgl64.Vec3, radius float64, tint RGBA) { r.spheres++ }
func (r *recordingRenderer) DrawLine(from, to mgl64.Vec3, tint RGBA)                 { r.lines++ }
func (r *recordingRenderer) End3D()                                                   { r.ended++ }

type dotMember struct{}

func (dotMember) Draw(r Renderer, lights []Light) {
	r.DrawSphere(mgl64.Vec3{}, 0.1, White.Opaque())
}

func TestNewManager_SpawnsParticles(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, 1280, 720, rand.New(rand.NewSource(42)))

	particles := m.Particles()
	require.Len(t, particles, 3)

	for i, p := range particles {
		assert.Equal(t, i, p.ID)
		assert.Same(t, p, m.Particle(i))
		assert.GreaterOrEqual(t, int(p.Shape), 0)
		assert.Less(t, int(p.Shape), NumShapes)
		assert.Contains(t, Palette, p.Color)
		assert.GreaterOrEqual(t, p.Size, cfg.MinSize)
		assert.Less(t, p.Size, cfg.MaxSize)
		assert.Equal(t, p.Size, p.Scale)
		assert.False(t, p.Grabbed)
		assert.Equal(t, 0.1, p.Emissive)
		assert.Equal(t, mgl64.Vec3{}, p.Velocity)
		assert.Equal(t, mgl64.Vec3{}, p.Rotation)

		for axis := 0; axis < 3; axis++ {
			half := cfg.SpawnExtent[axis] / 2
			assert.GreaterOrEqual(t, p.Position[axis], -half)
			assert.Less(t, p.Position[axis], half)
			assert.GreaterOrEqual(t, p.AngularVelocity[axis], -0.01)
			assert.Less(t, p.AngularVelocity[axis], 0.01)
		}
	}

	assert.Nil(t, m.Particle(-1))
	assert.Nil(t, m.Particle(3))
}

func TestNewManager_Deterministic(t *testing.T) {
	a := NewManager(DefaultConfig(), 800, 600, rand.New(rand.NewSource(7)))
	b := NewManager(DefaultConfig(), 800, 600, rand.New(rand.NewSource(7)))

	for i := range a.Particles() {
		assert.Equal(t, *a.Particles()[i], *b.Particles()[i])
	}
}

func TestManager_Camera(t *testing.T) {
	m := NewManager(DefaultConfig(), 1280, 720, rand.New(rand.NewSource(1)))

	cam := m.Camera()
	assert.Equal(t, mgl64.Vec3{0, 0, 3}, cam.Position)
	assert.Equal(t, 75.0, cam.FOV)
	assert.Equal(t, 0.1, cam.Near)
	assert.Equal(t, 1000.0, cam.Far)
	assert.InDelta(t, 1280.0/720.0, cam.Aspect, 1e-12)

	m.Resize(600, 600)
	assert.Equal(t, 1.0, m.Camera().Aspect)

	m.Resize(0, 600)
	assert.Equal(t, 1.0, m.Camera().Aspect, "invalid size is ignored")

	// The origin is in front of the camera, so it projects to the centre of the view.
	clip := cam.Projection().Mul4(cam.View()).Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-9)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-9)
}

func TestManager_Render(t *testing.T) {
	m := NewManager(DefaultConfig(), 1280, 720, rand.New(rand.NewSource(3)))
	m.Add(dotMember{})
	m.Add(dotMember{})

	r := &recordingRenderer{}
	m.Render(r)

	assert.Equal(t, 1, r.began)
	assert.Equal(t, 1, r.ended)
	assert.Equal(t, White, r.background)
	assert.Equal(t, []int{0, 1, 2}, r.particles)
	assert.Equal(t, 2, r.spheres)
	for _, tint := range r.tints {
		assert.Equal(t, 1.0, tint.A)
	}
}

func TestShade(t *testing.T) {
	t.Run("ambient only", func(t *testing.T) {
		lights := []Light{{Kind: AmbientLight, Color: White, Intensity: 0.4}}
		c := Shade(White, 0, mgl64.Vec3{}, lights)
		assert.InDelta(t, 0.4, c.R, 1e-9)
		assert.InDelta(t, 0.4, c.G, 1e-9)
		assert.InDelta(t, 0.4, c.B, 1e-9)
	})

	t.Run("emissive brightens", func(t *testing.T) {
		lights := DefaultLights()
		dim := Shade(Green, 0.2, mgl64.Vec3{}, lights)
		bright := Shade(Green, 0.8, mgl64.Vec3{}, lights)
		assert.Greater(t, bright.G, dim.G)
	})

	t.Run("point light out of range contributes nothing", func(t *testing.T) {
		lights := []Light{{Kind: PointLight, Color: White, Intensity: 1, Position: mgl64.Vec3{0, 0, 0}, Range: 10}}
		c := Shade(White, 0, mgl64.Vec3{20, 0, 0}, lights)
		assert.Equal(t, 0.0, c.R)
	})

	t.Run("point light falls off with distance", func(t *testing.T) {
		lights := []Light{{Kind: PointLight, Color: White, Intensity: 1, Position: mgl64.Vec3{0, 0, 0}, Range: 10}}
		near := Shade(White, 0, mgl64.Vec3{1, 0, 0}, lights)
		far := Shade(White, 0, mgl64.Vec3{5, 0, 0}, lights)
		assert.InDelta(t, 0.45, near.R, 1e-9)
		assert.InDelta(t, 0.25, far.R, 1e-9)
	})

	t.Run("channels are clamped", func(t *testing.T) {
		c := Shade(White, 5, mgl64.Vec3{}, DefaultLights())
		assert.Equal(t, RGBA{R: 1, G: 1, B: 1, A: 1}, c)
	})
}

func TestColor(t *testing.T) {
	r, g, b := Color(0xff8000).RGB()
	assert.Equal(t, 1.0, r)
	assert.InDelta(t, 128.0/255, g, 1e-12)
	assert.Equal(t, 0.0, b)

	r8, g8, b8, a8 := Purple.Opaque().WithAlpha(0.5).Bytes()
	assert.Equal(t, uint8(0xa7), r8)
	assert.Equal(t, uint8(0x8b), g8)
	assert.Equal(t, uint8(0xfa), b8)
	assert.Equal(t, uint8(128), a8)

	assert.Equal(t, 1.0, RGBA{}.WithAlpha(3).A)
}

func TestShape_String(t *testing.T) {
	names := map[Shape]string{
		ShapeSphere:      "sphere",
		ShapeBox:         "box",
		ShapeOctahedron:  "octahedron",
		ShapeIcosahedron: "icosahedron",
		ShapeTorus:       "torus",
		Shape(99):        "unknown",
	}
	for shape, want := range names {
		assert.Equal(t, want, shape.String())
	}
}
