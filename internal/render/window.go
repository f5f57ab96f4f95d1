// Package render draws the scene and the status overlay in a raylib window.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/handgrab/internal/scene"
)

// Config holds the window settings.
type Config struct {
	Width     int
	Height    int
	Title     string
	TargetFPS int
}

// DefaultConfig returns a resizable 1280x720 window at 60 FPS.
func DefaultConfig() Config {
	return Config{
		Width:     1280,
		Height:    720,
		Title:     "handgrab",
		TargetFPS: 60,
	}
}

// Window is a raylib window. All methods must be called from the thread that
// called Open.
type Window struct {
	config Config
	models [scene.NumShapes]rl.Model
}

// Open creates the window and the shape models. raylib aborts the process if
// no rendering context can be created.
func Open(config Config) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(config.Width), int32(config.Height), config.Title)
	rl.SetTargetFPS(int32(config.TargetFPS))

	w := &Window{config: config}
	w.models[scene.ShapeSphere] = rl.LoadModelFromMesh(rl.GenMeshSphere(1, 32, 32))
	w.models[scene.ShapeBox] = rl.LoadModelFromMesh(rl.GenMeshCube(1, 1, 1))
	w.models[scene.ShapeOctahedron] = rl.LoadModelFromMesh(rl.GenMeshSphere(1, 2, 4))
	w.models[scene.ShapeIcosahedron] = rl.LoadModelFromMesh(rl.GenMeshSphere(1, 5, 6))
	w.models[scene.ShapeTorus] = rl.LoadModelFromMesh(rl.GenMeshTorus(0.4, 1.4, 16, 32))
	return w
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Size returns the current framebuffer size.
func (w *Window) Size() (width, height int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Resized reports whether the window changed size since the last frame.
func (w *Window) Resized() bool {
	return rl.IsWindowResized()
}

// BeginFrame starts drawing a frame.
func (w *Window) BeginFrame() {
	rl.BeginDrawing()
}

// EndFrame presents the frame.
func (w *Window) EndFrame() {
	rl.EndDrawing()
}

// Begin3D clears the frame and starts the 3D pass.
func (w *Window) Begin3D(cam scene.Camera, background scene.Color) {
	rl.ClearBackground(toColor(background.Opaque()))
	rl.BeginMode3D(rl.Camera3D{
		Position:   toVector3(cam.Position),
		Target:     toVector3(cam.Target),
		Up:         toVector3(cam.Up),
		Fovy:       float32(cam.FOV),
		Projection: rl.CameraPerspective,
	})
}

// End3D finishes the 3D pass.
func (w *Window) End3D() {
	rl.EndMode3D()
}

// DrawParticle draws a particle's shape at its position, rotation and scale.
func (w *Window) DrawParticle(p *scene.Particle, tint scene.RGBA) {
	if p.Shape < 0 || int(p.Shape) >= len(w.models) {
		return
	}
	model := w.models[p.Shape]
	model.Transform = rl.MatrixRotateXYZ(toVector3(p.Rotation))
	rl.DrawModel(model, toVector3(p.Position), float32(p.Scale), toColor(tint))
}

// DrawSphere draws a solid sphere.
func (w *Window) DrawSphere(center mgl64.Vec3, radius float64, tint scene.RGBA) {
	rl.DrawSphere(toVector3(center), float32(radius), toColor(tint))
}

// DrawLine draws a 3D line segment.
func (w *Window) DrawLine(from, to mgl64.Vec3, tint scene.RGBA) {
	rl.DrawLine3D(toVector3(from), toVector3(to), toColor(tint))
}

// Close releases the models and closes the window.
func (w *Window) Close() {
	for _, m := range w.models {
		rl.UnloadModel(m)
	}
	rl.CloseWindow()
}

func toVector3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func toColor(c scene.RGBA) rl.Color {
	r, g, b, a := c.Bytes()
	return rl.NewColor(r, g, b, a)
}

// fromColor converts a packed colour and alpha for 2D drawing.
func fromColor(c scene.Color, alpha float64) rl.Color {
	return toColor(c.Opaque().WithAlpha(alpha))
}
