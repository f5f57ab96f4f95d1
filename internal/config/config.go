// Package config reads the INI configuration file and converts it into the
// settings of each component.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/gcfg.v1"

	"github.com/ayusman/handgrab/internal/audio"
	"github.com/ayusman/handgrab/internal/capture"
	"github.com/ayusman/handgrab/internal/detector"
	"github.com/ayusman/handgrab/internal/interaction"
	"github.com/ayusman/handgrab/internal/physics"
	"github.com/ayusman/handgrab/internal/render"
	"github.com/ayusman/handgrab/internal/scene"
	"github.com/ayusman/handgrab/internal/store"
	"github.com/ayusman/handgrab/internal/tracking"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// ExampleFile documents every option with its default value.
const ExampleFile = `# handgrab configuration. Every option is optional.

[Window]
Width = 1280
Height = 720
Title = handgrab
TargetFPS = 60

[Camera]
# Set Enabled = false to run the scene without hand tracking.
Enabled = true
Device = 0
Width = 1280
Height = 720
FPS = 30

[Detector]
# Path to mediapipe_service.py. Searched for next to the binary when empty.
# Script = scripts/mediapipe_service.py
MaxHands = 2
MinDetectionConfidence = 0.7
MinTrackingConfidence = 0.5
ModelComplexity = 1

[Tracking]
PinchThreshold = 0.1
StaleAfterMs = 500

[Scene]
ParticleCount = 3
MinSize = 0.25
MaxSize = 0.4
# Seed for shape, colour and placement. 0 picks a new seed every run.
Seed = 0

[Interaction]
GrabDistance = 0.6
Smoothing = 0.25
ThrowDamping = 0.5

[Physics]
Gravity = 0
Friction = 0.98
BounceEnergy = 0.6
BoundsX = 2.5
BoundsY = 2
BoundsZ = 1.5

[Server]
Enabled = false
Addr = 127.0.0.1:8080
# StaticDir = web

[Audio]
Enabled = true
Volume = 0.5

[Tray]
Enabled = false

[Store]
# ":memory:" keeps the journal for this run only.
Path = :memory:
`

// WindowConfig is the [Window] section.
type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	TargetFPS int
}

// CameraConfig is the [Camera] section.
type CameraConfig struct {
	Enabled bool
	Device  int
	Width   int
	Height  int
	FPS     int
}

// DetectorConfig is the [Detector] section.
type DetectorConfig struct {
	Script                 string
	MaxHands               int
	MinDetectionConfidence float64
	MinTrackingConfidence  float64
	ModelComplexity        int
}

// TrackingConfig is the [Tracking] section.
type TrackingConfig struct {
	PinchThreshold float64
	StaleAfterMs   int
}

// SceneConfig is the [Scene] section.
type SceneConfig struct {
	ParticleCount int
	MinSize       float64
	MaxSize       float64
	Seed          int64
}

// InteractionConfig is the [Interaction] section.
type InteractionConfig struct {
	GrabDistance float64
	Smoothing    float64
	ThrowDamping float64
}

// PhysicsConfig is the [Physics] section.
type PhysicsConfig struct {
	Gravity      float64
	Friction     float64
	BounceEnergy float64
	BoundsX      float64
	BoundsY      float64
	BoundsZ      float64
}

// ServerConfig is the [Server] section.
type ServerConfig struct {
	Enabled   bool
	Addr      string
	StaticDir string
}

// AudioConfig is the [Audio] section.
type AudioConfig struct {
	Enabled bool
	Volume  float64
}

// TrayConfig is the [Tray] section.
type TrayConfig struct {
	Enabled bool
}

// StoreConfig is the [Store] section.
type StoreConfig struct {
	Path string
}

// File is the whole configuration file.
type File struct {
	Window      WindowConfig
	Camera      CameraConfig
	Detector    DetectorConfig
	Tracking    TrackingConfig
	Scene       SceneConfig
	Interaction InteractionConfig
	Physics     PhysicsConfig
	Server      ServerConfig
	Audio       AudioConfig
	Tray        TrayConfig
	Store       StoreConfig
}

// Default returns the configuration used when no file is given.
func Default() *File {
	win := render.DefaultConfig()
	cam := capture.DefaultConfig()
	det := detector.DefaultConfig()
	trk := tracking.DefaultConfig()
	scn := scene.DefaultConfig()
	grab := interaction.DefaultConfig()
	phy := physics.DefaultConfig()
	aud := audio.DefaultConfig()

	return &File{
		Window: WindowConfig{Width: win.Width, Height: win.Height, Title: win.Title, TargetFPS: win.TargetFPS},
		Camera: CameraConfig{Enabled: true, Device: cam.DeviceID, Width: cam.Width, Height: cam.Height, FPS: cam.FPS},
		Detector: DetectorConfig{
			MaxHands:               det.MaxHands,
			MinDetectionConfidence: det.MinConfidence,
			MinTrackingConfidence:  det.MinTrackingConf,
			ModelComplexity:        det.ModelComplexity,
		},
		Tracking: TrackingConfig{
			PinchThreshold: trk.PinchThreshold,
			StaleAfterMs:   int(trk.StaleAfter / time.Millisecond),
		},
		Scene: SceneConfig{ParticleCount: scn.ParticleCount, MinSize: scn.MinSize, MaxSize: scn.MaxSize},
		Interaction: InteractionConfig{
			GrabDistance: grab.GrabDistance,
			Smoothing:    grab.Smoothing,
			ThrowDamping: grab.ThrowDamping,
		},
		Physics: PhysicsConfig{
			Gravity:      phy.Gravity,
			Friction:     phy.Friction,
			BounceEnergy: phy.BounceEnergy,
			BoundsX:      phy.Bounds.X(),
			BoundsY:      phy.Bounds.Y(),
			BoundsZ:      phy.Bounds.Z(),
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Audio:  AudioConfig{Enabled: aud.Enabled, Volume: aud.Volume},
		Store:  StoreConfig{Path: store.MemoryPath},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*File, error) {
	f := Default()
	if path == "" {
		return f, nil
	}
	if err := gcfg.ReadFileInto(f, path); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse reads configuration text over the defaults and validates the result.
func Parse(text string) (*File, error) {
	f := Default()
	if err := gcfg.ReadStringInto(f, text); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks value ranges.
func (f *File) Validate() error {
	checks := []struct {
		ok   bool
		name string
		want string
	}{
		{f.Window.Width > 0 && f.Window.Height > 0, "Window.Width/Height", "positive"},
		{f.Window.TargetFPS > 0, "Window.TargetFPS", "positive"},
		{f.Camera.Device >= 0, "Camera.Device", "non-negative"},
		{f.Camera.Width > 0 && f.Camera.Height > 0, "Camera.Width/Height", "positive"},
		{f.Camera.FPS > 0, "Camera.FPS", "positive"},
		{f.Detector.MaxHands >= 1 && f.Detector.MaxHands <= 2, "Detector.MaxHands", "1 or 2"},
		{unit(f.Detector.MinDetectionConfidence), "Detector.MinDetectionConfidence", "in [0,1]"},
		{unit(f.Detector.MinTrackingConfidence), "Detector.MinTrackingConfidence", "in [0,1]"},
		{f.Detector.ModelComplexity == 0 || f.Detector.ModelComplexity == 1, "Detector.ModelComplexity", "0 or 1"},
		{f.Tracking.PinchThreshold > 0, "Tracking.PinchThreshold", "positive"},
		{f.Tracking.StaleAfterMs >= 0, "Tracking.StaleAfterMs", "non-negative"},
		{f.Scene.ParticleCount >= 0, "Scene.ParticleCount", "non-negative"},
		{f.Scene.MinSize > 0 && f.Scene.MinSize < f.Scene.MaxSize, "Scene.MinSize/MaxSize", "0 < MinSize < MaxSize"},
		{f.Interaction.GrabDistance > 0, "Interaction.GrabDistance", "positive"},
		{f.Interaction.Smoothing > 0 && f.Interaction.Smoothing <= 1, "Interaction.Smoothing", "in (0,1]"},
		{f.Interaction.ThrowDamping >= 0, "Interaction.ThrowDamping", "non-negative"},
		{f.Physics.Friction > 0 && f.Physics.Friction <= 1, "Physics.Friction", "in (0,1]"},
		{f.Physics.BounceEnergy >= 0 && f.Physics.BounceEnergy <= 1, "Physics.BounceEnergy", "in [0,1]"},
		{f.Physics.BoundsX > 0 && f.Physics.BoundsY > 0 && f.Physics.BoundsZ > 0, "Physics.Bounds", "positive"},
		{!f.Server.Enabled || f.Server.Addr != "", "Server.Addr", "set when the server is enabled"},
		{unit(f.Audio.Volume), "Audio.Volume", "in [0,1]"},
		{f.Store.Path != "", "Store.Path", "set"},
	}

	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s must be %s", ErrInvalid, c.name, c.want)
		}
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// RenderConfig returns the window settings.
func (f *File) RenderConfig() render.Config {
	return render.Config{
		Width:     f.Window.Width,
		Height:    f.Window.Height,
		Title:     f.Window.Title,
		TargetFPS: f.Window.TargetFPS,
	}
}

// CaptureConfig returns the camera settings.
func (f *File) CaptureConfig() capture.Config {
	return capture.Config{
		DeviceID: f.Camera.Device,
		Width:    f.Camera.Width,
		Height:   f.Camera.Height,
		FPS:      f.Camera.FPS,
	}
}

// DetectorConfig returns the landmark model settings.
func (f *File) DetectorConfig() detector.Config {
	return detector.Config{
		MaxHands:        f.Detector.MaxHands,
		MinConfidence:   f.Detector.MinDetectionConfidence,
		MinTrackingConf: f.Detector.MinTrackingConfidence,
		ModelComplexity: f.Detector.ModelComplexity,
		ScriptPath:      f.Detector.Script,
	}
}

// TrackingConfig returns the tracking adapter settings.
func (f *File) TrackingConfig() tracking.Config {
	return tracking.Config{
		PinchThreshold: f.Tracking.PinchThreshold,
		StaleAfter:     time.Duration(f.Tracking.StaleAfterMs) * time.Millisecond,
	}
}

// SceneConfig returns the scene settings.
func (f *File) SceneConfig() scene.Config {
	cfg := scene.DefaultConfig()
	cfg.ParticleCount = f.Scene.ParticleCount
	cfg.MinSize = f.Scene.MinSize
	cfg.MaxSize = f.Scene.MaxSize
	return cfg
}

// InteractionConfig returns the grab settings.
func (f *File) InteractionConfig() interaction.Config {
	cfg := interaction.DefaultConfig()
	cfg.GrabDistance = f.Interaction.GrabDistance
	cfg.Smoothing = f.Interaction.Smoothing
	cfg.ThrowDamping = f.Interaction.ThrowDamping
	return cfg
}

// PhysicsConfig returns the physics settings.
func (f *File) PhysicsConfig() physics.Config {
	cfg := physics.DefaultConfig()
	cfg.Gravity = f.Physics.Gravity
	cfg.Friction = f.Physics.Friction
	cfg.BounceEnergy = f.Physics.BounceEnergy
	cfg.Bounds = mgl64.Vec3{f.Physics.BoundsX, f.Physics.BoundsY, f.Physics.BoundsZ}
	return cfg
}

// AudioConfig returns the cue settings.
func (f *File) AudioConfig() audio.Config {
	return audio.Config{Enabled: f.Audio.Enabled, Volume: f.Audio.Volume}
}
