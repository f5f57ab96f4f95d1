package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm.
// Thumb and index tips are far apart, so the hand is not pinching.
// The hand is labelled "Right" as seen by the camera.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: HandednessRight,
		Score:      0.95,
	}

	// Wrist at base
	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// PinchLandmarks returns a preset hand whose palm center (the mean of wrist,
// thumb tip, index tip and middle tip) sits exactly at (x, y, 0) and whose
// thumb and index tips touch. The handedness label is taken as given.
func PinchLandmarks(handedness string, x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: handedness,
		Score:      0.92,
	}

	// The four palm-center landmarks are placed symmetrically around (x, y)
	// so that their average is exact.
	landmarks.Points[Wrist] = Point3D{X: x, Y: y + 0.12, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: x + 0.01, Y: y - 0.04, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: x - 0.01, Y: y - 0.04, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: x, Y: y - 0.04, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: x + 0.05, Y: y + 0.09, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: x + 0.06, Y: y + 0.05, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: x + 0.04, Y: y, Z: 0.0}

	landmarks.Points[IndexMCP] = Point3D{X: x + 0.03, Y: y + 0.04, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: x + 0.02, Y: y, Z: -0.01}
	landmarks.Points[IndexDIP] = Point3D{X: x, Y: y - 0.02, Z: -0.01}

	landmarks.Points[MiddleMCP] = Point3D{X: x, Y: y + 0.04, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: x - 0.005, Y: y, Z: -0.01}
	landmarks.Points[MiddleDIP] = Point3D{X: x - 0.005, Y: y - 0.02, Z: -0.01}

	landmarks.Points[RingMCP] = Point3D{X: x - 0.03, Y: y + 0.04, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: x - 0.03, Y: y + 0.01, Z: -0.01}
	landmarks.Points[RingDIP] = Point3D{X: x - 0.03, Y: y - 0.01, Z: -0.01}
	landmarks.Points[RingTip] = Point3D{X: x - 0.03, Y: y - 0.02, Z: -0.01}

	landmarks.Points[PinkyMCP] = Point3D{X: x - 0.06, Y: y + 0.05, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: x - 0.06, Y: y + 0.02, Z: -0.01}
	landmarks.Points[PinkyDIP] = Point3D{X: x - 0.06, Y: y, Z: -0.01}
	landmarks.Points[PinkyTip] = Point3D{X: x - 0.06, Y: y - 0.01, Z: -0.01}

	return landmarks
}
