// Package tracking turns per-frame hand landmarks into the hand samples that
// drive cursors, grabbing and proximity glow.
package tracking

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/handgrab/internal/detector"
)

// DefaultPinchThreshold is the thumb-to-index distance, in normalized landmark
// units, below which a hand counts as pinching.
const DefaultPinchThreshold = 0.1

// Hand identifies a hand from the user's point of view.
type Hand int

const (
	Left Hand = iota
	Right
)

// Hands lists both hands in processing order.
var Hands = [...]Hand{Left, Right}

func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseHand converts "left" or "right" back into a Hand.
func ParseHand(s string) (Hand, bool) {
	switch s {
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

// FromHandedness maps a model handedness label to the user's hand. The camera
// image is mirrored relative to the user, so "Left" is the user's right hand.
func FromHandedness(label string) (Hand, bool) {
	switch label {
	case detector.HandednessLeft:
		return Right, true
	case detector.HandednessRight:
		return Left, true
	}
	return 0, false
}

// Sample is one hand's pose for one frame, in normalized input space.
type Sample struct {
	Palm          mgl64.Vec3
	Thumb         mgl64.Vec3
	Index         mgl64.Vec3
	PinchPoint    mgl64.Vec3
	PinchDistance float64
	Pinching      bool
	Score         float64
}

// palmLandmarks are averaged to approximate the hand center.
var palmLandmarks = []int{detector.Wrist, detector.ThumbTip, detector.IndexTip, detector.MiddleTip}

// Extract computes the sample for one detected hand. It returns false when any
// landmark it reads is NaN or infinite; such a hand is treated as not detected.
func Extract(lm *detector.HandLandmarks, pinchThreshold float64) (Sample, bool) {
	if !lm.Finite(palmLandmarks...) {
		return Sample{}, false
	}

	var palm mgl64.Vec3
	for _, i := range palmLandmarks {
		palm = palm.Add(vec(lm.Points[i]))
	}
	palm = palm.Mul(1.0 / float64(len(palmLandmarks)))

	thumb := vec(lm.Points[detector.ThumbTip])
	index := vec(lm.Points[detector.IndexTip])
	distance := thumb.Sub(index).Len()

	return Sample{
		Palm:          palm,
		Thumb:         thumb,
		Index:         index,
		PinchPoint:    thumb.Add(index).Mul(0.5),
		PinchDistance: distance,
		Pinching:      IsPinch(distance, pinchThreshold),
		Score:         lm.Score,
	}, true
}

// IsPinch reports whether a thumb-to-index distance is a pinch. The comparison
// is strict: a distance equal to the threshold is not a pinch.
func IsPinch(distance, threshold float64) bool {
	return distance < threshold
}

func vec(p detector.Point3D) mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}
