package capture

import (
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// PreviewQuality is the JPEG quality used for preview frames.
const PreviewQuality = 70

// Preview holds the most recent camera frame as a mirrored JPEG so that it can
// be streamed without a second reader competing for the camera.
type Preview struct {
	mu       sync.RWMutex
	jpeg     []byte
	updated  time.Time
	sequence uint64
}

// NewPreview creates an empty preview slot.
func NewPreview() *Preview {
	return &Preview{}
}

// Update mirrors the frame horizontally, encodes it and replaces the stored image.
// The frame itself is not modified.
func (p *Preview) Update(frame *gocv.Mat) error {
	data, err := EncodeMirrored(frame)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.jpeg = data
	p.updated = time.Now()
	p.sequence++
	return nil
}

// Latest returns the last encoded frame and its sequence number.
// Sequence 0 means no frame has been stored yet.
func (p *Preview) Latest() ([]byte, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jpeg, p.sequence
}

// Updated returns when the preview was last replaced.
func (p *Preview) Updated() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updated
}

// EncodeMirrored flips the frame around the vertical axis, the way a
// front-facing camera preview is shown to the user, and encodes it as JPEG.
func EncodeMirrored(frame *gocv.Mat) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("encode preview: %w", ErrEmptyFrame)
	}

	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(*frame, &mirrored, 1)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mirrored, []int{int(gocv.IMWriteJpegQuality), PreviewQuality})
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	// The native buffer is released on Close, so keep a Go-owned copy.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
