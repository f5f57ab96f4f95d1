package app

import (
	"log"
	"time"

	"github.com/ayusman/handgrab/internal/capture"
	"github.com/ayusman/handgrab/internal/status"
)

// runPipeline captures and analyses frames at the camera rate until stopCh
// is closed. Every processed frame replaces the adapter's snapshot; the
// render loop picks up whichever one is current.
//
// The ready message is shown after the first frame the detector accepts.
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.Camera().FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	ready := false

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			if a.processFrame() && !ready {
				ready = true
				a.board.Ready(status.MsgReady, a.config.ReadyTimeout)
				log.Println("Hand tracking ready")
			}
		}
	}
}

// processFrame runs one capture and detection pass. It reports whether the
// detector produced a result, even an empty one.
func (a *App) processFrame() bool {
	frame, err := a.Camera().ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return false
	}
	defer frame.Close()

	if err := a.preview.Update(frame); err != nil {
		log.Printf("Error updating preview: %v", err)
	}

	d := a.Detector()
	if d == nil {
		return false
	}
	hands, err := d.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return false
	}

	snap := a.adapter.Ingest(hands)
	if snap.Rejected > 0 {
		log.Printf("Ignored %d hand(s) with unusable landmarks", snap.Rejected)
	}
	return true
}
