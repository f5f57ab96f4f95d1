// Package audio plays short tones when a particle is grabbed or released.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/ayusman/handgrab/internal/interaction"
)

const sampleRate = beep.SampleRate(48000)

// Config holds the cue settings.
type Config struct {
	Enabled bool
	// Volume is a linear gain in [0,1].
	Volume float64
}

// DefaultConfig returns enabled cues at half volume.
func DefaultConfig() Config {
	return Config{Enabled: true, Volume: 0.5}
}

// Cues mixes grab and release tones into the speaker.
type Cues struct {
	mu          sync.Mutex
	config      Config
	mixer       *beep.Mixer
	initialized bool
}

// NewCues creates cues. Nothing is played until Initialize succeeds.
func NewCues(config Config) *Cues {
	return &Cues{config: config, mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. It is a no-op when cues are disabled or
// already initialized.
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized || !c.config.Enabled {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to open speaker: %w", err)
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Handle plays the cue for an interaction event.
func (c *Cues) Handle(e interaction.Event) {
	c.Play(Cue(e.Kind, c.config.Volume))
}

// Play adds a stream to the mix. It does nothing before Initialize.
func (c *Cues) Play(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || s == nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Close stops every playing cue.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	c.initialized = false
}

// Cue builds the tone for an event kind: a rising pair of notes for a grab
// and a single falling note for a release.
func Cue(kind interaction.EventKind, volume float64) beep.Streamer {
	switch kind {
	case interaction.EventGrab:
		first := Fade(Tone(659.25, 60*time.Millisecond, sampleRate), 60*time.Millisecond, 5*time.Millisecond, 20*time.Millisecond, sampleRate)
		second := Fade(Tone(880, 90*time.Millisecond, sampleRate), 90*time.Millisecond, 5*time.Millisecond, 60*time.Millisecond, sampleRate)
		return withVolume(beep.Seq(first, second), volume)
	case interaction.EventRelease:
		note := Fade(Tone(440, 120*time.Millisecond, sampleRate), 120*time.Millisecond, 5*time.Millisecond, 100*time.Millisecond, sampleRate)
		return withVolume(note, volume)
	default:
		return nil
	}
}
