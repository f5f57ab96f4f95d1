// Package tray provides a system tray menu for toggling hand tracking and
// following the latest grab.
package tray

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handgrab/internal/interaction"
)

// Tray represents the system tray menu.
type Tray struct {
	onToggle     func(enabled bool)
	onOpenStatus func()
	onQuit       func()
	enabled      bool
	lastEvent    string
	mu           sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastEvent *systray.MenuItem
}

// New creates a new Tray with tracking enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback called when tracking is switched on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenStatus sets the callback for the status page menu item. The item is
// only shown when a callback is set before Start.
func (t *Tray) OnOpenStatus(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenStatus = fn
}

// OnQuit sets the callback called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Start runs the tray event loop on its own locked OS thread. The render
// window owns the main thread, so this is meant for platforms whose tray
// does not require it.
func (t *Tray) Start() {
	go func() {
		runtime.LockOSThread()
		systray.Run(t.onReady, t.onExit)
	}()
}

// Stop ends the tray event loop.
func (t *Tray) Stop() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("handgrab")
	systray.SetTooltip("handgrab hand tracking")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	systray.AddSeparator()

	t.menuLastEvent = systray.AddMenuItem(lastEventTitle(t.lastEvent), "Last grab or release")
	t.menuLastEvent.Disable()
	systray.AddSeparator()

	var menuStatus *systray.MenuItem
	statusCh := make(chan struct{})
	if t.onOpenStatus != nil {
		menuStatus = systray.AddMenuItem("Open Status Page...", "Open the status page in a browser")
		statusCh = menuStatus.ClickedCh
		systray.AddSeparator()
	}
	t.mu.Unlock()

	menuQuit := systray.AddMenuItem("Quit", "Quit handgrab")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-statusCh:
				t.handleOpenStatus()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle flips the tracking state and notifies the callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleOpenStatus handles the status page menu item click.
func (t *Tray) handleOpenStatus() {
	t.mu.RLock()
	callback := t.onOpenStatus
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastEvent shows an interaction event in the menu.
func (t *Tray) SetLastEvent(e interaction.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastEvent = EventLabel(e)
	if t.menuLastEvent != nil {
		t.menuLastEvent.SetTitle(lastEventTitle(t.lastEvent))
	}
}

// LastEvent returns the label of the last event, or "".
func (t *Tray) LastEvent() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastEvent
}

// IsEnabled returns the current tracking state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// EventLabel formats an event for the menu, e.g. "right grab torus #2".
func EventLabel(e interaction.Event) string {
	return fmt.Sprintf("%s %s %s #%d", e.Hand, e.Kind, e.Shape, e.ParticleID)
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking on"
	}
	return "○ Tracking off"
}

func lastEventTitle(label string) string {
	if label == "" {
		return "Last: none"
	}
	return "Last: " + label
}
