// Package tray provides a system tray interface for running airdraw without
// a preview window.
package tray

import (
	"fmt"
	"sync"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/getlantern/systray"
)

// Tray represents the system tray application. It observes pipeline
// snapshots to keep its status lines current.
type Tray struct {
	onClear   func()
	onPreview func()
	onQuit    func()
	mode      string
	count     int
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuStatus  *systray.MenuItem
	menuFingers *systray.MenuItem
}

var _ app.Observer = (*Tray)(nil)

// New creates a new Tray showing the idle state.
func New() *Tray {
	return &Tray{mode: "idle"}
}

// OnClear sets the callback function to be called when the clear menu item is clicked.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnPreview sets the callback function to be called when the preview menu item is clicked.
func (t *Tray) OnPreview(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPreview = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Stop or the quit menu item is used.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Stop closes the tray, making Run return.
func (t *Tray) Stop() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("airdraw")
	systray.SetTooltip("airdraw gesture drawing")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem(statusTitle(t.mode), "Current drawing mode")
	t.menuStatus.Disable()
	t.menuFingers = systray.AddMenuItem(fingersTitle(t.count), "Fingers raised")
	t.menuFingers.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuClear := systray.AddMenuItem("Clear Canvas", "Erase the drawing")
	menuPreview := systray.AddMenuItem("Open Preview...", "Open the live preview in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Save the drawing and quit")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuClear.ClickedCh:
				t.handle(t.clearCallback())
			case <-menuPreview.ClickedCh:
				t.handle(t.previewCallback())
			case <-menuQuit.ClickedCh:
				t.handle(t.quitCallback())
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func (t *Tray) clearCallback() func() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.onClear
}

func (t *Tray) previewCallback() func() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.onPreview
}

func (t *Tray) quitCallback() func() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.onQuit
}

// handle calls fn outside the lock to prevent deadlocks.
func (t *Tray) handle(fn func()) {
	if fn != nil {
		fn()
	}
}

// Observe updates the status lines. Menu titles are only touched when the
// displayed value changes.
func (t *Tray) Observe(s app.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.Mode != t.mode {
		t.mode = s.Mode
		if t.menuStatus != nil {
			t.menuStatus.SetTitle(statusTitle(s.Mode))
		}
	}
	if s.Count != t.count {
		t.count = s.Count
		if t.menuFingers != nil {
			t.menuFingers.SetTitle(fingersTitle(s.Count))
		}
	}
}

// Status returns the mode and finger count last observed.
func (t *Tray) Status() (mode string, count int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode, t.count
}

func statusTitle(mode string) string {
	if mode == "drawing" {
		return "Drawing: ON"
	}
	return "Drawing: OFF"
}

func fingersTitle(count int) string {
	return fmt.Sprintf("Fingers: %d", count)
}
