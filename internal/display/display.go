// Package display presents composited frames to the user.
package display

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// DefaultWindowName is the title of the preview window.
const DefaultWindowName = "Hand Tracking Drawing"

// ErrClosed is returned when showing a frame on a closed sink.
var ErrClosed = errors.New("display is closed")

// Sink receives one composited frame per tick. Show must not retain frame
// after it returns.
type Sink interface {
	Show(frame *gocv.Mat) error
	Close() error
}

// KeySource reports the most recent key pressed, or -1 if none.
type KeySource interface {
	PollKey() int
}

var (
	_ Sink      = (*Window)(nil)
	_ KeySource = (*Window)(nil)
)

// Window is a native OpenCV window. OpenCV's highgui must be driven from a
// single goroutine; the pipeline calls Show and PollKey from its tick loop.
type Window struct {
	name   string
	win    *gocv.Window
	mu     sync.Mutex
	closed bool
}

// NewWindow opens a window with the given title.
func NewWindow(name string) *Window {
	if name == "" {
		name = DefaultWindowName
	}
	return &Window{name: name, win: gocv.NewWindow(name)}
}

// Name returns the window title.
func (w *Window) Name() string {
	return w.name
}

// Show displays frame.
func (w *Window) Show(frame *gocv.Mat) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if frame == nil || frame.Empty() {
		return nil
	}
	w.win.IMShow(*frame)
	return nil
}

// PollKey pumps the window event loop for 1ms and returns the key pressed.
func (w *Window) PollKey() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return -1
	}
	return w.win.WaitKey(1)
}

// Close destroys the window. It is safe to call more than once.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.win.Close()
}
