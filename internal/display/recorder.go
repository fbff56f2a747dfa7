package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// Recorder is a Sink that keeps a copy of the most recent frame and counts
// frames shown. It backs headless runs and tests.
type Recorder struct {
	mu     sync.Mutex
	last   gocv.Mat
	shown  int
	closed bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{last: gocv.NewMat()}
}

// Show copies frame.
func (r *Recorder) Show(frame *gocv.Mat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	frame.CopyTo(&r.last)
	r.shown++
	return nil
}

// Shown returns the number of frames shown.
func (r *Recorder) Shown() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown
}

// Last returns a clone of the most recent frame. The caller must close it.
func (r *Recorder) Last() gocv.Mat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last.Clone()
}

// Close releases the stored frame.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.last.Close()
}
