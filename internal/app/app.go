// Package app wires the camera, hand detector, drawing engine and output
// sinks into the airdraw drawing pipeline.
package app

import (
	"errors"
	"log"
	"sync"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/control"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/display"
	"github.com/ayusman/airdraw/internal/history"
	"github.com/ayusman/airdraw/internal/store"
)

// DefaultOutputPath is where the canvas is written when the pipeline stops.
const DefaultOutputPath = "output_images/drawing_progress.png"

// ErrAlreadyRunning is returned by Run when the pipeline is already running.
var ErrAlreadyRunning = errors.New("pipeline is already running")

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store
	CameraID        int
	Width           int
	Height          int
	DisableMirror   bool
	CooldownFrames  int
	HistoryCapacity int
	Pen             canvas.Pen
	OutputPath      string
	Detector        detector.Config
}

// Snapshot is the per-tick state published to observers.
type Snapshot struct {
	SessionID   string `json:"session_id"`
	Tick        int    `json:"tick"`
	Mode        string `json:"mode"`
	Cooldown    int    `json:"cooldown"`
	Count       int    `json:"count"`
	HandPresent bool   `json:"hand_present"`
	Stroking    bool   `json:"stroking"`
	Transition  string `json:"transition,omitempty"`
	History     []int  `json:"history"`
}

// Observer receives a Snapshot after every tick. Observe is called from the
// pipeline goroutine and must not block.
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Snapshot)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Snapshot) { f(s) }

// App is the drawing application.
type App struct {
	config    Config
	camera    capture.Camera
	detector  detector.Detector
	sinks     []display.Sink
	keys      display.KeySource
	observers []Observer
	commands  *control.Queue
	mu        sync.RWMutex
	running   bool
	sessionID string
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.OutputPath == "" {
		config.OutputPath = DefaultOutputPath
	}
	if config.HistoryCapacity <= 0 {
		config.HistoryCapacity = history.DefaultCapacity
	}
	if config.Pen == (canvas.Pen{}) {
		config.Pen = canvas.DefaultPen()
	}
	if config.Detector == (detector.Config{}) {
		config.Detector = detector.DefaultConfig()
	}

	a := &App{
		config: config,
		camera: capture.NewCameraWithOptions(capture.Options{
			DeviceID: config.CameraID,
			Width:    config.Width,
			Height:   config.Height,
		}),
		commands: control.NewQueue(control.DefaultQueueSize),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// Config returns the effective configuration.
func (a *App) Config() Config {
	return a.config
}

// SetCamera replaces the frame source. It must be called before Run.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// AddSink registers a sink for composited frames. The first sink that also
// reports key presses becomes the key source.
func (a *App) AddSink(s display.Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, s)
	if ks, ok := s.(display.KeySource); ok && a.keys == nil {
		a.keys = ks
	}
}

// AddObserver registers an observer for per-tick snapshots.
func (a *App) AddObserver(o Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, o)
}

// Commands returns the command queue drained by the pipeline.
func (a *App) Commands() *control.Queue {
	return a.commands
}

// Send enqueues a command for the next tick. It reports false if the queue
// is full.
func (a *App) Send(c control.Command) bool {
	return a.commands.Send(c)
}

// IsRunning reports whether Run is in progress.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// SessionID returns the id of the current or most recent session.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
