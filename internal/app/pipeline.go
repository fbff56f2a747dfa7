package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/control"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/display"
	"github.com/ayusman/airdraw/internal/history"
	"github.com/ayusman/airdraw/internal/mode"
	"github.com/ayusman/airdraw/internal/render"
	"github.com/ayusman/airdraw/internal/store"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// Reasons recorded when a session ends.
const (
	EndQuit         = "quit"
	EndSourceClosed = "source_closed"
	EndCanceled     = "canceled"
)

// run holds everything owned by one invocation of Run. Only the pipeline
// goroutine touches it.
type run struct {
	camera    capture.Camera
	detector  detector.Detector
	sinks     []display.Sink
	keys      display.KeySource
	observers []Observer

	sessionID string
	recorded  bool
	engine    *Engine
	state     State
	strokes   int
	clears    int
}

// Run executes the drawing loop until a Quit command, context
// cancellation, or the frame source failing. Each tick:
//
//  1. Drain pending commands
//  2. Read and mirror a frame
//  3. Detect the first hand and step the engine
//  4. Draw the hand and cursor, blend the canvas
//  5. Draw the trend graph and status panel
//  6. Show the frame, poll keys, notify observers
//
// On exit the canvas is written to OutputPath and every resource is
// released. The returned error joins the save error with any teardown
// errors; a frame source failure alone is not an error.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	r := &run{
		camera:    a.camera,
		detector:  a.detector,
		sinks:     append([]display.Sink(nil), a.sinks...),
		keys:      a.keys,
		observers: append([]Observer(nil), a.observers...),
		sessionID: uuid.NewString(),
	}
	a.running = true
	a.sessionID = r.sessionID
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	if err := r.camera.Open(); err != nil {
		return errors.Join(fmt.Errorf("open camera: %w", err), a.teardown(r, ""))
	}

	log.Println("Drawing pipeline started")

	reason := a.loop(ctx, r)
	return a.teardown(r, reason)
}

func (a *App) loop(ctx context.Context, r *run) string {
	for {
		select {
		case <-ctx.Done():
			return EndCanceled
		default:
		}

		for _, cmd := range a.commands.Drain() {
			switch cmd {
			case control.Quit:
				return EndQuit
			case control.Clear:
				if r.engine != nil {
					r.engine.Canvas().Clear()
					r.clears++
					log.Println("Canvas cleared")
				}
			}
		}

		frame, err := r.camera.ReadFrame()
		if err != nil {
			log.Printf("Frame source ended: %v", err)
			return EndSourceClosed
		}

		a.tick(r, frame)
		frame.Close()
	}
}

// tick processes one frame.
func (a *App) tick(r *run, frame *gocv.Mat) {
	if r.engine == nil {
		a.start(r, frame.Cols(), frame.Rows())
	}

	if !a.config.DisableMirror {
		render.Mirror(frame)
	}

	var hand *detector.LandmarkSet
	if hands, err := r.detector.Detect(frame); err != nil {
		log.Printf("Error detecting hands: %v", err)
	} else {
		hand = detector.FirstHand(hands, frame.Cols(), frame.Rows())
	}

	from := r.state.Mode.Mode
	var res Result
	r.state, res = r.engine.Step(r.state, hand)

	if res.PenDown {
		r.strokes++
	}
	if res.Update.Transition != mode.None {
		log.Printf("Switched to %s mode", r.state.Mode.Mode)
		a.recordTransition(r, res, from)
	}

	render.Hand(frame, hand)
	if res.Drew {
		render.Cursor(frame, res.Point, a.config.Pen.Color)
	}

	out, err := r.engine.Canvas().Blend(*frame)
	if err != nil {
		log.Printf("Error blending canvas: %v", err)
		out.Close()
		out = frame.Clone()
	}
	defer out.Close()

	render.Graph(&out, r.engine.History())
	render.StatusPanel(&out, render.Status{Mode: r.state.Mode.Mode, Count: res.Count})

	for _, s := range r.sinks {
		if err := s.Show(&out); err != nil {
			log.Printf("Error showing frame: %v", err)
		}
	}

	if r.keys != nil {
		if cmd, ok := control.FromKey(r.keys.PollKey()); ok {
			a.commands.Send(cmd)
		}
	}

	if len(r.observers) > 0 {
		snap := r.snapshot(res)
		for _, o := range r.observers {
			o.Observe(snap)
		}
	}
}

// start allocates the canvas at the size of the first frame and opens the
// session record.
func (a *App) start(r *run, width, height int) {
	r.engine = NewEngine(
		mode.NewController(a.config.CooldownFrames),
		a.config.Pen,
		canvas.New(width, height),
		history.New(a.config.HistoryCapacity),
	)

	if a.config.Store == nil {
		return
	}

	err := a.config.Store.Sessions().Create(&store.Session{
		ID:     r.sessionID,
		Width:  width,
		Height: height,
	})
	if err != nil {
		log.Printf("Error recording session: %v", err)
		return
	}
	r.recorded = true
}

func (a *App) recordTransition(r *run, res Result, from mode.Mode) {
	if !r.recorded {
		return
	}

	err := a.config.Store.Events().Create(&store.ModeEvent{
		SessionID:   r.sessionID,
		Tick:        res.Tick,
		FromMode:    from.String(),
		ToMode:      res.Update.State.Mode.String(),
		FingerCount: res.Count,
	})
	if err != nil {
		log.Printf("Error recording mode change: %v", err)
	}
}

func (r *run) snapshot(res Result) Snapshot {
	s := Snapshot{
		SessionID:   r.sessionID,
		Tick:        res.Tick,
		Mode:        r.state.Mode.Mode.String(),
		Cooldown:    r.state.Mode.Cooldown,
		Count:       res.Count,
		HandPresent: res.HandPresent,
		Stroking:    res.Drew,
		History:     r.engine.History().Values(),
	}
	if res.Update.Transition != mode.None {
		s.Transition = res.Update.Transition.String()
	}
	return s
}

// teardown saves the canvas, closes the session record and releases every
// resource, collecting all errors.
func (a *App) teardown(r *run, reason string) error {
	var errs []error

	if r.engine != nil {
		status, output := store.SessionSaved, a.config.OutputPath
		if err := r.engine.Canvas().Save(output); err != nil {
			log.Printf("Error saving drawing: %v", err)
			errs = append(errs, err)
			status, output = store.SessionFailed, ""
		} else {
			log.Printf("Drawing progress saved as: %s", output)
		}

		if r.recorded {
			err := a.config.Store.Sessions().Finish(r.sessionID, store.Summary{
				Ticks:      r.state.Tick,
				Strokes:    r.strokes,
				Clears:     r.clears,
				OutputPath: output,
				Status:     status,
				EndReason:  reason,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("finish session: %w", err))
			}
		}
	}

	if err := r.camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	if r.detector != nil {
		if err := r.detector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detector: %w", err))
		}
	}
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sink: %w", err))
		}
	}
	if r.engine != nil {
		if err := r.engine.Canvas().Close(); err != nil {
			errs = append(errs, fmt.Errorf("close canvas: %w", err))
		}
	}

	if reason != "" {
		log.Println("Drawing pipeline stopped")
	}
	return errors.Join(errs...)
}
