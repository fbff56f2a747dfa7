package app

import (
	"image"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/history"
	"github.com/ayusman/airdraw/internal/mode"
)

// State is carried from one tick to the next. Prev is nil whenever no
// stroke is in progress.
type State struct {
	Mode mode.State
	Prev *image.Point
	Tick int
}

// Result describes what happened during one tick.
type Result struct {
	Tick        int
	HandPresent bool
	Extension   gesture.Extension
	Count       int
	Update      mode.Update
	// Point is the index fingertip, valid when HandPresent.
	Point image.Point
	// Drew is set when the canvas was written this tick.
	Drew bool
	// PenDown is set when Drew started a new stroke.
	PenDown bool
}

// Engine applies one tick of hand input to the canvas, mode and history.
// It owns no goroutines; the pipeline calls Step from its tick loop.
type Engine struct {
	controller mode.Controller
	pen        canvas.Pen
	canvas     *canvas.Canvas
	history    *history.Tracker
}

// NewEngine creates an Engine drawing onto cv and recording into h.
func NewEngine(controller mode.Controller, pen canvas.Pen, cv *canvas.Canvas, h *history.Tracker) *Engine {
	return &Engine{
		controller: controller,
		pen:        pen,
		canvas:     cv,
		history:    h,
	}
}

// Canvas returns the canvas the engine draws on.
func (e *Engine) Canvas() *canvas.Canvas {
	return e.canvas
}

// History returns the finger-count history.
func (e *Engine) History() *history.Tracker {
	return e.history
}

// Step advances s by one tick. A nil hand counts as zero fingers, ends any
// stroke in progress and leaves the mode state untouched.
func (e *Engine) Step(s State, hand *detector.LandmarkSet) (State, Result) {
	next := State{Mode: s.Mode, Tick: s.Tick + 1}
	res := Result{
		Tick:   next.Tick,
		Update: mode.Update{State: s.Mode},
	}

	if hand != nil {
		res.HandPresent = true
		res.Extension = gesture.Classify(hand)
		res.Count = res.Extension.Count()

		tip := hand[detector.IndexTip]
		res.Point = image.Pt(tip.X, tip.Y)

		res.Update = e.controller.Update(s.Mode, res.Count)
		next.Mode = res.Update.State

		prev := s.Prev
		if res.Update.Transition == mode.Exit {
			prev = nil
		}

		if res.Update.StrokePermitted {
			res.PenDown = prev == nil
			cur := e.canvas.AppendSegment(prev, res.Point, e.pen)
			next.Prev = &cur
			res.Drew = true
		}
	}

	e.history.Append(res.Count)
	return next, res
}
