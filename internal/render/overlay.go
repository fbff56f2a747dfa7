// Package render draws the on-screen annotations over composited frames.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/history"
	"github.com/ayusman/airdraw/internal/mode"
)

// Layout defaults.
const (
	GraphHeight  = 100
	GraphMargin  = 10
	GraphUnit    = 10
	CursorRadius = 10
	PanelOpacity = 0.3
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

// statusPanel is the darkened box behind the status text.
var statusPanel = image.Rect(10, 10, 400, 120)

// Status is the per-tick information shown in the status panel.
type Status struct {
	Mode  mode.Mode
	Count int
}

// Mirror flips the frame horizontally in place, producing a selfie view.
func Mirror(frame *gocv.Mat) {
	gocv.Flip(*frame, frame, 1)
}

// Hand draws the landmark skeleton. A nil set draws nothing.
func Hand(frame *gocv.Mat, set *detector.LandmarkSet) {
	if set == nil {
		return
	}

	for _, c := range detector.Connections {
		a, b := set[c[0]], set[c[1]]
		gocv.Line(frame, image.Pt(a.X, a.Y), image.Pt(b.X, b.Y), white, 2)
	}
	for _, lm := range set {
		gocv.Circle(frame, image.Pt(lm.X, lm.Y), 4, red, -1)
	}
}

// Cursor marks the pen position.
func Cursor(frame *gocv.Mat, at image.Point, c color.RGBA) {
	gocv.Circle(frame, at, CursorRadius, c, -1)
}

// Graph draws the finger-count trend along the bottom of the frame.
func Graph(frame *gocv.Mat, h *history.Tracker) {
	width, height := frame.Cols(), frame.Rows()
	top := height - GraphHeight - GraphMargin
	baseline := top + GraphHeight

	gocv.Rectangle(frame, image.Rect(0, top, width, height-GraphMargin), black, -1)

	for _, seg := range h.Graph(width, GraphUnit) {
		gocv.Line(frame, seg.From.Add(image.Pt(0, baseline)), seg.To.Add(image.Pt(0, baseline)), green, 2)
	}
}

// StatusPanel draws the mode, instructions and finger count.
func StatusPanel(frame *gocv.Mat, s Status) {
	darken(frame, statusPanel, 1-PanelOpacity)

	statusColor, statusText := red, "Drawing Mode: OFF"
	if s.Mode == mode.Drawing {
		statusColor, statusText = green, "Drawing Mode: ON"
	}

	gocv.PutText(frame, statusText, image.Pt(20, 40), gocv.FontHersheySimplex, 1, statusColor, 2)
	gocv.PutText(frame, "1 Finger: Start Drawing", image.Pt(20, 70), gocv.FontHersheySimplex, 0.7, white, 2)
	gocv.PutText(frame, "2 Fingers: Stop Drawing", image.Pt(20, 100), gocv.FontHersheySimplex, 0.7, white, 2)
	gocv.PutText(frame, `Press "q" to quit`, image.Pt(frame.Cols()-200, 30), gocv.FontHersheySimplex, 0.7, white, 2)
	gocv.PutText(frame, fmt.Sprintf("Fingers: %d", s.Count), image.Pt(20, 130), gocv.FontHersheySimplex, 1, white, 2)
}

// darken scales the pixels inside r by factor, clipped to the frame.
func darken(frame *gocv.Mat, r image.Rectangle, factor float32) {
	r = r.Intersect(image.Rect(0, 0, frame.Cols(), frame.Rows()))
	if r.Empty() {
		return
	}

	roi := frame.Region(r)
	defer roi.Close()
	roi.MultiplyFloat(factor)
}
