// Package canvas holds the persistent ink layer drawn by the user and
// composites it onto live frames.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// Default pen settings.
const (
	DefaultThickness = 5
)

// DefaultColor is blue. gocv maps color.RGBA onto BGR pixels.
var DefaultColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}

var (
	// ErrEmptyFrame is returned when blending an empty or mismatched frame.
	ErrEmptyFrame = errors.New("frame is empty or does not match canvas size")
	// ErrWriteFailed is returned when the canvas image cannot be written.
	ErrWriteFailed = errors.New("failed to write canvas image")
)

// Pen describes stroke appearance.
type Pen struct {
	Color     color.RGBA
	Thickness int
}

// DefaultPen returns the pen used when none is configured.
func DefaultPen() Pen {
	return Pen{Color: DefaultColor, Thickness: DefaultThickness}
}

// markerRadius is the radius of the dot drawn on pen-down.
func (p Pen) markerRadius() int {
	r := p.Thickness / 2
	if r < 1 {
		r = 1
	}
	return r
}

// Canvas is a frame-sized BGR buffer that accumulates strokes. It is only
// cleared by Clear. A Canvas is not safe for concurrent use; the pipeline
// owns it and mutates it once per tick.
type Canvas struct {
	mat    gocv.Mat
	width  int
	height int
}

// New allocates a zeroed canvas of the given size.
func New(width, height int) *Canvas {
	return &Canvas{
		mat:    gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3),
		width:  width,
		height: height,
	}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Mat exposes the underlying buffer for read-only use such as encoding.
func (c *Canvas) Mat() gocv.Mat { return c.mat }

// AppendSegment extends the current stroke to cur. With no previous point
// it only stamps a filled marker at cur (pen-down); otherwise it draws one
// line segment from prev to cur. It returns cur, the next previous point.
func (c *Canvas) AppendSegment(prev *image.Point, cur image.Point, pen Pen) image.Point {
	if prev == nil {
		gocv.Circle(&c.mat, cur, pen.markerRadius(), pen.Color, -1)
		return cur
	}

	gocv.Line(&c.mat, *prev, cur, pen.Color, pen.Thickness)
	return cur
}

// Mask returns a single-channel mask that is non-zero wherever any canvas
// channel is non-zero. The caller must close it.
func (c *Canvas) Mask() gocv.Mat {
	blank := gocv.NewMat()
	defer blank.Close()

	zero := gocv.NewScalar(0, 0, 0, 0)
	gocv.InRangeWithScalar(c.mat, zero, zero, &blank)

	mask := gocv.NewMat()
	gocv.BitwiseNot(blank, &mask)
	return mask
}

// Inked reports whether any pixel has been drawn.
func (c *Canvas) Inked() bool {
	mask := c.Mask()
	defer mask.Close()
	return gocv.CountNonZero(mask) > 0
}

// Blend composites the canvas onto live and returns a new frame the caller
// must close. Pixels with ink become an even mix of live and canvas; every
// other pixel is copied from live unchanged.
func (c *Canvas) Blend(live gocv.Mat) (gocv.Mat, error) {
	if live.Empty() || live.Cols() != c.width || live.Rows() != c.height || live.Type() != c.mat.Type() {
		return gocv.NewMat(), ErrEmptyFrame
	}

	out := live.Clone()

	mask := c.Mask()
	defer mask.Close()

	if gocv.CountNonZero(mask) == 0 {
		return out, nil
	}

	mixed := gocv.NewMat()
	defer mixed.Close()
	gocv.AddWeighted(live, 0.5, c.mat, 0.5, 0, &mixed)

	mixed.CopyToWithMask(&out, mask)
	return out, nil
}

// Clear erases all ink.
func (c *Canvas) Clear() {
	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// Save writes the canvas as an image, creating the parent directory when
// missing. The format follows the file extension.
func (c *Canvas) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if ok := gocv.IMWrite(path, c.mat); !ok {
		return fmt.Errorf("%w: %s", ErrWriteFailed, path)
	}
	return nil
}

// Close releases the buffer.
func (c *Canvas) Close() error {
	return c.mat.Close()
}
