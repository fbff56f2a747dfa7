// Package history keeps a bounded record of recent finger counts for the
// trend graph.
package history

import "image"

// DefaultCapacity is the number of ticks shown in the graph.
const DefaultCapacity = 50

// Tracker is a fixed-capacity FIFO of finger counts backed by a ring buffer.
// Appending to a full tracker evicts the oldest count.
type Tracker struct {
	buf   []int
	start int
	size  int
}

// New creates a Tracker holding at most capacity counts. Values less than
// or equal to 0 select DefaultCapacity.
func New(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{buf: make([]int, capacity)}
}

// Append records a count, evicting the oldest one when full.
func (t *Tracker) Append(count int) {
	if t.size < len(t.buf) {
		t.buf[(t.start+t.size)%len(t.buf)] = count
		t.size++
		return
	}

	t.buf[t.start] = count
	t.start = (t.start + 1) % len(t.buf)
}

// Len returns the number of stored counts.
func (t *Tracker) Len() int { return t.size }

// Cap returns the capacity.
func (t *Tracker) Cap() int { return len(t.buf) }

// At returns the i-th count, oldest first.
func (t *Tracker) At(i int) int {
	if i < 0 || i >= t.size {
		panic("history: index out of range")
	}
	return t.buf[(t.start+i)%len(t.buf)]
}

// Values returns a copy of the stored counts, oldest first.
func (t *Tracker) Values() []int {
	out := make([]int, t.size)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Segment is one line of the trend graph.
type Segment struct {
	From image.Point
	To   image.Point
}

// Graph lays the stored counts out as connected segments inside a panel of
// the given width whose baseline is at y = 0. Slot i sits at
// x = i * panelWidth / Cap(); a count rises count*unitScale pixels, so Y is
// negative above the baseline. Len()-1 segments are returned.
func (t *Tracker) Graph(panelWidth, unitScale int) []Segment {
	if t.size < 2 {
		return nil
	}

	slot := float64(panelWidth) / float64(len(t.buf))
	point := func(i int) image.Point {
		return image.Pt(int(float64(i)*slot), -t.At(i)*unitScale)
	}

	segments := make([]Segment, 0, t.size-1)
	for i := 1; i < t.size; i++ {
		segments = append(segments, Segment{From: point(i - 1), To: point(i)})
	}
	return segments
}
