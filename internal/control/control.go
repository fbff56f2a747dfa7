// Package control carries user commands from input surfaces (window keys,
// HTTP, tray) to the drawing loop.
package control

// Command is a user request handled at the next tick boundary.
type Command int

const (
	// Quit ends the drawing loop after saving the canvas.
	Quit Command = iota + 1
	// Clear erases the canvas.
	Clear
)

func (c Command) String() string {
	switch c {
	case Quit:
		return "quit"
	case Clear:
		return "clear"
	default:
		return "unknown"
	}
}

// FromKey maps a key code returned by the display window to a command.
func FromKey(key int) (Command, bool) {
	if key < 0 {
		return 0, false
	}
	switch key & 0xFF {
	case 'q', 'Q', 27: // Esc
		return Quit, true
	case 'c', 'C':
		return Clear, true
	}
	return 0, false
}

// DefaultQueueSize is the number of commands buffered between ticks.
const DefaultQueueSize = 16

// Queue is a buffered command channel. Any number of goroutines may Send;
// only the drawing loop calls Drain.
type Queue struct {
	ch chan Command
}

// NewQueue creates a queue buffering up to size commands.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Command, size)}
}

// Send enqueues c without blocking. It reports false when the queue is full.
func (q *Queue) Send(c Command) bool {
	select {
	case q.ch <- c:
		return true
	default:
		return false
	}
}

// Drain returns all pending commands in arrival order.
func (q *Queue) Drain() []Command {
	var cmds []Command
	for {
		select {
		case c := <-q.ch:
			cmds = append(cmds, c)
		default:
			return cmds
		}
	}
}
