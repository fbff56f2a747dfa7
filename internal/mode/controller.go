// Package mode implements the debounced Idle/Drawing switch driven by
// finger counts.
package mode

// DefaultCooldownFrames is the number of ticks after a transition during
// which no further transition is evaluated.
const DefaultCooldownFrames = 15

// Finger counts that drive transitions.
const (
	EnterCount = 1 // Idle -> Drawing, and the only count that strokes
	ExitCount  = 2 // Drawing -> Idle
)

// Mode is the drawing mode.
type Mode int

const (
	Idle Mode = iota
	Drawing
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Transition describes the mode change produced by one update.
type Transition int

const (
	None Transition = iota
	Enter
	Exit
)

func (t Transition) String() string {
	switch t {
	case None:
		return "none"
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// State is the controller state carried from one tick to the next.
// Cooldown is never negative.
type State struct {
	Mode     Mode
	Cooldown int
}

// Update is the outcome of feeding one finger count to the controller.
type Update struct {
	State      State
	Transition Transition

	// StrokePermitted is true only when the resulting mode is Drawing and
	// exactly one finger is up in the same tick.
	StrokePermitted bool
}

// Controller evaluates mode transitions. The zero value uses
// DefaultCooldownFrames.
type Controller struct {
	CooldownFrames int
}

// NewController creates a Controller with the given cooldown. Values less
// than or equal to 0 select DefaultCooldownFrames.
func NewController(cooldownFrames int) Controller {
	if cooldownFrames <= 0 {
		cooldownFrames = DefaultCooldownFrames
	}
	return Controller{CooldownFrames: cooldownFrames}
}

func (c Controller) cooldownFrames() int {
	if c.CooldownFrames <= 0 {
		return DefaultCooldownFrames
	}
	return c.CooldownFrames
}

// Update advances prev by one tick with the given finger count.
//
// While the cooldown is running it is decremented and no transition is
// considered. Otherwise a count of EnterCount switches Idle to Drawing and
// ExitCount switches Drawing to Idle; any transition restarts the cooldown.
// On Exit the caller must drop its previous stroke point.
func (c Controller) Update(prev State, count int) Update {
	next := prev
	transition := None

	if prev.Cooldown > 0 {
		next.Cooldown = prev.Cooldown - 1
	} else {
		switch {
		case prev.Mode == Idle && count == EnterCount:
			next.Mode = Drawing
			transition = Enter
		case prev.Mode == Drawing && count == ExitCount:
			next.Mode = Idle
			transition = Exit
		}
		if transition != None {
			next.Cooldown = c.cooldownFrames()
		}
	}

	if next.Cooldown < 0 {
		next.Cooldown = 0
	}

	return Update{
		State:           next,
		Transition:      transition,
		StrokePermitted: next.Mode == Drawing && count == EnterCount,
	}
}
