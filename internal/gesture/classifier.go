// Package gesture classifies hand poses from landmark geometry.
package gesture

import "github.com/ayusman/airdraw/internal/detector"

// Finger identifies one digit, in landmark order.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

var fingerNames = [NumFingers]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < 0 || f >= NumFingers {
		return "unknown"
	}
	return fingerNames[f]
}

// fingerTips and fingerBases pair each non-thumb fingertip with the joint it
// is compared against. The thumb is handled separately.
var (
	fingerTips  = [NumFingers]int{detector.ThumbTip, detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	fingerBases = [NumFingers]int{detector.ThumbIP, detector.IndexPIP, detector.MiddlePIP, detector.RingPIP, detector.PinkyPIP}
)

// Extension records which fingers are extended, thumb through pinky.
type Extension [NumFingers]bool

// Count returns the number of extended fingers.
func (e Extension) Count() int {
	n := 0
	for _, extended := range e {
		if extended {
			n++
		}
	}
	return n
}

// Classify reports which fingers of the hand are extended. A nil set
// (no hand) yields an all-false Extension.
//
// The thumb counts as extended when its tip lies left of the IP joint. That
// holds for a mirrored selfie feed; a non-mirrored feed or the opposite hand
// reads differently and is not corrected for here.
//
// The other fingers are extended when the tip is strictly higher in the
// image (smaller y) than the PIP joint.
func Classify(set *detector.LandmarkSet) Extension {
	var ext Extension
	if set == nil {
		return ext
	}

	ext[Thumb] = set[fingerTips[Thumb]].X < set[fingerBases[Thumb]].X

	for f := Index; f < NumFingers; f++ {
		ext[f] = set[fingerTips[f]].Y < set[fingerBases[f]].Y
	}

	return ext
}

// Count returns the number of extended fingers, 0 when no hand is present.
func Count(set *detector.LandmarkSet) int {
	return Classify(set).Count()
}
