// Package detector provides hand detection interfaces and landmark types.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Connections lists the landmark pairs that form the hand skeleton.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Point3D represents a 3D point with x, y, z coordinates.
// X and Y are normalized to [0,1] by the image width and height.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Landmark is a single keypoint in frame pixel space.
type Landmark struct {
	Index int `json:"index"`
	X     int `json:"x"`
	Y     int `json:"y"`
}

// LandmarkSet holds one hand's 21 landmarks in pixel space, ordered by index.
// A nil *LandmarkSet means no hand was detected.
type LandmarkSet [NumLandmarks]Landmark

// ToPixels converts the normalized landmarks into a LandmarkSet for a frame
// of the given size. Coordinates are truncated toward zero.
func (h *HandLandmarks) ToPixels(width, height int) *LandmarkSet {
	if h == nil {
		return nil
	}

	set := &LandmarkSet{}
	for i := 0; i < NumLandmarks; i++ {
		set[i] = Landmark{
			Index: i,
			X:     int(h.Points[i].X * float64(width)),
			Y:     int(h.Points[i].Y * float64(height)),
		}
	}
	return set
}

// Translate returns a copy of the hand shifted by dx, dy in normalized units.
func (h HandLandmarks) Translate(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}

// FirstHand returns the pixel-space landmarks of the first detected hand,
// or nil when hands is empty.
func FirstHand(hands []HandLandmarks, width, height int) *LandmarkSet {
	if len(hands) == 0 {
		return nil
	}
	return hands[0].ToPixels(width, height)
}
