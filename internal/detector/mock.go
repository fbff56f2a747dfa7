package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	calls    int
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
	m.sequence = nil
}

// SetSequence scripts the result of successive Detect calls. Once the
// sequence is exhausted Detect returns no hands.
func (m *MockDetector) SetSequence(seq [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = seq
	m.hands = nil
	m.calls = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if m.sequence != nil {
		if call >= len(m.sequence) {
			return nil, nil
		}
		return m.sequence[call], nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset geometry. The hand faces the camera in a mirrored (selfie) feed
// with the thumb on the left, so an abducted thumb tip sits left of its IP
// joint. Curled fingertips fold below their PIP joint.
const (
	presetMCPY       = 0.62
	presetPIPY       = 0.52
	presetDIPUpY     = 0.44
	presetTipUpY     = 0.37
	presetDIPDownY   = 0.58
	presetTipDownY   = 0.60
	presetThumbIPX   = 0.36
	presetThumbOutX  = 0.30
	presetThumbFoldX = 0.42
)

// PoseLandmarks builds a right hand with the given fingers extended,
// ordered thumb, index, middle, ring, pinky.
func PoseLandmarks(thumb, index, middle, ring, pinky bool) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.52, Y: 0.80, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.76, Z: -0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.40, Y: 0.71, Z: -0.02}
	landmarks.Points[ThumbIP] = Point3D{X: presetThumbIPX, Y: 0.67, Z: -0.02}
	if thumb {
		landmarks.Points[ThumbTip] = Point3D{X: presetThumbOutX, Y: 0.63, Z: -0.03}
	} else {
		landmarks.Points[ThumbTip] = Point3D{X: presetThumbFoldX, Y: 0.68, Z: -0.04}
	}

	fingers := []struct {
		mcp      int
		x        float64
		extended bool
	}{
		{IndexMCP, 0.44, index},
		{MiddleMCP, 0.50, middle},
		{RingMCP, 0.56, ring},
		{PinkyMCP, 0.62, pinky},
	}

	for _, f := range fingers {
		landmarks.Points[f.mcp] = Point3D{X: f.x, Y: presetMCPY, Z: 0.0}
		landmarks.Points[f.mcp+1] = Point3D{X: f.x, Y: presetPIPY, Z: -0.01}
		if f.extended {
			landmarks.Points[f.mcp+2] = Point3D{X: f.x, Y: presetDIPUpY, Z: -0.01}
			landmarks.Points[f.mcp+3] = Point3D{X: f.x, Y: presetTipUpY, Z: -0.01}
		} else {
			landmarks.Points[f.mcp+2] = Point3D{X: f.x, Y: presetDIPDownY, Z: -0.04}
			landmarks.Points[f.mcp+3] = Point3D{X: f.x, Y: presetTipDownY, Z: -0.03}
		}
	}

	return landmarks
}

// FistLandmarks returns a closed fist: no fingers extended.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(false, false, false, false, false)
}

// PointingLandmarks returns a hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return PoseLandmarks(false, true, false, false, false)
}

// PeaceLandmarks returns a hand with the index and middle fingers extended.
func PeaceLandmarks() HandLandmarks {
	return PoseLandmarks(false, true, true, false, false)
}

// ThumbsUpLandmarks returns a hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return PoseLandmarks(true, false, false, false, false)
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks(true, true, true, true, true)
}
