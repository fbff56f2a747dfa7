// Package testdata provides scripted hand sequences for pipeline tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/ayusman/airdraw/internal/detector"
)

//go:embed sequences/*.json
var sequencesFS embed.FS

// Step is one or more ticks showing the same pose.
type Step struct {
	// Pose names a preset hand, or "none" for no hand.
	Pose string `json:"pose"`
	// DX and DY shift the pose in normalized coordinates.
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`
	// Repeat is the number of ticks; zero means one.
	Repeat int `json:"repeat,omitempty"`
	// Expect is the drawing mode expected after the step's last tick.
	Expect string `json:"expect,omitempty"`
}

// Sequence is a scripted run of the drawing loop.
type Sequence struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
	// Strokes and Transitions are the totals expected at the end.
	Strokes     int `json:"strokes"`
	Transitions int `json:"transitions"`
}

// Pose returns the preset hand with the given name. "none" returns nil.
func Pose(name string) (*detector.HandLandmarks, error) {
	var h detector.HandLandmarks
	switch name {
	case "none":
		return nil, nil
	case "fist":
		h = detector.FistLandmarks()
	case "pointing":
		h = detector.PointingLandmarks()
	case "peace":
		h = detector.PeaceLandmarks()
	case "thumbs_up":
		h = detector.ThumbsUpLandmarks()
	case "open_palm":
		h = detector.OpenPalmLandmarks()
	default:
		return nil, fmt.Errorf("unknown pose %q", name)
	}
	return &h, nil
}

// Names lists the embedded sequences.
func Names() ([]string, error) {
	entries, err := sequencesFS.ReadDir("sequences")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	return names, nil
}

// LoadSequence loads an embedded sequence by name.
func LoadSequence(name string) (*Sequence, error) {
	data, err := sequencesFS.ReadFile("sequences/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}

	var seq Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("decode sequence %s: %w", name, err)
	}
	return &seq, nil
}

func (s Step) ticks() int {
	if s.Repeat <= 0 {
		return 1
	}
	return s.Repeat
}

// Len returns the number of ticks in the sequence.
func (s *Sequence) Len() int {
	n := 0
	for _, step := range s.Steps {
		n += step.ticks()
	}
	return n
}

// Hands expands the sequence into per-tick detector results, suitable for
// MockDetector.SetSequence.
func (s *Sequence) Hands() ([][]detector.HandLandmarks, error) {
	out := make([][]detector.HandLandmarks, 0, s.Len())
	for i, step := range s.Steps {
		hand, err := Pose(step.Pose)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		var hands []detector.HandLandmarks
		if hand != nil {
			hands = []detector.HandLandmarks{hand.Translate(step.DX, step.DY)}
		}
		for j := 0; j < step.ticks(); j++ {
			out = append(out, hands)
		}
	}
	return out, nil
}

// Expectations maps 1-based tick numbers to the expected mode.
func (s *Sequence) Expectations() map[int]string {
	want := make(map[int]string)
	tick := 0
	for _, step := range s.Steps {
		tick += step.ticks()
		if step.Expect != "" {
			want[tick] = step.Expect
		}
	}
	return want
}
