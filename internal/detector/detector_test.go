package detector

import (
	"errors"
	"testing"
)

func TestHandLandmarks_ToPixels(t *testing.T) {
	t.Run("scales and truncates normalized coordinates", func(t *testing.T) {
		hand := HandLandmarks{}
		hand.Points[IndexTip] = Point3D{X: 0.5, Y: 0.25}
		hand.Points[ThumbTip] = Point3D{X: 0.9999, Y: 0.0015}

		set := hand.ToPixels(640, 480)

		if got := set[IndexTip]; got.X != 320 || got.Y != 120 {
			t.Errorf("index tip = (%d, %d), want (320, 120)", got.X, got.Y)
		}
		if got := set[ThumbTip]; got.X != 639 || got.Y != 0 {
			t.Errorf("thumb tip = (%d, %d), want (639, 0)", got.X, got.Y)
		}
	})

	t.Run("indices are stable and ordered", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		set := hand.ToPixels(1280, 720)

		for i, lm := range set {
			if lm.Index != i {
				t.Errorf("landmark %d has index %d", i, lm.Index)
			}
		}
	})

	t.Run("nil hand returns nil", func(t *testing.T) {
		var hand *HandLandmarks
		if set := hand.ToPixels(640, 480); set != nil {
			t.Error("expected nil set for nil hand")
		}
	})
}

func TestFirstHand(t *testing.T) {
	t.Run("no hands", func(t *testing.T) {
		if set := FirstHand(nil, 640, 480); set != nil {
			t.Errorf("expected nil, got %v", set)
		}
	})

	t.Run("uses first hand only", func(t *testing.T) {
		first := PointingLandmarks()
		second := OpenPalmLandmarks().Translate(0.2, 0)

		set := FirstHand([]HandLandmarks{first, second}, 640, 480)
		want := first.ToPixels(640, 480)

		if *set != *want {
			t.Errorf("FirstHand did not return the first hand")
		}
	})
}

func TestHandLandmarks_Translate(t *testing.T) {
	hand := PointingLandmarks()
	moved := hand.Translate(0.1, -0.05)

	for i := 0; i < NumLandmarks; i++ {
		dx := moved.Points[i].X - hand.Points[i].X
		dy := moved.Points[i].Y - hand.Points[i].Y
		if dx < 0.0999 || dx > 0.1001 || dy > -0.0499 || dy < -0.0501 {
			t.Errorf("point %d moved by (%f, %f), want (0.1, -0.05)", i, dx, dy)
		}
	}

	if hand.Points[IndexTip] == moved.Points[IndexTip] {
		t.Error("Translate should not modify the receiver's copy")
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()

		mock.SetHands([]HandLandmarks{PointingLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("plays back a sequence then reports no hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([][]HandLandmarks{
			nil,
			{PointingLandmarks()},
			{PeaceLandmarks(), FistLandmarks()},
		})

		wantLens := []int{0, 1, 2, 0, 0}
		for i, want := range wantLens {
			hands, err := mock.Detect(nil)
			if err != nil {
				t.Fatalf("call %d: unexpected error: %v", i, err)
			}
			if len(hands) != want {
				t.Errorf("call %d: got %d hands, want %d", i, len(hands), want)
			}
		}

		if mock.Calls() != len(wantLens) {
			t.Errorf("Calls() = %d, want %d", mock.Calls(), len(wantLens))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPoseLandmarks(t *testing.T) {
	t.Run("curled fingertips sit below their PIP joint", func(t *testing.T) {
		fist := FistLandmarks()
		for _, tip := range []int{IndexTip, MiddleTip, RingTip, PinkyTip} {
			if fist.Points[tip].Y <= fist.Points[tip-2].Y {
				t.Errorf("tip %d should be below its PIP joint", tip)
			}
		}
		if fist.Points[ThumbTip].X < fist.Points[ThumbIP].X {
			t.Error("folded thumb tip should not be left of the IP joint")
		}
	})

	t.Run("extended fingertips sit above their PIP joint", func(t *testing.T) {
		palm := OpenPalmLandmarks()
		for _, tip := range []int{IndexTip, MiddleTip, RingTip, PinkyTip} {
			if palm.Points[tip].Y >= palm.Points[tip-2].Y {
				t.Errorf("tip %d should be above its PIP joint", tip)
			}
		}
		if palm.Points[ThumbTip].X >= palm.Points[ThumbIP].X {
			t.Error("extended thumb tip should be left of the IP joint")
		}
	})

	t.Run("presets keep handedness and score", func(t *testing.T) {
		for _, hand := range []HandLandmarks{FistLandmarks(), PointingLandmarks(), PeaceLandmarks(), ThumbsUpLandmarks()} {
			if hand.Handedness != "Right" {
				t.Errorf("expected handedness Right, got %s", hand.Handedness)
			}
			if hand.Score < 0.9 {
				t.Errorf("expected score >= 0.9, got %f", hand.Score)
			}
		}
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("decodes hands", func(t *testing.T) {
		line := `{"hands":[{"points":[` + repeatPoint(NumLandmarks) + `],"handedness":"Left","score":0.91}]}` + "\n"

		hands, err := parseResponse([]byte(line))
		if err != nil {
			t.Fatalf("parseResponse() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("got %d hands, want 1", len(hands))
		}
		if hands[0].Handedness != "Left" || hands[0].Score != 0.91 {
			t.Errorf("unexpected hand metadata: %+v", hands[0])
		}
		if hands[0].Points[PinkyTip].X != 0.5 {
			t.Errorf("pinky tip X = %f, want 0.5", hands[0].Points[PinkyTip].X)
		}
	})

	t.Run("drops incomplete hands", func(t *testing.T) {
		line := `{"hands":[{"points":[` + repeatPoint(5) + `]}]}`

		hands, err := parseResponse([]byte(line))
		if err != nil {
			t.Fatalf("parseResponse() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("got %d hands, want 0", len(hands))
		}
	})

	t.Run("reports service errors", func(t *testing.T) {
		if _, err := parseResponse([]byte(`{"error":"model not loaded"}`)); err == nil {
			t.Error("expected error for service error response")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		if _, err := parseResponse([]byte(`{"hands":`)); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}

func repeatPoint(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += `{"x":0.5,"y":0.5,"z":0}`
	}
	return s
}
