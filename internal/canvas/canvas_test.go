package canvas

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func pixel(m gocv.Mat, x, y int) [3]uint8 {
	v := m.GetVecbAt(y, x)
	return [3]uint8{v[0], v[1], v[2]}
}

func countInk(t *testing.T, c *Canvas) int {
	t.Helper()
	mask := c.Mask()
	defer mask.Close()
	return gocv.CountNonZero(mask)
}

func TestNew_IsBlank(t *testing.T) {
	c := New(64, 48)
	defer c.Close()

	if c.Width() != 64 || c.Height() != 48 {
		t.Errorf("size = %dx%d, want 64x48", c.Width(), c.Height())
	}
	if c.Inked() {
		t.Error("new canvas should have no ink")
	}
}

func TestAppendSegment_PenDownDrawsMarkerOnly(t *testing.T) {
	c := New(200, 100)
	defer c.Close()

	pen := Pen{Color: color.RGBA{B: 255, A: 255}, Thickness: 6}
	cur := image.Pt(150, 50)

	next := c.AppendSegment(nil, cur, pen)

	if next != cur {
		t.Errorf("returned point = %v, want %v", next, cur)
	}
	if got := pixel(c.Mat(), 150, 50); got != [3]uint8{255, 0, 0} {
		t.Errorf("marker center = %v, want blue", got)
	}

	// Nothing along the path a line from the origin would have taken.
	for _, p := range []image.Point{{10, 3}, {50, 16}, {100, 33}} {
		if got := pixel(c.Mat(), p.X, p.Y); got != [3]uint8{} {
			t.Errorf("pixel %v = %v, want untouched", p, got)
		}
	}

	// A filled disc of radius 3 covers at most a 7x7 box.
	if n := countInk(t, c); n == 0 || n > 49 {
		t.Errorf("ink pixels = %d, want a small marker", n)
	}
}

func TestAppendSegment_DrawsOneSegment(t *testing.T) {
	c := New(200, 100)
	defer c.Close()

	pen := DefaultPen()
	prev := image.Pt(20, 50)
	cur := image.Pt(180, 50)

	next := c.AppendSegment(&prev, cur, pen)
	if next != cur {
		t.Errorf("returned point = %v, want %v", next, cur)
	}

	for _, x := range []int{20, 60, 100, 140, 180} {
		if got := pixel(c.Mat(), x, 50); got == [3]uint8{} {
			t.Errorf("pixel (%d, 50) should be inked", x)
		}
	}

	untouched := []image.Point{{0, 0}, {199, 99}, {100, 10}, {100, 90}, {5, 50}, {195, 50}}
	for _, p := range untouched {
		if got := pixel(c.Mat(), p.X, p.Y); got != [3]uint8{} {
			t.Errorf("pixel %v = %v, want untouched", p, got)
		}
	}
}

func TestAppendSegment_Accumulates(t *testing.T) {
	c := New(100, 100)
	defer c.Close()

	pen := DefaultPen()
	a, b := image.Pt(10, 10), image.Pt(90, 10)
	c.AppendSegment(&a, b, pen)
	first := countInk(t, c)

	d := image.Pt(90, 90)
	c.AppendSegment(&b, d, pen)

	if got := countInk(t, c); got <= first {
		t.Errorf("ink after second segment = %d, want more than %d", got, first)
	}
	if got := pixel(c.Mat(), 50, 10); got == [3]uint8{} {
		t.Error("first segment should persist after drawing the second")
	}
}

func TestBlend(t *testing.T) {
	c := New(80, 60)
	defer c.Close()

	pen := Pen{Color: color.RGBA{R: 40, G: 80, B: 200, A: 255}, Thickness: 3}
	prev := image.Pt(10, 30)
	c.AppendSegment(&prev, image.Pt(70, 30), pen)

	live := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(100, 60, 20, 0), 60, 80, gocv.MatTypeCV8UC3)
	defer live.Close()
	// A distinctive untouched pixel.
	live.SetUCharAt(5, 5*3, 7)
	live.SetUCharAt(5, 5*3+1, 201)
	live.SetUCharAt(5, 5*3+2, 33)

	out, err := c.Blend(live)
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	defer out.Close()

	t.Run("touched pixel is an even mix", func(t *testing.T) {
		// canvas BGR (200, 80, 40), live BGR (100, 60, 20)
		want := [3]uint8{150, 70, 30}
		if got := pixel(out, 40, 30); got != want {
			t.Errorf("blended pixel = %v, want %v", got, want)
		}
	})

	t.Run("untouched pixels pass through", func(t *testing.T) {
		if got := pixel(out, 5, 5); got != [3]uint8{7, 201, 33} {
			t.Errorf("pixel (5,5) = %v, want live value", got)
		}
		if got := pixel(out, 40, 5); got != [3]uint8{100, 60, 20} {
			t.Errorf("pixel (40,5) = %v, want live value", got)
		}
	})

	t.Run("live frame is not modified", func(t *testing.T) {
		if got := pixel(live, 40, 30); got != [3]uint8{100, 60, 20} {
			t.Errorf("live pixel = %v, want unchanged", got)
		}
	})
}

func TestBlend_BlankCanvasIsIdentity(t *testing.T) {
	c := New(32, 24)
	defer c.Close()

	live := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(12, 34, 56, 0), 24, 32, gocv.MatTypeCV8UC3)
	defer live.Close()

	out, err := c.Blend(live)
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	defer out.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(live, out, &diff)
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(diff, &gray, gocv.ColorBGRToGray)

	if n := gocv.CountNonZero(gray); n != 0 {
		t.Errorf("%d pixels differ from the live frame", n)
	}
}

func TestBlend_SizeMismatch(t *testing.T) {
	c := New(32, 24)
	defer c.Close()

	live := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer live.Close()

	out, err := c.Blend(live)
	defer out.Close()
	if !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Blend() error = %v, want ErrEmptyFrame", err)
	}

	empty := gocv.NewMat()
	defer empty.Close()
	out2, err := c.Blend(empty)
	defer out2.Close()
	if !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Blend(empty) error = %v, want ErrEmptyFrame", err)
	}
}

func TestClear(t *testing.T) {
	c := New(50, 50)
	defer c.Close()

	a := image.Pt(5, 5)
	c.AppendSegment(&a, image.Pt(45, 45), DefaultPen())
	c.AppendSegment(nil, image.Pt(10, 40), DefaultPen())
	if !c.Inked() {
		t.Fatal("expected ink before Clear")
	}

	c.Clear()
	if n := countInk(t, c); n != 0 {
		t.Errorf("ink after Clear = %d, want 0", n)
	}

	c.Clear()
	if n := countInk(t, c); n != 0 {
		t.Errorf("ink after second Clear = %d, want 0", n)
	}
}

func TestSave(t *testing.T) {
	t.Run("creates the output directory", func(t *testing.T) {
		c := New(40, 30)
		defer c.Close()
		a := image.Pt(5, 5)
		c.AppendSegment(&a, image.Pt(35, 25), DefaultPen())

		path := filepath.Join(t.TempDir(), "output_images", "drawing_progress.png")
		if err := c.Save(path); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		img := gocv.IMRead(path, gocv.IMReadColor)
		defer img.Close()
		if img.Empty() {
			t.Fatal("saved image could not be read back")
		}
		if img.Cols() != 40 || img.Rows() != 30 {
			t.Errorf("saved size = %dx%d, want 40x30", img.Cols(), img.Rows())
		}
		if got := pixel(img, 20, 15); got == [3]uint8{} {
			t.Error("saved image lost the stroke")
		}
	})

	t.Run("reports an unwritable location", func(t *testing.T) {
		c := New(10, 10)
		defer c.Close()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := c.Save(filepath.Join(blocker, "out.png")); err == nil {
			t.Error("expected error when the output directory cannot be created")
		}
	})
}
