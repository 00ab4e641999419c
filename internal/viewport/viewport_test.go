package viewport

import (
	"math/rand"
	"testing"
)

func TestCenterClampsAtOrigin(t *testing.T) {
	v := New(2048, 800, 600)
	v.Center(100, 100)

	if v.OffsetX != 0 {
		t.Errorf("Expected offsetX 0, got %v", v.OffsetX)
	}
	if v.OffsetY != 0 {
		t.Errorf("Expected offsetY 0, got %v", v.OffsetY)
	}
}

func TestCenterClampsAtFarEdge(t *testing.T) {
	v := New(2048, 800, 600)
	v.Center(2000, 2040)

	if v.OffsetX != 2048-800 {
		t.Errorf("Expected offsetX %v, got %v", 2048-800, v.OffsetX)
	}
	if v.OffsetY != 2048-600 {
		t.Errorf("Expected offsetY %v, got %v", 2048-600, v.OffsetY)
	}
}

func TestCenterUnclamped(t *testing.T) {
	v := New(2048, 800, 600)
	v.Center(1000, 700)

	if v.OffsetX != 600 || v.OffsetY != 400 {
		t.Errorf("Expected offset (600, 400), got (%v, %v)", v.OffsetX, v.OffsetY)
	}
}

func TestOffsetAlwaysWithinWorld(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const world = 2048.0

	for i := 0; i < 2000; i++ {
		w := float64(1 + rng.Intn(2048))
		h := float64(1 + rng.Intn(2048))
		x := rng.Float64()*4096 - 1024
		y := rng.Float64()*4096 - 1024

		v := New(world, w, h)
		v.Center(x, y)

		if v.OffsetX < 0 || v.OffsetX > world-w {
			t.Fatalf("offsetX %v out of [0, %v] for pos %v width %v", v.OffsetX, world-w, x, w)
		}
		if v.OffsetY < 0 || v.OffsetY > world-h {
			t.Fatalf("offsetY %v out of [0, %v] for pos %v height %v", v.OffsetY, world-h, y, h)
		}
	}
}

func TestViewportLargerThanWorld(t *testing.T) {
	v := New(500, 800, 600)
	v.Center(250, 250)

	if v.OffsetX != 0 || v.OffsetY != 0 {
		t.Errorf("Expected offset (0, 0), got (%v, %v)", v.OffsetX, v.OffsetY)
	}
}

func TestResizeReclampsAroundLastCenter(t *testing.T) {
	v := New(2048, 800, 600)
	v.Center(1900, 1000)

	if !v.Resize(400, 600) {
		t.Fatal("Expected resize to report a change")
	}
	if v.OffsetX != 1648 {
		t.Errorf("Expected offsetX 1648, got %v", v.OffsetX)
	}
	if v.Resize(400, 600) {
		t.Error("Expected same-size resize to report no change")
	}
}

func TestTransformsRoundTrip(t *testing.T) {
	v := New(2048, 800, 600)
	v.Center(1000, 1000)

	sx, sy := v.WorldToScreen(1010, 990)
	if sx != 410 || sy != 290 {
		t.Errorf("Expected screen (410, 290), got (%v, %v)", sx, sy)
	}
	wx, wy := v.ScreenToWorld(sx, sy)
	if wx != 1010 || wy != 990 {
		t.Errorf("Expected world (1010, 990), got (%v, %v)", wx, wy)
	}
}

func TestContains(t *testing.T) {
	v := New(2048, 800, 600)
	v.Center(1000, 1000)

	cases := []struct {
		x, y, margin float64
		want         bool
	}{
		{1000, 1000, 0, true},
		{600, 700, 0, true},
		{590, 700, 0, false},
		{590, 700, 16, true},
		{1400, 1300, 0, true},
		{1420, 1300, 16, false},
	}
	for _, c := range cases {
		if got := v.Contains(c.x, c.y, c.margin); got != c.want {
			t.Errorf("Contains(%v, %v, %v): expected %v, got %v", c.x, c.y, c.margin, c.want, got)
		}
	}
}
