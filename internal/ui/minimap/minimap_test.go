package minimap

import (
	"testing"

	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/render/rendertest"
	"chosenoffset.com/plaza/internal/viewport"
)

func TestMapIsProportionalToWorld(t *testing.T) {
	m := New(2048, 160, 10)
	m.SetScreenWidth(1000)

	ox, oy := m.Origin()
	if ox != 830 || oy != 10 {
		t.Fatalf("Expected origin (830, 10), got (%v, %v)", ox, oy)
	}

	cases := []struct {
		wx, wy, sx, sy float64
	}{
		{0, 0, 830, 10},
		{2048, 2048, 990, 170},
		{1024, 512, 910, 50},
	}
	for _, c := range cases {
		sx, sy := m.Map(c.wx, c.wy)
		if sx != c.sx || sy != c.sy {
			t.Errorf("Map(%v, %v): expected (%v, %v), got (%v, %v)", c.wx, c.wy, c.sx, c.sy, sx, sy)
		}
	}
}

func TestDrawMarksViewportAndPlayers(t *testing.T) {
	m := New(2048, 128, 10)
	m.SetScreenWidth(800)
	view := viewport.New(2048, 512, 256)
	view.Center(1024, 1024)

	players := []*protocol.Player{
		{ID: "me", X: 1024, Y: 1024},
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 2048, Y: 0},
	}

	r := rendertest.NewRenderer()
	m.Draw(r, r.NewNamedImage("screen", 800, 600), view, players, "me")

	strokes := r.OpsOf(rendertest.OpStrokeRect)
	if len(strokes) != 2 {
		t.Fatalf("Expected border and viewport rectangles, got %d", len(strokes))
	}
	vr := strokes[1]
	// offset (768, 896) at scale 1/16
	if vr.X != 662+48 || vr.Y != 10+56 || vr.W != 32 || vr.H != 16 {
		t.Errorf("Expected viewport rect (710, 66, 32, 16), got (%v, %v, %v, %v)", vr.X, vr.Y, vr.W, vr.H)
	}

	dots := r.OpsOf(rendertest.OpFillCircle)
	if len(dots) != 3 {
		t.Fatalf("Expected 3 dots, got %d", len(dots))
	}
	if last := dots[2]; last.Color != localColor {
		t.Errorf("Expected local dot drawn last, got %v", last.Color)
	}
}

func TestHiddenDrawsNothing(t *testing.T) {
	m := New(2048, 128, 10)
	m.Toggle()

	r := rendertest.NewRenderer()
	m.Draw(r, r.NewNamedImage("screen", 800, 600), viewport.New(2048, 800, 600), nil, "")
	if len(r.Ops()) != 0 {
		t.Errorf("Expected no ops, got %d", len(r.Ops()))
	}
}
