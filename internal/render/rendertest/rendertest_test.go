package rendertest

import (
	"testing"

	"chosenoffset.com/plaza/internal/render"
)

func TestInputTracksKeyLevels(t *testing.T) {
	var in render.InputManager = NewInput()
	scripted := in.(*Input)

	scripted.Press(render.KeyD)
	if !in.IsKeyPressed(render.KeyD) || !in.IsKeyJustPressed(render.KeyD) {
		t.Fatal("Expected D held and just pressed")
	}

	scripted.Clear()
	if !in.IsKeyPressed(render.KeyD) {
		t.Error("Expected D to stay held across frames")
	}
	if in.IsKeyJustPressed(render.KeyD) {
		t.Error("Expected the press edge to clear between frames")
	}

	scripted.Release(render.KeyD)
	if in.IsKeyPressed(render.KeyD) {
		t.Error("Expected D released")
	}
}

func TestMouseButtonsAreLeftAndRight(t *testing.T) {
	in := NewInput()
	in.MouseJust[render.MouseButtonRight] = true
	if in.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		t.Error("Expected left untouched")
	}
	if !in.IsMouseButtonJustPressed(render.MouseButtonRight) {
		t.Error("Expected right click")
	}
}
