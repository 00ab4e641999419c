package ebiten

import (
	"testing"
)

func TestNewRendererLoadsFont(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}
	if r.faceSource == nil {
		t.Fatal("Expected font source")
	}
	if r.face(1.0) != r.face(1.0) {
		t.Error("Expected faces to be cached per scale")
	}
}
