package hud

import (
	"strings"
	"testing"
	"time"

	"chosenoffset.com/plaza/internal/render/rendertest"
)

func TestLines(t *testing.T) {
	h := New(nil, 800, 600)
	lines := h.Lines(Status{
		Connection:    "connected",
		Username:      "alice",
		Players:       3,
		HasPosition:   true,
		X:             100.4,
		Y:             250.6,
		BytesReceived: 1536,
		Uptime:        90 * time.Second,
	})

	want := []string{
		"Server: connected",
		"Name: alice",
		"Players: 3",
		"Pos: 100, 251",
		"Received: 1.5 kB",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("Expected line %d to be %q, got %q", i, w, lines[i])
		}
	}
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "Uptime: 1 m") {
		t.Errorf("Expected uptime in minutes, got %q", last)
	}
}

func TestLinesOmitUnknownPosition(t *testing.T) {
	h := New(nil, 800, 600)
	for _, line := range h.Lines(Status{Connection: "connecting"}) {
		if strings.HasPrefix(line, "Pos:") || strings.HasPrefix(line, "Name:") {
			t.Errorf("Expected no %q line", line)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	if got := FormatUptime(0); got != "0s" {
		t.Errorf("Expected '0s', got %q", got)
	}
	if got := FormatUptime(2*time.Hour + 3*time.Minute + 4*time.Second + 500*time.Millisecond); got != "2 h 3 m" {
		t.Errorf("Expected '2 h 3 m', got %q", got)
	}
}

func TestDrawPlacesPanelByConfig(t *testing.T) {
	r := rendertest.NewRenderer()
	screen := r.NewNamedImage("screen", 800, 600)
	h := New(&HUDConfig{Position: "top-right", Opacity: 0.5}, 800, 600)
	h.Draw(r, screen, Status{Connection: "disconnected"})

	rects := r.OpsOf(rendertest.OpFillRect)
	if len(rects) != 1 {
		t.Fatalf("Expected one panel, got %d", len(rects))
	}
	if rects[0].X != 800-200-10 {
		t.Errorf("Expected panel at x=590, got %v", rects[0].X)
	}
	if texts := r.Texts(); texts[0] != "Server: disconnected" {
		t.Errorf("Expected connection line first, got %v", texts)
	}
}
