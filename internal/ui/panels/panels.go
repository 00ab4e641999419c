// Package panels draws the toggled overlays (settings and player list) and
// the hover tooltip.
package panels

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/render"
)

var (
	panelColor  = color.RGBA{16, 18, 26, 220}
	borderColor = color.RGBA{80, 90, 120, 255}
	titleColor  = color.RGBA{255, 255, 200, 255}
	textColor   = color.RGBA{210, 210, 210, 255}
	localColor  = color.RGBA{255, 210, 60, 255}
)

const (
	padding    = 10
	lineHeight = 16
)

// box draws a bordered panel
func box(r render.Renderer, dst render.Image, x, y, w, h int) {
	r.FillRect(dst, float32(x), float32(y), float32(w), float32(h), panelColor)
	r.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), 1, borderColor)
}

// widest returns the widest rendered line
func widest(r render.Renderer, lines []string) int {
	w := 0
	for _, l := range lines {
		if lw, _ := r.MeasureText(l, 1.0); lw > w {
			w = lw
		}
	}
	return w
}

// Settings lists key bindings and the effective client settings
type Settings struct {
	Visible bool
	lines   []string
}

// SettingsInfo is what the settings panel shows
type SettingsInfo struct {
	Server           string
	Username         string
	DebounceMS       int
	RepeatIntervalMS int
	FollowIntervalMS int
	Radius           float64
	MaxCommandsPerS  float64
}

// NewSettings creates a hidden settings panel
func NewSettings(info SettingsInfo) *Settings {
	rate := "unlimited"
	if info.MaxCommandsPerS > 0 {
		rate = fmt.Sprintf("%g/s", info.MaxCommandsPerS)
	}
	return &Settings{lines: []string{
		"Move: arrow keys / WASD",
		"Click: walk to point",
		"Right-click: follow player",
		"Tab: players  M: map  Esc: close",
		"",
		"Server: " + info.Server,
		"Name: " + info.Username,
		fmt.Sprintf("Key repeat: %dms after %dms", info.RepeatIntervalMS, info.DebounceMS),
		fmt.Sprintf("Follow: every %dms, radius %g", info.FollowIntervalMS, info.Radius),
		"Move rate cap: " + rate,
	}}
}

// Toggle flips visibility
func (s *Settings) Toggle() {
	s.Visible = !s.Visible
}

// Lines returns the panel body
func (s *Settings) Lines() []string {
	return s.lines
}

// Draw renders the panel centred on the screen
func (s *Settings) Draw(r render.Renderer, dst render.Image, screenW, screenH int) {
	if !s.Visible {
		return
	}
	drawCentered(r, dst, screenW, screenH, "Settings", s.lines, nil)
}

func drawCentered(r render.Renderer, dst render.Image, screenW, screenH int, title string, lines []string, colors []color.Color) {
	w := widest(r, append([]string{title}, lines...)) + 2*padding
	h := (len(lines)+1)*lineHeight + 2*padding + 4
	x := (screenW - w) / 2
	y := (screenH - h) / 2
	box(r, dst, x, y, w, h)

	r.DrawText(dst, title, x+padding, y+padding, titleColor, 1.0)
	cy := y + padding + lineHeight + 4
	for i, line := range lines {
		var clr color.Color = textColor
		if i < len(colors) && colors[i] != nil {
			clr = colors[i]
		}
		r.DrawText(dst, line, x+padding, cy, clr, 1.0)
		cy += lineHeight
	}
}

// PlayerList shows everyone in the world
type PlayerList struct {
	Visible bool
}

// Toggle flips visibility
func (p *PlayerList) Toggle() {
	p.Visible = !p.Visible
}

// Entry is one row of the player list
type Entry struct {
	Name  string
	Local bool
}

// Entries sorts players by username, ignoring case. Ties keep id order.
func Entries(players []*protocol.Player, local protocol.PlayerID) []Entry {
	sorted := make([]*protocol.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Username), strings.ToLower(sorted[j].Username)
		if a != b {
			return a < b
		}
		return sorted[i].ID < sorted[j].ID
	})

	entries := make([]Entry, 0, len(sorted))
	for _, p := range sorted {
		name := p.Username
		if name == "" {
			name = string(p.ID)
		}
		entries = append(entries, Entry{Name: name, Local: p.ID == local})
	}
	return entries
}

// Draw renders the list centred on the screen
func (p *PlayerList) Draw(r render.Renderer, dst render.Image, screenW, screenH int, players []*protocol.Player, local protocol.PlayerID) {
	if !p.Visible {
		return
	}
	entries := Entries(players, local)
	lines := make([]string, len(entries))
	colors := make([]color.Color, len(entries))
	for i, e := range entries {
		lines[i] = e.Name
		if e.Local {
			lines[i] += " (you)"
			colors[i] = localColor
		}
	}
	drawCentered(r, dst, screenW, screenH, fmt.Sprintf("Players (%d)", len(entries)), lines, colors)
}

// Tooltip draws text next to the pointer, kept on screen
func Tooltip(r render.Renderer, dst render.Image, text string, px, py float64, screenW, screenH int) {
	tw, th := r.MeasureText(text, 1.0)
	w, h := tw+2*6, th+2*4
	x, y := int(px)+14, int(py)+14
	if x+w > screenW {
		x = int(px) - w - 4
	}
	if y+h > screenH {
		y = int(py) - h - 4
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	box(r, dst, x, y, w, h)
	r.DrawText(dst, text, x+6, y+4, titleColor, 1.0)
}
