// Package minimap draws a scaled overview of the whole world in the top-right
// corner of the screen.
package minimap

import (
	"image/color"

	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/render"
	"chosenoffset.com/plaza/internal/viewport"
)

var (
	backgroundColor = color.RGBA{10, 14, 20, 180}
	borderColor     = color.RGBA{90, 100, 120, 255}
	viewColor       = color.RGBA{240, 240, 240, 200}
	playerColor     = color.RGBA{110, 170, 255, 255}
	localColor      = color.RGBA{255, 210, 60, 255}
)

// Minimap maps the world onto a fixed-size square
type Minimap struct {
	Size    int // edge length in pixels
	Margin  int // gap to the screen edges
	Visible bool

	worldSize   float64
	screenWidth int
}

// New creates a visible mini-map
func New(worldSize float64, size, margin int) *Minimap {
	return &Minimap{
		Size:      size,
		Margin:    margin,
		Visible:   true,
		worldSize: worldSize,
	}
}

// SetScreenWidth anchors the map to the right edge
func (m *Minimap) SetScreenWidth(width int) {
	m.screenWidth = width
}

// Toggle flips visibility
func (m *Minimap) Toggle() {
	m.Visible = !m.Visible
}

// Origin returns the top-left pixel of the map
func (m *Minimap) Origin() (x, y float64) {
	return float64(m.screenWidth - m.Size - m.Margin), float64(m.Margin)
}

// Map converts a world position to a screen pixel inside the map
func (m *Minimap) Map(wx, wy float64) (sx, sy float64) {
	ox, oy := m.Origin()
	scale := m.scale()
	return ox + wx*scale, oy + wy*scale
}

func (m *Minimap) scale() float64 {
	if m.worldSize <= 0 {
		return 0
	}
	return float64(m.Size) / m.worldSize
}

// Draw renders the world border, the viewport rectangle and one dot per
// player. The local player's dot is highlighted.
func (m *Minimap) Draw(r render.Renderer, dst render.Image, view *viewport.Viewport, players []*protocol.Player, local protocol.PlayerID) {
	if !m.Visible {
		return
	}
	ox, oy := m.Origin()
	size := float32(m.Size)
	r.FillRect(dst, float32(ox), float32(oy), size, size, backgroundColor)
	r.StrokeRect(dst, float32(ox), float32(oy), size, size, 1, borderColor)

	vx, vy := m.Map(view.OffsetX, view.OffsetY)
	scale := m.scale()
	r.StrokeRect(dst, float32(vx), float32(vy), float32(view.Width*scale), float32(view.Height*scale), 1, viewColor)

	var localPlayer *protocol.Player
	for _, p := range players {
		if p.ID == local {
			localPlayer = p
			continue
		}
		x, y := m.Map(p.X, p.Y)
		r.FillCircle(dst, float32(x), float32(y), 2, playerColor)
	}
	// local dot on top
	if localPlayer != nil {
		x, y := m.Map(localPlayer.X, localPlayer.Y)
		r.FillCircle(dst, float32(x), float32(y), 3, localColor)
	}
}
