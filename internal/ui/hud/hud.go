// Package hud draws the status panel: connection state, identity, player
// count, position, traffic and session uptime.
package hud

import (
	"fmt"
	"image/color"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"chosenoffset.com/plaza/internal/render"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// Status is the data shown in the panel
type Status struct {
	Connection    string // connecting, connected, disconnected
	Username      string
	Players       int
	HasPosition   bool
	X, Y          float64
	BytesReceived int64
	Uptime        time.Duration
	Following     string // username of the follow target, if any
}

// HUDConfig defines where and how the panel is drawn
type HUDConfig struct {
	Position string  // "top-left", "top-right", "bottom-left", "bottom-right"
	Opacity  float64 // Background opacity (0-1)
}

// DefaultConfig returns the default panel placement
func DefaultConfig() *HUDConfig {
	return &HUDConfig{
		Position: "top-left",
		Opacity:  0.7,
	}
}

// HUD manages the status panel
type HUD struct {
	config       *HUDConfig
	screenWidth  int
	screenHeight int

	panelWidth  int
	lineHeight  int
	panelHeight int
}

// New creates a new HUD with the given configuration
func New(config *HUDConfig, screenWidth, screenHeight int) *HUD {
	if config == nil {
		config = DefaultConfig()
	}
	return &HUD{
		config:       config,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
		panelWidth:   200,
		lineHeight:   16,
	}
}

// SetScreenSize updates the screen dimensions
func (h *HUD) SetScreenSize(width, height int) {
	h.screenWidth = width
	h.screenHeight = height
}

// Lines formats the status into the panel's text lines
func (h *HUD) Lines(s Status) []string {
	lines := []string{
		"Server: " + s.Connection,
	}
	if s.Username != "" {
		lines = append(lines, "Name: "+s.Username)
	}
	lines = append(lines, fmt.Sprintf("Players: %d", s.Players))
	if s.HasPosition {
		lines = append(lines, fmt.Sprintf("Pos: %.0f, %.0f", s.X, s.Y))
	}
	if s.Following != "" {
		lines = append(lines, "Following: "+s.Following)
	}
	lines = append(lines,
		"Received: "+humanize.Bytes(uint64(s.BytesReceived)),
		"Uptime: "+FormatUptime(s.Uptime),
	)
	return lines
}

// FormatUptime renders a duration as its two largest units
func FormatUptime(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d <= 0 {
		return "0s"
	}
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

// Draw renders the panel
func (h *HUD) Draw(r render.Renderer, screen render.Image, s Status) {
	lines := h.Lines(s)
	h.panelHeight = 16 + len(lines)*h.lineHeight

	x, y := h.calculatePosition()
	h.drawPanel(r, screen, x, y)

	currentY := y + 8
	for i, line := range lines {
		clr := color.RGBA{200, 200, 200, 255}
		if i == 0 {
			clr = connectionColor(s.Connection)
		}
		r.DrawText(screen, line, x+8, currentY, clr, 1.0)
		currentY += h.lineHeight
	}
}

func connectionColor(state string) color.RGBA {
	switch state {
	case "connected":
		return color.RGBA{120, 220, 120, 255}
	case "disconnected":
		return color.RGBA{230, 100, 100, 255}
	default:
		return color.RGBA{230, 200, 100, 255}
	}
}

// calculatePosition returns the top-left corner of the panel
func (h *HUD) calculatePosition() (int, int) {
	padding := 10

	switch h.config.Position {
	case "top-right":
		return h.screenWidth - h.panelWidth - padding, padding
	case "bottom-left":
		return padding, h.screenHeight - h.panelHeight - padding
	case "bottom-right":
		return h.screenWidth - h.panelWidth - padding, h.screenHeight - h.panelHeight - padding
	default: // "top-left"
		return padding, padding
	}
}

// drawPanel draws the semi-transparent background panel
func (h *HUD) drawPanel(r render.Renderer, screen render.Image, x, y int) {
	alpha := uint8(h.config.Opacity * 255)
	r.FillRect(screen, float32(x), float32(y), float32(h.panelWidth), float32(h.panelHeight), color.RGBA{20, 20, 30, alpha})
	r.StrokeRect(screen, float32(x), float32(y), float32(h.panelWidth), float32(h.panelHeight), 1, color.RGBA{60, 60, 80, alpha})
}
