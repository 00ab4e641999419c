// Package viewport keeps the camera centred on the local player and clamped
// to the world.
package viewport

// Viewport is the visible world sub-rectangle
type Viewport struct {
	OffsetX, OffsetY float64
	Width, Height    float64

	worldSize        float64
	centerX, centerY float64
}

// New creates a viewport of the given screen size over a square world.
// It starts centred on the middle of the world.
func New(worldSize, width, height float64) *Viewport {
	v := &Viewport{worldSize: worldSize, Width: width, Height: height}
	v.Center(worldSize/2, worldSize/2)
	return v
}

// Center recomputes the offset around a world position
func (v *Viewport) Center(x, y float64) {
	v.centerX, v.centerY = x, y
	v.OffsetX = clamp(x-v.Width/2, v.worldSize-v.Width)
	v.OffsetY = clamp(y-v.Height/2, v.worldSize-v.Height)
}

// Resize changes the screen size and re-clamps around the last centre.
// It reports whether the size changed.
func (v *Viewport) Resize(width, height float64) bool {
	if width == v.Width && height == v.Height {
		return false
	}
	v.Width, v.Height = width, height
	v.Center(v.centerX, v.centerY)
	return true
}

// clamp limits an offset to [0, limit]. A negative limit means the viewport
// is wider than the world, in which case the offset is 0.
func clamp(offset, limit float64) float64 {
	if offset > limit {
		offset = limit
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// WorldSize returns the world edge length
func (v *Viewport) WorldSize() float64 {
	return v.worldSize
}

// WorldToScreen maps a world position into screen space
func (v *Viewport) WorldToScreen(x, y float64) (sx, sy float64) {
	return x - v.OffsetX, y - v.OffsetY
}

// ScreenToWorld maps a screen position into world space
func (v *Viewport) ScreenToWorld(sx, sy float64) (x, y float64) {
	return sx + v.OffsetX, sy + v.OffsetY
}

// Contains reports whether a world position lies within the visible
// rectangle grown by margin on every side.
func (v *Viewport) Contains(x, y, margin float64) bool {
	return x >= v.OffsetX-margin && x <= v.OffsetX+v.Width+margin &&
		y >= v.OffsetY-margin && y <= v.OffsetY+v.Height+margin
}
