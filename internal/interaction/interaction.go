// Package interaction handles pointer input over the world: hovering players,
// click-to-move and following another player.
package interaction

import (
	"math"
	"time"

	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/viewport"
)

// DefaultRadius is the hit-test and follow-arrival distance in world units
const DefaultRadius = 50

// World is the read side of the world state the layer needs
type World interface {
	Players() []*protocol.Player
	Player(id protocol.PlayerID) (*protocol.Player, bool)
	Local() (*protocol.Player, bool)
}

// Commands receives the layer's output
type Commands interface {
	Move(dir protocol.Direction)
	MoveTo(x, y float64)
	Stop()
}

// Layer tracks the hover and follow targets
type Layer struct {
	world          World
	view           *viewport.Viewport
	cmds           Commands
	radius         float64
	followInterval time.Duration

	pointerX, pointerY float64 // screen space
	hasPointer         bool
	hover              protocol.PlayerID // empty when nothing is hovered

	follow     protocol.PlayerID // empty when not following
	lastFollow time.Time
}

// NewLayer creates an interaction layer
func NewLayer(w World, view *viewport.Viewport, cmds Commands, radius float64, followInterval time.Duration) *Layer {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Layer{
		world:          w,
		view:           view,
		cmds:           cmds,
		radius:         radius,
		followInterval: followInterval,
	}
}

// PointerMoved records the pointer in screen space and recomputes the hover
// target. It reports whether the hover target changed.
func (l *Layer) PointerMoved(sx, sy float64) bool {
	l.pointerX, l.pointerY = sx, sy
	l.hasPointer = true
	return l.Refresh()
}

// Refresh recomputes the hover target for the last pointer position, for when
// players move under a still pointer. It reports whether the target changed.
func (l *Layer) Refresh() bool {
	prev := l.hover
	l.hover = ""
	if l.hasPointer {
		if p, ok := l.hit(l.pointerX, l.pointerY); ok {
			l.hover = p.ID
		}
	}
	return prev != l.hover
}

// hit returns the nearest player within the radius of a screen position.
// Equal distances resolve to the first player in world order.
func (l *Layer) hit(sx, sy float64) (*protocol.Player, bool) {
	wx, wy := l.view.ScreenToWorld(sx, sy)

	var best *protocol.Player
	bestDist := l.radius
	for _, p := range l.world.Players() {
		d := math.Hypot(p.X-wx, p.Y-wy)
		if d <= bestDist && (best == nil || d < bestDist) {
			best, bestDist = p, d
		}
	}
	return best, best != nil
}

// Hover returns the hovered player
func (l *Layer) Hover() (*protocol.Player, bool) {
	if l.hover == "" {
		return nil, false
	}
	return l.world.Player(l.hover)
}

// Pointer returns the last pointer position in screen space
func (l *Layer) Pointer() (sx, sy float64) {
	return l.pointerX, l.pointerY
}

// PrimaryClick moves the local player to the clicked ground position and
// drops any follow target. Clicks on a player are ignored.
func (l *Layer) PrimaryClick(sx, sy float64) {
	if _, onPlayer := l.hit(sx, sy); onPlayer {
		return
	}
	l.ClearFollow()
	wx, wy := l.view.ScreenToWorld(sx, sy)
	l.cmds.MoveTo(wx, wy)
}

// SecondaryClick starts following the clicked player. The local player cannot
// be followed. It reports whether a follow target was set.
func (l *Layer) SecondaryClick(sx, sy float64) bool {
	p, ok := l.hit(sx, sy)
	if !ok {
		return false
	}
	if local, ok := l.world.Local(); ok && local.ID == p.ID {
		return false
	}
	l.follow = p.ID
	l.lastFollow = time.Time{}
	return true
}

// FollowTarget returns the followed player's id
func (l *Layer) FollowTarget() (protocol.PlayerID, bool) {
	return l.follow, l.follow != ""
}

// ClearFollow drops the follow target without sending anything
func (l *Layer) ClearFollow() {
	l.follow = ""
}

// Tick steers toward the follow target. A target that has left is dropped
// silently. Within the radius the local player stops and the target is
// dropped on that tick; otherwise at most one move per follow interval is
// sent along the dominant axis.
func (l *Layer) Tick(now time.Time) {
	if l.follow == "" {
		return
	}
	target, ok := l.world.Player(l.follow)
	if !ok {
		l.follow = ""
		return
	}
	local, ok := l.world.Local()
	if !ok {
		return
	}

	dx, dy := target.X-local.X, target.Y-local.Y
	if math.Hypot(dx, dy) < l.radius {
		l.follow = ""
		l.cmds.Stop()
		return
	}
	if !l.lastFollow.IsZero() && now.Sub(l.lastFollow) < l.followInterval {
		return
	}
	l.lastFollow = now
	l.cmds.Move(dominant(dx, dy))
}

// dominant picks the axis with the larger displacement. Ties go horizontal.
func dominant(dx, dy float64) protocol.Direction {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx > 0 {
			return protocol.DirRight
		}
		return protocol.DirLeft
	}
	if dy > 0 {
		return protocol.DirDown
	}
	return protocol.DirUp
}
