// Package input turns held direction keys into move and stop commands.
//
// A key-down sends one move straight away. While any direction stays held,
// moves repeat every interval once the debounce delay has passed. Releasing
// the last key sends a single stop. Time only advances through Tick, which
// the frame loop calls once per update.
package input

import (
	"time"

	"chosenoffset.com/plaza/internal/protocol"
)

// Commands receives the controller's output
type Commands interface {
	Move(dir protocol.Direction)
	Stop()
}

// priority lists directions from highest to lowest
var priority = [...]protocol.Direction{
	protocol.DirUp,
	protocol.DirDown,
	protocol.DirLeft,
	protocol.DirRight,
}

// Controller is the key-state machine
type Controller struct {
	cmds     Commands
	debounce time.Duration
	interval time.Duration

	pressed map[protocol.Direction]bool

	// repeat sequence; armed is false when no sequence is active
	armed bool
	next  time.Time
}

// NewController creates a controller that sends to cmds
func NewController(cmds Commands, debounce, interval time.Duration) *Controller {
	return &Controller{
		cmds:     cmds,
		debounce: debounce,
		interval: interval,
		pressed:  make(map[protocol.Direction]bool, len(priority)),
	}
}

// KeyDown marks dir as held. A direction that is already held is ignored.
func (c *Controller) KeyDown(dir protocol.Direction, now time.Time) {
	if !dir.Valid() || c.pressed[dir] {
		return
	}
	c.pressed[dir] = true
	top, _ := c.Current()
	c.cmds.Move(top)
	c.rearm(now)
}

// KeyUp marks dir as released
func (c *Controller) KeyUp(dir protocol.Direction, now time.Time) {
	if !c.pressed[dir] {
		return
	}
	c.pressed[dir] = false

	top, ok := c.Current()
	if !ok {
		c.cancel()
		c.cmds.Stop()
		return
	}
	c.cmds.Move(top)
	c.rearm(now)
}

// Tick fires the repeat sequence when it is due. At most one move is sent per
// call; a late tick moves the schedule forward instead of catching up.
func (c *Controller) Tick(now time.Time) {
	if !c.armed || now.Before(c.next) {
		return
	}
	top, ok := c.Current()
	if !ok {
		c.cancel()
		return
	}
	c.cmds.Move(top)

	c.next = c.next.Add(c.interval)
	if !c.next.After(now) {
		c.next = now.Add(c.interval)
	}
}

// Current returns the highest-priority held direction
func (c *Controller) Current() (protocol.Direction, bool) {
	for _, d := range priority {
		if c.pressed[d] {
			return d, true
		}
	}
	return "", false
}

// Pressed reports whether dir is held
func (c *Controller) Pressed(dir protocol.Direction) bool {
	return c.pressed[dir]
}

// Repeating reports whether a repeat sequence is armed
func (c *Controller) Repeating() bool {
	return c.armed
}

func (c *Controller) rearm(now time.Time) {
	c.cancel()
	c.armed = true
	c.next = now.Add(c.debounce + c.interval)
}

func (c *Controller) cancel() {
	c.armed = false
	c.next = time.Time{}
}
