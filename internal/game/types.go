package game

import (
	"chosenoffset.com/plaza/internal/assets"
	"chosenoffset.com/plaza/internal/net"
	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/render"
)

// State is the client lifecycle phase
type State int

const (
	StateLoading State = iota // waiting for the join snapshot
	StatePlaying
)

func (s State) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "loading"
}

// Connection is the server link as seen from the update loop
type Connection interface {
	Poll(fn func(net.Event)) int
	Send(data []byte) bool
	State() net.State
	Stats() net.Stats
}

// AssetSource fetches images in the background
type AssetSource interface {
	Load(ref string)
	Poll(fn func(assets.Result)) int
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// keyBindings maps each direction to the keys that drive it
var keyBindings = []struct {
	Dir  protocol.Direction
	Keys []render.Key
}{
	{protocol.DirUp, []render.Key{render.KeyW, render.KeyUp}},
	{protocol.DirDown, []render.Key{render.KeyS, render.KeyDown}},
	{protocol.DirLeft, []render.Key{render.KeyA, render.KeyLeft}},
	{protocol.DirRight, []render.Key{render.KeyD, render.KeyRight}},
}
