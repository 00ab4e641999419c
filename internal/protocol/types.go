// Package protocol defines the JSON messages exchanged with the world server:
// the inbound world snapshots and deltas, and the outbound player commands.
package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Facing is the direction a player sprite faces
type Facing string

const (
	FacingNorth Facing = "north"
	FacingSouth Facing = "south"
	FacingEast  Facing = "east"
	FacingWest  Facing = "west"
)

// Valid reports whether f is one of the four facings
func (f Facing) Valid() bool {
	switch f {
	case FacingNorth, FacingSouth, FacingEast, FacingWest:
		return true
	}
	return false
}

// UnmarshalText rejects unknown facings so a bad snapshot is discarded whole
func (f *Facing) UnmarshalText(b []byte) error {
	v := Facing(b)
	if !v.Valid() {
		return fmt.Errorf("unknown facing %q", string(b))
	}
	*f = v
	return nil
}

// Direction is a movement direction in a move command
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

// PlayerID identifies a player. Servers send it as a string or a number;
// both decode to the same string form.
type PlayerID string

// UnmarshalJSON accepts JSON strings and numbers
func (id *PlayerID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = PlayerID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("player id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("player id %s: %w", n, err)
	}
	*id = PlayerID(n.String())
	return nil
}

// Player is a full player record
type Player struct {
	ID             PlayerID `json:"id"`
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	Facing         Facing   `json:"facing"`
	Avatar         string   `json:"avatar"`
	Username       string   `json:"username"`
	AnimationFrame int      `json:"animationFrame"`
}

// PlayerUpdate is a partial player record; nil fields were not sent
type PlayerUpdate struct {
	X              *float64 `json:"x,omitempty"`
	Y              *float64 `json:"y,omitempty"`
	Facing         *Facing  `json:"facing,omitempty"`
	Avatar         *string  `json:"avatar,omitempty"`
	Username       *string  `json:"username,omitempty"`
	AnimationFrame *int     `json:"animationFrame,omitempty"`
}

// Frames holds the image refs of an avatar, one sequence per drawn facing.
// West reuses East mirrored.
type Frames struct {
	North []string `json:"north"`
	South []string `json:"south"`
	East  []string `json:"east"`
}

// Avatar is a named bundle of sprite frames shared by every player using it
type Avatar struct {
	Name   string `json:"name"`
	Frames Frames `json:"frames"`
}

// Refs returns every image ref of the avatar
func (a *Avatar) Refs() []string {
	refs := make([]string, 0, len(a.Frames.North)+len(a.Frames.South)+len(a.Frames.East))
	refs = append(refs, a.Frames.North...)
	refs = append(refs, a.Frames.South...)
	refs = append(refs, a.Frames.East...)
	return refs
}

// Sprite selects the frame ref for a facing. West selects the East sequence
// with mirror set. The frame index is clamped into the sequence; ok is false
// when the sequence is empty.
func (a *Avatar) Sprite(f Facing, frame int) (ref string, mirror bool, ok bool) {
	var seq []string
	switch f {
	case FacingNorth:
		seq = a.Frames.North
	case FacingEast:
		seq = a.Frames.East
	case FacingWest:
		seq = a.Frames.East
		mirror = true
	default:
		seq = a.Frames.South
	}
	if len(seq) == 0 {
		return "", false, false
	}
	if frame < 0 {
		frame = 0
	}
	if frame > len(seq)-1 {
		frame = len(seq) - 1
	}
	return seq[frame], mirror, true
}
