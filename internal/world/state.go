// Package world mirrors the server-authoritative world: the players, the
// avatar definitions they reference, and the decoded avatar images.
//
// State has a single writer. It is only touched from the client's update
// loop and carries no locks.
package world

import (
	"sort"

	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/render"
)

type imageStatus int

const (
	imagePending imageStatus = iota
	imageReady
	imageFailed
)

type imageEntry struct {
	status imageStatus
	img    render.Image
}

// State is the client's copy of the world
type State struct {
	localID protocol.PlayerID
	joined  bool

	players map[protocol.PlayerID]*protocol.Player
	order   []protocol.PlayerID // draw and hit-test order

	avatars map[string]*protocol.Avatar
	images  map[string]*imageEntry
}

// New creates an empty world
func New() *State {
	return &State{
		players: make(map[protocol.PlayerID]*protocol.Player),
		avatars: make(map[string]*protocol.Avatar),
		images:  make(map[string]*imageEntry),
	}
}

// Load replaces the world with a join snapshot. Players are ordered by id.
// It returns the image refs that have not been requested yet.
func (s *State) Load(join protocol.JoinAccepted) []string {
	s.localID = join.PlayerID
	s.joined = true
	s.players = make(map[protocol.PlayerID]*protocol.Player, len(join.Players))
	s.order = s.order[:0]

	for id, p := range join.Players {
		s.players[id] = &p
		s.order = append(s.order, id)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })

	names := make([]string, 0, len(join.Avatars))
	for name := range join.Avatars {
		names = append(names, name)
	}
	sort.Strings(names)

	var refs []string
	for _, name := range names {
		refs = append(refs, s.addAvatar(join.Avatars[name])...)
	}
	return refs
}

// AddPlayer inserts or replaces one player. The avatar is registered when its
// name is unseen; a known avatar keeps its first definition. It returns the
// image refs that have not been requested yet.
func (s *State) AddPlayer(p protocol.Player, a protocol.Avatar) []string {
	if _, exists := s.players[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.players[p.ID] = &p
	return s.addAvatar(a)
}

func (s *State) addAvatar(a protocol.Avatar) []string {
	if a.Name == "" {
		return nil
	}
	if _, known := s.avatars[a.Name]; known {
		return nil
	}
	s.avatars[a.Name] = &a
	return s.RequestImages(a.Refs())
}

// RequestImages marks refs as pending and returns those not seen before
func (s *State) RequestImages(refs []string) []string {
	var fresh []string
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, seen := s.images[ref]; seen {
			continue
		}
		s.images[ref] = &imageEntry{status: imagePending}
		fresh = append(fresh, ref)
	}
	return fresh
}

// ApplyUpdates merges partial player records field by field. Updates for
// unknown ids are ignored. It reports whether the local player's position
// changed.
func (s *State) ApplyUpdates(updates map[protocol.PlayerID]protocol.PlayerUpdate) (localMoved bool) {
	for id, u := range updates {
		p, ok := s.players[id]
		if !ok {
			continue
		}
		oldX, oldY := p.X, p.Y
		merge(p, u)
		if id == s.localID && (p.X != oldX || p.Y != oldY) {
			localMoved = true
		}
	}
	return localMoved
}

func merge(p *protocol.Player, u protocol.PlayerUpdate) {
	if u.X != nil {
		p.X = *u.X
	}
	if u.Y != nil {
		p.Y = *u.Y
	}
	if u.Facing != nil {
		p.Facing = *u.Facing
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.AnimationFrame != nil {
		p.AnimationFrame = *u.AnimationFrame
	}
}

// Remove deletes a player. It reports whether the player existed.
func (s *State) Remove(id protocol.PlayerID) bool {
	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Joined reports whether a join snapshot has been loaded
func (s *State) Joined() bool {
	return s.joined
}

// LocalID returns the id assigned to this client
func (s *State) LocalID() protocol.PlayerID {
	return s.localID
}

// Local returns the local player
func (s *State) Local() (*protocol.Player, bool) {
	return s.Player(s.localID)
}

// Player looks up a player by id. The returned record must not be modified.
func (s *State) Player(id protocol.PlayerID) (*protocol.Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Players returns all players in world order. The records must not be modified.
func (s *State) Players() []*protocol.Player {
	out := make([]*protocol.Player, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.players[id])
	}
	return out
}

// Len returns the number of players
func (s *State) Len() int {
	return len(s.players)
}

// Avatar looks up an avatar definition by name
func (s *State) Avatar(name string) (*protocol.Avatar, bool) {
	a, ok := s.avatars[name]
	return a, ok
}

// StoreImage records a decoded image for ref
func (s *State) StoreImage(ref string, img render.Image) {
	s.images[ref] = &imageEntry{status: imageReady, img: img}
}

// FailImage records that ref could not be loaded; it is not requested again
func (s *State) FailImage(ref string) {
	s.images[ref] = &imageEntry{status: imageFailed}
}

// Image returns the decoded image for ref when it is ready
func (s *State) Image(ref string) (render.Image, bool) {
	e, ok := s.images[ref]
	if !ok || e.status != imageReady {
		return nil, false
	}
	return e.img, true
}

// PendingImages returns the number of requested images not yet resolved
func (s *State) PendingImages() int {
	n := 0
	for _, e := range s.images {
		if e.status == imagePending {
			n++
		}
	}
	return n
}
