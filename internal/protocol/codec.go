package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned (wrapped) for payloads that cannot be applied
var ErrMalformed = errors.New("malformed message")

// Inbound action tags
const (
	ActionJoinGame     = "join_game"
	ActionPlayerJoined = "player_joined"
	ActionPlayersMoved = "players_moved"
	ActionPlayerLeft   = "player_left"
	ActionMove         = "move"
	ActionStop         = "stop"
)

// Message is one decoded inbound message. The concrete type is one of
// JoinAccepted, JoinRejected, PlayerJoined, PlayersMoved, PlayerLeft or Unknown.
type Message interface {
	Action() string
}

// JoinAccepted carries the full world on a successful join
type JoinAccepted struct {
	PlayerID PlayerID
	Players  map[PlayerID]Player
	Avatars  map[string]Avatar
}

// JoinRejected carries the server's reason for refusing the join
type JoinRejected struct {
	Error string
}

// PlayerJoined announces one new player and its avatar
type PlayerJoined struct {
	Player Player
	Avatar Avatar
}

// PlayersMoved carries partial updates keyed by player id
type PlayersMoved struct {
	Players map[PlayerID]PlayerUpdate
}

// PlayerLeft announces a departure
type PlayerLeft struct {
	PlayerID PlayerID
}

// Unknown is any message whose action tag is not recognised
type Unknown struct {
	Name string
}

func (JoinAccepted) Action() string { return ActionJoinGame }
func (JoinRejected) Action() string { return ActionJoinGame }
func (PlayerJoined) Action() string { return ActionPlayerJoined }
func (PlayersMoved) Action() string { return ActionPlayersMoved }
func (PlayerLeft) Action() string   { return ActionPlayerLeft }
func (u Unknown) Action() string    { return u.Name }

type envelope struct {
	Action   string          `json:"action"`
	Success  *bool           `json:"success"`
	Error    string          `json:"error"`
	PlayerID PlayerID        `json:"playerId"`
	Players  json.RawMessage `json:"players"`
	Avatars  json.RawMessage `json:"avatars"`
	Player   *Player         `json:"player"`
	Avatar   *Avatar         `json:"avatar"`
}

// Decode parses and validates one inbound payload
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Action == "" {
		return nil, fmt.Errorf("%w: missing action", ErrMalformed)
	}

	switch env.Action {
	case ActionJoinGame:
		return decodeJoin(&env)
	case ActionPlayerJoined:
		if env.Player == nil || env.Player.ID == "" {
			return nil, fmt.Errorf("%w: player_joined without player", ErrMalformed)
		}
		if env.Avatar == nil || env.Avatar.Name == "" {
			return nil, fmt.Errorf("%w: player_joined without avatar", ErrMalformed)
		}
		p := *env.Player
		normalizePlayer(&p, p.ID)
		return PlayerJoined{Player: p, Avatar: *env.Avatar}, nil
	case ActionPlayersMoved:
		var updates map[PlayerID]PlayerUpdate
		if err := unmarshalField(env.Players, &updates); err != nil {
			return nil, fmt.Errorf("%w: players: %v", ErrMalformed, err)
		}
		return PlayersMoved{Players: updates}, nil
	case ActionPlayerLeft:
		if env.PlayerID == "" {
			return nil, fmt.Errorf("%w: player_left without playerId", ErrMalformed)
		}
		return PlayerLeft{PlayerID: env.PlayerID}, nil
	default:
		return Unknown{Name: env.Action}, nil
	}
}

func decodeJoin(env *envelope) (Message, error) {
	if env.Success == nil || !*env.Success {
		return JoinRejected{Error: env.Error}, nil
	}
	if env.PlayerID == "" {
		return nil, fmt.Errorf("%w: join_game without playerId", ErrMalformed)
	}

	var players map[PlayerID]Player
	if err := unmarshalField(env.Players, &players); err != nil {
		return nil, fmt.Errorf("%w: players: %v", ErrMalformed, err)
	}
	for id, p := range players {
		normalizePlayer(&p, id)
		players[id] = p
	}

	var avatars map[string]Avatar
	if err := unmarshalField(env.Avatars, &avatars); err != nil {
		return nil, fmt.Errorf("%w: avatars: %v", ErrMalformed, err)
	}
	for name, a := range avatars {
		if a.Name == "" {
			a.Name = name
			avatars[name] = a
		}
	}

	if players == nil {
		players = make(map[PlayerID]Player)
	}
	if avatars == nil {
		avatars = make(map[string]Avatar)
	}
	return JoinAccepted{PlayerID: env.PlayerID, Players: players, Avatars: avatars}, nil
}

func unmarshalField(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// normalizePlayer fills the id from the map key and defaults a missing facing.
func normalizePlayer(p *Player, id PlayerID) {
	if p.ID == "" {
		p.ID = id
	}
	if p.Facing == "" {
		p.Facing = FacingSouth
	}
}

// Command is one outbound message
type Command struct {
	Action    string    `json:"action"`
	Username  string    `json:"username,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	X         *float64  `json:"x,omitempty"`
	Y         *float64  `json:"y,omitempty"`
}

// Join builds the join request
func Join(username string) Command {
	return Command{Action: ActionJoinGame, Username: username}
}

// Move builds a key-driven move command
func Move(dir Direction) Command {
	return Command{Action: ActionMove, Direction: dir}
}

// MoveTo builds a coordinate-targeted move command
func MoveTo(x, y float64) Command {
	return Command{Action: ActionMove, X: &x, Y: &y}
}

// Stop builds the stop command
func Stop() Command {
	return Command{Action: ActionStop}
}

// Encode serialises the command as a JSON text frame
func (c Command) Encode() ([]byte, error) {
	if c.Action == ActionMove && c.Direction != "" && !c.Direction.Valid() {
		return nil, fmt.Errorf("encode move: invalid direction %q", c.Direction)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Action, err)
	}
	return data, nil
}
