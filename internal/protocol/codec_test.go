package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeJoinAccepted(t *testing.T) {
	data := `{
		"action": "join_game",
		"success": true,
		"playerId": "p1",
		"players": {
			"p1": {"id": "p1", "x": 100, "y": 120, "facing": "west", "avatar": "fox", "username": "alice", "animationFrame": 2},
			"p2": {"x": 5, "y": 6, "avatar": "fox", "username": "bob"}
		},
		"avatars": {
			"fox": {"frames": {"north": ["n0.png"], "south": ["s0.png"], "east": ["e0.png", "e1.png"]}}
		}
	}`

	msg, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	join, ok := msg.(JoinAccepted)
	if !ok {
		t.Fatalf("Expected JoinAccepted, got %T", msg)
	}
	if join.PlayerID != "p1" {
		t.Errorf("Expected player id 'p1', got '%s'", join.PlayerID)
	}
	if len(join.Players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(join.Players))
	}
	alice := join.Players["p1"]
	if alice.Facing != FacingWest || alice.AnimationFrame != 2 || alice.X != 100 {
		t.Errorf("Unexpected player record: %+v", alice)
	}
	bob := join.Players["p2"]
	if bob.ID != "p2" {
		t.Errorf("Expected id filled from key, got '%s'", bob.ID)
	}
	if bob.Facing != FacingSouth {
		t.Errorf("Expected default facing south, got '%s'", bob.Facing)
	}
	fox := join.Avatars["fox"]
	if fox.Name != "fox" {
		t.Errorf("Expected avatar name filled from key, got '%s'", fox.Name)
	}
	if len(fox.Frames.East) != 2 {
		t.Errorf("Expected 2 east frames, got %d", len(fox.Frames.East))
	}
}

func TestDecodeJoinRejected(t *testing.T) {
	msg, err := Decode([]byte(`{"action":"join_game","success":false,"error":"name taken"}`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	rej, ok := msg.(JoinRejected)
	if !ok {
		t.Fatalf("Expected JoinRejected, got %T", msg)
	}
	if rej.Error != "name taken" {
		t.Errorf("Expected 'name taken', got '%s'", rej.Error)
	}
}

func TestDecodeNumericPlayerIDs(t *testing.T) {
	msg, err := Decode([]byte(`{"action":"player_left","playerId":42}`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	left := msg.(PlayerLeft)
	if left.PlayerID != "42" {
		t.Errorf("Expected '42', got '%s'", left.PlayerID)
	}
}

func TestDecodePlayersMovedKeepsAbsentFieldsNil(t *testing.T) {
	msg, err := Decode([]byte(`{"action":"players_moved","players":{"p2":{"x":7.5,"facing":"east"}}}`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	moved := msg.(PlayersMoved)
	upd, ok := moved.Players["p2"]
	if !ok {
		t.Fatal("Expected update for p2")
	}
	if upd.X == nil || *upd.X != 7.5 {
		t.Errorf("Expected x 7.5, got %v", upd.X)
	}
	if upd.Y != nil || upd.Username != nil || upd.AnimationFrame != nil || upd.Avatar != nil {
		t.Errorf("Expected absent fields to be nil, got %+v", upd)
	}
	if upd.Facing == nil || *upd.Facing != FacingEast {
		t.Errorf("Expected facing east, got %v", upd.Facing)
	}
}

func TestDecodePlayerJoined(t *testing.T) {
	data := `{"action":"player_joined",
		"player":{"id":"p3","x":1,"y":2,"facing":"north","avatar":"owl","username":"carol"},
		"avatar":{"name":"owl","frames":{"north":["a"],"south":["b"],"east":["c"]}}}`
	msg, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	joined := msg.(PlayerJoined)
	if joined.Player.Username != "carol" || joined.Avatar.Name != "owl" {
		t.Errorf("Unexpected player_joined: %+v", joined)
	}
}

func TestDecodeUnknownActionIsNotAnError(t *testing.T) {
	msg, err := Decode([]byte(`{"action":"chat","text":"hi"}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	u, ok := msg.(Unknown)
	if !ok || u.Action() != "chat" {
		t.Errorf("Expected Unknown 'chat', got %#v", msg)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"action":`,
		"no action":          `{"success":true}`,
		"join without id":    `{"action":"join_game","success":true,"players":{}}`,
		"bad facing":         `{"action":"players_moved","players":{"p1":{"facing":"up"}}}`,
		"joined w/o avatar":  `{"action":"player_joined","player":{"id":"p1"}}`,
		"left without id":    `{"action":"player_left"}`,
		"players not object": `{"action":"players_moved","players":[1,2]}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(data))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestCommandEncoding(t *testing.T) {
	cases := []struct {
		cmd  Command
		want string
	}{
		{Join("alice"), `{"action":"join_game","username":"alice"}`},
		{Move(DirLeft), `{"action":"move","direction":"left"}`},
		{MoveTo(0, 12.5), `{"action":"move","x":0,"y":12.5}`},
		{Stop(), `{"action":"stop"}`},
	}
	for _, tc := range cases {
		got, err := tc.cmd.Encode()
		if err != nil {
			t.Fatalf("Failed to encode %+v: %v", tc.cmd, err)
		}
		if !jsonEqual(t, got, []byte(tc.want)) {
			t.Errorf("Expected %s, got %s", tc.want, got)
		}
	}

	if _, err := Move(Direction("sideways")).Encode(); err == nil {
		t.Error("Expected error for invalid direction")
	}
}

func TestAvatarSprite(t *testing.T) {
	a := Avatar{Name: "X", Frames: Frames{
		North: []string{"n0"},
		South: []string{"s0", "s1"},
		East:  []string{"e0", "e1", "e2"},
	}}

	ref, mirror, ok := a.Sprite(FacingWest, 1)
	if !ok || ref != "e1" || !mirror {
		t.Errorf("Expected mirrored e1, got %s mirror=%v ok=%v", ref, mirror, ok)
	}
	ref, mirror, ok = a.Sprite(FacingEast, 1)
	if !ok || ref != "e1" || mirror {
		t.Errorf("Expected unmirrored e1, got %s mirror=%v ok=%v", ref, mirror, ok)
	}
	ref, _, _ = a.Sprite(FacingSouth, 9)
	if ref != "s1" {
		t.Errorf("Expected frame clamped to s1, got %s", ref)
	}
	ref, _, _ = a.Sprite(FacingNorth, -3)
	if ref != "n0" {
		t.Errorf("Expected frame clamped to n0, got %s", ref)
	}

	empty := Avatar{Name: "empty"}
	if _, _, ok := empty.Sprite(FacingNorth, 0); ok {
		t.Error("Expected no sprite for empty avatar")
	}
}

func jsonEqual(t *testing.T, a, b []byte) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		t.Fatalf("invalid json %s: %v", a, err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		t.Fatalf("invalid json %s: %v", b, err)
	}
	ja, _ := json.Marshal(va)
	jb, _ := json.Marshal(vb)
	return string(ja) == string(jb)
}
