package game

import (
	"errors"

	"go.uber.org/zap"

	"chosenoffset.com/plaza/internal/assets"
	"chosenoffset.com/plaza/internal/protocol"
)

// HandleMessage decodes one inbound frame and applies it to the world. Every
// applied message requests exactly one redraw. Malformed frames and unknown
// actions leave the world untouched. It returns the decoded message, or nil
// when the frame was discarded.
func (g *Game) HandleMessage(data []byte) protocol.Message {
	msg, err := protocol.Decode(data)
	if err != nil {
		g.Log.Warn("discarding inbound message", zap.Error(err), zap.Int("bytes", len(data)))
		return nil
	}

	switch m := msg.(type) {
	case protocol.JoinAccepted:
		g.requestImages(g.World.Load(m))
		g.recenter()
		g.Interaction.Refresh()
		g.Log.Info("joined",
			zap.String("player_id", string(m.PlayerID)),
			zap.Int("players", len(m.Players)),
			zap.Int("avatars", len(m.Avatars)))

	case protocol.JoinRejected:
		g.Log.Error("join rejected", zap.String("error", m.Error))
		g.Messages = append(g.Messages, Message{Text: "Join failed: " + m.Error, TimeLeft: 4, MaxTime: 4})

	case protocol.PlayerJoined:
		g.requestImages(g.World.AddPlayer(m.Player, m.Avatar))
		g.Interaction.Refresh()
		g.Log.Debug("player joined", zap.String("player_id", string(m.Player.ID)), zap.String("username", m.Player.Username))

	case protocol.PlayersMoved:
		if g.World.ApplyUpdates(m.Players) {
			g.recenter()
		}
		g.Interaction.Refresh()

	case protocol.PlayerLeft:
		if g.World.Remove(m.PlayerID) {
			g.Log.Debug("player left", zap.String("player_id", string(m.PlayerID)))
		}
		g.Interaction.Refresh()

	case protocol.Unknown:
		g.Log.Info("ignoring unknown action", zap.String("action", m.Name))
		return msg
	}

	g.RequestRedraw()
	return msg
}

// recenter moves the camera onto the local player
func (g *Game) recenter() {
	if p, ok := g.World.Local(); ok {
		g.View.Center(p.X, p.Y)
	}
}

func (g *Game) requestImages(refs []string) {
	for _, ref := range refs {
		g.Assets.Load(ref)
	}
}

// HandleAsset stores one finished image load. A failed ref is logged once and
// never retried; sprites using it are skipped.
func (g *Game) HandleAsset(res assets.Result) {
	if res.Err != nil {
		level := zap.WarnLevel
		if errors.Is(res.Err, assets.ErrUnsupportedRef) {
			level = zap.ErrorLevel
		}
		g.Log.Check(level, "asset failed").Write(zap.Error(res.Err))
		g.World.FailImage(res.Ref)
		return
	}
	g.World.StoreImage(res.Ref, g.Renderer.NewImageFromImage(res.Image))
	g.RequestRedraw()
}
