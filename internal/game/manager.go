package game

import (
	"time"

	"go.uber.org/zap"

	"chosenoffset.com/plaza/internal/assets"
	"chosenoffset.com/plaza/internal/net"
	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/render"
)

// Manager drives the client lifecycle: it drains the connection and asset
// queues once per update and switches from loading to playing on join.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	State        State
	Game         *Game
	Conn         Connection
	Assets       AssetSource
	Log          *zap.Logger

	// Now is the clock; tests replace it
	Now func() time.Time
}

// NewManager creates a manager around a game.
func NewManager(g *Game, logger *zap.Logger) *Manager {
	m := &Manager{
		ScreenWidth:  g.ScreenWidth,
		ScreenHeight: g.ScreenHeight,
		State:        StateLoading,
		Game:         g,
		Conn:         g.Conn,
		Assets:       g.Assets,
		Log:          g.Log,
		Now:          time.Now,
	}
	if logger != nil {
		m.Log = logger
	}
	return m
}

// Start requests startup assets and starts the session clock.
func (m *Manager) Start() {
	m.Game.Start(m.Now())
}

// Update runs one pass of the loop: connection events, then finished assets,
// then input and ticks once playing.
func (m *Manager) Update() error {
	now := m.Now()

	m.Conn.Poll(m.handleEvent)
	m.Assets.Poll(m.Game.HandleAsset)

	switch m.State {
	case StateLoading:
		m.Game.now = now
	case StatePlaying:
		return m.Game.Update(now)
	}
	return nil
}

func (m *Manager) handleEvent(ev net.Event) {
	switch ev.Kind {
	case net.EventOpen:
		m.Game.RequestRedraw()
	case net.EventMessage:
		msg := m.Game.HandleMessage(ev.Data)
		if _, joined := msg.(protocol.JoinAccepted); joined && m.State == StateLoading {
			m.State = StatePlaying
			m.Log.Info("state change", zap.Stringer("state", m.State))
		}
	case net.EventClosed:
		m.Game.ShowMessage("Disconnected from server")
	}
}

// Draw draws the current state.
func (m *Manager) Draw(screen render.Image) {
	switch m.State {
	case StateLoading:
		m.Game.DrawLoading(screen)
	case StatePlaying:
		m.Game.Draw(screen)
	}
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
		m.Game.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

var (
	_ AssetSource = (*assets.Loader)(nil)
	_ Connection  = (*net.Manager)(nil)
)
