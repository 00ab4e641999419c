package game

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"chosenoffset.com/plaza/internal/config"
	"chosenoffset.com/plaza/internal/input"
	"chosenoffset.com/plaza/internal/interaction"
	"chosenoffset.com/plaza/internal/logging"
	"chosenoffset.com/plaza/internal/particles"
	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/render"
	"chosenoffset.com/plaza/internal/ui/hud"
	"chosenoffset.com/plaza/internal/ui/minimap"
	"chosenoffset.com/plaza/internal/ui/panels"
	"chosenoffset.com/plaza/internal/viewport"
	"chosenoffset.com/plaza/internal/world"
)

// Game holds all client state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Config       *config.Config
	Username     string
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Conn         Connection
	Assets       AssetSource
	Log          *zap.Logger

	World       *world.State
	View        *viewport.Viewport
	Keys        *input.Controller
	Interaction *interaction.Layer
	Particles   *particles.System

	// UI
	GameHUD    *hud.HUD
	Minimap    *minimap.Minimap
	Settings   *panels.Settings
	PlayerList *panels.PlayerList
	Messages   []Message

	// move command cap; nil when unlimited
	limiter *rate.Limiter

	now       time.Time
	startedAt time.Time

	pointerX, pointerY int
	statusLine         string

	// redraw bookkeeping
	frame          render.Image
	dirty          bool
	RedrawRequests int
	FramesComposed int
}

// NewGame wires the client components together.
func NewGame(cfg *config.Config, username string, r render.Renderer, in render.InputManager, conn Connection, src AssetSource, logger *zap.Logger, rng *rand.Rand) *Game {
	g := &Game{
		ScreenWidth:  cfg.Window.Width,
		ScreenHeight: cfg.Window.Height,
		Config:       cfg,
		Username:     username,
		Renderer:     r,
		InputMgr:     in,
		Conn:         conn,
		Assets:       src,
		Log:          logging.OrNop(logger),
		World:        world.New(),
		View:         viewport.New(cfg.WorldSize, float64(cfg.Window.Width), float64(cfg.Window.Height)),
		Particles:    particles.NewSystem(rng, cfg.Particles.Lifetime, cfg.Particles.Speed),
		GameHUD:      hud.New(hud.DefaultConfig(), cfg.Window.Width, cfg.Window.Height),
		Minimap:      minimap.New(cfg.WorldSize, 160, 10),
		PlayerList:   &panels.PlayerList{},
		pointerX:     -1,
		pointerY:     -1,
		dirty:        true,
	}
	g.Keys = input.NewController(g, cfg.Debounce(), cfg.RepeatInterval())
	g.Interaction = interaction.NewLayer(g.World, g.View, g, cfg.Interaction.Radius, cfg.FollowInterval())
	g.Minimap.SetScreenWidth(cfg.Window.Width)
	g.Settings = panels.NewSettings(panels.SettingsInfo{
		Server:           cfg.ServerURL,
		Username:         username,
		DebounceMS:       cfg.Input.DebounceMS,
		RepeatIntervalMS: cfg.Input.RepeatIntervalMS,
		FollowIntervalMS: cfg.Interaction.FollowIntervalMS,
		Radius:           cfg.Interaction.Radius,
		MaxCommandsPerS:  cfg.Network.MaxCommandsPerSecond,
	})

	if perSec := cfg.Network.MaxCommandsPerSecond; perSec > 0 {
		burst := int(math.Ceil(perSec))
		g.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
	return g
}

// Start requests the world background and marks the session start.
func (g *Game) Start(now time.Time) {
	g.now = now
	g.startedAt = now
	g.requestImages(g.World.RequestImages([]string{g.Config.Background}))
}

// Update handles input and per-tick logic. It only runs once joined.
func (g *Game) Update(now time.Time) error {
	dt := now.Sub(g.now).Seconds()
	g.now = now

	g.updateMessages(dt)
	g.updateKeys(now)
	g.updateToggles()
	g.updatePointer()

	g.Interaction.Tick(now)
	g.Keys.Tick(now)

	local, ok := g.World.Local()
	if ok {
		g.Particles.Tick(local.X, local.Y, true)
	} else {
		g.Particles.Tick(0, 0, false)
	}
	if g.Particles.Active() {
		g.RequestRedraw()
	}

	// the status panel shows live counters; redraw when its text changes
	if line := g.statusSignature(); line != g.statusLine {
		g.statusLine = line
		g.RequestRedraw()
	}
	return nil
}

// updateKeys turns key level changes into controller edges.
func (g *Game) updateKeys(now time.Time) {
	for _, b := range keyBindings {
		down := false
		for _, k := range b.Keys {
			if g.InputMgr.IsKeyPressed(k) {
				down = true
				break
			}
		}
		if down == g.Keys.Pressed(b.Dir) {
			continue
		}
		if down {
			// manual control wins over follow
			g.Interaction.ClearFollow()
			g.Keys.KeyDown(b.Dir, now)
		} else {
			g.Keys.KeyUp(b.Dir, now)
		}
	}
}

func (g *Game) updateToggles() {
	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		g.Settings.Toggle()
		g.RequestRedraw()
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyTab) {
		g.PlayerList.Toggle()
		g.RequestRedraw()
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyM) {
		g.Minimap.Toggle()
		g.RequestRedraw()
	}
}

func (g *Game) updatePointer() {
	cx, cy := g.InputMgr.GetCursorPosition()
	if cx != g.pointerX || cy != g.pointerY {
		g.pointerX, g.pointerY = cx, cy
		changed := g.Interaction.PointerMoved(float64(cx), float64(cy))
		if _, hovering := g.Interaction.Hover(); changed || hovering {
			g.RequestRedraw()
		}
	}

	if g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		g.Interaction.PrimaryClick(float64(cx), float64(cy))
	}
	if g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonRight) {
		if g.Interaction.SecondaryClick(float64(cx), float64(cy)) {
			g.RequestRedraw()
		}
	}
}

// Move sends a direction move, subject to the move cap.
func (g *Game) Move(dir protocol.Direction) {
	if !g.allowMove() {
		return
	}
	g.send(protocol.Move(dir))
}

// MoveTo sends a coordinate move, subject to the move cap.
func (g *Game) MoveTo(x, y float64) {
	if !g.allowMove() {
		return
	}
	g.send(protocol.MoveTo(x, y))
}

// Stop sends a stop. Stops are never capped.
func (g *Game) Stop() {
	g.send(protocol.Stop())
}

func (g *Game) allowMove() bool {
	if g.limiter == nil {
		return true
	}
	if !g.limiter.AllowN(g.now, 1) {
		g.Log.Debug("move dropped by rate cap")
		return false
	}
	return true
}

func (g *Game) send(cmd protocol.Command) {
	data, err := cmd.Encode()
	if err != nil {
		g.Log.Error("encode command", zap.String("action", cmd.Action), zap.Error(err))
		return
	}
	g.Conn.Send(data)
}

// ShowMessage displays a message on screen for a few seconds.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 4.0,
		MaxTime:  4.0,
	})
	g.RequestRedraw()
}

// updateMessages updates message timers and removes expired messages.
func (g *Game) updateMessages(dt float64) {
	if len(g.Messages) == 0 {
		return
	}
	active := g.Messages[:0]
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
	g.RequestRedraw()
}

// Resize tracks a new window size.
func (g *Game) Resize(width, height int) {
	g.ScreenWidth = width
	g.ScreenHeight = height
	g.View.Resize(float64(width), float64(height))
	g.GameHUD.SetScreenSize(width, height)
	g.Minimap.SetScreenWidth(width)
	g.RequestRedraw()
}

// RequestRedraw marks the cached frame stale.
func (g *Game) RequestRedraw() {
	g.dirty = true
	g.RedrawRequests++
}
