package game

import (
	"image"
	"image/color"
	"math"
	"strings"

	"chosenoffset.com/plaza/internal/net"
	"chosenoffset.com/plaza/internal/protocol"
	"chosenoffset.com/plaza/internal/render"
	"chosenoffset.com/plaza/internal/ui/hud"
	"chosenoffset.com/plaza/internal/ui/panels"
)

// spriteSize is the assumed sprite edge for culling and for players whose
// frame has not loaded yet
const spriteSize = 64.0

var (
	groundColor = color.RGBA{34, 40, 34, 255}
	ringColor   = color.RGBA{255, 210, 60, 255}
	labelColor  = color.RGBA{235, 235, 235, 255}
	localLabel  = color.RGBA{255, 230, 140, 255}
)

// Draw presents the cached frame, composing it first when a redraw was
// requested or the screen size changed.
func (g *Game) Draw(screen render.Image) {
	w, h := screen.Size()

	// Ensure the frame texture exists and is the right size
	if g.frame == nil || needsResize(g.frame, w, h) {
		if g.frame != nil {
			g.frame.Dispose()
		}
		g.frame = g.Renderer.NewImage(w, h)
		g.dirty = true
	}

	if g.dirty {
		g.frame.Clear()
		g.compose(g.frame)
		g.dirty = false
		g.FramesComposed++
	}
	screen.DrawImage(g.frame, &render.DrawImageOptions{GeoM: render.NewGeoM()})
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

// compose draws every layer in fixed order
func (g *Game) compose(dst render.Image) {
	g.drawBackground(dst)
	g.drawPlayers(dst)
	g.Particles.Draw(g.Renderer, dst, g.View)
	g.Minimap.Draw(g.Renderer, dst, g.View, g.World.Players(), g.World.LocalID())
	g.GameHUD.Draw(g.Renderer, dst, g.status())
	g.Settings.Draw(g.Renderer, dst, g.ScreenWidth, g.ScreenHeight)
	g.PlayerList.Draw(g.Renderer, dst, g.ScreenWidth, g.ScreenHeight, g.World.Players(), g.World.LocalID())
	g.drawMessages(dst)
	g.drawTooltip(dst)
}

// drawBackground copies the visible part of the world bitmap
func (g *Game) drawBackground(dst render.Image) {
	dst.Fill(groundColor)
	bg, ok := g.World.Image(g.Config.Background)
	if !ok {
		return
	}
	x0, y0 := int(g.View.OffsetX), int(g.View.OffsetY)
	visible := image.Rect(x0, y0, x0+int(math.Ceil(g.View.Width)), y0+int(math.Ceil(g.View.Height)))
	opts := &render.DrawImageOptions{GeoM: render.NewGeoM()}
	opts.GeoM.Translate(float64(x0)-g.View.OffsetX, float64(y0)-g.View.OffsetY)
	dst.DrawImage(bg.SubImage(visible), opts)
}

func (g *Game) drawPlayers(dst render.Image) {
	local := g.World.LocalID()
	for _, p := range g.World.Players() {
		if !g.View.Contains(p.X, p.Y, spriteSize/2) {
			continue
		}
		g.drawPlayer(dst, p, p.ID == local)
	}
}

func (g *Game) drawPlayer(dst render.Image, p *protocol.Player, isLocal bool) {
	sx, sy := g.View.WorldToScreen(p.X, p.Y)
	w, h := spriteSize, spriteSize

	sprite, mirror, ok := g.sprite(p)
	if ok {
		iw, ih := sprite.Size()
		w, h = float64(iw), float64(ih)
	}

	if isLocal {
		radius := math.Max(w, h)/2 + 4
		g.Renderer.StrokeCircle(dst, float32(sx), float32(sy), float32(radius), 2, ringColor)
	}

	if ok {
		opts := &render.DrawImageOptions{GeoM: render.NewGeoM()}
		if mirror {
			// flip around the sprite's own vertical axis
			opts.GeoM.Scale(-1, 1)
			opts.GeoM.Translate(sx+w/2, sy-h/2)
		} else {
			opts.GeoM.Translate(sx-w/2, sy-h/2)
		}
		dst.DrawImage(sprite, opts)
	}

	name := p.Username
	if name == "" {
		name = string(p.ID)
	}
	tw, th := g.Renderer.MeasureText(name, 1.0)
	lx := int(sx) - tw/2
	if isLocal {
		g.Renderer.DrawText(dst, name, lx, int(sy+h/2)+4, localLabel, 1.0)
	} else {
		g.Renderer.DrawText(dst, name, lx, int(sy-h/2)-4-th, labelColor, 1.0)
	}
}

// sprite resolves the player's current frame. ok is false when the avatar is
// unknown or the frame has not loaded.
func (g *Game) sprite(p *protocol.Player) (render.Image, bool, bool) {
	avatar, ok := g.World.Avatar(p.Avatar)
	if !ok {
		return nil, false, false
	}
	ref, mirror, ok := avatar.Sprite(p.Facing, p.AnimationFrame)
	if !ok {
		return nil, false, false
	}
	img, ok := g.World.Image(ref)
	if !ok {
		return nil, false, false
	}
	return img, mirror, true
}

func (g *Game) drawMessages(dst render.Image) {
	y := g.ScreenHeight - 30 - 20*len(g.Messages)
	for _, msg := range g.Messages {
		alpha := uint8(255 * math.Max(0, math.Min(1, msg.TimeLeft/msg.MaxTime)))
		g.Renderer.DrawText(dst, msg.Text, 20, y, color.RGBA{255, 255, 255, alpha}, 1.0)
		y += 20
	}
}

func (g *Game) drawTooltip(dst render.Image) {
	p, ok := g.Interaction.Hover()
	if !ok {
		return
	}
	name := p.Username
	if name == "" {
		name = string(p.ID)
	}
	px, py := g.Interaction.Pointer()
	panels.Tooltip(g.Renderer, dst, name, px, py, g.ScreenWidth, g.ScreenHeight)
}

func (g *Game) status() hud.Status {
	s := hud.Status{
		Connection:    g.Conn.State().String(),
		Username:      g.Username,
		Players:       g.World.Len(),
		BytesReceived: g.Conn.Stats().BytesReceived,
		Uptime:        g.now.Sub(g.startedAt),
	}
	if p, ok := g.World.Local(); ok {
		s.HasPosition = true
		s.X, s.Y = p.X, p.Y
	}
	if id, ok := g.Interaction.FollowTarget(); ok {
		if target, ok := g.World.Player(id); ok {
			s.Following = target.Username
		}
	}
	return s
}

// statusSignature is the status panel text, used to detect changes
func (g *Game) statusSignature() string {
	return strings.Join(g.GameHUD.Lines(g.status()), "\n")
}

// DrawLoading renders the waiting screen shown until the join succeeds.
func (g *Game) DrawLoading(screen render.Image) {
	screen.Fill(color.RGBA{20, 20, 40, 255})

	text := "Connecting to " + g.Config.ServerURL + "..."
	switch g.Conn.State() {
	case net.Open:
		text = "Joining as " + g.Username + "..."
	case net.Closed:
		text = "Disconnected from server"
	}
	tw, _ := g.Renderer.MeasureText(text, 1.5)
	g.Renderer.DrawText(screen, text, (g.ScreenWidth-tw)/2, g.ScreenHeight/2-20, color.RGBA{255, 255, 255, 255}, 1.5)

	if n := g.World.PendingImages(); n > 0 {
		g.Renderer.DrawText(screen, "Loading assets...", 20, g.ScreenHeight-50, labelColor, 1.0)
	}
	g.drawMessages(screen)
}
