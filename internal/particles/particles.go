// Package particles spawns short-lived dust behind the moving local player.
package particles

import (
	"image/color"
	"math/rand"

	"chosenoffset.com/plaza/internal/render"
	"chosenoffset.com/plaza/internal/viewport"
)

// Particle is one dust mote in world coordinates
type Particle struct {
	X, Y                 float64
	VelocityX, VelocityY float64
	Life, MaxLife        int
}

// Alpha is the remaining fraction of the particle's life
func (p Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

// System owns the live particles
type System struct {
	rng      *rand.Rand
	lifetime int
	speed    float64

	particles []Particle

	lastX, lastY float64
	hasLast      bool
}

// NewSystem creates a particle system. lifetime is in ticks, speed is the
// largest per-tick velocity on each axis.
func NewSystem(rng *rand.Rand, lifetime int, speed float64) *System {
	return &System{rng: rng, lifetime: lifetime, speed: speed}
}

// Tick advances every particle and drops the expired ones, then spawns one
// particle at (x, y) if the local player moved since the previous tick.
// ok is false while there is no local player.
func (s *System) Tick(x, y float64, ok bool) {
	live := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VelocityX
		p.Y += p.VelocityY
		p.Life--
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	s.particles = live

	if !ok {
		s.hasLast = false
		return
	}
	if s.hasLast && (x != s.lastX || y != s.lastY) && s.lifetime > 0 {
		s.particles = append(s.particles, Particle{
			X:         x,
			Y:         y,
			VelocityX: (s.rng.Float64()*2 - 1) * s.speed,
			VelocityY: (s.rng.Float64()*2 - 1) * s.speed,
			Life:      s.lifetime,
			MaxLife:   s.lifetime,
		})
	}
	s.lastX, s.lastY, s.hasLast = x, y, true
}

// Particles returns the live particles
func (s *System) Particles() []Particle {
	return s.particles
}

// Active reports whether any particle is alive
func (s *System) Active() bool {
	return len(s.particles) > 0
}

var dust = color.NRGBA{R: 230, G: 220, B: 200, A: 255}

// Draw renders the visible particles with a linear fade
func (s *System) Draw(r render.Renderer, dst render.Image, view *viewport.Viewport) {
	for _, p := range s.particles {
		if !view.Contains(p.X, p.Y, 4) {
			continue
		}
		sx, sy := view.WorldToScreen(p.X, p.Y)
		c := dust
		c.A = uint8(float64(dust.A) * p.Alpha())
		r.FillCircle(dst, float32(sx), float32(sy), 2.5, c)
	}
}
