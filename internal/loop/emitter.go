package loop

import (
	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/object"
)

// Emitter is the player-controlled launcher. It slides along a horizontal
// track, carries the colour the next projectile is tagged with, and
// rate-limits firing.
type Emitter struct {
	cfg      config.Emitter
	colors   int
	X        float64
	Color    object.Color
	cooldown float64
}

// NewEmitter places an emitter at the centre of its track.
func NewEmitter(cfg config.Emitter, colors int) *Emitter {
	if colors < 1 {
		colors = 1
	}
	e := &Emitter{cfg: cfg, colors: colors}
	e.Reset()
	return e
}

// Reset recentres the emitter and selects the first colour.
func (e *Emitter) Reset() {
	e.X = (e.cfg.MinX + e.cfg.MaxX) / 2
	e.Color = object.Red
	e.cooldown = 0
}

// Move slides the emitter for dt seconds. dir is -1, 0 or 1.
func (e *Emitter) Move(dir, dt float64) {
	e.X += dir * e.cfg.MoveSpeed * dt
	if e.X < e.cfg.MinX {
		e.X = e.cfg.MinX
	} else if e.X > e.cfg.MaxX {
		e.X = e.cfg.MaxX
	}
}

// Cycle selects the next colour of the palette.
func (e *Emitter) Cycle() {
	e.Color = e.Color.Next(e.colors)
}

// Select picks a colour by 1-based palette slot. Slots outside the palette
// are ignored.
func (e *Emitter) Select(slot int) bool {
	if slot < 1 || slot > e.colors {
		return false
	}
	e.Color = object.Color(slot - 1)
	return true
}

// Cool advances the fire cooldown.
func (e *Emitter) Cool(dt float64) {
	if e.cooldown > 0 {
		e.cooldown -= dt
	}
}

// TryFire reports whether the emitter may fire now and, if so, starts the
// cooldown.
func (e *Emitter) TryFire() bool {
	if e.cooldown > 0 {
		return false
	}
	e.cooldown = e.cfg.FireCooldown
	return true
}

// Muzzle is where projectiles start.
func (e *Emitter) Muzzle() object.Vec2 {
	return object.Vec2{X: e.X, Y: e.cfg.Y}
}
