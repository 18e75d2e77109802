package object

// Projectile is a shot fired by the emitter. It always travels straight up.
type Projectile struct {
	ID     ID
	Pos    Vec2
	Speed  float64 // Units per second, upward
	Tag    Color
	Tagged bool // Untagged projectiles never match a colour
}

// Fire resets the projectile for a new shot.
func (p *Projectile) Fire(id ID, origin Vec2, speed float64, tag Color, tagged bool) {
	p.ID = id
	p.Pos = origin
	p.Speed = speed
	p.Tag = tag
	p.Tagged = tagged
}

// Advance moves the projectile by dt seconds.
func (p *Projectile) Advance(dt float64) {
	p.Pos.Y += p.Speed * dt
}

// Above reports whether the projectile has crossed the top bound.
func (p *Projectile) Above(top float64) bool {
	return p.Pos.Y > top
}

// Visual returns the drawing hints for the shell.
func (p *Projectile) Visual() Visual {
	return Visual{Color: p.Tag}
}
