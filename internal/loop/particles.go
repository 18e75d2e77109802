package loop

import (
	"math"
	"math/rand"

	"github.com/Samster1523/ColorShooter2/internal/draw"
	"github.com/Samster1523/ColorShooter2/internal/object"
	"github.com/Samster1523/ColorShooter2/internal/pool"
)

// particle is a short-lived visual effect in world units.
type particle struct {
	pos         object.Vec2
	vel         object.Vec2
	lifetime    float64
	maxLifetime float64
	ink         draw.Ink
}

// particles owns the live effects. Instances come from a pool so bursts do
// not allocate once the pool is warm.
type particles struct {
	pool *pool.Pool[particle]
	live []*particle
	rng  *rand.Rand
}

func newParticles(rng *rand.Rand) *particles {
	return &particles{
		pool: pool.New[particle](nil, particlePrealloc),
		rng:  rng,
	}
}

// burst spawns count particles flying out of pos.
func (ps *particles) burst(pos object.Vec2, count int, ink draw.Ink) {
	for i := 0; i < count; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		speed := particleSpeed * (0.5 + ps.rng.Float64())
		life := particleLifetime * (0.5 + ps.rng.Float64()*0.5)

		p := ps.pool.Acquire()
		*p = particle{
			pos:         pos,
			vel:         object.Vec2{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
			lifetime:    life,
			maxLifetime: life,
			ink:         ink,
		}
		ps.live = append(ps.live, p)
	}
}

func (ps *particles) update(dt float64) {
	drag := math.Pow(particleDrag, dt*60)
	kept := ps.live[:0]
	for _, p := range ps.live {
		p.lifetime -= dt
		if p.lifetime <= 0 {
			_ = ps.pool.Release(p)
			continue
		}
		p.vel.X *= drag
		p.vel.Y *= drag
		p.pos.X += p.vel.X * dt
		p.pos.Y += p.vel.Y * dt
		kept = append(kept, p)
	}
	clear(ps.live[len(kept):])
	ps.live = kept
}

func (ps *particles) reset() {
	for _, p := range ps.live {
		_ = ps.pool.Release(p)
	}
	clear(ps.live)
	ps.live = ps.live[:0]
}

func (ps *particles) draw(c *draw.Canvas, v viewport) {
	for _, p := range ps.live {
		ink := p.ink
		if p.lifetime < p.maxLifetime*0.3 {
			ink = draw.InkGray
		}
		x, y := v.toView(p.pos)
		c.Set(x, y, ink)
	}
}
