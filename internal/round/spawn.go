package round

import (
	"math"

	"github.com/Samster1523/ColorShooter2/internal/collision"
	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/object"
)

// TrySpawnTarget spawns one target at a random position. It refuses when
// the round is not Playing, or when the population cap is already reached
// under the cap fail rule.
func (c *Controller) TrySpawnTarget() (object.ID, bool) {
	if c.state != Playing {
		return 0, false
	}
	if c.cfg.FailRule == config.FailCap && len(c.targets) >= c.cfg.MaxOnScreen {
		c.log.Debug("spawn refused", "active", len(c.targets), "cap", c.cfg.MaxOnScreen)
		return 0, false
	}

	pos := object.Vec2{
		X: c.uniform(c.cfg.SpawnX),
		Y: c.uniform(c.cfg.SpawnY),
	}
	color := object.Color(c.rng.Intn(c.cfg.Colors))

	hp := 1
	if c.cfg.Policy == collision.Attrition {
		hp = c.cfg.HitPoints.Min + c.rng.Intn(c.cfg.HitPoints.Max-c.cfg.HitPoints.Min+1)
	}

	t := c.targetPool.Acquire()
	t.Init(c.newID(), pos, color, hp, c.rollMotion())
	c.targets = append(c.targets, t)
	c.targetByID[t.ID] = t

	c.emit(Event{Type: EventTargetSpawned, ID: t.ID, Pos: t.Pos, Visual: c.targetVisual(t)})
	return t.ID, true
}

func (c *Controller) rollMotion() object.Motion {
	if c.cfg.Motion == object.MotionFloat {
		return object.Motion{
			Kind:         object.MotionFloat,
			Amplitude:    c.uniform(c.cfg.FloatAmplitude),
			AngularSpeed: c.uniform(c.cfg.FloatSpeed),
			Phase:        c.rng.Float64() * 2 * math.Pi,
		}
	}
	lo, hi := c.sched.FallSpeedRange()
	return object.Motion{
		Kind:      object.MotionFall,
		FallSpeed: c.uniform(config.Range{Min: lo, Max: hi}),
	}
}

// uniform draws from r, returning r.Min without consuming randomness for
// a fixed range.
func (c *Controller) uniform(r config.Range) float64 {
	if r.Fixed() {
		return r.Min
	}
	return r.Min + c.rng.Float64()*(r.Max-r.Min)
}
