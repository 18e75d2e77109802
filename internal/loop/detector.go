package loop

import (
	"errors"
	"fmt"

	"github.com/Samster1523/ColorShooter2/internal/collision"
	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/object"
	"github.com/Samster1523/ColorShooter2/internal/physics"
	"github.com/Samster1523/ColorShooter2/internal/round"
)

// Pairer receives geometry results. *round.Controller and *replay.Recorder
// both implement it.
type Pairer interface {
	OnPairingDetected(projectileID, targetID object.ID) (collision.Outcome, error)
	ProjectileExitedPlayfield(projectileID object.ID) error
}

// Detector is the geometry layer: it finds projectile/target overlaps with
// a broad-phase grid and reports them, along with projectiles that left
// the top of the playfield.
type Detector struct {
	grid    *physics.SpatialGrid
	hitbox  config.Hitbox
	top     float64
	targets map[object.ID]object.Vec2
	gone    map[object.ID]bool
}

// NewDetector creates a detector over the world bounds.
func NewDetector(bounds physics.Bounds, hitbox config.Hitbox, top float64) *Detector {
	cell := hitbox.ProjectileRadius + hitbox.TargetRadius
	if cell < 0.25 {
		cell = 0.25
	}
	return &Detector{
		grid:    physics.NewSpatialGrid(bounds, cell),
		hitbox:  hitbox,
		top:     top,
		targets: make(map[object.ID]object.Vec2),
		gone:    make(map[object.ID]bool),
	}
}

// Detect checks every projectile against nearby targets. A projectile is
// reported at most once per frame for an outcome that consumes it, and a
// removed target is not reported again. Errors from p stop detection.
func (d *Detector) Detect(p Pairer, targets []object.Target, projectiles []object.Projectile) error {
	d.grid.Clear()
	clear(d.targets)
	clear(d.gone)
	for i := range targets {
		d.grid.Insert(targets[i].Pos, targets[i].ID)
		d.targets[targets[i].ID] = targets[i].Pos
	}

	for i := range projectiles {
		shot := &projectiles[i]
		if shot.Above(d.top) {
			if err := p.ProjectileExitedPlayfield(shot.ID); err != nil {
				return fmt.Errorf("projectile %d exit: %w", shot.ID, err)
			}
			continue
		}

		var hitErr error
		d.grid.QueryAround(shot.Pos, func(id object.ID) bool {
			if d.gone[id] {
				return false
			}
			if !physics.CirclesOverlap(shot.Pos, d.hitbox.ProjectileRadius, d.targets[id], d.hitbox.TargetRadius) {
				return false
			}
			out, err := p.OnPairingDetected(shot.ID, id)
			if err != nil {
				hitErr = fmt.Errorf("pairing %d/%d: %w", shot.ID, id, err)
				return true
			}
			if out.RemovesTarget() {
				d.gone[id] = true
			}
			return out.ConsumesProjectile()
		})
		if hitErr != nil {
			if errors.Is(hitErr, round.ErrNotPlaying) {
				return nil
			}
			return hitErr
		}
	}
	return nil
}
