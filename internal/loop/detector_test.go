package loop

import (
	"errors"
	"testing"

	"github.com/Samster1523/ColorShooter2/internal/collision"
	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/object"
	"github.com/Samster1523/ColorShooter2/internal/physics"
	"github.com/Samster1523/ColorShooter2/internal/round"
)

type pairing struct {
	projectile, target object.ID
}

type fakePairer struct {
	outcome collision.Outcome
	err     error
	pairs   []pairing
	exits   []object.ID
}

func (f *fakePairer) OnPairingDetected(projectileID, targetID object.ID) (collision.Outcome, error) {
	f.pairs = append(f.pairs, pairing{projectileID, targetID})
	return f.outcome, f.err
}

func (f *fakePairer) ProjectileExitedPlayfield(projectileID object.ID) error {
	f.exits = append(f.exits, projectileID)
	return nil
}

func testDetector() *Detector {
	return NewDetector(
		physics.Bounds{MinX: -5, MinY: -5, MaxX: 5, MaxY: 15},
		config.Hitbox{ProjectileRadius: 0.1, TargetRadius: 0.45},
		12,
	)
}

func target(id object.ID, x, y float64) object.Target {
	return object.Target{ID: id, Pos: object.Vec2{X: x, Y: y}}
}

func shot(id object.ID, x, y float64) object.Projectile {
	return object.Projectile{ID: id, Pos: object.Vec2{X: x, Y: y}}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		outcome   collision.Outcome
		targets   []object.Target
		shots     []object.Projectile
		wantPairs int
		wantExits int
	}{
		{
			name:      "overlap",
			outcome:   collision.Destroy,
			targets:   []object.Target{target(10, 0, 0.3)},
			shots:     []object.Projectile{shot(1, 0, 0)},
			wantPairs: 1,
		},
		{
			name:    "far apart",
			outcome: collision.Destroy,
			targets: []object.Target{target(10, 3, 3)},
			shots:   []object.Projectile{shot(1, 0, 0)},
		},
		{
			name:      "above the top",
			outcome:   collision.Destroy,
			targets:   []object.Target{target(10, 0, 12.2)},
			shots:     []object.Projectile{shot(1, 0, 12.5)},
			wantExits: 1,
		},
		{
			name:      "consumed projectile stops",
			outcome:   collision.Destroy,
			targets:   []object.Target{target(10, 0, 0.2), target(11, 0, -0.2)},
			shots:     []object.Projectile{shot(1, 0, 0)},
			wantPairs: 1,
		},
		{
			name:      "pass-through keeps going",
			outcome:   collision.PassThrough,
			targets:   []object.Target{target(10, 0, 0.2), target(11, 0, -0.2)},
			shots:     []object.Projectile{shot(1, 0, 0)},
			wantPairs: 2,
		},
		{
			name:      "removed target is not paired again",
			outcome:   collision.Destroy,
			targets:   []object.Target{target(10, 0, 0)},
			shots:     []object.Projectile{shot(1, 0, 0), shot(2, 0, 0.1)},
			wantPairs: 1,
		},
		{
			name:      "damaged target stays pairable",
			outcome:   collision.TargetDamaged,
			targets:   []object.Target{target(10, 0, 0)},
			shots:     []object.Projectile{shot(1, 0, 0), shot(2, 0, 0.1)},
			wantPairs: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePairer{outcome: tt.outcome}
			if err := testDetector().Detect(p, tt.targets, tt.shots); err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if len(p.pairs) != tt.wantPairs {
				t.Errorf("pairings = %v, want %d", p.pairs, tt.wantPairs)
			}
			if len(p.exits) != tt.wantExits {
				t.Errorf("exits = %v, want %d", p.exits, tt.wantExits)
			}
		})
	}
}

func TestDetectReusesState(t *testing.T) {
	d := testDetector()
	p := &fakePairer{outcome: collision.Destroy}
	if err := d.Detect(p, []object.Target{target(10, 0, 0)}, []object.Projectile{shot(1, 0, 0)}); err != nil {
		t.Fatal(err)
	}
	// The target removed last frame is gone from the grid too.
	if err := d.Detect(p, []object.Target{target(11, 3, 3)}, []object.Projectile{shot(2, 0, 0)}); err != nil {
		t.Fatal(err)
	}
	if len(p.pairs) != 1 || p.pairs[0] != (pairing{1, 10}) {
		t.Errorf("pairings = %v", p.pairs)
	}
}

func TestDetectErrors(t *testing.T) {
	targets := []object.Target{target(10, 0, 0)}
	shots := []object.Projectile{shot(1, 0, 0), shot(2, 0, 0)}

	p := &fakePairer{err: round.ErrNotPlaying}
	if err := testDetector().Detect(p, targets, shots); err != nil {
		t.Errorf("round over should end detection quietly, got %v", err)
	}
	if len(p.pairs) != 1 {
		t.Errorf("detection should stop at the first refusal, got %v", p.pairs)
	}

	p = &fakePairer{err: round.ErrUnknownTarget}
	err := testDetector().Detect(p, targets, shots)
	if !errors.Is(err, round.ErrUnknownTarget) {
		t.Errorf("err = %v, want ErrUnknownTarget", err)
	}
}
