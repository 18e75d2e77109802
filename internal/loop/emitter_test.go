package loop

import (
	"testing"

	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/object"
)

func testEmitter(colors int) *Emitter {
	return NewEmitter(config.Emitter{MinX: -1, MaxX: 1, Y: -3, MoveSpeed: 2, FireCooldown: 0.5}, colors)
}

func TestEmitterMoveClamps(t *testing.T) {
	tests := []struct {
		name string
		dir  float64
		dt   float64
		want float64
	}{
		{"still", 0, 1, 0},
		{"right", 1, 0.25, 0.5},
		{"left", -1, 0.25, -0.5},
		{"past right edge", 1, 10, 1},
		{"past left edge", -1, 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEmitter(4)
			e.Move(tt.dir, tt.dt)
			if e.X != tt.want {
				t.Errorf("X = %f, want %f", e.X, tt.want)
			}
			if m := e.Muzzle(); m.Y != -3 || m.X != tt.want {
				t.Errorf("Muzzle = %+v", m)
			}
		})
	}
}

func TestEmitterColours(t *testing.T) {
	e := testEmitter(2)
	if e.Color != object.Red {
		t.Fatalf("initial colour = %v, want red", e.Color)
	}
	e.Cycle()
	if e.Color != object.Green {
		t.Errorf("after one cycle = %v, want green", e.Color)
	}
	e.Cycle()
	if e.Color != object.Red {
		t.Errorf("cycle should wrap within the palette, got %v", e.Color)
	}

	if e.Select(3) {
		t.Error("slot outside a two-colour palette should be refused")
	}
	if e.Select(0) {
		t.Error("slot 0 should be refused")
	}
	if !e.Select(2) || e.Color != object.Green {
		t.Errorf("Select(2) gave %v", e.Color)
	}

	e.Move(1, 1)
	e.Reset()
	if e.X != 0 || e.Color != object.Red {
		t.Errorf("Reset left X=%f colour=%v", e.X, e.Color)
	}
}

func TestEmitterCooldown(t *testing.T) {
	e := testEmitter(4)
	if !e.TryFire() {
		t.Fatal("first shot should fire")
	}
	if e.TryFire() {
		t.Error("second shot inside the cooldown should not fire")
	}
	e.Cool(0.3)
	if e.TryFire() {
		t.Error("cooldown not yet over")
	}
	e.Cool(0.3)
	if !e.TryFire() {
		t.Error("cooldown over, shot should fire")
	}
}
