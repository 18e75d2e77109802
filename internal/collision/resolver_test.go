package collision

import (
	"testing"

	"github.com/Samster1523/ColorShooter2/internal/object"
)

func TestMatchPolicyTruthTable(t *testing.T) {
	r := NewResolver(Match)
	for pc := object.Color(0); pc < object.ColorCount; pc++ {
		for tc := object.Color(0); tc < object.ColorCount; tc++ {
			p := &object.Projectile{ID: 1, Tag: pc, Tagged: true, Pos: object.Vec2{X: 1, Y: 2}, Speed: 12}
			tg := &object.Target{ID: 2, Color: tc, HitPoints: 1, MaxHitPoints: 1, Pos: object.Vec2{X: 1, Y: 2}}
			pBefore, tBefore := *p, *tg

			got := r.Resolve(p, tg)
			want := PassThrough
			if pc == tc {
				want = Destroy
			}
			if got != want {
				t.Errorf("resolve(%v, %v) = %v, want %v", pc, tc, got, want)
			}
			if *p != pBefore || *tg != tBefore {
				t.Errorf("resolve(%v, %v) mutated its inputs", pc, tc)
			}
		}
	}
}

func TestMatchPolicyUntaggedPassesThrough(t *testing.T) {
	r := NewResolver(Match)
	p := &object.Projectile{Tag: object.Red}
	tg := &object.Target{Color: object.Red, HitPoints: 1}
	if got := r.Resolve(p, tg); got != PassThrough {
		t.Fatalf("untagged projectile resolved to %v", got)
	}
}

func TestAttritionDestroysAfterExactHitPoints(t *testing.T) {
	r := NewResolver(Attrition)
	for hp := 1; hp <= 6; hp++ {
		var tg object.Target
		tg.Init(1, object.Vec2{}, object.Green, hp, object.Motion{})
		p := &object.Projectile{}

		for i := 1; i <= hp; i++ {
			got := r.Resolve(p, &tg)
			if i < hp {
				if got != TargetDamaged {
					t.Fatalf("hp=%d hit %d = %v, want TargetDamaged", hp, i, got)
				}
				tg.TakeHit()
				continue
			}
			if got != TargetDestroyed {
				t.Fatalf("hp=%d last hit = %v, want TargetDestroyed", hp, got)
			}
		}
	}
}

func TestAttritionIgnoresColour(t *testing.T) {
	r := NewResolver(Attrition)
	p := &object.Projectile{Tag: object.Red, Tagged: true}
	tg := &object.Target{Color: object.Blue, HitPoints: 2}
	if got := r.Resolve(p, tg); got != TargetDamaged {
		t.Fatalf("got %v, want TargetDamaged", got)
	}
}

func TestOutcomeHelpers(t *testing.T) {
	tests := []struct {
		o       Outcome
		consume bool
		remove  bool
	}{
		{PassThrough, false, false},
		{Destroy, true, true},
		{TargetDamaged, true, false},
		{TargetDestroyed, true, true},
	}
	for _, tt := range tests {
		if tt.o.ConsumesProjectile() != tt.consume || tt.o.RemovesTarget() != tt.remove || tt.o.Scores() != tt.remove {
			t.Errorf("%v helpers wrong", tt.o)
		}
	}
}

func TestPolicyText(t *testing.T) {
	var p Policy
	if err := p.UnmarshalText([]byte("attrition")); err != nil || p != Attrition {
		t.Fatalf("unmarshal attrition = %v, %v", p, err)
	}
	if err := p.UnmarshalText([]byte("bogus")); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
