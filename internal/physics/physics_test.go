package physics

import (
	"math"
	"slices"
	"testing"

	"github.com/Samster1523/ColorShooter2/internal/object"
)

func TestOverlapTests(t *testing.T) {
	tests := []struct {
		name string
		a, b object.Vec2
		ra   float64
		rb   float64
		want bool
	}{
		{"same point", object.Vec2{}, object.Vec2{}, 0.1, 0.45, true},
		{"inside", object.Vec2{X: 0.3}, object.Vec2{}, 0.1, 0.45, true},
		{"touching", object.Vec2{X: 0.5}, object.Vec2{}, 0.25, 0.25, false},
		{"apart", object.Vec2{X: 1, Y: 1}, object.Vec2{}, 0.1, 0.45, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CirclesOverlap(tt.a, tt.ra, tt.b, tt.rb); got != tt.want {
				t.Errorf("CirclesOverlap = %v, want %v", got, tt.want)
			}
		})
	}

	if !PointInCircle(object.Vec2{X: 3, Y: 4}, object.Vec2{}, 5) {
		t.Error("point on the rim should be inside")
	}
	if d := Distance(object.Vec2{X: 1, Y: 1}, object.Vec2{X: 4, Y: 5}); math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance = %f, want 5", d)
	}
}

func TestGridFindsNeighbours(t *testing.T) {
	g := NewSpatialGrid(Bounds{MinX: -4, MinY: -4, MaxX: 4, MaxY: 13}, 1)
	g.Insert(object.Vec2{X: -2.5, Y: 9.5}, 1)
	g.Insert(object.Vec2{X: 0.1, Y: 0.1}, 2)
	g.Insert(object.Vec2{X: 2.5, Y: -3.9}, 3)
	g.Insert(object.Vec2{X: 40, Y: 40}, 4) // clamped into the top-right cell

	collect := func(p object.Vec2) []object.ID {
		var ids []object.ID
		g.QueryAround(p, func(id object.ID) bool {
			ids = append(ids, id)
			return false
		})
		slices.Sort(ids)
		return ids
	}

	if got := collect(object.Vec2{X: -0.5, Y: -0.2}); !slices.Equal(got, []object.ID{2}) {
		t.Errorf("query near origin = %v", got)
	}
	if got := collect(object.Vec2{X: -2, Y: 9}); !slices.Equal(got, []object.ID{1}) {
		t.Errorf("query near spawn = %v", got)
	}
	if got := collect(object.Vec2{X: 3.9, Y: 12.9}); !slices.Equal(got, []object.ID{4}) {
		t.Errorf("query in corner = %v", got)
	}
	// The grid does not wrap: the bottom row is not a neighbour of the top.
	if got := collect(object.Vec2{X: 2.5, Y: 12.9}); slices.Contains(got, 3) {
		t.Errorf("query wrapped to the bottom edge: %v", got)
	}

	g.Clear()
	if got := collect(object.Vec2{}); len(got) != 0 {
		t.Errorf("cleared grid returned %v", got)
	}
}

func TestGridQueryStopsEarly(t *testing.T) {
	g := NewSpatialGrid(Bounds{MaxX: 2, MaxY: 2}, 1)
	for i := object.ID(1); i <= 5; i++ {
		g.Insert(object.Vec2{X: 0.5, Y: 0.5}, i)
	}
	calls := 0
	g.QueryAround(object.Vec2{X: 0.5, Y: 0.5}, func(object.ID) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Errorf("query made %d calls after stop, want 1", calls)
	}
}
