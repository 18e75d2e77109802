// Package physics provides the overlap tests and broad phase the shell uses
// to detect projectile/target pairings.
package physics

import (
	"math"

	"github.com/Samster1523/ColorShooter2/internal/object"
)

// Distance returns the Euclidean distance between a and b.
func Distance(a, b object.Vec2) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared returns the squared distance between a and b.
func DistanceSquared(a, b object.Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// PointInCircle reports whether p lies within radius of centre (inclusive).
func PointInCircle(p, centre object.Vec2, radius float64) bool {
	return DistanceSquared(p, centre) <= radius*radius
}

// CirclesOverlap reports whether two circles intersect. Touching circles do
// not overlap.
func CirclesOverlap(a object.Vec2, ra float64, b object.Vec2, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a, b) < minDist*minDist
}
