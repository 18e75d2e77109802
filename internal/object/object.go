// Package object defines the simulation entities: projectiles fired by the
// emitter and the targets they are aimed at.
package object

import "fmt"

// ID identifies a live entity. IDs are never reused within a controller,
// so a stale ID cannot resolve to a recycled pool slot.
type ID uint64

// Vec2 is a position in world units. Y grows upward.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Color is the tag shared by projectiles and targets in match mode.
type Color int

const (
	Red Color = iota
	Green
	Yellow
	Blue
)

// ColorCount is the size of the full palette.
const ColorCount = 4

var colorNames = [ColorCount]string{"red", "green", "yellow", "blue"}

// Valid reports whether c is inside the palette.
func (c Color) Valid() bool {
	return c >= 0 && c < ColorCount
}

// Next returns the colour after c, wrapping within a palette of size n.
func (c Color) Next(n int) Color {
	if n <= 0 || n > ColorCount {
		n = ColorCount
	}
	return Color((int(c) + 1) % n)
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// Visual is what the shell needs to draw an entity.
type Visual struct {
	Color     Color
	HitPoints int // 0 for entities without hit points
}
