package object

import (
	"fmt"
	"math"
)

// MotionKind selects how a target moves.
type MotionKind int

const (
	MotionFall  MotionKind = iota // Constant downward speed
	MotionFloat                   // Sinusoidal bob around a base height
)

func (k MotionKind) String() string {
	switch k {
	case MotionFall:
		return "fall"
	case MotionFloat:
		return "float"
	default:
		return fmt.Sprintf("motion(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k MotionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MotionKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "fall":
		*k = MotionFall
	case "float":
		*k = MotionFloat
	default:
		return fmt.Errorf("unknown motion %q", string(b))
	}
	return nil
}

// Motion holds the per-target motion parameters.
type Motion struct {
	Kind         MotionKind
	FallSpeed    float64 // MotionFall: units per second, downward
	Amplitude    float64 // MotionFloat
	AngularSpeed float64 // MotionFloat: radians per second
	Phase        float64 // MotionFloat: radians
}

// Target is the object a projectile must hit. It carries a colour and,
// in attrition mode, a hit-point counter.
type Target struct {
	ID           ID
	Pos          Vec2
	Color        Color
	HitPoints    int
	MaxHitPoints int
	Motion       Motion

	baseY float64
	age   float64
}

// Init resets the target for a new spawn. Hit points are clamped to at least 1.
func (t *Target) Init(id ID, pos Vec2, color Color, hitPoints int, m Motion) {
	if hitPoints < 1 {
		hitPoints = 1
	}
	t.ID = id
	t.Pos = pos
	t.Color = color
	t.HitPoints = hitPoints
	t.MaxHitPoints = hitPoints
	t.Motion = m
	t.baseY = pos.Y
	t.age = 0
	if m.Kind == MotionFloat {
		t.Pos.Y = t.floatY()
	}
}

// Advance moves the target by dt seconds.
func (t *Target) Advance(dt float64) {
	t.age += dt
	switch t.Motion.Kind {
	case MotionFall:
		t.Pos.Y -= t.Motion.FallSpeed * dt
	case MotionFloat:
		t.Pos.Y = t.floatY()
	}
}

func (t *Target) floatY() float64 {
	m := t.Motion
	return t.baseY + math.Sin(t.age*m.AngularSpeed+m.Phase)*m.Amplitude
}

// BaseY returns the height the target spawned at (the float centre line).
func (t *Target) BaseY() float64 {
	return t.baseY
}

// TakeHit removes one hit point and reports whether the target is exhausted.
func (t *Target) TakeHit() bool {
	if t.HitPoints > 0 {
		t.HitPoints--
	}
	return t.HitPoints <= 0
}

// Exhausted reports whether the target has no hit points left.
func (t *Target) Exhausted() bool {
	return t.HitPoints <= 0
}

// Visual returns the drawing hints for the shell.
func (t *Target) Visual() Visual {
	return Visual{Color: t.Color, HitPoints: t.HitPoints}
}
