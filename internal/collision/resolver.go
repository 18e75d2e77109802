// Package collision decides what happens when a projectile meets a target.
package collision

import (
	"fmt"

	"github.com/Samster1523/ColorShooter2/internal/object"
)

// Policy selects the resolution rules for a game mode.
type Policy int

const (
	Match     Policy = iota // Same colour destroys both, anything else passes through
	Attrition               // Every hit costs the target one hit point
)

func (p Policy) String() string {
	switch p {
	case Match:
		return "match"
	case Attrition:
		return "attrition"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "match":
		*p = Match
	case "attrition":
		*p = Attrition
	default:
		return fmt.Errorf("unknown collision policy %q", string(b))
	}
	return nil
}

// Outcome is the result of a projectile meeting a target.
type Outcome int

const (
	PassThrough     Outcome = iota // Nothing happens
	Destroy                        // Colour match: both removed
	TargetDamaged                  // Projectile consumed, target survives
	TargetDestroyed                // Projectile consumed, target out of hit points
)

func (o Outcome) String() string {
	switch o {
	case PassThrough:
		return "pass-through"
	case Destroy:
		return "destroy"
	case TargetDamaged:
		return "target-damaged"
	case TargetDestroyed:
		return "target-destroyed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ConsumesProjectile reports whether the projectile goes back to its pool.
func (o Outcome) ConsumesProjectile() bool {
	return o != PassThrough
}

// RemovesTarget reports whether the target goes back to its pool.
func (o Outcome) RemovesTarget() bool {
	return o == Destroy || o == TargetDestroyed
}

// Scores reports whether the outcome is worth a point.
func (o Outcome) Scores() bool {
	return o.RemovesTarget()
}

// Resolver maps a projectile/target pair to an outcome. It never mutates
// either entity; applying the outcome is the caller's job.
type Resolver struct {
	policy Policy
}

// NewResolver creates a resolver for the given policy.
func NewResolver(p Policy) Resolver {
	return Resolver{policy: p}
}

// Policy returns the resolver's policy.
func (r Resolver) Policy() Policy {
	return r.policy
}

// Resolve computes the outcome for p hitting t.
func (r Resolver) Resolve(p *object.Projectile, t *object.Target) Outcome {
	switch r.policy {
	case Attrition:
		if t.HitPoints <= 1 {
			return TargetDestroyed
		}
		return TargetDamaged
	default:
		if p.Tagged && p.Tag == t.Color {
			return Destroy
		}
		return PassThrough
	}
}
