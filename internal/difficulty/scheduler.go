// Package difficulty owns spawn cadence and how it tightens as the score grows.
package difficulty

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned by New for parameters that cannot form a ramp.
var ErrInvalidParams = errors.New("difficulty: invalid parameters")

// Params configures a Scheduler.
type Params struct {
	InitialInterval float64 // Seconds between spawns at score 0
	MinInterval     float64 // Floor for the spawn interval
	StepDecrement   float64 // Interval reduction per threshold crossed
	ScoreStep       int     // Points between thresholds

	// Fall speeds are drawn from [FallSpeedMin, FallSpeedMax] and the range
	// is nudged up by the ramp on every threshold crossed.
	FallSpeedMin     float64
	FallSpeedMax     float64
	FallSpeedRampMin float64
	FallSpeedRampMax float64
}

// Validate checks the parameters.
func (p Params) Validate() error {
	switch {
	case p.InitialInterval <= 0:
		return fmt.Errorf("%w: initial interval %.3f must be positive", ErrInvalidParams, p.InitialInterval)
	case p.MinInterval <= 0:
		return fmt.Errorf("%w: min interval %.3f must be positive", ErrInvalidParams, p.MinInterval)
	case p.MinInterval > p.InitialInterval:
		return fmt.Errorf("%w: min interval %.3f > initial interval %.3f", ErrInvalidParams, p.MinInterval, p.InitialInterval)
	case p.StepDecrement < 0:
		return fmt.Errorf("%w: step decrement %.3f is negative", ErrInvalidParams, p.StepDecrement)
	case p.ScoreStep < 1:
		return fmt.Errorf("%w: score step %d must be at least 1", ErrInvalidParams, p.ScoreStep)
	case p.FallSpeedMin > p.FallSpeedMax:
		return fmt.Errorf("%w: fall speed min %.3f > max %.3f", ErrInvalidParams, p.FallSpeedMin, p.FallSpeedMax)
	case p.FallSpeedRampMin < 0 || p.FallSpeedRampMax < 0:
		return fmt.Errorf("%w: fall speed ramp must not be negative", ErrInvalidParams)
	case p.FallSpeedRampMin > p.FallSpeedRampMax:
		return fmt.Errorf("%w: fall speed ramp min %.3f > max %.3f", ErrInvalidParams, p.FallSpeedRampMin, p.FallSpeedRampMax)
	}
	return nil
}

// State is a snapshot of the scheduler.
type State struct {
	CurrentInterval    float64
	MinInterval        float64
	StepDecrement      float64
	NextScoreThreshold int
	ScoreStep          int
	Elapsed            float64
	FallSpeedMin       float64
	FallSpeedMax       float64
	Steps              int // Thresholds crossed this round
}

// Scheduler is a single-timer state machine that signals when to spawn.
type Scheduler struct {
	params   Params
	current  float64
	elapsed  float64
	next     int
	steps    int
	speedMin float64
	speedMax float64
}

// New creates a scheduler in its initial state.
func New(p Params) (*Scheduler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{params: p}
	s.Reset()
	return s, nil
}

// Reset returns the scheduler to the start of a round.
func (s *Scheduler) Reset() {
	s.current = s.params.InitialInterval
	s.elapsed = 0
	s.next = s.params.ScoreStep
	s.steps = 0
	s.speedMin = s.params.FallSpeedMin
	s.speedMax = s.params.FallSpeedMax
}

// Advance accumulates dt and reports whether a spawn is due.
// At most one spawn is signalled per call; the timer restarts from zero
// instead of carrying the overshoot, so large frames never cause bursts.
func (s *Scheduler) Advance(dt float64) bool {
	if dt > 0 {
		s.elapsed += dt
	}
	if s.elapsed >= s.current {
		s.elapsed = 0
		return true
	}
	return false
}

// ScoreChanged applies one difficulty step per threshold the score has
// reached and returns how many steps were applied.
func (s *Scheduler) ScoreChanged(score int) int {
	applied := 0
	for score >= s.next {
		s.current = math.Max(s.params.MinInterval, s.current-s.params.StepDecrement)
		s.speedMin += s.params.FallSpeedRampMin
		s.speedMax += s.params.FallSpeedRampMax
		s.next += s.params.ScoreStep
		s.steps++
		applied++
	}
	return applied
}

// Interval returns the current spawn interval in seconds.
func (s *Scheduler) Interval() float64 {
	return s.current
}

// NextThreshold returns the score at which the next step applies.
func (s *Scheduler) NextThreshold() int {
	return s.next
}

// FallSpeedRange returns the current fall-speed range.
func (s *Scheduler) FallSpeedRange() (lo, hi float64) {
	return s.speedMin, s.speedMax
}

// Snapshot returns the full scheduler state.
func (s *Scheduler) Snapshot() State {
	return State{
		CurrentInterval:    s.current,
		MinInterval:        s.params.MinInterval,
		StepDecrement:      s.params.StepDecrement,
		NextScoreThreshold: s.next,
		ScoreStep:          s.params.ScoreStep,
		Elapsed:            s.elapsed,
		FallSpeedMin:       s.speedMin,
		FallSpeedMax:       s.speedMax,
		Steps:              s.steps,
	}
}
