// Package round drives one round of play: it owns the entity pools, the
// difficulty scheduler, the active target set and the score, and advances
// the whole simulation one frame at a time.
package round

import (
	"fmt"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Samster1523/ColorShooter2/internal/collision"
	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/difficulty"
	"github.com/Samster1523/ColorShooter2/internal/object"
	"github.com/Samster1523/ColorShooter2/internal/pool"
)

// Option configures a Controller.
type Option func(*Controller)

// WithSeed seeds the controller's random source.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand sets the controller's random source.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithLogger sets the logger for lifecycle and misuse messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Stats reports pool occupancy.
type Stats struct {
	ProjectilesActive    int
	ProjectilesFree      int
	ProjectilesAllocated int
	TargetsActive        int
	TargetsFree          int
	TargetsAllocated     int
}

// Controller is the round state machine. It is not safe for concurrent use:
// the host calls Tick and the input/physics entry points from one goroutine.
type Controller struct {
	cfg      config.Round
	state    State
	score    int
	sched    *difficulty.Scheduler
	resolver collision.Resolver
	rng      *rand.Rand
	log      *log.Logger

	projectilePool *pool.Pool[object.Projectile]
	targetPool     *pool.Pool[object.Target]

	targets     []*object.Target // Active set, spawn order
	targetByID  map[object.ID]*object.Target
	projectiles []*object.Projectile
	shotByID    map[object.ID]*object.Projectile

	nextID   object.ID
	handlers []Handler
}

// New creates an idle controller for cfg.
func New(cfg config.Round, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sched, err := difficulty.New(cfg.DifficultyParams())
	if err != nil {
		return nil, fmt.Errorf("difficulty scheduler: %w", err)
	}

	c := &Controller{
		cfg:            cfg,
		state:          Idle,
		sched:          sched,
		resolver:       collision.NewResolver(cfg.Policy),
		log:            log.New(io.Discard),
		projectilePool: pool.New(func() *object.Projectile { return &object.Projectile{} }, cfg.Pool.Projectiles),
		targetPool:     pool.New(func() *object.Target { return &object.Target{} }, cfg.Pool.Targets),
		targetByID:     make(map[object.ID]*object.Target),
		shotByID:       make(map[object.ID]*object.Projectile),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c, nil
}

// Subscribe registers h for every future event.
func (c *Controller) Subscribe(h Handler) {
	if h != nil {
		c.handlers = append(c.handlers, h)
	}
}

func (c *Controller) emit(e Event) {
	for _, h := range c.handlers {
		h(e)
	}
}

// Start begins a fresh round from any state: score 0, difficulty reset,
// no live targets or projectiles.
func (c *Controller) Start() {
	c.clearEntities()
	c.score = 0
	c.sched.Reset()
	c.setState(Playing)
	c.emit(Event{Type: EventScoreChanged, Score: 0})
	c.log.Info("round started", "policy", c.cfg.Policy, "motion", c.cfg.Motion, "fail", c.cfg.FailRule)
}

// Tick advances the round by dt seconds.
func (c *Controller) Tick(dt float64) {
	if c.state != Playing {
		return
	}
	if dt < 0 {
		dt = 0
	}

	for _, p := range c.projectiles {
		p.Advance(dt)
	}
	for _, t := range c.targets {
		t.Advance(dt)
	}

	if c.sched.Advance(dt) {
		c.TrySpawnTarget()
	}

	switch c.cfg.FailRule {
	case config.FailLine:
		for _, t := range c.targets {
			if t.Pos.Y <= c.cfg.FailLineY {
				c.loseRound("fail line reached", t.ID)
				return
			}
		}
	case config.FailCap:
		if len(c.targets) >= c.cfg.MaxOnScreen {
			c.loseRound("population cap reached", 0)
		}
	}
}

// FireProjectile launches a projectile from origin. The tag only matters
// under the match policy. The origin is not checked against the playfield.
func (c *Controller) FireProjectile(origin object.Vec2, tag object.Color) (object.ID, error) {
	if c.state != Playing {
		c.log.Debug("fire rejected", "state", c.state)
		return 0, ErrNotPlaying
	}
	tagged := c.resolver.Policy() == collision.Match

	p := c.projectilePool.Acquire()
	p.Fire(c.newID(), origin, c.cfg.ProjectileSpeed, tag, tagged)
	c.projectiles = append(c.projectiles, p)
	c.shotByID[p.ID] = p

	c.emit(Event{Type: EventProjectileSpawned, ID: p.ID, Pos: p.Pos, Visual: p.Visual()})
	return p.ID, nil
}

// OnPairingDetected resolves a projectile overlapping a target and applies
// the outcome. Outside Playing it returns ErrNotPlaying and changes nothing.
func (c *Controller) OnPairingDetected(projectileID, targetID object.ID) (collision.Outcome, error) {
	if c.state != Playing {
		return collision.PassThrough, ErrNotPlaying
	}
	p, ok := c.shotByID[projectileID]
	if !ok {
		return collision.PassThrough, fmt.Errorf("%w: %d", ErrUnknownProjectile, projectileID)
	}
	t, ok := c.targetByID[targetID]
	if !ok {
		return collision.PassThrough, fmt.Errorf("%w: %d", ErrUnknownTarget, targetID)
	}

	out := c.resolver.Resolve(p, t)
	switch out {
	case collision.Destroy, collision.TargetDestroyed:
		if out == collision.TargetDestroyed {
			t.TakeHit()
		}
		c.removeTarget(t, ReasonPopped)
		c.removeProjectile(p, ReasonConsumed)
		c.setScore(c.score + 1)
	case collision.TargetDamaged:
		t.TakeHit()
		c.emit(Event{Type: EventTargetDamaged, ID: t.ID, Pos: t.Pos, Visual: c.targetVisual(t)})
		c.removeProjectile(p, ReasonConsumed)
	}
	return out, nil
}

// ProjectileExitedPlayfield returns a projectile that left the playfield
// to its pool.
func (c *Controller) ProjectileExitedPlayfield(projectileID object.ID) error {
	if c.state != Playing {
		return ErrNotPlaying
	}
	p, ok := c.shotByID[projectileID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProjectile, projectileID)
	}
	c.removeProjectile(p, ReasonExited)
	return nil
}

// setScore updates the score and re-evaluates difficulty in the same call.
func (c *Controller) setScore(score int) {
	c.score = score
	if steps := c.sched.ScoreChanged(score); steps > 0 {
		c.log.Debug("difficulty step", "score", score, "interval", c.sched.Interval(), "steps", steps)
	}
	c.emit(Event{Type: EventScoreChanged, Score: score})
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.emit(Event{Type: EventStateChanged, State: s})
}

// loseRound moves to GameOver and sweeps every live entity.
func (c *Controller) loseRound(reason string, offender object.ID) {
	c.clearEntities()
	c.setState(GameOver)
	c.emit(Event{Type: EventGameOver, Score: c.score})
	c.log.Info("round over", "reason", reason, "target", offender, "score", c.score)
}

func (c *Controller) clearEntities() {
	for _, t := range c.targets {
		v := c.targetVisual(t)
		c.releaseTarget(t)
		c.emit(Event{Type: EventTargetRemoved, ID: t.ID, Pos: t.Pos, Visual: v, Reason: ReasonCleared})
	}
	c.targets = c.targets[:0]
	clear(c.targetByID)

	for _, p := range c.projectiles {
		c.releaseProjectile(p)
		c.emit(Event{Type: EventProjectileRemoved, ID: p.ID, Pos: p.Pos, Visual: p.Visual(), Reason: ReasonCleared})
	}
	c.projectiles = c.projectiles[:0]
	clear(c.shotByID)
}

func (c *Controller) removeTarget(t *object.Target, reason RemoveReason) {
	if i := slices.Index(c.targets, t); i >= 0 {
		c.targets = slices.Delete(c.targets, i, i+1)
	}
	delete(c.targetByID, t.ID)
	v := c.targetVisual(t)
	c.releaseTarget(t)
	c.emit(Event{Type: EventTargetRemoved, ID: t.ID, Pos: t.Pos, Visual: v, Reason: reason})
}

func (c *Controller) removeProjectile(p *object.Projectile, reason RemoveReason) {
	if i := slices.Index(c.projectiles, p); i >= 0 {
		c.projectiles = slices.Delete(c.projectiles, i, i+1)
	}
	delete(c.shotByID, p.ID)
	c.releaseProjectile(p)
	c.emit(Event{Type: EventProjectileRemoved, ID: p.ID, Pos: p.Pos, Visual: p.Visual(), Reason: reason})
}

func (c *Controller) releaseTarget(t *object.Target) {
	if err := c.targetPool.Release(t); err != nil {
		c.log.Error("release target", "id", t.ID, "err", err)
	}
}

func (c *Controller) releaseProjectile(p *object.Projectile) {
	if err := c.projectilePool.Release(p); err != nil {
		c.log.Error("release projectile", "id", p.ID, "err", err)
	}
}

func (c *Controller) newID() object.ID {
	c.nextID++
	return c.nextID
}

// targetVisual hides hit points under the match policy, where they are
// always 1 and carry no information.
func (c *Controller) targetVisual(t *object.Target) object.Visual {
	v := t.Visual()
	if c.cfg.Policy == collision.Match {
		v.HitPoints = 0
	}
	return v
}

// State returns the lifecycle phase.
func (c *Controller) State() State {
	return c.state
}

// Score returns the current score.
func (c *Controller) Score() int {
	return c.score
}

// Config returns the round configuration.
func (c *Controller) Config() config.Round {
	return c.cfg
}

// Difficulty returns a snapshot of the scheduler.
func (c *Controller) Difficulty() difficulty.State {
	return c.sched.Snapshot()
}

// TargetCount returns the size of the active set.
func (c *Controller) TargetCount() int {
	return len(c.targets)
}

// ProjectileCount returns the number of live projectiles.
func (c *Controller) ProjectileCount() int {
	return len(c.projectiles)
}

// Targets appends copies of the live targets, in spawn order, to dst.
func (c *Controller) Targets(dst []object.Target) []object.Target {
	for _, t := range c.targets {
		dst = append(dst, *t)
	}
	return dst
}

// Projectiles appends copies of the live projectiles to dst.
func (c *Controller) Projectiles(dst []object.Projectile) []object.Projectile {
	for _, p := range c.projectiles {
		dst = append(dst, *p)
	}
	return dst
}

// Stats returns pool occupancy.
func (c *Controller) Stats() Stats {
	return Stats{
		ProjectilesActive:    c.projectilePool.Active(),
		ProjectilesFree:      c.projectilePool.Free(),
		ProjectilesAllocated: c.projectilePool.Allocated(),
		TargetsActive:        c.targetPool.Active(),
		TargetsFree:          c.targetPool.Free(),
		TargetsAllocated:     c.targetPool.Allocated(),
	}
}
