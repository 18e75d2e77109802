// Package loop hosts rounds in a terminal: the per-player frame loop with
// input, geometry and drawing, and a hub that ties SSH sessions together.
package loop

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/draw"
	"github.com/Samster1523/ColorShooter2/internal/input"
	"github.com/Samster1523/ColorShooter2/internal/object"
	"github.com/Samster1523/ColorShooter2/internal/replay"
	"github.com/Samster1523/ColorShooter2/internal/round"
)

// Driver is the inbound side of a round.
type Driver interface {
	Pairer
	Start()
	Tick(dt float64)
	FireProjectile(origin object.Vec2, tag object.Color) (object.ID, error)
}

var (
	_ Driver = (*round.Controller)(nil)
	_ Driver = (*replay.Recorder)(nil)
)

type screen int

const (
	screenStart screen = iota
	screenPlaying
	screenGameOver
	screenShutdown
)

// SessionOptions configures a session.
type SessionOptions struct {
	Game         config.Game
	Seed         int64 // 0 picks a time-based seed
	Record       bool  // Keep a replay log of the session
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Hub          *Hub // Nil for a local game
	Logger       *log.Logger
}

// Session runs rounds for one player on one terminal.
type Session struct {
	game     config.Game
	ctrl     *round.Controller
	drive    Driver
	recorder *replay.Recorder

	emitter   *Emitter
	detector  *Detector
	particles *particles
	view      viewport

	canvas       *draw.Canvas
	cw           *draw.ChunkWriter
	writer       io.Writer
	stream       *input.Stream
	termSizeFunc draw.TermSizeFunc

	hub    *Hub
	handle *Handle
	log    *log.Logger

	in            input.Input
	screen        screen
	prevScreen    screen
	running       bool
	delta         time.Duration
	lastInput     time.Time
	inactive      bool
	wasInactive   bool
	shutdownTimer float64
	bestName      string
	bestScore     int
	finalScore    int

	targets []object.Target
	shots   []object.Projectile
}

// NewSession creates a session reading keys from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts SessionOptions) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game := opts.Game
	if err := game.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		game:         game,
		emitter:      NewEmitter(game.Emitter, game.Round.Colors),
		particles:    newParticles(rand.New(rand.NewSource(seed))),
		writer:       w,
		stream:       input.StartStream(r),
		termSizeFunc: termSizeFunc,
		hub:          opts.Hub,
		log:          logger,
		running:      true,
		lastInput:    time.Now(),
	}

	if opts.Record {
		rec, err := replay.NewRecorder(game.Round, game.Mode, seed, round.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create recorder: %w", err)
		}
		s.recorder, s.ctrl, s.drive = rec, rec.Controller(), rec
	} else {
		ctrl, err := round.New(game.Round, round.WithSeed(seed), round.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create round: %w", err)
		}
		s.ctrl, s.drive = ctrl, ctrl
	}
	s.ctrl.Subscribe(s.onRoundEvent)

	world := worldBounds(game)
	s.view = newViewport(world)
	s.detector = NewDetector(world, game.Hitbox, game.Round.PlayfieldTop)

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	s.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, ViewWidth, ViewHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.cw = draw.NewChunkWriter(w, offsetCol, offsetRow)

	if s.hub != nil {
		s.handle = s.hub.Register(opts.Username)
		s.bestName, s.bestScore = s.hub.Best()
	}
	return s, nil
}

// Controller exposes the session's round for inspection.
func (s *Session) Controller() *round.Controller {
	return s.ctrl
}

// ReplayLog returns the recording, or nil when the session is not recording.
func (s *Session) ReplayLog() *replay.Log {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Log()
}

// Run drives frames until the player quits, the input closes or the hub
// shuts down.
func (s *Session) Run() error {
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	defer func() {
		if s.hub != nil {
			s.hub.Unregister(s.handle.ID)
		}
		draw.ClearScreen(s.writer)
	}()

	lastTime := time.Now()
	for s.running {
		frameStart := time.Now()
		s.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		s.processInput()
		s.processHubEvents()
		s.updateInactivity()
		s.updateScreen()
		s.step(s.delta.Seconds())

		if err := s.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < TargetFrameTime {
			time.Sleep(TargetFrameTime - elapsed)
		}
	}
	return nil
}

// step advances the current screen by dt seconds.
func (s *Session) step(dt float64) {
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	switch s.screen {
	case screenStart:
		if s.in.Enter || s.in.Fire {
			s.startRound()
		}
	case screenPlaying:
		s.updatePlaying(dt)
	case screenGameOver:
		if s.in.Enter {
			s.startRound()
		} else if s.in.Escape {
			s.screen = screenStart
		}
	case screenShutdown:
		s.shutdownTimer -= dt
		if s.shutdownTimer <= 0 {
			s.running = false
		}
	}
	s.particles.update(dt)
}

func (s *Session) processInput() {
	s.in = input.ReadInput(s.stream)
	if len(s.in.Pressed) > 0 {
		s.lastInput = time.Now()
	}
	if s.in.Quit || s.in.Closed {
		s.running = false
	}
}

func (s *Session) processHubEvents() {
	if s.handle == nil {
		return
	}
	for {
		select {
		case e, ok := <-s.handle.Events:
			if !ok {
				s.running = false
				return
			}
			switch e.Type {
			case EventServerShutdown:
				s.screen = screenShutdown
				s.shutdownTimer = ShutdownDisplaySeconds
			case EventNewBest:
				s.bestName, s.bestScore = e.Username, e.Score
			}
		default:
			return
		}
	}
}

// updateInactivity warns and then disconnects idle SSH players.
func (s *Session) updateInactivity() {
	if s.hub == nil {
		return
	}
	idle := time.Since(s.lastInput).Seconds()
	s.inactive = idle >= InactivityWarnUser
	if idle >= InactivityDisconnectUser {
		s.log.Info("disconnecting idle session", "user", s.handle.Username)
		s.running = false
	}
}

// updateScreen follows terminal resizes. A real size change clears the
// terminal so nothing is left outside the new canvas area.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		s.cw.WriteString("\033[H\033[2J")
		s.canvas.Resize(renderWidth, renderHeight)
		s.canvas.ForceRedraw()
	}
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.cw.SetOffset(offsetCol, offsetRow)
}

// clampTermSize limits the render area and centres it in the terminal.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, MaxTermWidth)
	renderHeight = min(termHeight, MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return renderWidth, renderHeight, offsetCol, offsetRow
}

func (s *Session) startRound() {
	input.ResetKeyInput(s.stream)
	s.emitter.Reset()
	s.particles.reset()
	s.drive.Start()
	s.screen = screenPlaying
}

func (s *Session) updatePlaying(dt float64) {
	dir := 0.0
	if s.in.Left {
		dir--
	}
	if s.in.Right {
		dir++
	}
	s.emitter.Move(dir, dt)
	if s.in.Cycle {
		s.emitter.Cycle()
	}
	if s.in.Number > 0 {
		s.emitter.Select(s.in.Number)
	}

	s.emitter.Cool(dt)
	if s.in.Fire && s.emitter.TryFire() {
		if _, err := s.drive.FireProjectile(s.emitter.Muzzle(), s.emitter.Color); err != nil {
			s.log.Debug("fire failed", "err", err)
		}
	}

	s.drive.Tick(dt)
	if s.ctrl.State() != round.Playing {
		return
	}

	s.targets = s.ctrl.Targets(s.targets[:0])
	s.shots = s.ctrl.Projectiles(s.shots[:0])
	if err := s.detector.Detect(s.drive, s.targets, s.shots); err != nil {
		s.log.Warn("collision detection", "err", err)
	}
}

// onRoundEvent turns controller events into effects and screen changes.
// It must not call back into the controller.
func (s *Session) onRoundEvent(e round.Event) {
	switch e.Type {
	case round.EventTargetRemoved:
		if e.Reason == round.ReasonPopped {
			s.particles.burst(e.Pos, popParticles, s.inkFor(e.Visual))
		}
	case round.EventTargetDamaged:
		s.particles.burst(e.Pos, damageParticles, draw.InkWhite)
	case round.EventGameOver:
		s.finalScore = e.Score
		s.screen = screenGameOver
		if s.hub != nil {
			s.hub.ReportScore(s.handle.ID, e.Score)
		}
	}
}
