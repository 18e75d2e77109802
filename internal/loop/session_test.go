package loop

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/input"
	"github.com/Samster1523/ColorShooter2/internal/object"
	"github.com/Samster1523/ColorShooter2/internal/replay"
	"github.com/Samster1523/ColorShooter2/internal/round"
)

func newTestSession(t *testing.T, game config.Game, hub *Hub) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s, err := NewSession(bufio.NewReader(strings.NewReader("")), &out, SessionOptions{
		Game:         game,
		Seed:         11,
		Record:       true,
		TermSizeFunc: func() (int, int, error) { return 40, 40, nil },
		Username:     "tester",
		Hub:          hub,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, &out
}

func idle() input.Input {
	return input.Input{Number: -1}
}

func TestSessionRejectsInvalidGame(t *testing.T) {
	game := config.Classic()
	game.Hitbox.TargetRadius = 0
	_, err := NewSession(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, SessionOptions{Game: game})
	if err == nil {
		t.Fatal("expected an error for a zero target radius")
	}
}

func TestSessionRoundLifecycle(t *testing.T) {
	hub := NewHub(nil)
	s, out := newTestSession(t, config.Classic(), hub)

	s.in = idle()
	s.step(0.1)
	if s.screen != screenStart || s.ctrl.State() != round.Idle {
		t.Fatalf("round started without input: screen=%d state=%v", s.screen, s.ctrl.State())
	}

	s.in = input.Input{Enter: true, Number: -1}
	s.step(0.016)
	if s.screen != screenPlaying || s.ctrl.State() != round.Playing {
		t.Fatalf("Enter did not start a round: screen=%d state=%v", s.screen, s.ctrl.State())
	}

	// Nobody shoots, so the first target crosses the fail line.
	s.in = idle()
	for i := 0; i < 400 && s.screen == screenPlaying; i++ {
		s.step(0.1)
	}
	if s.screen != screenGameOver {
		t.Fatalf("round never ended, state=%v", s.ctrl.State())
	}
	if s.finalScore != 0 {
		t.Errorf("finalScore = %d, want 0", s.finalScore)
	}

	if err := s.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "G A M E   O V E R") {
		t.Error("game over screen not drawn")
	}

	log := s.ReplayLog()
	if log == nil || len(log.Entries) == 0 || log.Entries[0].Kind != replay.KindStart {
		t.Fatalf("replay log = %+v", log)
	}
	if log.State != round.GameOver {
		t.Errorf("replay state = %v", log.State)
	}
}

func TestSessionShootsMatchingTarget(t *testing.T) {
	s, _ := newTestSession(t, config.Classic(), nil)
	s.in = input.Input{Enter: true, Number: -1}
	s.step(0.016)

	// Walk the round forward until a target is on screen, then line the
	// emitter up under it with the right colour and fire.
	s.in = idle()
	for i := 0; i < 100 && s.ctrl.TargetCount() == 0; i++ {
		s.step(0.05)
	}
	targets := s.ctrl.Targets(nil)
	if len(targets) == 0 {
		t.Fatal("no target spawned")
	}
	aim := targets[0]
	s.emitter.X = aim.Pos.X
	s.emitter.Select(int(aim.Color) + 1)

	s.in = input.Input{Fire: true, Number: -1}
	s.step(0.016)
	s.in = idle()
	for i := 0; i < 100 && s.ctrl.Score() == 0 && s.ctrl.State() == round.Playing; i++ {
		s.step(0.016)
	}
	if s.ctrl.Score() != 1 {
		t.Errorf("score = %d, want 1", s.ctrl.Score())
	}
	if len(s.particles.live) == 0 {
		t.Error("popping a target should burst particles")
	}
}

func TestSessionHubShutdown(t *testing.T) {
	hub := NewHub(nil)
	s, _ := newTestSession(t, config.Numbers(), hub)
	if hub.Sessions() != 1 {
		t.Fatalf("session not registered, Sessions = %d", hub.Sessions())
	}

	s.handle.Events <- HubEvent{Type: EventServerShutdown}
	s.processHubEvents()
	if s.screen != screenShutdown {
		t.Fatalf("screen = %d, want shutdown", s.screen)
	}

	s.in = idle()
	for i := 0; i < 100 && s.running; i++ {
		s.step(MaxFrameDelta)
	}
	if s.running {
		t.Error("shutdown countdown never stopped the session")
	}
}

func TestSessionEmitterInput(t *testing.T) {
	s, _ := newTestSession(t, config.Classic(), nil)
	s.in = input.Input{Enter: true, Number: -1}
	s.step(0.016)

	s.in = input.Input{Right: true, Cycle: true, Number: -1}
	s.step(0.1)
	if s.emitter.X <= 0 {
		t.Errorf("emitter did not move right, X = %f", s.emitter.X)
	}
	if s.emitter.Color != object.Green {
		t.Errorf("colour = %v, want green", s.emitter.Color)
	}

	s.in = input.Input{Number: 4}
	s.step(0.016)
	if s.emitter.Color != object.Blue {
		t.Errorf("colour = %v, want blue", s.emitter.Color)
	}
}

func TestWorldBoundsClassic(t *testing.T) {
	v := newViewport(worldBounds(config.Classic()))
	x, y := v.toView(object.Vec2{X: -4, Y: 12})
	if x != 0 || y != 0 {
		t.Errorf("top-left maps to (%f, %f)", x, y)
	}
	x, y = v.toView(object.Vec2{X: 4, Y: -4})
	if x != ViewWidth || y != ViewHeight {
		t.Errorf("bottom-right maps to (%f, %f)", x, y)
	}
}

func TestSessionEscapeReturnsToMenu(t *testing.T) {
	s, _ := newTestSession(t, config.Classic(), nil)
	s.in = input.Input{Enter: true, Number: -1}
	s.step(0.016)

	s.in = idle()
	for i := 0; i < 400 && s.screen == screenPlaying; i++ {
		s.step(0.1)
	}
	if s.screen != screenGameOver {
		t.Fatalf("round never ended, state=%v", s.ctrl.State())
	}

	s.in = input.Input{Escape: true, Number: -1}
	s.step(0.016)
	if s.screen != screenStart {
		t.Fatalf("screen = %d after escape, want start", s.screen)
	}
	if s.ctrl.State() != round.GameOver {
		t.Errorf("escape should not start a round, state=%v", s.ctrl.State())
	}

	s.in = input.Input{Enter: true, Number: -1}
	s.step(0.016)
	if s.screen != screenPlaying || s.ctrl.State() != round.Playing {
		t.Errorf("Enter from the menu did not start a round: screen=%d state=%v", s.screen, s.ctrl.State())
	}
}
