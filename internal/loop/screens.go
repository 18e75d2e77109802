package loop

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Samster1523/ColorShooter2/internal/collision"
	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/draw"
	"github.com/Samster1523/ColorShooter2/internal/object"
)

var titleArt = []string{
	`  ___     _              `,
	` / __|___| |___ _ _      `,
	`| (__/ _ \ / _ \ '_|     `,
	` \___\___/_\___/_|       `,
	`   ___ _              _  `,
	`  / __| |_  ___  ___ | |_`,
	`  \__ \ ' \/ _ \/ _ \|  _|`,
	`  |___/_||_\___/\___/ \__|`,
}

// drawFrame renders the world and the overlay for the current screen.
func (s *Session) drawFrame() error {
	// Screen and inactivity transitions leave text behind; start clean.
	if s.screen != s.prevScreen || s.inactive != s.wasInactive {
		s.cw.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		s.prevScreen = s.screen
		s.wasInactive = s.inactive
	}

	s.canvas.Clear()
	if s.screen == screenPlaying {
		s.drawWorld()
	}
	s.particles.draw(s.canvas, s.view)

	if err := s.canvas.Render(s.cw); err != nil {
		return err
	}
	if err := s.canvas.RenderBorder(s.cw); err != nil {
		return err
	}

	if s.screen == screenPlaying {
		s.drawHitPoints()
	}
	s.drawUI()

	return s.cw.Flush()
}

func (s *Session) drawWorld() {
	r := s.game.Round

	if r.FailRule == config.FailLine {
		_, y := s.view.toView(object.Vec2{Y: r.FailLineY})
		s.canvas.HLine(y, 0, ViewWidth-1, draw.InkGray)
	}

	targetRadius := s.view.radius(s.game.Hitbox.TargetRadius)
	s.targets = s.ctrl.Targets(s.targets[:0])
	for _, t := range s.targets {
		x, y := s.view.toView(t.Pos)
		s.canvas.FillCircle(x, y, targetRadius, draw.InkFor(t.Color))
	}

	shotRadius := s.view.radius(projectileDrawSize)
	s.shots = s.ctrl.Projectiles(s.shots[:0])
	for _, p := range s.shots {
		x, y := s.view.toView(p.Pos)
		s.canvas.FillCircle(x, y, shotRadius, s.inkFor(p.Visual()))
	}

	x, y := s.view.toView(s.emitter.Muzzle())
	s.canvas.FillCircle(x, y, s.view.radius(emitterRadius), s.inkFor(object.Visual{Color: s.emitter.Color}))
}

// inkFor colours an entity. Colour only carries meaning under the match
// policy; everything else is drawn white.
func (s *Session) inkFor(v object.Visual) draw.Ink {
	if s.game.Round.Policy != collision.Match {
		return draw.InkWhite
	}
	return draw.InkFor(v.Color)
}

// drawHitPoints writes the remaining hit points over attrition targets.
func (s *Session) drawHitPoints() {
	if s.game.Round.Policy != collision.Attrition {
		return
	}
	for _, t := range s.targets {
		x, y := s.view.toView(t.Pos)
		col, row := s.canvas.LogicalToTerminal(x, y)
		s.cw.WriteColored(col, row, draw.ColorBold+draw.InkFor(t.Color).BG()+"\033[30m", strconv.Itoa(t.HitPoints))
	}
}

func (s *Session) drawUI() {
	width := s.canvas.TerminalWidth()
	height := s.canvas.TerminalHeight()
	centerY := height / 2

	if s.screen == screenShutdown {
		s.drawShutdownScreen(width, centerY)
		return
	}
	if s.inactive {
		s.drawInactivityScreen(width, centerY)
		return
	}

	switch s.screen {
	case screenStart:
		s.drawStartScreen(width, centerY)
	case screenPlaying:
		s.drawPlayingHUD(width, height)
	case screenGameOver:
		s.drawGameOverScreen(width, centerY)
	}
}

func (s *Session) drawStartScreen(width, centerY int) {
	cw := s.cw
	top := centerY - 10
	for i, line := range titleArt {
		cw.WriteCentered(width, top+i, draw.ColorBrightCyan, line)
	}

	mode := "Match the colour of each falling target"
	if s.game.Round.Policy == collision.Attrition {
		mode = "Shoot each target down to zero"
	}
	cw.WriteCentered(width, top+len(titleArt)+1, draw.ColorDim, mode)

	controls := []string{
		"A D / < >  . . . . .  Move",
		"W / Up / 1-4  . . . Colour",
		"SPACE  . . . . . . .  Fire",
		"Q  . . . . . . . . .  Quit",
	}
	if s.game.Round.Policy == collision.Attrition {
		controls = append(controls[:1], controls[2:]...)
	}
	controlsY := top + len(titleArt) + 3
	for i, line := range controls {
		cw.WriteCentered(width, controlsY+i, draw.ColorReset, line)
	}

	if blinkOn() {
		cw.WriteCentered(width, controlsY+len(controls)+1, draw.ColorBold, ">> Press ENTER to start <<")
	} else {
		cw.WriteCentered(width, controlsY+len(controls)+1, draw.ColorReset, strings.Repeat(" ", 26))
	}
}

// drawPlayingHUD pads every field so shrinking values leave nothing behind.
func (s *Session) drawPlayingHUD(width, height int) {
	cw := s.cw
	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-6d", s.ctrl.Score()))

	if s.game.Round.Policy == collision.Match {
		label := fmt.Sprintf("● %-6s", strings.ToUpper(s.emitter.Color.String()))
		cw.WriteColored(width-len([]rune(label)), 1, s.inkFor(object.Visual{Color: s.emitter.Color}).FG(), label)
	}

	d := s.ctrl.Difficulty()
	cw.WriteAt(2, height, fmt.Sprintf("Spawn: %.2fs ", d.CurrentInterval))

	var right string
	if s.game.Round.FailRule == config.FailCap {
		right = fmt.Sprintf("%2d/%-2d", s.ctrl.TargetCount(), s.game.Round.MaxOnScreen)
	}
	if s.hub != nil {
		right = fmt.Sprintf("P:%-3d %s", s.hub.Sessions(), right)
	}
	if right != "" {
		cw.WriteAt(width-len(right), height, right)
	}
}

func (s *Session) drawGameOverScreen(width, centerY int) {
	cw := s.cw
	cw.WriteCentered(width, centerY-3, draw.ColorBold+"\033[91m", "G A M E   O V E R")
	cw.WriteCentered(width, centerY-1, draw.ColorReset, fmt.Sprintf("Score: %d", s.finalScore))
	if s.hub != nil && s.bestScore > 0 {
		best := fmt.Sprintf("Best: %d by %s", s.bestScore, truncate(s.bestName, MaxUsernameLength))
		cw.WriteCentered(width, centerY, draw.ColorDim, best)
	}
	if blinkOn() {
		cw.WriteCentered(width, centerY+2, draw.ColorReset, "Press ENTER to play again")
	} else {
		cw.WriteCentered(width, centerY+2, draw.ColorReset, strings.Repeat(" ", 25))
	}
	cw.WriteCentered(width, centerY+3, draw.ColorDim, "ESC for menu, Q to quit")
}

func (s *Session) drawShutdownScreen(width, centerY int) {
	cw := s.cw
	cw.WriteCentered(width, centerY-3, draw.ColorBold, "SERVER SHUTTING DOWN")
	cw.WriteCentered(width, centerY-1, draw.ColorReset, "The server is restarting.")
	cw.WriteCentered(width, centerY, draw.ColorReset, "Please reconnect in a moment.")
	remaining := int(s.shutdownTimer) + 1
	cw.WriteCentered(width, centerY+2, draw.ColorReset, fmt.Sprintf("Disconnecting in %2d seconds", remaining))
	cw.WriteCentered(width, centerY+4, draw.ColorDim, "Press Q to disconnect now")
}

func (s *Session) drawInactivityScreen(width, centerY int) {
	cw := s.cw
	cw.WriteCentered(width, centerY-2, draw.ColorBold, "INACTIVITY WARNING")
	left := int(InactivityDisconnectUser - time.Since(s.lastInput).Seconds())
	cw.WriteCentered(width, centerY, draw.ColorReset, fmt.Sprintf("Disconnecting in %3d seconds", max(left, 0)))
	cw.WriteCentered(width, centerY+2, draw.ColorDim, "Press any key to continue")
}

func blinkOn() bool {
	return time.Now().UnixMilli()/gameOverBlinkRate.Milliseconds()%2 == 0
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
