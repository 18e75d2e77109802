package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Samster1523/ColorShooter2/internal/collision"
	"github.com/Samster1523/ColorShooter2/internal/object"
)

func TestPresetsAreValid(t *testing.T) {
	for _, name := range []string{ModeClassic, ModeNumbers} {
		g, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q): %v", name, err)
		}
		if err := g.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if _, err := Preset("arcade"); !errors.Is(err, ErrInvalid) {
		t.Errorf("Preset(arcade) = %v, want ErrInvalid", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *Game)
	}{
		{
			name:        "empty file keeps classic preset",
			yamlContent: "",
			validate: func(t *testing.T, g *Game) {
				if g.Mode != ModeClassic || g.Round.Policy != collision.Match {
					t.Errorf("got mode %q policy %v", g.Mode, g.Round.Policy)
				}
				if g.Round.Spawn.InitialInterval != 1.6 {
					t.Errorf("initial interval = %f, want 1.6", g.Round.Spawn.InitialInterval)
				}
			},
		},
		{
			name: "numbers mode with overrides",
			yamlContent: `
mode: numbers
round:
  hitPoints:
    min: 2
    max: 6
  maxOnScreen: 10
emitter:
  minX: -3
  maxX: 3
  y: -3
  moveSpeed: 8
  fireCooldown: 0.1
`,
			validate: func(t *testing.T, g *Game) {
				if g.Round.Policy != collision.Attrition || g.Round.Motion != object.MotionFloat || g.Round.FailRule != FailCap {
					t.Errorf("numbers preset not applied: %v %v %v", g.Round.Policy, g.Round.Motion, g.Round.FailRule)
				}
				if g.Round.HitPoints != (IntRange{Min: 2, Max: 6}) {
					t.Errorf("hit points = %+v", g.Round.HitPoints)
				}
				if g.Round.MaxOnScreen != 10 {
					t.Errorf("maxOnScreen = %d, want 10", g.Round.MaxOnScreen)
				}
				if g.Emitter.MoveSpeed != 8 {
					t.Errorf("emitter move speed = %f, want 8", g.Emitter.MoveSpeed)
				}
			},
		},
		{
			name: "text enums",
			yamlContent: `
round:
  policy: attrition
  motion: fall
  failRule: line
  hitPoints:
    min: 1
    max: 3
`,
			validate: func(t *testing.T, g *Game) {
				if g.Round.Policy != collision.Attrition || g.Round.Motion != object.MotionFall || g.Round.FailRule != FailLine {
					t.Errorf("got %v %v %v", g.Round.Policy, g.Round.Motion, g.Round.FailRule)
				}
			},
		},
		{
			name: "inverted spawn range",
			yamlContent: `
round:
  spawnX:
    min: 3
    max: -3
`,
			wantErr:     true,
			errContains: "spawnX",
		},
		{
			name: "empty spawn range",
			yamlContent: `
round:
  spawnX:
    min: 1
    max: 1
`,
			wantErr:     true,
			errContains: "spawnX",
		},
		{
			name: "palette too large",
			yamlContent: `
round:
  colors: 7
`,
			wantErr:     true,
			errContains: "colors",
		},
		{
			name: "unknown policy",
			yamlContent: `
round:
  policy: pinball
`,
			wantErr:     true,
			errContains: "pinball",
		},
		{
			name: "min interval above initial",
			yamlContent: `
round:
  spawn:
    initialInterval: 0.4
    minInterval: 0.5
    intervalStep: 0.1
    pointsPerStep: 10
`,
			wantErr:     true,
			errContains: "min interval",
		},
		{
			name:        "unknown mode",
			yamlContent: "mode: arcade\n",
			wantErr:     true,
			errContains: "arcade",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "game.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			g, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error %q does not contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, g)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load missing = %v, want os.ErrNotExist", err)
	}
}

func TestValidationWrapsErrInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Game)
	}{
		{"fail line above spawn", func(g *Game) { g.Round.FailLineY = 20 }},
		{"negative fall speed", func(g *Game) { g.Round.FallSpeed = Range{Min: -2, Max: -1} }},
		{"zero fall speed", func(g *Game) { g.Round.FallSpeed = Range{Min: 0, Max: 1} }},
		{"inverted fall speed ramp", func(g *Game) { g.Round.FallSpeedRamp = Range{Min: 0.5, Max: 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Classic()
			tt.mutate(&g)
			if err := g.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate = %v, want ErrInvalid", err)
			}
		})
	}

	// Floating targets ignore the fall speed.
	g := Numbers()
	g.Round.FallSpeed = Range{}
	g.Round.FallSpeedRamp = Range{}
	if err := g.Validate(); err != nil {
		t.Errorf("float round with zero fall speed: %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("COLORSHOOTER_TEST_KEY", "value")
	if got := GetEnv("COLORSHOOTER_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("GetEnv = %q, want value", got)
	}
	if got := GetEnv("COLORSHOOTER_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnv unset = %q, want fallback", got)
	}

	if got, err := GetEnvInt64("COLORSHOOTER_TEST_UNSET", 9); err != nil || got != 9 {
		t.Errorf("GetEnvInt64 unset = %d, %v, want 9", got, err)
	}
	t.Setenv("COLORSHOOTER_TEST_SEED", "42")
	if got, err := GetEnvInt64("COLORSHOOTER_TEST_SEED", 9); err != nil || got != 42 {
		t.Errorf("GetEnvInt64 = %d, %v, want 42", got, err)
	}
	t.Setenv("COLORSHOOTER_TEST_SEED", "not-a-number")
	_, err := GetEnvInt64("COLORSHOOTER_TEST_SEED", 9)
	if err == nil || !strings.Contains(err.Error(), "COLORSHOOTER_TEST_SEED") {
		t.Errorf("GetEnvInt64 malformed err = %v, want an error naming the variable", err)
	}
}
