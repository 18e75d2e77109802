// Package config holds the tunable parameters of a round and of the hosts
// that drive it, with presets for the two game modes and YAML loading.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Samster1523/ColorShooter2/internal/collision"
	"github.com/Samster1523/ColorShooter2/internal/difficulty"
	"github.com/Samster1523/ColorShooter2/internal/object"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Preset names.
const (
	ModeClassic = "classic" // Colour match, falling targets, fail line
	ModeNumbers = "numbers" // Hit points, floating targets, population cap
)

// FailRule selects the condition that ends a round.
type FailRule int

const (
	FailLine FailRule = iota // Any target reaching FailLineY
	FailCap                  // MaxOnScreen targets alive at once
)

func (f FailRule) String() string {
	switch f {
	case FailLine:
		return "line"
	case FailCap:
		return "cap"
	default:
		return fmt.Sprintf("fail(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f FailRule) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FailRule) UnmarshalText(b []byte) error {
	switch string(b) {
	case "line":
		*f = FailLine
	case "cap":
		*f = FailCap
	default:
		return fmt.Errorf("unknown fail rule %q", string(b))
	}
	return nil
}

// Range is a closed float interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Fixed reports whether the range holds a single value.
func (r Range) Fixed() bool {
	return r.Min == r.Max
}

// IntRange is a closed integer interval.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Spawn configures spawn cadence.
type Spawn struct {
	InitialInterval float64 `yaml:"initialInterval"`
	MinInterval     float64 `yaml:"minInterval"`
	IntervalStep    float64 `yaml:"intervalStep"`
	PointsPerStep   int     `yaml:"pointsPerStep"`
}

// PoolSizes is the number of instances created up front.
type PoolSizes struct {
	Projectiles int `yaml:"projectiles"`
	Targets     int `yaml:"targets"`
}

// Round configures one round of play.
type Round struct {
	Policy   collision.Policy  `yaml:"policy"`
	Motion   object.MotionKind `yaml:"motion"`
	FailRule FailRule          `yaml:"failRule"`
	Colors   int               `yaml:"colors"`

	SpawnX Range `yaml:"spawnX"`
	SpawnY Range `yaml:"spawnY"` // Min == Max spawns on a fixed line
	Spawn  Spawn `yaml:"spawn"`

	FallSpeed      Range    `yaml:"fallSpeed"`
	FallSpeedRamp  Range    `yaml:"fallSpeedRamp"`
	FloatAmplitude Range    `yaml:"floatAmplitude"`
	FloatSpeed     Range    `yaml:"floatSpeed"` // Radians per second
	HitPoints      IntRange `yaml:"hitPoints"`

	MaxOnScreen     int     `yaml:"maxOnScreen"`
	FailLineY       float64 `yaml:"failLineY"`
	ProjectileSpeed float64 `yaml:"projectileSpeed"`
	PlayfieldTop    float64 `yaml:"playfieldTop"`

	Pool PoolSizes `yaml:"pool"`
}

// Emitter configures the player-controlled launcher in the hosts.
type Emitter struct {
	MinX         float64 `yaml:"minX"`
	MaxX         float64 `yaml:"maxX"`
	Y            float64 `yaml:"y"`
	MoveSpeed    float64 `yaml:"moveSpeed"`
	FireCooldown float64 `yaml:"fireCooldown"`
}

// Hitbox holds the radii the hosts' geometry layer uses for overlap tests.
type Hitbox struct {
	ProjectileRadius float64 `yaml:"projectileRadius"`
	TargetRadius     float64 `yaml:"targetRadius"`
}

// Game is a complete configuration file.
type Game struct {
	Mode    string  `yaml:"mode"`
	Round   Round   `yaml:"round"`
	Emitter Emitter `yaml:"emitter"`
	Hitbox  Hitbox  `yaml:"hitbox"`
}

// Classic returns the colour-match preset.
func Classic() Game {
	return Game{
		Mode: ModeClassic,
		Round: Round{
			Policy:   collision.Match,
			Motion:   object.MotionFall,
			FailRule: FailLine,
			Colors:   object.ColorCount,
			SpawnX:   Range{Min: -2.5, Max: 2.5},
			SpawnY:   Range{Min: 9.5, Max: 9.5},
			Spawn: Spawn{
				InitialInterval: 1.6,
				MinInterval:     0.5,
				IntervalStep:    0.15,
				PointsPerStep:   20,
			},
			FallSpeed:       Range{Min: 0.9, Max: 1.6},
			FallSpeedRamp:   Range{Min: 0.05, Max: 0.06},
			HitPoints:       IntRange{Min: 1, Max: 1},
			MaxOnScreen:     15,
			FailLineY:       -3.0,
			ProjectileSpeed: 12,
			PlayfieldTop:    12,
			Pool:            PoolSizes{Projectiles: 8, Targets: 16},
		},
		Emitter: defaultEmitter(),
		Hitbox:  defaultHitbox(),
	}
}

// Numbers returns the hit-point preset with floating targets.
func Numbers() Game {
	g := Classic()
	g.Mode = ModeNumbers
	g.Round.Policy = collision.Attrition
	g.Round.Motion = object.MotionFloat
	g.Round.FailRule = FailCap
	g.Round.SpawnY = Range{Min: 2.0, Max: 9.0}
	g.Round.FloatAmplitude = Range{Min: 0.2, Max: 0.5}
	g.Round.FloatSpeed = Range{Min: 0.5, Max: 1.2}
	g.Round.HitPoints = IntRange{Min: 1, Max: 5}
	g.Round.MaxOnScreen = 15
	return g
}

func defaultEmitter() Emitter {
	return Emitter{MinX: -3.5, MaxX: 3.5, Y: -3.0, MoveSpeed: 6, FireCooldown: 0.15}
}

func defaultHitbox() Hitbox {
	return Hitbox{ProjectileRadius: 0.1, TargetRadius: 0.45}
}

// Preset returns the named preset.
func Preset(name string) (Game, error) {
	switch name {
	case ModeClassic, "":
		return Classic(), nil
	case ModeNumbers:
		return Numbers(), nil
	default:
		return Game{}, fmt.Errorf("%w: unknown mode %q", ErrInvalid, name)
	}
}

// Load reads a YAML file. Keys it omits keep the values of the preset named
// by its mode field (classic when absent).
func Load(path string) (*Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes the same way Load does.
func Parse(data []byte) (*Game, error) {
	var header struct {
		Mode string `yaml:"mode"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML: %w", err)
	}

	g, err := Preset(header.Mode)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML: %w", err)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Validate checks every section.
func (g Game) Validate() error {
	if err := g.Round.Validate(); err != nil {
		return err
	}
	if g.Emitter.MinX > g.Emitter.MaxX {
		return fmt.Errorf("%w: emitter range inverted: min(%.2f) > max(%.2f)", ErrInvalid, g.Emitter.MinX, g.Emitter.MaxX)
	}
	if g.Emitter.MoveSpeed < 0 || g.Emitter.FireCooldown < 0 {
		return fmt.Errorf("%w: emitter speed and cooldown must not be negative", ErrInvalid)
	}
	if g.Hitbox.ProjectileRadius < 0 || g.Hitbox.TargetRadius <= 0 {
		return fmt.Errorf("%w: hitbox radii must be positive", ErrInvalid)
	}
	return nil
}

// Validate checks the round parameters.
func (r Round) Validate() error {
	if r.Policy != collision.Match && r.Policy != collision.Attrition {
		return fmt.Errorf("%w: unknown policy %v", ErrInvalid, r.Policy)
	}
	if r.Motion != object.MotionFall && r.Motion != object.MotionFloat {
		return fmt.Errorf("%w: unknown motion %v", ErrInvalid, r.Motion)
	}
	if r.SpawnX.Min >= r.SpawnX.Max {
		return fmt.Errorf("%w: spawnX range empty or inverted: min(%.2f) >= max(%.2f)", ErrInvalid, r.SpawnX.Min, r.SpawnX.Max)
	}
	if r.SpawnY.Min > r.SpawnY.Max {
		return fmt.Errorf("%w: spawnY range inverted: min(%.2f) > max(%.2f)", ErrInvalid, r.SpawnY.Min, r.SpawnY.Max)
	}
	if r.Colors < 1 || r.Colors > object.ColorCount {
		return fmt.Errorf("%w: colors must be between 1 and %d, got %d", ErrInvalid, object.ColorCount, r.Colors)
	}
	if r.Policy == collision.Attrition && (r.HitPoints.Min < 1 || r.HitPoints.Min > r.HitPoints.Max) {
		return fmt.Errorf("%w: hitPoints range invalid: [%d, %d]", ErrInvalid, r.HitPoints.Min, r.HitPoints.Max)
	}
	if r.Motion == object.MotionFall && r.FallSpeed.Min <= 0 {
		return fmt.Errorf("%w: fallSpeed must be positive, got min %.2f", ErrInvalid, r.FallSpeed.Min)
	}
	if r.Motion == object.MotionFloat {
		if r.FloatAmplitude.Min < 0 || r.FloatAmplitude.Min > r.FloatAmplitude.Max {
			return fmt.Errorf("%w: floatAmplitude range invalid: [%.2f, %.2f]", ErrInvalid, r.FloatAmplitude.Min, r.FloatAmplitude.Max)
		}
		if r.FloatSpeed.Min > r.FloatSpeed.Max {
			return fmt.Errorf("%w: floatSpeed range inverted: [%.2f, %.2f]", ErrInvalid, r.FloatSpeed.Min, r.FloatSpeed.Max)
		}
	}
	switch r.FailRule {
	case FailLine:
		if r.FailLineY >= r.SpawnY.Min {
			return fmt.Errorf("%w: failLineY(%.2f) must be below spawnY(%.2f)", ErrInvalid, r.FailLineY, r.SpawnY.Min)
		}
	case FailCap:
		if r.MaxOnScreen < 1 {
			return fmt.Errorf("%w: maxOnScreen must be at least 1, got %d", ErrInvalid, r.MaxOnScreen)
		}
	default:
		return fmt.Errorf("%w: unknown fail rule %v", ErrInvalid, r.FailRule)
	}
	if r.ProjectileSpeed <= 0 {
		return fmt.Errorf("%w: projectileSpeed must be positive, got %.2f", ErrInvalid, r.ProjectileSpeed)
	}
	if r.Pool.Projectiles < 0 || r.Pool.Targets < 0 {
		return fmt.Errorf("%w: pool sizes must not be negative", ErrInvalid)
	}
	if err := r.DifficultyParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// DifficultyParams maps the round onto scheduler parameters.
func (r Round) DifficultyParams() difficulty.Params {
	return difficulty.Params{
		InitialInterval:  r.Spawn.InitialInterval,
		MinInterval:      r.Spawn.MinInterval,
		StepDecrement:    r.Spawn.IntervalStep,
		ScoreStep:        r.Spawn.PointsPerStep,
		FallSpeedMin:     r.FallSpeed.Min,
		FallSpeedMax:     r.FallSpeed.Max,
		FallSpeedRampMin: r.FallSpeedRamp.Min,
		FallSpeedRampMax: r.FallSpeedRamp.Max,
	}
}
