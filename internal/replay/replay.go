// Package replay records the inbound calls made to a round controller and
// re-executes them against a fresh, identically seeded controller.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Samster1523/ColorShooter2/internal/collision"
	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/object"
	"github.com/Samster1523/ColorShooter2/internal/round"
)

// Version is the log format written by this package.
const Version = 1

var (
	// ErrDiverged is returned by Verify when a replay ends in a different
	// state than the recording.
	ErrDiverged = errors.New("replay: diverged from recording")
	// ErrVersion is returned when decoding a log of another format version.
	ErrVersion = errors.New("replay: unsupported log version")
)

// Kind identifies a recorded call.
type Kind uint8

const (
	KindStart Kind = iota + 1
	KindTick
	KindFire
	KindPair
	KindExit
)

// Entry is one recorded call. Only the fields of its kind are set.
type Entry struct {
	Kind       Kind         `msgpack:"k"`
	DT         float64      `msgpack:"dt,omitempty"`
	X          float64      `msgpack:"x,omitempty"`
	Y          float64      `msgpack:"y,omitempty"`
	Tag        object.Color `msgpack:"tag,omitempty"`
	Projectile object.ID    `msgpack:"p,omitempty"`
	Target     object.ID    `msgpack:"t,omitempty"`
}

// Log is a complete recording.
type Log struct {
	Version int         `msgpack:"v"`
	Mode    string      `msgpack:"mode"`
	Seed    int64       `msgpack:"seed"`
	Entries []Entry     `msgpack:"entries"`
	Score   int         `msgpack:"score"`
	State   round.State `msgpack:"state"`
}

// Recorder drives a controller and records every call it forwards.
type Recorder struct {
	ctrl *round.Controller
	log  Log
}

// NewRecorder creates a controller seeded with seed and a recorder around it.
func NewRecorder(cfg config.Round, mode string, seed int64, opts ...round.Option) (*Recorder, error) {
	opts = append(opts, round.WithSeed(seed))
	c, err := round.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		ctrl: c,
		log:  Log{Version: Version, Mode: mode, Seed: seed},
	}, nil
}

// Controller returns the recorded controller for views and subscriptions.
// Calls made on it directly are not recorded.
func (r *Recorder) Controller() *round.Controller {
	return r.ctrl
}

func (r *Recorder) Start() {
	r.log.Entries = append(r.log.Entries, Entry{Kind: KindStart})
	r.ctrl.Start()
}

func (r *Recorder) Tick(dt float64) {
	r.log.Entries = append(r.log.Entries, Entry{Kind: KindTick, DT: dt})
	r.ctrl.Tick(dt)
}

func (r *Recorder) FireProjectile(origin object.Vec2, tag object.Color) (object.ID, error) {
	r.log.Entries = append(r.log.Entries, Entry{Kind: KindFire, X: origin.X, Y: origin.Y, Tag: tag})
	return r.ctrl.FireProjectile(origin, tag)
}

func (r *Recorder) OnPairingDetected(projectileID, targetID object.ID) (collision.Outcome, error) {
	r.log.Entries = append(r.log.Entries, Entry{Kind: KindPair, Projectile: projectileID, Target: targetID})
	return r.ctrl.OnPairingDetected(projectileID, targetID)
}

func (r *Recorder) ProjectileExitedPlayfield(projectileID object.ID) error {
	r.log.Entries = append(r.log.Entries, Entry{Kind: KindExit, Projectile: projectileID})
	return r.ctrl.ProjectileExitedPlayfield(projectileID)
}

// Log returns the recording so far, stamped with the controller's current
// score and state.
func (r *Recorder) Log() *Log {
	l := r.log
	l.Entries = append([]Entry(nil), r.log.Entries...)
	l.Score = r.ctrl.Score()
	l.State = r.ctrl.State()
	return &l
}

// Play re-executes l against a new controller for cfg and returns it.
// Errors returned by individual calls are part of the recording and are
// not reported.
func Play(l *Log, cfg config.Round, opts ...round.Option) (*round.Controller, error) {
	opts = append(opts, round.WithSeed(l.Seed))
	c, err := round.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	for i, e := range l.Entries {
		switch e.Kind {
		case KindStart:
			c.Start()
		case KindTick:
			c.Tick(e.DT)
		case KindFire:
			_, _ = c.FireProjectile(object.Vec2{X: e.X, Y: e.Y}, e.Tag)
		case KindPair:
			_, _ = c.OnPairingDetected(e.Projectile, e.Target)
		case KindExit:
			_ = c.ProjectileExitedPlayfield(e.Projectile)
		default:
			return nil, fmt.Errorf("replay: entry %d has unknown kind %d", i, e.Kind)
		}
	}
	return c, nil
}

// Verify replays l and checks that it ends with the recorded score and state.
func Verify(l *Log, cfg config.Round, opts ...round.Option) error {
	c, err := Play(l, cfg, opts...)
	if err != nil {
		return err
	}
	if c.Score() != l.Score || c.State() != l.State {
		return fmt.Errorf("%w: got score %d state %v, recorded score %d state %v",
			ErrDiverged, c.Score(), c.State(), l.Score, l.State)
	}
	return nil
}

// Encode writes l to w.
func Encode(w io.Writer, l *Log) error {
	if err := msgpack.NewEncoder(w).Encode(l); err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	return nil
}

// Decode reads a log from r.
func Decode(r io.Reader) (*Log, error) {
	var l Log
	if err := msgpack.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	if l.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, l.Version)
	}
	return &l, nil
}

// Save writes l to path.
func Save(path string, l *Log) error {
	data, err := msgpack.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write replay: %w", err)
	}
	return nil
}

// Load reads a log written by Save.
func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
