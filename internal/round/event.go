package round

import (
	"errors"

	"github.com/Samster1523/ColorShooter2/internal/object"
)

// Misuse errors. None of them leave the controller in a changed state.
var (
	ErrNotPlaying        = errors.New("round: not playing")
	ErrUnknownProjectile = errors.New("round: unknown projectile")
	ErrUnknownTarget     = errors.New("round: unknown target")
)

// State is the round lifecycle phase.
type State int

const (
	Idle     State = iota // Created, waiting for Start
	Playing               // Spawner and fail checks running
	GameOver              // Spawner frozen, waiting for Start
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// EventType identifies an outbound event.
type EventType int

const (
	EventScoreChanged EventType = iota
	EventGameOver
	EventStateChanged
	EventTargetSpawned
	EventTargetDamaged
	EventTargetRemoved
	EventProjectileSpawned
	EventProjectileRemoved
)

// RemoveReason says why an entity left the round.
type RemoveReason int

const (
	ReasonPopped   RemoveReason = iota // Target destroyed by a hit
	ReasonConsumed                     // Projectile spent on a hit
	ReasonExited                       // Projectile left the playfield
	ReasonCleared                      // Swept by game over or restart
)

// Event is emitted synchronously to every subscriber.
type Event struct {
	Type   EventType
	ID     object.ID     // Entity events
	Pos    object.Vec2   // Spawn and removal position
	Visual object.Visual // Entity events
	Reason RemoveReason  // Removal events
	Score  int           // EventScoreChanged, EventGameOver
	State  State         // EventStateChanged
}

// Handler receives events. Handlers run inside controller calls and must
// not call back into the controller.
type Handler func(Event)
