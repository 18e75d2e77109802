package loop

import "time"

// Host tunables. Gameplay parameters live in internal/config.

// View resolution in logical units. The height is in sub-pixels, so the
// full view is ViewWidth columns by ViewHeight/2 rows.
const (
	ViewWidth  = 40
	ViewHeight = 80
)

// Largest render area. Bigger terminals get a centred, bordered canvas.
const (
	MaxTermWidth  = 40
	MaxTermHeight = 40
)

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxFrameDelta   = 0.25 // Seconds; longer stalls are simulated as this
)

// World margins around the emitter track and below the fail line.
const (
	worldMarginX      = 0.5
	worldMarginBottom = 1.0
)

// Emitter drawing
const (
	emitterRadius      = 0.3
	projectileDrawSize = 0.1
)

// Particles
const (
	popParticles      = 10
	damageParticles   = 4
	particleSpeed     = 3.0
	particleLifetime  = 0.45
	particleDrag      = 0.9
	particlePrealloc  = 64
	gameOverBlinkRate = 600 * time.Millisecond
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0
)

// Inactivity, SSH sessions only
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
	MaxUsernameLength        = 16
)
