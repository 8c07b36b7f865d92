// Package config centralizes all tunable game parameters.
package config

import "time"

// Terminal hosts map each half-block sub-pixel to this many logical pixels,
// so a typical terminal yields a playfield comparable to a phone screen.
const (
	TermPixelSize = 12
	MaxTermWidth  = 160 // Columns; larger terminals are centered with a border
	MaxTermHeight = 60  // Rows
)

// Window host logical resolution (portrait, like the phone layout).
const (
	WindowWidth  = 540
	WindowHeight = 960
)

// Spaceship
const (
	ShipWidth        = 80
	ShipHeight       = 100
	ShipOffsetX      = 40  // Spawned at screenWidth/2 - ShipOffsetX
	ShipBottomMargin = 200 // Spawned at screenHeight - ShipBottomMargin
)

// Meteors
const (
	MeteorBaseSpeed    = 7.0
	MeteorSpeedPerSec  = 0.15 // Added to base speed per survived second
	MeteorSpeedJitter  = 3.0  // Uniform extra speed in [0, jitter)
	MeteorSpawnBase    = 4    // Percent chance per tick at t=0
	MeteorSpawnDivisor = 10   // One extra percent every this many seconds
	MeteorSpawnY       = -100
	MeteorSpawnMarginX = 100 // Spawn x is drawn from [0, screenWidth - margin)
	MeteorMinSize      = 40
	MeteorSizeRange    = 60 // Size is MinSize + [0, range)
)

// Collision bands, as factors of the summed radii.
const (
	CollisionFactor = 0.7
	NearMissFactor  = 1.5
)

// Effects
const (
	ShakeTicks     = 10
	ShakeAmplitude = 20.0 // Offset per axis is (rand - 0.5) * amplitude
	HapticPulse    = 100 * time.Millisecond
)

// Stars
const (
	StarCount   = 50
	StarSpeed   = 2.0
	StarMinSize = 1.0
	StarMaxSize = 3.0
)

// Loop timing
const (
	TickTime       = 17 * time.Millisecond
	MaxStepsPerRun = 5 // Accumulator catch-up cap
)

// Scoring
const (
	ScorePerSecond   = 10
	ScorePerNearMiss = 5
	MaxScores        = 10
)

// Terminal sessions
const (
	SteerSpeed             = 60.0 // Logical units per frame while a key is held
	MaxUsernameLength      = 16
	ShutdownDisplaySeconds = 10.0 // Seconds to show the shutdown notice before disconnecting
	InactivityWarnUser     = 90   // Seconds
	InactivityDisconnect   = 120  // Seconds
	ClientTargetFPS        = 30
	ClientTargetFrameTime  = time.Second / ClientTargetFPS
)

// Lobby
const (
	LobbyTickTime   = 100 * time.Millisecond
	LobbyTopScores  = 5
	LobbyEventQueue = 16
)
