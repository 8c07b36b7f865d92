package client

import (
	"time"

	"github.com/tomz197/novarush/internal/input"
	"github.com/tomz197/novarush/internal/score"
)

// GameState represents the current phase of a session.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // A round is running
	GameStateOver                      // Round ended, show the result
	GameStateShutdown                  // Server is shutting down
)

func (s GameState) String() string {
	switch s {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStateOver:
		return "over"
	case GameStateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ClientState holds per-session state. It is owned by the session goroutine.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Running   bool

	// Result of the last round. Recorded is false until the lobby has stored it.
	Result   score.Result
	Recorded bool

	// Latest record broadcast by another session
	RecordBy   string
	RecordTime time.Time

	prevGameState GameState
	delta         time.Duration
	shutdownTimer float64
	isInactive    bool
	wasInactive   bool
}

// NewClientState creates a session on the title screen.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		prevGameState: GameStateStart,
		Running:       true,
	}
}
