package server

import (
	"github.com/tomz197/novarush/internal/score"
)

// LeaderEntry is a high score with the name of the session that set it.
// Name is empty for scores loaded from disk.
type LeaderEntry struct {
	score.Entry
	Username string
}

// Snapshot is an immutable view of the lobby, published after every tick.
type Snapshot struct {
	Players   int // Connected sessions
	InRound   int // Sessions currently playing
	TopScores []LeaderEntry
}

// Best returns the top entry, if any.
func (s *Snapshot) Best() (LeaderEntry, bool) {
	if s == nil || len(s.TopScores) == 0 {
		return LeaderEntry{}, false
	}
	return s.TopScores[0], true
}

// ClientHandle represents a session's connection to the lobby.
type ClientHandle struct {
	ID       int
	Username string
	Playing  bool
	EventsCh chan ClientEvent // Events sent to the session
}

// ClientEvent is an event sent from the lobby to a session.
type ClientEvent struct {
	Type     ClientEventType
	Username string       // Who set the record, for EventNewRecord
	Result   score.Result // The recorded round, for EventRoundRecorded
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventRoundRecorded ClientEventType = iota // Sent to the session that finished a round
	EventNewRecord                            // Broadcast when someone beats the best score
	EventServerShutdown
)

// roundReport is a finished round waiting to be recorded.
type roundReport struct {
	clientID     int
	survivalTime int64
	nearMisses   int
}
