// Package server is the lobby shared by terminal sessions: it tracks who is
// connected, records finished rounds in the high-score store and tells sessions
// when a new record is set. Every session plays its own independent round.
package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/score"
)

// Lobby is the interface sessions use to talk to the server.
type Lobby interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SetPlaying(clientID int, playing bool)
	ReportRound(clientID int, survivalTime int64, nearMisses int)
	GetSnapshot() *Snapshot
}

// Server owns the session registry and the score store.
type Server struct {
	store        *score.Store
	logger       *log.Logger
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	registerCh   chan *ClientHandle
	unregisterCh chan int
	playingCh    chan playState
	roundCh      chan roundReport
	mu           sync.RWMutex

	names     map[score.Entry]string // Who set entries recorded since start
	topScores []LeaderEntry
	dirty     bool // topScores must be reloaded from the store
}

// Compile-time check that Server implements Lobby.
var _ Lobby = (*Server)(nil)

type playState struct {
	clientID int
	playing  bool
}

// NewServer creates a lobby backed by store.
func NewServer(store *score.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		store:        store,
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		playingCh:    make(chan playState, 64),
		roundCh:      make(chan roundReport, 64),
		names:        make(map[score.Entry]string),
		dirty:        true,
	}

	s.snapshot.Store(&Snapshot{})
	return s
}

// Run processes lobby traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.LobbyTickTime)
	defer ticker.Stop()

	s.tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Server) tick() {
	s.processRegistrations()
	s.processPlaying()
	s.processRounds()
	s.createSnapshot()
}

// Shutdown notifies all connected sessions and waits for them to disconnect,
// up to the given timeout. The caller should cancel the Run context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new session and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, config.LobbyEventQueue),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a session. Its event channel is closed.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SetPlaying marks whether a session is in a round.
func (s *Server) SetPlaying(clientID int, playing bool) {
	select {
	case s.playingCh <- playState{clientID: clientID, playing: playing}:
	default:
		// Only feeds the player count; dropping is harmless
	}
}

// ReportRound queues a finished round. The session receives EventRoundRecorded
// once it is stored. It never blocks: when the queue is full, or the lobby has
// stopped draining it, the round is dropped and the session keeps its local result.
func (s *Server) ReportRound(clientID int, survivalTime int64, nearMisses int) {
	select {
	case s.roundCh <- roundReport{clientID: clientID, survivalTime: survivalTime, nearMisses: nearMisses}:
	default:
		s.logger.Warn("round dropped, lobby queue full", "client", clientID, "survived", survivalTime)
	}
}

// GetSnapshot returns the current lobby snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("session joined", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("session left", "id", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

func (s *Server) processPlaying() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case ps := <-s.playingCh:
			if handle, ok := s.clients[ps.clientID]; ok {
				handle.Playing = ps.playing
			}
		default:
			return
		}
	}
}

func (s *Server) processRounds() {
	for {
		select {
		case r := <-s.roundCh:
			s.recordRound(r)
		default:
			return
		}
	}
}

func (s *Server) recordRound(r roundReport) {
	res, err := s.store.Record(r.survivalTime, r.nearMisses)
	if err != nil {
		s.logger.Error("recording round failed", "id", r.clientID, "err", err)
	}
	s.dirty = true

	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[r.clientID]
	username := ""
	if ok {
		username = handle.Username
		handle.Playing = false
		send(handle, ClientEvent{Type: EventRoundRecorded, Username: username, Result: res})
	}
	s.names[res.Entry] = username

	s.logger.Info("round recorded",
		"user", username,
		"score", res.Entry.Score,
		"survived", res.Entry.Time,
		"near_misses", res.Entry.NearMisses,
		"record", res.NewRecord,
	)

	if !res.NewRecord {
		return
	}
	for id, other := range s.clients {
		if id == r.clientID {
			continue
		}
		send(other, ClientEvent{Type: EventNewRecord, Username: username, Result: res})
	}
}

// send delivers an event without blocking the lobby.
func send(handle *ClientHandle, ev ClientEvent) {
	select {
	case handle.EventsCh <- ev:
	default:
	}
}

func (s *Server) createSnapshot() {
	if s.dirty {
		entries := s.store.Load()
		n := min(len(entries), config.LobbyTopScores)
		top := make([]LeaderEntry, 0, n)
		for _, e := range entries[:n] {
			top = append(top, LeaderEntry{Entry: e, Username: s.names[e]})
		}
		s.topScores = top
		s.dirty = false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	inRound := 0
	for _, handle := range s.clients {
		if handle.Playing {
			inRound++
		}
	}

	s.snapshot.Store(&Snapshot{
		Players:   len(s.clients),
		InRound:   inRound,
		TopScores: s.topScores,
	})
}
