package score

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tomz197/novarush/internal/loop/config"
)

// Store is the capped, descending high-score list kept in a KV backend.
// It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	kv     KV
	key    string
	codec  Codec
	limit  int
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCodec selects the format used when writing. Reads accept every format.
func WithCodec(c Codec) Option {
	return func(s *Store) {
		s.codec = c
	}
}

// WithLogger sets the logger for degraded reads.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithLimit overrides the number of entries kept.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewStore creates a store over kv.
func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    ScoresKey,
		codec:  VersionedCodec{},
		limit:  config.MaxScores,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored list, best first. Read failures yield an empty list.
func (s *Store) Load() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []Entry {
	raw, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn("reading high scores failed, starting empty", "err", err)
		return nil
	}
	entries := Decode(raw)
	s.logger.Debug("loaded high scores", "entries", len(entries), "bytes", len(raw))
	return entries
}

// Submit records a round and reports whether it beat the previous best.
// Equal scores keep insertion order, so a tie lands after the existing entry.
func (s *Store) Submit(score int, survivalTime int64, nearMisses int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	newRecord := len(entries) == 0 || score > entries[0].Score

	entries = append(entries, Entry{Score: score, Time: survivalTime, NearMisses: nearMisses})
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	if err := s.kv.Set(s.key, s.codec.Encode(entries)); err != nil {
		return newRecord, fmt.Errorf("save high scores: %w", err)
	}
	return newRecord, nil
}

// Record submits a finished round and returns its summary.
func (s *Store) Record(survivalTime int64, nearMisses int) (Result, error) {
	e := NewEntry(survivalTime, nearMisses)
	newRecord, err := s.Submit(e.Score, e.Time, e.NearMisses)
	return Result{Entry: e, NewRecord: newRecord}, err
}

// Raw returns the stored value exactly as the backend holds it, in whatever
// format it was written and including records Load would skip.
func (s *Store) Raw() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.kv.Get(s.key)
	if err != nil {
		return "", fmt.Errorf("read high scores: %w", err)
	}
	return raw, nil
}

// Best returns the top entry.
func (s *Store) Best() (Entry, bool) {
	entries := s.Load()
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(s.key); err != nil {
		return fmt.Errorf("clear high scores: %w", err)
	}
	return nil
}
