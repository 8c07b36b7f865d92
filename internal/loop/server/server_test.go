package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/novarush/internal/score"
)

func newTestServer() (*Server, *score.Store) {
	logger := log.New(io.Discard)
	store := score.NewStore(score.NewMemoryKV(), score.WithLogger(logger))
	return NewServer(store, logger), store
}

func nextEvent(t *testing.T, h *ClientHandle) ClientEvent {
	t.Helper()
	select {
	case ev := <-h.EventsCh:
		return ev
	default:
		t.Fatal("no event queued")
		return ClientEvent{}
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	s, _ := newTestServer()

	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	assert.NotEqual(t, a.ID, b.ID)

	s.tick()
	assert.Equal(t, 2, s.GetSnapshot().Players)

	s.UnregisterClient(a.ID)
	s.tick()
	assert.Equal(t, 1, s.GetSnapshot().Players)

	_, ok := <-a.EventsCh
	assert.False(t, ok, "event channel is closed on unregister")
}

func TestSetPlayingCountsRounds(t *testing.T) {
	s, _ := newTestServer()
	a := s.RegisterClient("alice")
	s.RegisterClient("bob")
	s.tick()

	s.SetPlaying(a.ID, true)
	s.tick()
	assert.Equal(t, 1, s.GetSnapshot().InRound)

	s.SetPlaying(a.ID, false)
	s.tick()
	assert.Zero(t, s.GetSnapshot().InRound)
}

func TestReportRoundRecordsAndBroadcasts(t *testing.T) {
	s, store := newTestServer()
	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	s.tick()

	s.ReportRound(a.ID, 12, 3)
	s.tick()

	ev := nextEvent(t, a)
	assert.Equal(t, EventRoundRecorded, ev.Type)
	assert.Equal(t, 135, ev.Result.Entry.Score)
	assert.True(t, ev.Result.NewRecord)

	ev = nextEvent(t, b)
	assert.Equal(t, EventNewRecord, ev.Type)
	assert.Equal(t, "alice", ev.Username)

	best, ok := s.GetSnapshot().Best()
	require.True(t, ok)
	assert.Equal(t, "alice", best.Username)
	assert.Equal(t, 135, best.Score)

	stored, ok := store.Best()
	require.True(t, ok)
	assert.Equal(t, best.Entry, stored)

	// A lower score is recorded without a broadcast.
	s.ReportRound(b.ID, 1, 0)
	s.tick()
	ev = nextEvent(t, b)
	assert.False(t, ev.Result.NewRecord)
	assert.Empty(t, a.EventsCh)
	assert.Len(t, s.GetSnapshot().TopScores, 2)
}

func TestSnapshotKeepsTopScoresOnly(t *testing.T) {
	s, store := newTestServer()
	for i := 0; i < 8; i++ {
		_, err := store.Record(int64(i), 0)
		require.NoError(t, err)
	}

	s.tick()
	top := s.GetSnapshot().TopScores
	require.Len(t, top, 5)
	assert.Equal(t, 70, top[0].Score)
	assert.Empty(t, top[0].Username, "scores from disk have no name")
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s, _ := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	h := s.RegisterClient("alice")
	require.Eventually(t, func() bool { return s.GetSnapshot().Players == 1 }, time.Second, 10*time.Millisecond)

	go func() {
		for ev := range h.EventsCh {
			if ev.Type == EventServerShutdown {
				s.UnregisterClient(h.ID)
			}
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNilSnapshotHasNoBest(t *testing.T) {
	var snap *Snapshot
	_, ok := snap.Best()
	assert.False(t, ok)
}

func TestReportRoundDoesNotBlockWhenLobbyStopped(t *testing.T) {
	s, store := newTestServer()
	a := s.RegisterClient("alice")
	s.tick()

	// Nothing drains the queue, as after Run has returned.
	for i := 0; i < cap(s.roundCh); i++ {
		s.ReportRound(a.ID, 1, 0)
	}

	done := make(chan struct{})
	go func() {
		s.ReportRound(a.ID, 99, 9)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ReportRound blocked on a full queue")
	}

	s.tick()
	best, ok := store.Best()
	require.True(t, ok)
	assert.Equal(t, int64(1), best.Time, "the dropped round is not recorded")
}
