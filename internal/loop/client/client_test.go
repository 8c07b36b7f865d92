package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/loop/server"
	"github.com/tomz197/novarush/internal/score"
)

type fakeLobby struct {
	mu           sync.Mutex
	handle       *server.ClientHandle
	unregistered bool
	playing      []bool
	rounds       []score.Entry
	snapshot     server.Snapshot
}

func newFakeLobby() *fakeLobby {
	return &fakeLobby{
		handle: &server.ClientHandle{ID: 7, EventsCh: make(chan server.ClientEvent, 8)},
	}
}

func (f *fakeLobby) RegisterClient(username string) *server.ClientHandle {
	f.handle.Username = username
	return f.handle
}

func (f *fakeLobby) UnregisterClient(int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered = true
}

func (f *fakeLobby) SetPlaying(_ int, playing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = append(f.playing, playing)
}

func (f *fakeLobby) ReportRound(_ int, survivalTime int64, nearMisses int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rounds = append(f.rounds, score.NewEntry(survivalTime, nearMisses))
}

func (f *fakeLobby) GetSnapshot() *server.Snapshot {
	return &f.snapshot
}

func fixedSize(w, h int) draw.TermSizeFunc {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(lobby server.Lobby, in string, out io.Writer) *Client {
	return NewClient(lobby, bufio.NewReader(strings.NewReader(in)), out, ClientOptions{
		TermSizeFunc: fixedSize(80, 24),
		Username:     "alice",
		Logger:       log.New(io.Discard),
	})
}

func TestClampTermSize(t *testing.T) {
	l := clampTermSize(80, 24)
	assert.Equal(t, termLayout{cols: 80, rows: 24}, l)

	l = clampTermSize(200, 100)
	assert.Equal(t, config.MaxTermWidth, l.cols)
	assert.Equal(t, config.MaxTermHeight, l.rows)
	assert.Equal(t, 20, l.offsetCol)
	assert.Equal(t, 20, l.offsetRow)

	w, h := clampTermSize(80, 24).logicalSize()
	assert.Equal(t, 80*config.TermPixelSize, w)
	assert.Equal(t, 48*config.TermPixelSize, h)
}

func TestTermPresenterWritesFramesAndBell(t *testing.T) {
	var out bytes.Buffer
	p := newTermPresenter(draw.NewChunkWriter(&out, 0, 0), termLayout{cols: 4, rows: 2})

	w, h := p.CanvasSize()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)

	c := draw.NewTerminalCanvas(4, 2, 4, 4)
	c.Clear(draw.White)

	require.NoError(t, p.Present(c))
	first := out.String()
	assert.Contains(t, first, "\033[2J", "the first frame clears the terminal")
	assert.Contains(t, first, string(draw.BlockUpperHalf))
	assert.NotContains(t, first, "\a")

	out.Reset()
	p.Pulse(100 * time.Millisecond)
	require.NoError(t, p.Present(c))
	assert.Contains(t, out.String(), "\a")
	assert.NotContains(t, out.String(), string(draw.BlockUpperHalf), "unchanged cells are skipped")

	out.Reset()
	require.NoError(t, p.Present(c))
	assert.NotContains(t, out.String(), "\a", "one pulse rings once")
}

func TestRunQuitsAndUnregisters(t *testing.T) {
	lobby := newFakeLobby()
	var out bytes.Buffer
	c := newTestClient(lobby, "q", &out)

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not quit")
	}
	assert.True(t, lobby.unregistered)
	assert.Contains(t, out.String(), "Controls", "the title screen was drawn")
}

func TestRoundEndShowsResult(t *testing.T) {
	lobby := newFakeLobby()
	c := newTestClient(lobby, "", io.Discard)

	c.state.GameState = GameStatePlaying
	c.overCh <- roundOver{survivalTime: 12, nearMisses: 3}
	c.processRoundEnd()

	assert.Equal(t, GameStateOver, c.state.GameState)
	assert.Equal(t, 135, c.state.Result.Entry.Score)
	assert.False(t, c.state.Recorded)

	lobby.handle.EventsCh <- server.ClientEvent{
		Type:   server.EventRoundRecorded,
		Result: score.Result{Entry: score.NewEntry(12, 3), NewRecord: true},
	}
	c.processServerEvents()
	assert.True(t, c.state.Recorded)
	assert.Contains(t, c.state.Result.Lines(), "NEW HIGH SCORE!")
}

func TestStartAndStopRound(t *testing.T) {
	lobby := newFakeLobby()
	var out bytes.Buffer
	c := newTestClient(lobby, "", &out)

	c.startGame()
	assert.Equal(t, GameStatePlaying, c.state.GameState)
	require.NotNil(t, c.game)

	time.Sleep(50 * time.Millisecond)
	c.stopGame()
	assert.Nil(t, c.game)

	lobby.mu.Lock()
	defer lobby.mu.Unlock()
	assert.Equal(t, []bool{true, false}, lobby.playing)
	assert.Contains(t, out.String(), string(draw.BlockUpperHalf), "the round rendered frames")
}

func TestServerShutdownEvent(t *testing.T) {
	lobby := newFakeLobby()
	c := newTestClient(lobby, "", io.Discard)

	lobby.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	c.processServerEvents()
	assert.Equal(t, GameStateShutdown, c.state.GameState)

	c.state.delta = time.Duration(config.ShutdownDisplaySeconds+1) * time.Second
	c.updateShutdownState()
	assert.False(t, c.state.Running)
}

func TestLeaderLine(t *testing.T) {
	e := server.LeaderEntry{Entry: score.NewEntry(10, 2), Username: "a-very-long-username-indeed"}
	line := leaderLine(0, e)
	assert.True(t, strings.HasPrefix(line, score.Format(0, e.Entry)))
	assert.True(t, strings.HasSuffix(line, "a-very-long-user"))

	assert.Equal(t, score.Format(1, e.Entry), leaderLine(1, server.LeaderEntry{Entry: e.Entry}))
}
