// Package client runs one terminal session: title screen, a round driven by the
// loop package, and the game-over screen, all rendered as ANSI text.
package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/input"
	"github.com/tomz197/novarush/internal/loop"
	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/loop/server"
	"github.com/tomz197/novarush/internal/score"
)

// Client handles rendering and input for a single connection.
type Client struct {
	lobby        server.Lobby
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	presenter    *termPresenter
	layout       termLayout
	layoutDirty  bool
	writer       io.Writer
	inputStream  *input.Stream
	steering     *input.Steering
	game         *loop.Game
	overCh       chan roundOver
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	pacing       loop.Pacing
	tick         time.Duration
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Pacing       loop.Pacing
	TickTime     time.Duration // Zero uses the default tick
	Logger       *log.Logger
}

type roundOver struct {
	survivalTime int64
	nearMisses   int
}

// NewClient creates a client registered with the given lobby.
func NewClient(lobby server.Lobby, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	handle := lobby.RegisterClient(opts.Username)

	termWidth, termHeight, _ := termSizeFunc()
	layout := clampTermSize(termWidth, termHeight)
	lw, lh := layout.logicalSize()

	canvas := draw.NewTerminalCanvas(layout.cols, layout.rows, float64(lw), float64(lh))
	canvas.SetOffset(layout.offsetCol, layout.offsetRow)
	chunkWriter := draw.NewChunkWriter(w, layout.offsetCol, layout.offsetRow)

	return &Client{
		lobby:        lobby,
		handle:       handle,
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		presenter:    newTermPresenter(chunkWriter, layout),
		layout:       layout,
		writer:       w,
		inputStream:  input.StartStream(r),
		overCh:       make(chan roundOver, 1),
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		pacing:       opts.Pacing,
		tick:         opts.TickTime,
		logger:       logger.With("user", opts.Username),
	}
}

// Run starts the session loop. Blocks until the user quits or the lobby goes away.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()
	var runErr error

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.processRoundEnd()
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateOver:
			c.updateOverState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		// The loop goroutine owns the terminal during a round.
		if c.state.GameState != GameStatePlaying {
			if err := c.drawFrame(); err != nil {
				runErr = err
				break
			}
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.stopGame()
	c.lobby.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return runErr
}

// processInput reads keys, tracks inactivity and steers during a round.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnect {
		c.logger.Info("disconnecting inactive session")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the lobby.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventRoundRecorded:
				c.state.Result = event.Result
				c.state.Recorded = true
			case server.EventNewRecord:
				c.state.RecordBy = event.Username
				c.state.RecordTime = time.Now()
			case server.EventServerShutdown:
				c.stopGame()
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// processRoundEnd moves to the game-over screen once the loop reports a hit.
func (c *Client) processRoundEnd() {
	select {
	case over := <-c.overCh:
		c.stopGame()
		if c.state.GameState == GameStatePlaying {
			c.state.GameState = GameStateOver
		}
		if !c.state.Recorded {
			c.state.Result = score.Result{Entry: score.NewEntry(over.survivalTime, over.nearMisses)}
		}
	default:
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}

	layout := clampTermSize(termWidth, termHeight)
	if layout == c.layout {
		return
	}
	c.layout = layout
	c.layoutDirty = true
	c.presenter.setLayout(layout)

	if c.game != nil {
		c.game.Resize(layout.logicalSize())
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) termLayout {
	cols := min(max(termWidth, 0), config.MaxTermWidth)
	rows := min(max(termHeight, 0), config.MaxTermHeight)
	return termLayout{
		cols:      cols,
		rows:      rows,
		offsetCol: (termWidth - cols) / 2,
		offsetRow: (termHeight - rows) / 2,
	}
}

func (c *Client) updateStartState() {
	if c.state.Input.Start {
		c.startGame()
	}
}

func (c *Client) updatePlayingState() {
	lw, _ := c.layout.logicalSize()
	if c.steering.Apply(c.state.Input, float64(lw)) {
		c.game.Touch(c.steering.X)
	}
}

func (c *Client) updateOverState() {
	if c.state.Input.Start {
		c.startGame()
	}
}

func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// startGame begins a fresh round.
func (c *Client) startGame() {
	lw, lh := c.layout.logicalSize()
	c.steering = input.NewSteering(float64(lw)/2, config.SteerSpeed)
	c.state.Result = score.Result{}
	c.state.Recorded = false

	// Leave a clean terminal for the loop goroutine.
	c.chunkWriter.WriteString("\033[H\033[2J")
	if err := c.chunkWriter.Flush(); err != nil {
		c.logger.Debug("clear before round failed", "err", err)
	}
	c.canvas.ForceRedraw()

	id := c.handle.ID
	c.game = loop.New(loop.Options{
		Width:     lw,
		Height:    lh,
		Canvas:    c.canvas,
		Presenter: c.presenter,
		Haptic:    c.presenter,
		Pacing:    c.pacing,
		TickTime:  c.tick,
		Logger:    c.logger,
		OnGameOver: func(survivalTime int64, nearMisses int) {
			c.lobby.ReportRound(id, survivalTime, nearMisses)
			c.overCh <- roundOver{survivalTime: survivalTime, nearMisses: nearMisses}
		},
	})
	c.game.Resume()
	c.lobby.SetPlaying(id, true)
	c.state.GameState = GameStatePlaying
	c.logger.Debug("round started", "width", lw, "height", lh)
}

// stopGame joins the loop goroutine, if any.
func (c *Client) stopGame() {
	if c.game == nil {
		return
	}
	c.game.Pause()
	if !c.game.Over() {
		c.lobby.SetPlaying(c.handle.ID, false)
	}
	c.game = nil
}
