package loop

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/haptic"
	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/object"
)

// State is the lifecycle state of the loop goroutine.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Pacing selects how the loop spaces update steps.
type Pacing int

const (
	// PacingAccumulator runs a fixed number of steps per elapsed tick, catching up
	// at most config.MaxStepsPerRun steps per frame.
	PacingAccumulator Pacing = iota
	// PacingFixedSleep runs one step and one frame, then sleeps a full tick.
	PacingFixedSleep
)

// Presenter shows a rendered frame. It is called from the loop goroutine.
type Presenter interface {
	Present(c *draw.Canvas) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(c *draw.Canvas) error

func (f PresenterFunc) Present(c *draw.Canvas) error {
	return f(c)
}

// CanvasSizer is implemented by presenters whose pixel grid can change, such as a
// terminal. The loop resizes the canvas before each frame.
type CanvasSizer interface {
	CanvasSize() (width, height int)
}

// GameOverFunc receives the final counters. It runs once, on the loop goroutine,
// after the last frame has been presented.
type GameOverFunc func(survivalTime int64, nearMisses int)

// Options configures a Game. Zero values select sensible defaults.
type Options struct {
	Width, Height int // Initial logical screen size; 0 waits for Resize
	Canvas        *draw.Canvas
	Presenter     Presenter
	Haptic        haptic.Haptic
	OnGameOver    GameOverFunc
	Clock         Clock
	Rand          object.Random
	Pacing        Pacing
	TickTime      time.Duration
	Logger        *log.Logger
}

// Stats is a snapshot of the round, safe to read from any goroutine.
type Stats struct {
	SurvivalTime int64
	NearMisses   int
	Meteors      int
	Playing      bool
}

// Game drives one round on its own goroutine. Resume and Pause may be called
// from any goroutine; Touch and Resize are safe at any time.
type Game struct {
	world     *World
	canvas    *draw.Canvas
	presenter Presenter
	haptic    haptic.Haptic
	onOver    GameOverFunc
	clock     Clock
	pacing    Pacing
	tick      time.Duration
	logger    *log.Logger

	pointer *pointerCell
	resize  atomic.Pointer[object.Screen]
	stats   atomic.Pointer[Stats]
	state   atomic.Int32
	over    atomic.Bool

	overOnce sync.Once

	mu   sync.Mutex    // Serializes Resume and Pause
	done chan struct{} // Closed when the current loop goroutine exits
}

// New creates a stopped game. The round clock starts now.
func New(opts Options) *Game {
	if opts.Clock == nil {
		opts.Clock = NewTimeProvider()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Clock.Now().UnixNano()))
	}
	if opts.Haptic == nil {
		opts.Haptic = haptic.Nop{}
	}
	if opts.Presenter == nil {
		opts.Presenter = PresenterFunc(func(*draw.Canvas) error { return nil })
	}
	if opts.TickTime <= 0 {
		opts.TickTime = config.TickTime
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Canvas == nil {
		opts.Canvas = draw.NewCanvas(max(opts.Width, 0), max(opts.Height, 0))
	}

	g := &Game{
		world:     NewWorld(opts.Rand),
		canvas:    opts.Canvas,
		presenter: opts.Presenter,
		haptic:    opts.Haptic,
		onOver:    opts.OnGameOver,
		clock:     opts.Clock,
		pacing:    opts.Pacing,
		tick:      opts.TickTime,
		logger:    opts.Logger,
		pointer:   newPointerCell(),
	}

	g.world.Start(g.clock.Now())
	if opts.Width > 0 && opts.Height > 0 {
		g.applySize(object.Screen{Width: opts.Width, Height: opts.Height})
	}
	g.publish()
	return g
}

// Resume starts the loop goroutine. It does nothing while running or after game over.
func (g *Game) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.over.Load() || State(g.state.Load()) == Running {
		return
	}

	g.applyPendingResize()
	g.state.Store(int32(Running))
	g.done = make(chan struct{})
	go g.run(g.done)
	g.logger.Debug("loop resumed")
}

// Pause stops the loop and waits until it has stopped updating and presenting.
// After Pause returns no further update or frame happens until Resume. The
// game-over callback runs after the loop has stopped, so it may call Pause.
func (g *Game) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state.Store(int32(Stopped))
	if g.done == nil {
		return
	}
	<-g.done
	g.done = nil
	g.logger.Debug("loop paused")
}

// Touch records the latest pointer x; the next update step moves the ship there.
func (g *Game) Touch(x float64) {
	g.pointer.Store(x)
}

// Resize requests a new logical screen size. It takes effect before the next step.
func (g *Game) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.resize.Store(&object.Screen{Width: width, Height: height})
}

// State reports whether the loop goroutine is running.
func (g *Game) State() State {
	return State(g.state.Load())
}

// Over reports whether the round has ended.
func (g *Game) Over() bool {
	return g.over.Load()
}

// Stats returns the latest snapshot published by the loop.
func (g *Game) Stats() Stats {
	return *g.stats.Load()
}

func (g *Game) running() bool {
	return State(g.state.Load()) == Running
}

// run drives the loop until it is paused or the round ends. done is closed once
// the loop has presented its last frame; the game-over callback runs after that.
func (g *Game) run(done chan struct{}) {
	var over bool
	switch g.pacing {
	case PacingFixedSleep:
		over = g.runFixed()
	default:
		over = g.runAccumulator()
	}
	close(done)

	if over {
		g.notifyOver()
	}
}

// runFixed and runAccumulator report whether the round ended.
func (g *Game) runFixed() bool {
	for g.running() {
		over := g.step()
		g.render()
		if over {
			return true
		}
		time.Sleep(g.tick)
	}
	return false
}

func (g *Game) runAccumulator() bool {
	last := g.clock.Now()
	var acc time.Duration

	for g.running() {
		now := g.clock.Now()
		acc += now.Sub(last)
		last = now

		steps := 0
		over := false
		for acc >= g.tick && steps < config.MaxStepsPerRun && g.running() && !over {
			over = g.step()
			acc -= g.tick
			steps++
		}
		if steps == config.MaxStepsPerRun {
			acc = 0 // Drop the backlog after a long stall
		}

		if steps > 0 {
			g.render()
		}
		if over {
			return true
		}

		time.Sleep(g.tick - acc)
	}
	return false
}

// step runs one update and reports whether the ship was hit.
func (g *Game) step() bool {
	g.applyPendingResize()

	x, ok := g.pointer.Take()
	res := g.world.Step(g.clock.Now(), x, ok)
	if res.Err != nil {
		g.logger.Warn("update failed", "err", res.Err)
	}
	if res.NearMisses > 0 {
		g.haptic.Pulse(config.HapticPulse)
	}
	g.publish()

	if res.GameOver {
		g.state.Store(int32(Stopped))
		g.over.Store(true)
	}
	return res.GameOver
}

// notifyOver invokes the game-over callback once. The world is no longer
// touched by the loop, so reading its counters here is safe.
func (g *Game) notifyOver() {
	g.overOnce.Do(func() {
		survived, misses := g.world.SurvivalTime, g.world.NearMisses
		g.logger.Info("round over", "survived", survived, "near_misses", misses)
		if g.onOver != nil {
			g.onOver(survived, misses)
		}
	})
}

func (g *Game) render() {
	if s, ok := g.presenter.(CanvasSizer); ok {
		w, h := s.CanvasSize()
		if w != g.canvas.Width() || h != g.canvas.Height() {
			g.canvas.Resize(w, h)
		}
	}

	if err := Render(g.world, g.canvas); err != nil {
		g.logger.Warn("draw failed", "err", err)
		return
	}
	if err := g.presenter.Present(g.canvas); err != nil {
		g.logger.Warn("present failed", "err", err)
	}
}

func (g *Game) applyPendingResize() {
	if s := g.resize.Swap(nil); s != nil {
		g.applySize(*s)
	}
}

func (g *Game) applySize(s object.Screen) {
	g.world.Resize(s.Width, s.Height)
	g.canvas.SetLogicalSize(float64(s.Width), float64(s.Height))
	g.logger.Debug("screen resized", "width", s.Width, "height", s.Height)
}

func (g *Game) publish() {
	g.stats.Store(&Stats{
		SurvivalTime: g.world.SurvivalTime,
		NearMisses:   g.world.NearMisses,
		Meteors:      g.world.MeteorCount(),
		Playing:      g.world.Playing,
	})
}
