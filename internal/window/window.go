// Package window hosts the game in an ebiten window or on a phone. The loop
// goroutine renders into a frame buffer; ebiten's draw callback uploads it.
package window

import (
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/haptic"
	"github.com/tomz197/novarush/internal/loop"
	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/score"
)

// bitmapfont glyphs are 12 pixels tall.
const fontHeight = 12

var face = text.NewGoXFace(bitmapfont.Face)

// Options configures a Window.
type Options struct {
	Store  *score.Store
	Pacing loop.Pacing
	Tick   time.Duration // Zero uses the default tick
	Haptic haptic.Haptic // Defaults to the device vibrator
	Logger *log.Logger
}

// Window implements ebiten.Game.
type Window struct {
	store  *score.Store
	pacing loop.Pacing
	tick   time.Duration
	haptic haptic.Haptic
	logger *log.Logger

	frames *draw.FrameBuffer
	image  *ebiten.Image
	game   *loop.Game
	overCh chan score.Entry
	result *score.Result // Set while the game-over screen is shown
	best   []score.Entry

	paused   bool // Paused by losing focus
	keyX     float64
	touchIDs []ebiten.TouchID
}

// Vibrate pulses the device vibrator. It does nothing on desktops.
func Vibrate(d time.Duration) {
	ebiten.Vibrate(&ebiten.VibrateOptions{Duration: d, Magnitude: 1})
}

// New creates a window and starts the first round.
func New(opts Options) *Window {
	if opts.Haptic == nil {
		opts.Haptic = haptic.Func(Vibrate)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	w := &Window{
		store:  opts.Store,
		pacing: opts.Pacing,
		tick:   opts.Tick,
		haptic: opts.Haptic,
		logger: opts.Logger,
		frames: draw.NewFrameBuffer(config.WindowWidth, config.WindowHeight),
	}
	w.startRound()
	return w
}

func (w *Window) startRound() {
	w.result = nil
	w.keyX = config.WindowWidth / 2
	w.overCh = make(chan score.Entry, 1)
	overCh := w.overCh

	w.game = loop.New(loop.Options{
		Width:     config.WindowWidth,
		Height:    config.WindowHeight,
		Presenter: w.frames,
		Haptic:    w.haptic,
		Pacing:    w.pacing,
		TickTime:  w.tick,
		Logger:    w.logger,
		OnGameOver: func(survivalTime int64, nearMisses int) {
			overCh <- score.NewEntry(survivalTime, nearMisses)
		},
	})
	w.game.Resume()
}

// Update handles input and lifecycle on ebiten's update thread.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.game.Pause()
		return ebiten.Termination
	}

	if w.result != nil {
		if w.restartPressed() {
			w.startRound()
		}
		return nil
	}

	select {
	case e := <-w.overCh:
		w.finishRound(e)
		return nil
	default:
	}

	// Losing focus pauses the round like an app moving to the background.
	focused := ebiten.IsFocused()
	switch {
	case !focused && !w.paused:
		w.game.Pause()
		w.paused = true
	case focused && w.paused:
		w.game.Resume()
		w.paused = false
	}

	if x, ok := w.pointerX(); ok {
		w.keyX = x
		w.game.Touch(x)
	}
	return nil
}

func (w *Window) finishRound(e score.Entry) {
	w.game.Pause()

	res, err := w.store.Record(e.Time, e.NearMisses)
	if err != nil {
		w.logger.Error("saving score failed", "err", err)
		res = score.Result{Entry: e}
	}
	w.result = &res
	w.best = w.store.Load()
}

// pointerX returns the steering position from touch, mouse or arrow keys.
func (w *Window) pointerX() (float64, bool) {
	w.touchIDs = ebiten.AppendTouchIDs(w.touchIDs[:0])
	if len(w.touchIDs) > 0 {
		x, _ := ebiten.TouchPosition(w.touchIDs[0])
		return float64(x), true
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, _ := ebiten.CursorPosition()
		return float64(x), true
	}

	dx := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		dx -= config.SteerSpeed / 4
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		dx += config.SteerSpeed / 4
	}
	if dx == 0 {
		return 0, false
	}
	return min(max(w.keyX+dx, 0), config.WindowWidth), true
}

func (w *Window) restartPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	w.touchIDs = inpututil.AppendJustPressedTouchIDs(w.touchIDs[:0])
	return len(w.touchIDs) > 0
}

// Draw uploads the latest frame, or shows the game-over screen.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.result != nil {
		w.drawResult(screen)
		return
	}

	w.frames.View(func(pix []byte, labels []draw.Label, seq uint64) {
		if seq == 0 || len(pix) != 4*config.WindowWidth*config.WindowHeight {
			return
		}
		if w.image == nil {
			w.image = ebiten.NewImage(config.WindowWidth, config.WindowHeight)
		}
		w.image.WritePixels(pix)
		screen.DrawImage(w.image, nil)

		for _, l := range labels {
			drawLabel(screen, l)
		}
	})
}

func (w *Window) drawResult(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x00, G: 0x05, B: 0x10, A: 0xff})

	cyan := draw.RGB(0, 255, 255)
	y := 200.0
	for _, line := range w.result.Lines() {
		drawCentered(screen, line, y, 36, cyan)
		y += 50
	}

	y += 30
	drawCentered(screen, "HIGH SCORES", y, 28, draw.RGB(255, 165, 0))
	y += 40
	for i, e := range w.best {
		drawCentered(screen, score.Format(i, e), y, 20, draw.White)
		y += 30
	}

	drawCentered(screen, "Tap to play again", config.WindowHeight-120, 28, cyan)
}

func textOptions(x, y, size float64, col draw.Color) *text.DrawOptions {
	op := &text.DrawOptions{}
	s := size / fontHeight
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A})
	return op
}

// drawLabel draws l with its baseline at l.Y.
func drawLabel(screen *ebiten.Image, l draw.Label) {
	text.Draw(screen, l.Text, face, textOptions(l.X, l.Y-l.Size, l.Size, l.Color))
}

func drawCentered(screen *ebiten.Image, s string, y, size float64, col draw.Color) {
	tw, _ := text.Measure(s, face, 0)
	x := (config.WindowWidth - tw*size/fontHeight) / 2
	text.Draw(screen, s, face, textOptions(x, y, size, col))
}

// Layout keeps the portrait playfield; ebiten scales it to the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Close stops the loop goroutine.
func (w *Window) Close() {
	w.game.Pause()
}
