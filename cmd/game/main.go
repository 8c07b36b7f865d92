package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/novarush/internal/app"
	"github.com/tomz197/novarush/internal/config"
	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/haptic"
	"github.com/tomz197/novarush/internal/input"
	"github.com/tomz197/novarush/internal/loop"
	lconfig "github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/score"
)

func main() {
	settings, err := app.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := app.OpenLogFile(settings, "game")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(settings, logger); err != nil {
		logger.Error("game error", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// host owns the terminal between rounds; the loop goroutine owns it during a round.
type host struct {
	screen   tcell.Screen
	events   chan tcell.Event
	store    *score.Store
	settings config.Settings
	haptic   haptic.Haptic
	logger   *log.Logger
}

func run(settings config.Settings, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	pulses := haptic.Multi{haptic.Func(func(time.Duration) { _ = screen.Beep() })}
	if settings.Sound {
		tone := haptic.NewBeep(logger)
		if err := tone.Initialize(); err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer tone.Close()
			pulses = haptic.Multi{tone}
		}
	}

	h := &host{
		screen:   screen,
		events:   make(chan tcell.Event, 64),
		store:    app.OpenStore(settings, logger),
		settings: settings,
		haptic:   pulses,
		logger:   logger,
	}
	go h.pollEvents()

	for {
		res, quit := h.playRound()
		if quit {
			return nil
		}
		if !h.showResult(res) {
			return nil
		}
	}
}

func (h *host) pollEvents() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			close(h.events)
			return
		}
		h.events <- ev
	}
}

// logicalSize maps the terminal to playfield units.
func (h *host) logicalSize() (int, int) {
	w, rows := h.screen.Size()
	return w * lconfig.TermPixelSize, rows * 2 * lconfig.TermPixelSize
}

// playRound runs one round. It returns the recorded result, or quit=true if the
// player left mid-round.
func (h *host) playRound() (score.Result, bool) {
	h.screen.Clear()

	overCh := make(chan score.Entry, 1)
	lw, lh := h.logicalSize()
	steering := input.NewSteering(float64(lw)/2, lconfig.SteerSpeed)

	game := loop.New(loop.Options{
		Width:     lw,
		Height:    lh,
		Canvas:    draw.NewTerminalCanvas(lw/lconfig.TermPixelSize, lh/lconfig.TermPixelSize/2, float64(lw), float64(lh)),
		Presenter: &screenPresenter{screen: h.screen},
		Haptic:    h.haptic,
		Pacing:    app.Pacing(h.settings),
		TickTime:  h.settings.Tick,
		Logger:    h.logger,
		OnGameOver: func(survivalTime int64, nearMisses int) {
			overCh <- score.NewEntry(survivalTime, nearMisses)
		},
	})
	game.Resume()
	defer game.Pause()

	for {
		select {
		case e := <-overCh:
			game.Pause()
			res, err := h.store.Record(e.Time, e.NearMisses)
			if err != nil {
				h.logger.Error("saving score failed", "err", err)
			}
			return res, false

		case ev, ok := <-h.events:
			if !ok {
				return score.Result{}, true
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
					return score.Result{}, true
				case ev.Key() == tcell.KeyLeft || ev.Rune() == 'a':
					steering.Apply(input.Input{Left: true}, float64(lw))
					game.Touch(steering.X)
				case ev.Key() == tcell.KeyRight || ev.Rune() == 'd':
					steering.Apply(input.Input{Right: true}, float64(lw))
					game.Touch(steering.X)
				case ev.Rune() == 'p':
					if game.State() == loop.Running {
						game.Pause()
					} else {
						game.Resume()
					}
				}
			case *tcell.EventMouse:
				x, _ := ev.Position()
				steering.X = (float64(x) + 0.5) * lconfig.TermPixelSize
				game.Touch(steering.X)
			case *tcell.EventResize:
				h.screen.Sync()
				lw, lh = h.logicalSize()
				game.Resize(lw, lh)
			}
		}
	}
}

// showResult draws the game-over screen and waits for restart (true) or quit.
func (h *host) showResult(res score.Result) bool {
	for {
		h.drawResult(res)

		ev, ok := <-h.events
		if !ok {
			return false
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
				return false
			case ev.Key() == tcell.KeyEnter || ev.Rune() == ' ':
				return true
			}
		case *tcell.EventResize:
			h.screen.Sync()
		}
	}
}

func (h *host) drawResult(res score.Result) {
	h.screen.Clear()
	w, rows := h.screen.Size()

	lines := res.Lines()
	lines = append(lines, "", "HIGH SCORES")
	for i, e := range h.store.Load() {
		lines = append(lines, score.Format(i, e))
	}
	lines = append(lines, "", "SPACE to play again, Q to quit")

	top := max((rows-len(lines))/2, 0)
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 255))
	for i, line := range lines {
		runes := []rune(line)
		col := max((w-len(runes))/2, 0)
		for j, r := range runes {
			h.screen.SetContent(col+j, top+i, r, nil, style)
		}
	}
	h.screen.Show()
}
