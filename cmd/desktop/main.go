package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/novarush/internal/app"
	"github.com/tomz197/novarush/internal/haptic"
	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/window"
)

func main() {
	logger := app.NewLogger(os.Stderr, "desktop", "info")

	settings, err := app.LoadSettings()
	if err != nil {
		logger.Fatal("failed to load settings", "err", err)
	}
	logger = app.NewLogger(os.Stderr, "desktop", settings.LogLevel)

	// Desktops have no vibrator; a short tone stands in for it.
	pulses := haptic.Multi{haptic.Func(window.Vibrate)}
	if settings.Sound {
		tone := haptic.NewBeep(logger)
		if err := tone.Initialize(); err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer tone.Close()
			pulses = append(pulses, tone)
		}
	}

	w := window.New(window.Options{
		Store:  app.OpenStore(settings, logger),
		Pacing: app.Pacing(settings),
		Tick:   settings.Tick,
		Haptic: pulses,
		Logger: logger,
	})
	defer w.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Nova Rush")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(w); err != nil {
		logger.Error("game error", "err", err)
	}
}
