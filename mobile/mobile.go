//go:build mobile

// Package mobile is the ebitenmobile binding entry point:
//
//	ebitenmobile bind -target android -tags mobile -javapkg com.novarush -o novarush.aar ./mobile
package mobile

import (
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/tomz197/novarush/internal/app"
	"github.com/tomz197/novarush/internal/config"
	"github.com/tomz197/novarush/internal/window"
)

func init() {
	logger := app.NewLogger(os.Stderr, "mobile", "info")

	settings, err := app.LoadSettings()
	if err != nil {
		logger.Warn("using default settings", "err", err)
		settings = config.Default()
	}
	if settings.DataDir == "." {
		settings.DataDir = os.TempDir()
		settings.ScoreFile = filepath.Join(settings.DataDir, "scores.ini")
	}

	mobile.SetGame(window.New(window.Options{
		Store:  app.OpenStore(settings, logger),
		Pacing: app.Pacing(settings),
		Tick:   settings.Tick,
		Logger: logger,
	}))
}

// Dummy is exported so ebitenmobile generates a binding for this package.
func Dummy() {}
