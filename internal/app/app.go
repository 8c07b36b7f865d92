// Package app wires settings, logging and the score store for the executables.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/tomz197/novarush/internal/config"
	"github.com/tomz197/novarush/internal/loop"
	"github.com/tomz197/novarush/internal/score"
)

// LoadSettings reads the settings file named by NOVARUSH_CONFIG.
func LoadSettings() (config.Settings, error) {
	s, err := config.Load(config.ConfigPath())
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

// NewLogger creates a logger with the given prefix and level name.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, prefix, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// OpenLogFile returns a logger writing to <data dir>/<name>.log, for hosts that
// own the terminal. The caller closes the returned file.
func OpenLogFile(s config.Settings, name string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(s.DataDir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(f, name, s.LogLevel), f, nil
}

// OpenStore opens the high-score store configured in s.
func OpenStore(s config.Settings, logger *log.Logger) *score.Store {
	kv := score.NewIniKV(s.ScoreFile, score.PrefsName)
	logger.Debug("score store", "path", kv.Path(), "format", s.ScoreFormat)
	return score.NewStore(kv,
		score.WithCodec(score.CodecFor(s.ScoreFormat)),
		score.WithLogger(logger),
	)
}

// Pacing maps the settings value to the loop pacing mode.
func Pacing(s config.Settings) loop.Pacing {
	if s.Pacing == config.PacingFixed {
		return loop.PacingFixedSleep
	}
	return loop.PacingAccumulator
}
