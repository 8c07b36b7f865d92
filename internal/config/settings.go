package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/ini.v1"

	lconfig "github.com/tomz197/novarush/internal/loop/config"
)

// Settings is the runtime configuration shared by all hosts.
// Values come from an optional ini file and are overridden by environment variables.
type Settings struct {
	DataDir     string // Directory holding the score file
	ScoreFile   string // Path of the ini file backing the leaderboard
	ScoreFormat string // "versioned" or "legacy"
	Pacing      string // "accumulator" or "fixed"
	Tick        time.Duration
	Sound       bool   // Play a short tone on near misses
	LogLevel    string

	SSHHost    string
	SSHPort    string
	SSHHostKey string
}

// Accepted values for Settings.ScoreFormat and Settings.Pacing.
const (
	ScoreFormatVersioned = "versioned"
	ScoreFormatLegacy    = "legacy"
	PacingAccumulator    = "accumulator"
	PacingFixed          = "fixed"
)

// Default returns the built-in settings.
func Default() Settings {
	dir := defaultDataDir()
	return Settings{
		DataDir:     dir,
		ScoreFile:   filepath.Join(dir, "scores.ini"),
		ScoreFormat: ScoreFormatVersioned,
		Pacing:      PacingAccumulator,
		Tick:        lconfig.TickTime,
		Sound:       true,
		LogLevel:    "info",
		SSHHost:     "::",
		SSHPort:     "2222",
		SSHHostKey:  ".ssh/novarush_ed25519",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "novarush")
	}
	return "."
}

// ConfigPath returns the settings file location (NOVARUSH_CONFIG or <data dir>/novarush.ini).
func ConfigPath() string {
	return GetEnv("NOVARUSH_CONFIG", filepath.Join(defaultDataDir(), "novarush.ini"))
}

// Load reads settings from path. A missing file is not an error.
// Environment variables are applied last.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		if err := s.loadFile(path); err != nil {
			return s, err
		}
	}

	s.applyEnv()

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) loadFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("load settings %s: %w", path, err)
	}

	game := cfg.Section("game")
	s.Pacing = game.Key("pacing").MustString(s.Pacing)
	s.Tick = game.Key("tick").MustDuration(s.Tick)
	s.Sound = game.Key("sound").MustBool(s.Sound)

	scores := cfg.Section("scores")
	s.DataDir = scores.Key("data_dir").MustString(s.DataDir)
	s.ScoreFile = scores.Key("file").MustString(filepath.Join(s.DataDir, "scores.ini"))
	s.ScoreFormat = scores.Key("format").MustString(s.ScoreFormat)

	s.LogLevel = cfg.Section("log").Key("level").MustString(s.LogLevel)

	ssh := cfg.Section("ssh")
	s.SSHHost = ssh.Key("host").MustString(s.SSHHost)
	s.SSHPort = ssh.Key("port").MustString(s.SSHPort)
	s.SSHHostKey = ssh.Key("host_key").MustString(s.SSHHostKey)
	return nil
}

func (s *Settings) applyEnv() {
	if dir, ok := os.LookupEnv("NOVARUSH_DATA_DIR"); ok {
		s.DataDir = dir
		s.ScoreFile = filepath.Join(dir, "scores.ini")
	}
	s.ScoreFile = GetEnv("NOVARUSH_SCORE_FILE", s.ScoreFile)
	s.ScoreFormat = GetEnv("NOVARUSH_SCORE_FORMAT", s.ScoreFormat)
	s.Pacing = GetEnv("NOVARUSH_PACING", s.Pacing)
	s.Tick = GetEnvDuration("NOVARUSH_TICK", s.Tick)
	s.Sound = GetEnvBool("NOVARUSH_SOUND", s.Sound)
	s.LogLevel = GetEnv("NOVARUSH_LOG_LEVEL", s.LogLevel)
	s.SSHHost = GetEnv("SSH_HOST", s.SSHHost)
	s.SSHPort = GetEnv("SSH_PORT", s.SSHPort)
	s.SSHHostKey = GetEnv("SSH_HOST_KEY", s.SSHHostKey)
}

// Validate rejects unknown enumerated values and a non-positive tick.
func (s Settings) Validate() error {
	switch s.ScoreFormat {
	case ScoreFormatVersioned, ScoreFormatLegacy:
	default:
		return fmt.Errorf("invalid score format %q", s.ScoreFormat)
	}
	switch s.Pacing {
	case PacingAccumulator, PacingFixed:
	default:
		return fmt.Errorf("invalid pacing %q", s.Pacing)
	}
	if s.Tick <= 0 {
		return fmt.Errorf("invalid tick %s", s.Tick)
	}
	return nil
}

// Save writes the settings to path, creating parent directories.
func (s Settings) Save(path string) error {
	cfg := ini.Empty()

	game := cfg.Section("game")
	game.Key("pacing").SetValue(s.Pacing)
	game.Key("tick").SetValue(s.Tick.String())
	game.Key("sound").SetValue(fmt.Sprint(s.Sound))

	scores := cfg.Section("scores")
	scores.Key("data_dir").SetValue(s.DataDir)
	scores.Key("file").SetValue(s.ScoreFile)
	scores.Key("format").SetValue(s.ScoreFormat)

	cfg.Section("log").Key("level").SetValue(s.LogLevel)

	ssh := cfg.Section("ssh")
	ssh.Key("host").SetValue(s.SSHHost)
	ssh.Key("port").SetValue(s.SSHPort)
	ssh.Key("host_key").SetValue(s.SSHHostKey)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("save settings %s: %w", path, err)
	}
	return nil
}
