package app

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/novarush/internal/config"
	"github.com/tomz197/novarush/internal/loop"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test", "debug")
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	logger = NewLogger(&buf, "test", "loud")
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}

func TestPacing(t *testing.T) {
	s := config.Default()
	assert.Equal(t, loop.PacingAccumulator, Pacing(s))

	s.Pacing = config.PacingFixed
	assert.Equal(t, loop.PacingFixedSleep, Pacing(s))
}

func TestOpenStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := config.Default()
	s.DataDir = dir
	s.ScoreFile = filepath.Join(dir, "scores.ini")

	var buf bytes.Buffer
	logger := NewLogger(&buf, "test", "info")

	res, err := OpenStore(s, logger).Record(10, 2)
	require.NoError(t, err)
	assert.True(t, res.NewRecord)

	best, ok := OpenStore(s, logger).Best()
	require.True(t, ok)
	assert.Equal(t, 110, best.Score)
}

func TestOpenLogFile(t *testing.T) {
	s := config.Default()
	s.DataDir = filepath.Join(t.TempDir(), "nested")

	logger, closer, err := OpenLogFile(s, "game")
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("hello")
	assert.FileExists(t, filepath.Join(s.DataDir, "game.log"))
}
