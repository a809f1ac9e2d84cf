package logger

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdeck/deckhand/internal/config"
)

func TestNewWithDefaults(t *testing.T) {
	logger, err := New(config.NewDefaultLogConfig())
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewParsesLevel(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "debug"

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "shouting"

	_, err := New(cfg)
	require.Error(t, err)
}

func TestNewWithFileOutput(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "deckhand.log")
	cfg.LogFormat = "json"

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info().Msg("hello")
}
