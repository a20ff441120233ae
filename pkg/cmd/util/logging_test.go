package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/config"
)

func withLogConfig(t *testing.T, format, level, filter string) {
	t.Helper()
	prev := []string{config.LogFormat, config.LogLevel, config.LogFilter}
	prevLogger := log.Default()
	config.LogFormat, config.LogLevel, config.LogFilter = format, level, filter
	t.Cleanup(func() {
		config.LogFormat, config.LogLevel, config.LogFilter = prev[0], prev[1], prev[2]
		log.ResetDefault(prevLogger)
	})
}

func TestSetupLogger_JSON(t *testing.T) {
	withLogConfig(t, "json", "warn", "")
	var buf bytes.Buffer
	l, err := setupLogger(&buf)
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, l.Level())
	assert.Same(t, l, log.Default())

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestSetupLogger_TextDefaultsToDebug(t *testing.T) {
	withLogConfig(t, "text", "no-such-level", "")
	var buf bytes.Buffer
	l, err := setupLogger(&buf)
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, l.Level())
}

func TestSetupLogger_Filter(t *testing.T) {
	withLogConfig(t, "json", "debug", "*:race")
	var buf bytes.Buffer
	l, err := setupLogger(&buf)
	require.NoError(t, err)
	l.Named("race").Info("lap done")
	l.Named("nats").Info("published")
	assert.Contains(t, buf.String(), "lap done")
	assert.NotContains(t, buf.String(), "published")
}

func TestSetupLogger_InvalidFilter(t *testing.T) {
	withLogConfig(t, "json", "info", "nosuchlevel:race")
	_, err := setupLogger(&bytes.Buffer{})
	assert.Error(t, err)
}
