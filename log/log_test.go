package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel).Named("race")
	l.Debug("hidden")
	l.Info("lap done", Int("lap", 3), String("car", "Player"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	entry := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "lap done", entry["msg"])
	assert.Equal(t, "race", entry["logger"])
	assert.InDelta(t, 3, entry["lap"], 0)
	assert.Equal(t, "Player", entry["car"])
}

func TestLogger_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel)
	child := l.Named("child")
	child.Debug("before")
	l.SetLevel(DebugLevel)
	child.Debug("after")
	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
	assert.Equal(t, DebugLevel, child.Level())
}

func TestLogger_WithFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	base, err := New(buf, DebugLevel).WithFilter("*:race")
	require.NoError(t, err)
	base.Named("race").Info("kept")
	base.Named("http").Info("dropped")
	assert.Contains(t, buf.String(), "kept")
	assert.NotContains(t, buf.String(), "dropped")

	_, err = New(buf, DebugLevel).WithFilter("nosuchlevel:race")
	assert.Error(t, err)
}

func TestResetDefault(t *testing.T) {
	old := Default()
	defer ResetDefault(old)

	buf := &bytes.Buffer{}
	ResetDefault(New(buf, InfoLevel))
	Info("via package func")
	assert.Contains(t, buf.String(), "via package func")
}
