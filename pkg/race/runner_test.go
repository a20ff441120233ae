package race

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1-visual-simulator/pkg/sim"
	"github.com/mpapenbr/f1-visual-simulator/testsupport/basedata"
)

func TestRunner_Run(t *testing.T) {
	c := NewController(WithRandom(sim.NewSeeded(1)), WithAcceleration(0.5, 1))
	_, err := c.Start(basedata.SoloRaceConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewRunner(c, WithFrameRate(1000)).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.Phase() == PhaseFinished },
		5*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
	assert.Equal(t, 10, c.Snapshot().Lap)
}

func TestRunner_StopsOnCancel(t *testing.T) {
	c := NewController(WithRandom(sim.NewSeeded(1)))
	_, err := c.Start(basedata.SoloRaceConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewRunner(c).Run(ctx)
	// the runner may have fired at most a frame before noticing the cancel
	assert.Equal(t, 0, c.Snapshot().Lap)
}

func TestRunner_RunToFinish(t *testing.T) {
	c := NewController(WithRandom(sim.NewSeeded(2)))
	_, err := c.Start(basedata.SoloRaceConfig())
	require.NoError(t, err)
	n := NewRunner(c).RunToFinish(context.Background())
	assert.Equal(t, 10, n)
	assert.Equal(t, PhaseFinished, c.Phase())
}
