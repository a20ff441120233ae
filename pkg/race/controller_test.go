//nolint:funlen // ok for tests
package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
	"github.com/mpapenbr/f1-visual-simulator/pkg/sim"
	"github.com/mpapenbr/f1-visual-simulator/testsupport/basedata"
)

func TestController_StartBuildsGrid(t *testing.T) {
	cfg := model.DefaultRaceConfig()
	cfg.NumRivals = 2
	cfg.StartingTyre = model.TyreSoft
	c := NewController(WithRandom(sim.NewSequence([]float64{0.5}, 2, 0, 1, 2)))

	snap, err := c.Start(cfg)
	require.NoError(t, err)
	assert.Equal(t, PhaseRunning, snap.Phase)
	assert.NotEmpty(t, snap.RaceID)
	assert.Equal(t, 0, snap.Lap)
	assert.Equal(t, []model.Car{
		{
			ID: 0, Name: "Player", IsPlayer: true, Tyre: model.TyreSoft, TyreLife: 100,
			Position: 1, Strategy: model.StrategyBalanced,
		},
		{
			ID: 1, Name: "Rival 1", Tyre: model.TyreHard, TyreLife: 100, Position: 2,
			TrackPosition: -0.05, Strategy: model.StrategyAggressive,
		},
		{
			ID: 2, Name: "Rival 2", Tyre: model.TyreMedium, TyreLife: 100, Position: 3,
			TrackPosition: -0.1, Strategy: model.StrategyConservative,
		},
	}, snap.Cars)
	assert.Equal(t, snap.Cars, snap.Standings)
	assert.Equal(t, []model.Event{{Lap: 0, Message: "Race Started!", Type: model.EventStart}}, snap.Events)
	assert.Empty(t, snap.History)
}

func TestController_StartInvalidConfig(t *testing.T) {
	c := NewController()
	cfg := model.DefaultRaceConfig()
	cfg.TotalLaps = 0
	_, err := c.Start(cfg)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestController_StartWhileRunning(t *testing.T) {
	c := NewController(WithRandom(sim.NewSeeded(1)))
	_, err := c.Start(basedata.SoloRaceConfig())
	require.NoError(t, err)
	_, err = c.Start(basedata.SoloRaceConfig())
	assert.ErrorIs(t, err, ErrRaceInProgress)

	_, err = c.TogglePause()
	require.NoError(t, err)
	_, err = c.Start(basedata.SoloRaceConfig())
	assert.ErrorIs(t, err, ErrRaceInProgress)
}

func TestController_SoloRaceFinishes(t *testing.T) {
	var notified []Snapshot
	c := NewController(
		WithRandom(sim.NewSeeded(3)),
		WithLapListener(func(s Snapshot) { notified = append(notified, s) }))
	_, err := c.Start(basedata.SoloRaceConfig())
	require.NoError(t, err)

	for range 10 {
		assert.True(t, c.Tick())
	}
	snap := c.Snapshot()
	assert.Equal(t, 10, snap.Lap)
	assert.Equal(t, PhaseFinished, snap.Phase)
	player, ok := snap.Player()
	require.True(t, ok)
	assert.Equal(t, 1, player.Position)
	assert.Len(t, snap.History, 10)
	assert.Equal(t, model.Event{Lap: 10, Message: "Race Finished!", Type: model.EventFinish}, snap.Events[0])

	// no further ticks once finished
	assert.False(t, c.Tick())
	assert.False(t, c.Frame())
	assert.Equal(t, 10, c.Snapshot().Lap)

	require.Len(t, notified, 10)
	assert.Equal(t, 1, notified[0].Lap)
	assert.Equal(t, PhaseFinished, notified[9].Phase)
}

func TestController_FrameRollover(t *testing.T) {
	c := NewController(
		WithRandom(sim.NewSeeded(5)),
		WithAcceleration(0.25, 0.5))
	_, err := c.Start(basedata.SoloRaceConfig())
	require.NoError(t, err)

	assert.False(t, c.Frame())
	assert.False(t, c.Frame())
	assert.InDelta(t, 0.75, c.Snapshot().Progress, 1e-12)
	assert.True(t, c.Frame())
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Lap)
	assert.InDelta(t, 0.0, snap.Progress, 0)
}

func TestController_Pause(t *testing.T) {
	c := NewController(WithRandom(sim.NewSeeded(5)), WithAcceleration(0.25, 0.5))
	_, err := c.TogglePause()
	assert.ErrorIs(t, err, ErrNotRunning)

	_, err = c.Start(basedata.SoloRaceConfig())
	require.NoError(t, err)
	c.Frame()

	phase, err := c.TogglePause()
	require.NoError(t, err)
	assert.Equal(t, PhasePaused, phase)
	before := c.Snapshot()
	for range 10 {
		assert.False(t, c.Frame())
		assert.False(t, c.Tick())
	}
	after := c.Snapshot()
	assert.Equal(t, before, after)

	phase, err = c.TogglePause()
	require.NoError(t, err)
	assert.Equal(t, PhaseRunning, phase)
	assert.False(t, c.Frame())
	// ramp restarted after resume: 0.25 + 0.25
	assert.InDelta(t, 0.5, c.Snapshot().Progress, 1e-12)
}

func TestController_Reset(t *testing.T) {
	cfg := basedata.SoloRaceConfig()
	c := NewController(WithRandom(sim.NewSeeded(5)))
	_, err := c.Start(cfg)
	require.NoError(t, err)
	c.Tick()
	c.Tick()

	snap := c.Reset()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, 0, snap.Lap)
	assert.Empty(t, snap.Cars)
	assert.Empty(t, snap.Events)
	assert.Empty(t, snap.History)
	assert.Equal(t, cfg, snap.Config)
	assert.False(t, c.Frame())

	// restart after reset and after finish
	_, err = c.Start(cfg)
	require.NoError(t, err)
	for c.Tick() {
	}
	assert.Equal(t, PhaseFinished, c.Phase())
	_, err = c.Start(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Snapshot().Lap)
}

func TestController_FullFieldInvariants(t *testing.T) {
	cfg := model.DefaultRaceConfig()
	cfg.NumRivals = model.MaxRivals
	cfg.TotalLaps = 70
	cfg.TrackType = model.TrackStreet
	c := NewController(WithRandom(sim.NewSeeded(11)))
	prev, err := c.Start(cfg)
	require.NoError(t, err)

	for c.Tick() {
		snap := c.Snapshot()
		assert.LessOrEqual(t, len(snap.Events), model.MaxEvents)
		require.Len(t, snap.Cars, cfg.NumRivals+1)
		ranks := make(map[int]bool)
		for i, car := range snap.Cars {
			assert.GreaterOrEqual(t, car.TotalTime, prev.Cars[i].TotalTime)
			assert.GreaterOrEqual(t, car.TyreLife, 0.0)
			assert.LessOrEqual(t, car.TyreLife, 100.0)
			ranks[car.Position] = true
		}
		assert.Len(t, ranks, cfg.NumRivals+1)
		for i, car := range snap.Standings {
			assert.Equal(t, i+1, car.Position)
		}
		prev = snap
	}
	assert.Equal(t, cfg.TotalLaps, prev.Lap)
	assert.Equal(t, PhaseFinished, prev.Phase)
}

func TestChannelListener(t *testing.T) {
	ch := make(chan Snapshot, 1)
	c := NewController(
		WithRandom(sim.NewSeeded(3)),
		WithLapListener(ChannelListener(ch)))
	_, err := c.Start(basedata.SoloRaceConfig())
	require.NoError(t, err)

	require.True(t, c.Tick())
	// channel is full, the second snapshot must not block the controller
	require.True(t, c.Tick())

	snap := <-ch
	assert.Equal(t, 1, snap.Lap)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected snapshot for lap %d", extra.Lap)
	default:
	}
}
