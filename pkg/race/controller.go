package race

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
	"github.com/mpapenbr/f1-visual-simulator/pkg/processing"
	"github.com/mpapenbr/f1-visual-simulator/pkg/sim"
)

var (
	ErrRaceInProgress = errors.New("race in progress")
	ErrNotRunning     = errors.New("race is not running")
)

const rivalGridGap = 0.05 // lap fraction between cars on the grid

// LapListener gets called with a snapshot after each lap and when the race finishes
type LapListener func(Snapshot)

// ChannelListener forwards snapshots to ch. Snapshots are dropped while ch is full.
func ChannelListener(ch chan<- Snapshot) LapListener {
	return func(s Snapshot) {
		select {
		case ch <- s:
		default:
		}
	}
}

// Controller owns the race state machine.
// All methods are safe for concurrent use, lap updates are serialized.
type Controller struct {
	mu        sync.Mutex
	state     State
	rnd       sim.Source
	processor *processing.Processor
	listeners []LapListener
	speedStep float64
	maxSpeed  float64
	metrics   *raceMetrics
	l         *log.Logger
}

type ControllerOption func(c *Controller)

func WithRandom(src sim.Source) ControllerOption {
	return func(c *Controller) {
		c.rnd = src
	}
}

func WithLogger(l *log.Logger) ControllerOption {
	return func(c *Controller) {
		c.l = l
	}
}

// WithRaceConfig sets the configuration presented while the race is idle
func WithRaceConfig(cfg model.RaceConfig) ControllerOption {
	return func(c *Controller) {
		c.state.cfg = cfg
	}
}

func WithLapListener(l LapListener) ControllerOption {
	return func(c *Controller) {
		c.listeners = append(c.listeners, l)
	}
}

// WithAcceleration configures the progress ramp per frame
func WithAcceleration(step, maxSpeed float64) ControllerOption {
	return func(c *Controller) {
		c.speedStep = step
		c.maxSpeed = maxSpeed
	}
}

func NewController(opts ...ControllerOption) *Controller {
	ret := &Controller{
		state: State{
			phase: PhaseIdle,
			cfg:   model.DefaultRaceConfig(),
		},
		speedStep: defaultSpeedStep,
		maxSpeed:  defaultMaxSpeed,
		l:         log.Default().Named("race"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.rnd == nil {
		ret.rnd = sim.NewRandom()
	}
	ret.state.progress = NewProgress(ret.speedStep, ret.maxSpeed)
	ret.metrics = newRaceMetrics(ret.l)
	return ret
}

// AddLapListener registers l for lap and finish notifications
func (c *Controller) AddLapListener(l LapListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Start sets up a new race for cfg and puts it into running state.
// A finished race may be restarted directly, a running or paused one not.
func (c *Controller) Start(cfg model.RaceConfig) (Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return Snapshot{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.phase == PhaseRunning || c.state.phase == PhasePaused {
		return Snapshot{}, ErrRaceInProgress
	}

	cars := buildGrid(cfg, c.rnd)
	c.state = State{
		raceID:    uuid.NewString(),
		phase:     PhaseRunning,
		cfg:       cfg,
		cars:      cars,
		standings: model.CopyCars(cars),
		progress:  NewProgress(c.speedStep, c.maxSpeed),
	}
	c.state.events.Add(model.Event{Lap: 0, Message: "Race Started!", Type: model.EventStart})
	c.processor = processing.NewProcessor(
		processing.WithRaceConfig(cfg),
		processing.WithRandom(c.rnd),
		processing.WithLogger(c.l))

	c.l.Info("race started",
		log.String("raceId", c.state.raceID),
		log.Int("laps", cfg.TotalLaps),
		log.Int("cars", len(cars)),
		log.String("track", cfg.TrackType.String()),
		log.String("weather", string(cfg.Weather)))
	return c.state.snapshot(), nil
}

// TogglePause switches between running and paused
func (c *Controller) TogglePause() (Phase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state.phase {
	case PhaseRunning:
		c.state.phase = PhasePaused
	case PhasePaused:
		c.state.phase = PhaseRunning
		c.state.progress.ResetSpeed()
	default:
		return c.state.phase, fmt.Errorf("%w: phase %s", ErrNotRunning, c.state.phase)
	}
	c.l.Debug("pause toggled", log.String("phase", string(c.state.phase)))
	return c.state.phase, nil
}

// Reset discards the race. The configuration is kept for editing.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{
		phase:    PhaseIdle,
		cfg:      c.state.cfg,
		progress: NewProgress(c.speedStep, c.maxSpeed),
	}
	c.processor = nil
	c.l.Info("race reset")
	return c.state.snapshot()
}

// Frame advances the lap progress by one frame. When the progress reaches a
// full lap, exactly one lap update is performed. Frames outside of the
// running phase have no effect. Returns true if a lap boundary was crossed.
func (c *Controller) Frame() bool {
	c.mu.Lock()
	if c.state.phase != PhaseRunning || !c.state.progress.Advance() {
		c.mu.Unlock()
		return false
	}
	return c.rolloverAndNotify()
}

// Tick performs a lap update immediately, ignoring the frame progress.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	if c.state.phase != PhaseRunning {
		c.mu.Unlock()
		return false
	}
	c.state.progress.Reset()
	return c.rolloverAndNotify()
}

// must be called with c.mu held, releases it
func (c *Controller) rolloverAndNotify() bool {
	c.rollover()
	snap := c.state.snapshot()
	listeners := c.listeners
	c.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return true
}

func (c *Controller) rollover() {
	if c.state.lap >= c.state.cfg.TotalLaps {
		c.finish()
		return
	}
	res := c.processor.ProcessLap(c.state.cars, c.state.lap)
	c.state.lap = res.Lap
	c.state.cars = res.Cars
	c.state.standings = res.Standings
	c.state.events.Add(res.Events...)
	if player, ok := lo.Find(res.Standings, func(car model.Car) bool {
		return car.IsPlayer
	}); ok {
		c.state.history = append(c.state.history, model.NewHistoryEntry(res.Lap, &player))
	}
	c.metrics.recordLap(res)

	if c.state.lap >= c.state.cfg.TotalLaps {
		c.finish()
	}
}

func (c *Controller) finish() {
	c.state.phase = PhaseFinished
	c.state.progress.Reset()
	c.state.events.Add(model.Event{
		Lap:     c.state.lap,
		Message: "Race Finished!",
		Type:    model.EventFinish,
	})
	fields := []log.Field{log.String("raceId", c.state.raceID), log.Int("lap", c.state.lap)}
	if len(c.state.standings) > 0 {
		fields = append(fields, log.String("winner", c.state.standings[0].Name))
	}
	c.l.Info("race finished", fields...)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.snapshot()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.phase
}

// Config returns the configuration of the current race or the one
// being edited while idle
func (c *Controller) Config() model.RaceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.cfg
}

// buildGrid creates the player car followed by the rivals
func buildGrid(cfg model.RaceConfig, rnd sim.Source) []model.Car {
	cars := make([]model.Car, 0, cfg.NumRivals+1)
	cars = append(cars, model.Car{
		ID:       0,
		Name:     "Player",
		IsPlayer: true,
		Tyre:     cfg.StartingTyre,
		TyreLife: model.MaxTyreLife,
		Position: 1,
		Strategy: model.StrategyBalanced,
	})
	for i := 1; i <= cfg.NumRivals; i++ {
		tyre := sim.Pick(rnd, model.DryCompounds())
		strategy := sim.Pick(rnd, model.Strategies())
		cars = append(cars, model.Car{
			ID:            i,
			Name:          fmt.Sprintf("Rival %d", i),
			Tyre:          tyre,
			TyreLife:      model.MaxTyreLife,
			Position:      i + 1,
			TrackPosition: -float64(i) * rivalGridGap,
			Strategy:      strategy,
		})
	}
	return cars
}
