package processing

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
	"github.com/mpapenbr/f1-visual-simulator/pkg/processing/car"
	"github.com/mpapenbr/f1-visual-simulator/pkg/processing/race"
	"github.com/mpapenbr/f1-visual-simulator/pkg/sim"
)

// LapResult is the outcome of one simulated lap
type LapResult struct {
	Lap       int           // the lap that was just completed (1-based)
	Cars      []model.Car   // grid order, ranks applied
	Standings []model.Car   // sorted by total time
	Events    []model.Event // pit and overtake events in standings order
}

// Processor performs the lap update for the whole field
type Processor struct {
	cfg           model.RaceConfig
	rnd           sim.Source
	carProcessor  *car.CarProcessor
	raceProcessor *race.RaceProcessor
	l             *log.Logger
}

type ProcessorOption func(proc *Processor)

func WithRaceConfig(cfg model.RaceConfig) ProcessorOption {
	return func(proc *Processor) {
		proc.cfg = cfg
	}
}

func WithRandom(src sim.Source) ProcessorOption {
	return func(proc *Processor) {
		proc.rnd = src
	}
}

func WithLogger(l *log.Logger) ProcessorOption {
	return func(proc *Processor) {
		proc.l = l
	}
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	ret := &Processor{
		cfg: model.DefaultRaceConfig(),
		l:   log.Default().Named("processing"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.rnd == nil {
		ret.rnd = sim.NewRandom()
	}
	ret.carProcessor = car.NewCarProcessor(
		car.WithRaceConfig(ret.cfg),
		car.WithRandom(ret.rnd))
	ret.raceProcessor = race.NewRaceProcessor()
	return ret
}

// ProcessLap computes the next lap for all cars.
// completedLaps is the number of laps finished before this one.
// The given slice is not modified.
func (p *Processor) ProcessLap(cars []model.Car, completedLaps int) *LapResult {
	lap := completedLaps + 1
	updated := make([]model.Car, len(cars))
	for i := range cars {
		updated[i] = p.carProcessor.ProcessCar(cars[i], completedLaps)
	}
	standings := p.raceProcessor.Rank(updated)

	// transfer the ranking back to grid order
	byID := lo.KeyBy(standings, func(c model.Car) int { return c.ID })
	for i := range updated {
		ranked := byID[updated[i].ID]
		updated[i].Position = ranked.Position
		updated[i].PositionChange = ranked.PositionChange
	}

	events := p.raceProcessor.DeriveEvents(standings, lap)
	p.l.Debug("lap processed",
		log.Int("lap", lap),
		log.Int("cars", len(cars)),
		log.Int("events", len(events)))
	return &LapResult{
		Lap:       lap,
		Cars:      updated,
		Standings: standings,
		Events:    events,
	}
}
