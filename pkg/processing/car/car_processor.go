package car

import (
	"math"

	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
	"github.com/mpapenbr/f1-visual-simulator/pkg/sim"
)

const (
	idealTrackTemp     = 30.0
	trackTempFactor    = 0.02
	wetWeatherPenalty  = 5.0
	lapTimeNoise       = 0.4
	minPitTime         = 22.0
	maxPitTime         = 24.0
	pitLifeThreshold   = 25.0
	aggressivePitLife  = 40.0
	noPitLapsRemaining = 5 // no pit stops within the final laps
	baseSpeed          = 300.0
	speedLossFactor    = 5.0
)

// CarProcessor computes one lap for a single car
type CarProcessor struct {
	cfg   model.RaceConfig
	track model.TrackSpec
	rnd   sim.Source
}

type CarProcessorOption func(cp *CarProcessor)

func WithRaceConfig(cfg model.RaceConfig) CarProcessorOption {
	return func(cp *CarProcessor) {
		cp.cfg = cfg
		cp.track = cfg.TrackType.Spec()
	}
}

func WithRandom(src sim.Source) CarProcessorOption {
	return func(cp *CarProcessor) {
		cp.rnd = src
	}
}

func NewCarProcessor(opts ...CarProcessorOption) *CarProcessor {
	cfg := model.DefaultRaceConfig()
	cp := &CarProcessor{
		cfg:   cfg,
		track: cfg.TrackType.Spec(),
		rnd:   sim.NewRandom(),
	}
	for _, opt := range opts {
		opt(cp)
	}
	return cp
}

// LapTimeBreakdown holds the components of a lap time (seconds)
type LapTimeBreakdown struct {
	Base     float64
	Tyre     float64
	Temp     float64
	Weather  float64
	Strategy float64
	Noise    float64
}

func (b LapTimeBreakdown) Total() float64 {
	return b.Base + b.Tyre + b.Temp + b.Weather + b.Strategy + b.Noise
}

// LapTime computes the lap time components for the car in its current state.
// Consumes one random number for the noise component.
func (p *CarProcessor) LapTime(c *model.Car) LapTimeBreakdown {
	tyre := c.Tyre.Spec()
	ret := LapTimeBreakdown{
		Base:     tyre.BaseLapTime,
		Tyre:     tyre.Degradation * float64(c.TyreAge) * p.track.Degradation,
		Temp:     math.Abs(p.cfg.TrackTemp-idealTrackTemp) * trackTempFactor,
		Strategy: c.Strategy.LapTimeDelta(),
		Noise:    sim.Between(p.rnd, -lapTimeNoise, lapTimeNoise),
	}
	if p.cfg.Weather == model.WeatherWet && !c.Tyre.ForWetConditions() {
		ret.Weather = wetWeatherPenalty
	}
	return ret
}

// TyreWear returns the tyre life after one more lap, never below zero
func (p *CarProcessor) TyreWear(c *model.Car) float64 {
	wear := c.Tyre.Spec().Degradation * p.track.Degradation * 100 * c.Strategy.WearFactor()
	return math.Max(model.MinTyreLife, c.TyreLife-wear)
}

// ShouldPit decides on a pit stop based on the tyre life after this lap.
// Only aggressive cars get the higher threshold.
func ShouldPit(newLife float64, s model.Strategy, lapsRemaining int) bool {
	worn := newLife < pitLifeThreshold ||
		(newLife < aggressivePitLife && s == model.StrategyAggressive)
	return worn && lapsRemaining > noPitLapsRemaining
}

// NextCompound selects the compound fitted at a pit stop
func NextCompound(lapsRemaining int) model.TyreCompound {
	switch {
	case lapsRemaining > 25:
		return model.TyreHard
	case lapsRemaining > 15:
		return model.TyreMedium
	default:
		return model.TyreSoft
	}
}

// ProcessCar returns the state of c after one more lap.
// completedLaps is the number of laps finished before this one.
func (p *CarProcessor) ProcessCar(c model.Car, completedLaps int) model.Car {
	lt := p.LapTime(&c)
	newLife := p.TyreWear(&c)
	lapsRemaining := p.cfg.TotalLaps - completedLaps

	ret := c
	ret.LastPit = false
	ret.Speed = baseSpeed - lt.Tyre*speedLossFactor
	lapTime := lt.Total()

	if ShouldPit(newLife, c.Strategy, lapsRemaining) {
		lapTime += sim.Between(p.rnd, minPitTime, maxPitTime)
		ret.Tyre = NextCompound(lapsRemaining)
		ret.TyreAge = 0
		ret.TyreLife = model.MaxTyreLife
		ret.PitStops++
		ret.LastPit = true
	} else {
		ret.TyreAge++
		ret.TyreLife = model.ClampTyreLife(newLife)
	}
	ret.LapTime = lapTime
	ret.TotalTime += lapTime
	return ret
}
