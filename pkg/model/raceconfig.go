package model

import (
	"errors"
	"fmt"
)

// bounds used by the configuration form
const (
	MinTotalLaps = 10
	MaxTotalLaps = 100
	MinRivals    = 0
	MaxRivals    = 19
	MinTrackTemp = 15
	MaxTrackTemp = 55
)

var ErrInvalidConfig = errors.New("invalid race configuration")

// RaceConfig is set before a race starts and read-only while it runs
type RaceConfig struct {
	TotalLaps    int          `json:"totalLaps" yaml:"totalLaps"`
	TrackLength  float64      `json:"trackLength" yaml:"trackLength"` // km
	StartingTyre TyreCompound `json:"startingTyre" yaml:"startingTyre"`
	TrackTemp    float64      `json:"trackTemp" yaml:"trackTemp"` // celsius
	Weather      Weather      `json:"weather" yaml:"weather"`
	TrackType    TrackType    `json:"trackType" yaml:"trackType"`
	NumRivals    int          `json:"numRivals" yaml:"numRivals"`
	AIDifficulty AIDifficulty `json:"aiDifficulty" yaml:"aiDifficulty"`
}

func DefaultRaceConfig() RaceConfig {
	return RaceConfig{
		TotalLaps:    50,
		TrackLength:  5.5,
		StartingTyre: TyreMedium,
		TrackTemp:    35,
		Weather:      WeatherDry,
		TrackType:    TrackBalanced,
		NumRivals:    5,
		AIDifficulty: AIMedium,
	}
}

// Validate checks all values and reports every violation.
// The returned error wraps ErrInvalidConfig.
func (c RaceConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.TotalLaps >= MinTotalLaps && c.TotalLaps <= MaxTotalLaps,
		"totalLaps %d not in range %d..%d", c.TotalLaps, MinTotalLaps, MaxTotalLaps)
	check(c.TrackLength > 0, "trackLength must be positive, got %v", c.TrackLength)
	check(c.StartingTyre.Valid(), "startingTyre %q: %w", c.StartingTyre, ErrUnknownTyre)
	check(c.TrackTemp >= MinTrackTemp && c.TrackTemp <= MaxTrackTemp,
		"trackTemp %v not in range %d..%d", c.TrackTemp, MinTrackTemp, MaxTrackTemp)
	check(c.Weather.Valid(), "weather %q unknown", c.Weather)
	check(c.TrackType.Valid(), "trackType %q: %w", c.TrackType, ErrUnknownTrack)
	check(c.NumRivals >= MinRivals && c.NumRivals <= MaxRivals,
		"numRivals %d not in range %d..%d", c.NumRivals, MinRivals, MaxRivals)
	check(c.AIDifficulty.Valid(), "aiDifficulty %q unknown", c.AIDifficulty)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
