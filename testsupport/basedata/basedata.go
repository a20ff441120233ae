package basedata

import (
	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
)

// SoloRaceConfig is a short dry race without rivals
func SoloRaceConfig() model.RaceConfig {
	cfg := model.DefaultRaceConfig()
	cfg.TotalLaps = 10
	cfg.NumRivals = 0
	cfg.Weather = model.WeatherDry
	cfg.TrackType = model.TrackBalanced
	cfg.StartingTyre = model.TyreMedium
	return cfg
}

// SampleRaceConfig is a short race with a small field
func SampleRaceConfig() model.RaceConfig {
	cfg := model.DefaultRaceConfig()
	cfg.TotalLaps = 15
	cfg.NumRivals = 4
	return cfg
}

// SampleGrid holds the player and two rivals on fresh tyres, one per strategy
func SampleGrid() []model.Car {
	return []model.Car{
		{
			ID: 0, Name: "Player", IsPlayer: true, Tyre: model.TyreMedium,
			TyreLife: model.MaxTyreLife, Position: 1, Strategy: model.StrategyBalanced,
		},
		{
			ID: 1, Name: "Rival 1", Tyre: model.TyreSoft, TyreLife: model.MaxTyreLife,
			Position: 2, TrackPosition: -0.05, Strategy: model.StrategyAggressive,
		},
		{
			ID: 2, Name: "Rival 2", Tyre: model.TyreHard, TyreLife: model.MaxTyreLife,
			Position: 3, TrackPosition: -0.1, Strategy: model.StrategyConservative,
		},
	}
}
