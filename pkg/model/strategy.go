package model

type (
	Strategy     string
	Weather      string
	AIDifficulty string
)

const (
	StrategyAggressive   Strategy = "aggressive"
	StrategyBalanced     Strategy = "balanced"
	StrategyConservative Strategy = "conservative"
)

const (
	WeatherDry Weather = "dry"
	WeatherWet Weather = "wet"
)

const (
	AIEasy   AIDifficulty = "easy"
	AIMedium AIDifficulty = "medium"
	AIHard   AIDifficulty = "hard"
)

func Strategies() []Strategy {
	return []Strategy{StrategyAggressive, StrategyBalanced, StrategyConservative}
}

func (s Strategy) Valid() bool {
	switch s {
	case StrategyAggressive, StrategyBalanced, StrategyConservative:
		return true
	}
	return false
}

// LapTimeDelta is the per lap time offset in seconds caused by the strategy
func (s Strategy) LapTimeDelta() float64 {
	switch s {
	case StrategyAggressive:
		return -0.3
	case StrategyConservative:
		return 0.3
	default:
		return 0
	}
}

// WearFactor scales the tyre life consumption per lap
func (s Strategy) WearFactor() float64 {
	if s == StrategyAggressive {
		return 1.3
	}
	return 1.0
}

func (w Weather) Valid() bool {
	return w == WeatherDry || w == WeatherWet
}

func (d AIDifficulty) Valid() bool {
	switch d {
	case AIEasy, AIMedium, AIHard:
		return true
	}
	return false
}
