package model

// Car holds identity and race state of one competitor
type Car struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	IsPlayer bool     `json:"isPlayer"`
	Strategy Strategy `json:"strategy"`

	LapTime   float64      `json:"lapTime"`   // seconds, last completed lap incl. pit time
	TotalTime float64      `json:"totalTime"` // seconds
	Tyre      TyreCompound `json:"tyre"`
	TyreAge   int          `json:"tyreAge"`  // laps since the last tyre change
	TyreLife  float64      `json:"tyreLife"` // 0..100
	PitStops  int          `json:"pitStops"`
	LastPit   bool         `json:"lastPit"` // pitted in the most recent lap

	// rendering only
	TrackPosition float64 `json:"trackPosition"` // lap fraction offset
	Speed         float64 `json:"speed"`

	Position       int `json:"position"`
	PositionChange int `json:"positionChange"` // positive: gained places
}

const (
	MaxTyreLife = 100.0
	MinTyreLife = 0.0
)

// ClampTyreLife keeps a tyre life value within [MinTyreLife,MaxTyreLife]
func ClampTyreLife(v float64) float64 {
	return max(MinTyreLife, min(MaxTyreLife, v))
}

// CopyCars returns a shallow copy of each car (Car has no reference fields)
func CopyCars(cars []Car) []Car {
	if cars == nil {
		return nil
	}
	ret := make([]Car, len(cars))
	copy(ret, cars)
	return ret
}
