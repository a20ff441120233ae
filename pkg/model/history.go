package model

import "github.com/shopspring/decimal"

// HistoryEntry is one lap of the player's chart data
type HistoryEntry struct {
	Lap      int     `json:"lap"`
	LapTime  float64 `json:"lapTime"`
	TyreLife float64 `json:"tyreLife"`
	Position int     `json:"position"`
}

// NewHistoryEntry records the state of car after lap.
// The lap time is rounded to milliseconds.
func NewHistoryEntry(lap int, car *Car) HistoryEntry {
	lapTime, _ := decimal.NewFromFloat(car.LapTime).Round(3).Float64()
	return HistoryEntry{
		Lap:      lap,
		LapTime:  lapTime,
		TyreLife: car.TyreLife,
		Position: car.Position,
	}
}
