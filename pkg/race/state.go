package race

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRunning  Phase = "running"
	PhasePaused   Phase = "paused"
	PhaseFinished Phase = "finished"
)

// State is the race aggregate. It is only changed by the Controller.
type State struct {
	raceID    string
	phase     Phase
	cfg       model.RaceConfig
	lap       int // completed laps
	cars      []model.Car
	standings []model.Car
	events    model.EventLog
	history   []model.HistoryEntry
	progress  Progress
}

// Snapshot is a detached copy of the State for readers
type Snapshot struct {
	RaceID    string               `json:"raceId,omitempty"`
	Phase     Phase                `json:"phase"`
	Lap       int                  `json:"lap"`
	TotalLaps int                  `json:"totalLaps"`
	Progress  float64              `json:"progress"`
	Config    model.RaceConfig     `json:"config"`
	Cars      []model.Car          `json:"cars"`
	Standings []model.Car          `json:"standings"`
	Events    []model.Event        `json:"events"`
	History   []model.HistoryEntry `json:"history"`
}

func (s *State) snapshot() Snapshot {
	nonNil := func(c []model.Car) []model.Car {
		if c == nil {
			return []model.Car{}
		}
		return model.CopyCars(c)
	}
	history := slices.Clone(s.history)
	if history == nil {
		history = []model.HistoryEntry{}
	}
	return Snapshot{
		RaceID:    s.raceID,
		Phase:     s.phase,
		Lap:       s.lap,
		TotalLaps: s.cfg.TotalLaps,
		Progress:  s.progress.Value(),
		Config:    s.cfg,
		Cars:      nonNil(s.cars),
		Standings: nonNil(s.standings),
		Events:    s.events.Entries(),
		History:   history,
	}
}

// Player returns the player car of the snapshot standings
func (s *Snapshot) Player() (model.Car, bool) {
	return lo.Find(s.Standings, func(c model.Car) bool { return c.IsPlayer })
}
