package race

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
)

// RaceProcessor ranks the field and derives race events from the ranking
type RaceProcessor struct{}

type RaceProcessorOption func(rp *RaceProcessor)

func NewRaceProcessor(opts ...RaceProcessorOption) *RaceProcessor {
	ret := &RaceProcessor{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Rank returns the cars sorted by total time. Position is set to the new rank,
// PositionChange to the places gained since the previous ranking.
// Cars with equal total time keep their relative order.
func (p *RaceProcessor) Rank(cars []model.Car) []model.Car {
	ret := model.CopyCars(cars)
	slices.SortStableFunc(ret, func(a, b model.Car) int {
		return cmp.Compare(a.TotalTime, b.TotalTime)
	})
	for i := range ret {
		newPos := i + 1
		ret[i].PositionChange = ret[i].Position - newPos
		ret[i].Position = newPos
	}
	return ret
}

// DeriveEvents creates the pit and overtake events for the given lap.
// The events are returned in standings order.
func (p *RaceProcessor) DeriveEvents(standings []model.Car, lap int) []model.Event {
	ret := make([]model.Event, 0)
	for i := range standings {
		c := &standings[i]
		if c.LastPit {
			ret = append(ret, model.Event{
				Lap:     lap,
				Message: fmt.Sprintf("%s pits for %s tyres", c.Name, c.Tyre.Spec().Name),
				Type:    model.EventPit,
			})
		}
		if c.PositionChange > 0 {
			ret = append(ret, model.Event{
				Lap:     lap,
				Message: fmt.Sprintf("%s overtakes! Now P%d", c.Name, c.Position),
				Type:    model.EventOvertake,
			})
		}
	}
	return ret
}
