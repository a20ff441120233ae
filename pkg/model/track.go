package model

import (
	"errors"
	"fmt"
)

type TrackType string

const (
	TrackBalanced  TrackType = "balanced"
	TrackHighSpeed TrackType = "highSpeed"
	TrackTechnical TrackType = "technical"
	TrackStreet    TrackType = "street"
)

var ErrUnknownTrack = errors.New("unknown track type")

type TrackSpec struct {
	Name        string  `json:"name"`
	Corners     int     `json:"corners"`
	Straights   int     `json:"straights"`
	Degradation float64 `json:"degradation"` // tyre wear multiplier
}

var trackSpecs = map[TrackType]TrackSpec{
	TrackBalanced:  {Name: "Balanced", Corners: 16, Straights: 3, Degradation: 1.0},
	TrackHighSpeed: {Name: "High Speed", Corners: 10, Straights: 5, Degradation: 0.7},
	TrackTechnical: {Name: "Technical", Corners: 22, Straights: 2, Degradation: 1.4},
	TrackStreet:    {Name: "Street Circuit", Corners: 18, Straights: 4, Degradation: 1.1},
}

func TrackTypes() []TrackType {
	return []TrackType{TrackBalanced, TrackHighSpeed, TrackTechnical, TrackStreet}
}

func ParseTrackType(s string) (TrackType, error) {
	t := TrackType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTrack, s)
	}
	return t, nil
}

func (t TrackType) Valid() bool {
	_, ok := trackSpecs[t]
	return ok
}

func (t TrackType) Spec() TrackSpec {
	return trackSpecs[t]
}

func (t TrackType) String() string {
	return string(t)
}
