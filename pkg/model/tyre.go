package model

import (
	"errors"
	"fmt"
)

type TyreCompound string

const (
	TyreSoft         TyreCompound = "soft"
	TyreMedium       TyreCompound = "medium"
	TyreHard         TyreCompound = "hard"
	TyreIntermediate TyreCompound = "intermediate"
	TyreWet          TyreCompound = "wet"
)

var ErrUnknownTyre = errors.New("unknown tyre compound")

// TyreSpec holds the static characteristics of a compound
type TyreSpec struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	BaseLapTime float64 `json:"baseLapTime"` // seconds
	Degradation float64 `json:"degradation"` // lap time loss per lap of tyre age
	Grip        float64 `json:"grip"`
}

var tyreSpecs = map[TyreCompound]TyreSpec{
	TyreSoft:         {Name: "Soft", Color: "#ef4444", BaseLapTime: 87.5, Degradation: 0.18, Grip: 1.15},
	TyreMedium:       {Name: "Medium", Color: "#f59e0b", BaseLapTime: 88.5, Degradation: 0.10, Grip: 1.05},
	TyreHard:         {Name: "Hard", Color: "#6b7280", BaseLapTime: 89.8, Degradation: 0.05, Grip: 0.95},
	TyreIntermediate: {Name: "Inter", Color: "#10b981", BaseLapTime: 92.0, Degradation: 0.08, Grip: 1.0},
	TyreWet:          {Name: "Wet", Color: "#3b82f6", BaseLapTime: 95.0, Degradation: 0.04, Grip: 0.9},
}

// TyreCompounds returns all compounds, dry ones first
func TyreCompounds() []TyreCompound {
	return []TyreCompound{TyreSoft, TyreMedium, TyreHard, TyreIntermediate, TyreWet}
}

// DryCompounds are the compounds rivals may start on
func DryCompounds() []TyreCompound {
	return []TyreCompound{TyreSoft, TyreMedium, TyreHard}
}

const interAlias = "inter"

func ParseTyreCompound(s string) (TyreCompound, error) {
	var t TyreCompound
	_ = t.UnmarshalText([]byte(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTyre, s)
	}
	return t, nil
}

// UnmarshalText maps the short "inter" key to intermediates so decoded
// configs accept the same names as ParseTyreCompound. Unknown values are
// kept and left to Valid.
func (t *TyreCompound) UnmarshalText(text []byte) error {
	if string(text) == interAlias {
		*t = TyreIntermediate
		return nil
	}
	*t = TyreCompound(text)
	return nil
}

func (t TyreCompound) Valid() bool {
	_, ok := tyreSpecs[t]
	return ok
}

// Spec returns the characteristics of the compound.
// Unknown compounds yield the zero spec.
func (t TyreCompound) Spec() TyreSpec {
	return tyreSpecs[t]
}

// ForWetConditions reports whether the compound avoids the wet weather penalty
func (t TyreCompound) ForWetConditions() bool {
	return t == TyreIntermediate || t == TyreWet
}

func (t TyreCompound) String() string {
	return string(t)
}
