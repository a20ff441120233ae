//nolint:funlen // ok for tests
package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRaceConfig_Validate(t *testing.T) {
	modify := func(f func(c *RaceConfig)) RaceConfig {
		c := DefaultRaceConfig()
		f(&c)
		return c
	}
	tests := []struct {
		name    string
		cfg     RaceConfig
		wantErr bool
		wantIs  error
	}{
		{name: "defaults", cfg: DefaultRaceConfig()},
		{
			name: "lower bounds",
			cfg: modify(func(c *RaceConfig) {
				c.TotalLaps = MinTotalLaps
				c.NumRivals = MinRivals
				c.TrackTemp = MinTrackTemp
			}),
		},
		{
			name: "upper bounds",
			cfg: modify(func(c *RaceConfig) {
				c.TotalLaps = MaxTotalLaps
				c.NumRivals = MaxRivals
				c.TrackTemp = MaxTrackTemp
			}),
		},
		{
			name:    "zero laps",
			cfg:     modify(func(c *RaceConfig) { c.TotalLaps = 0 }),
			wantErr: true,
		},
		{
			name:    "too many rivals",
			cfg:     modify(func(c *RaceConfig) { c.NumRivals = 20 }),
			wantErr: true,
		},
		{
			name:    "unknown tyre",
			cfg:     modify(func(c *RaceConfig) { c.StartingTyre = "slick" }),
			wantErr: true,
			wantIs:  ErrUnknownTyre,
		},
		{
			name:    "unknown track",
			cfg:     modify(func(c *RaceConfig) { c.TrackType = "oval" }),
			wantErr: true,
			wantIs:  ErrUnknownTrack,
		},
		{
			name:    "bad weather",
			cfg:     modify(func(c *RaceConfig) { c.Weather = "snow" }),
			wantErr: true,
		},
		{
			name:    "non positive track length",
			cfg:     modify(func(c *RaceConfig) { c.TrackLength = 0 }),
			wantErr: true,
		},
		{
			name:    "track temp too hot",
			cfg:     modify(func(c *RaceConfig) { c.TrackTemp = 56 }),
			wantErr: true,
		},
		{
			name:    "unknown difficulty",
			cfg:     modify(func(c *RaceConfig) { c.AIDifficulty = "insane" }),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs), "expected %v in %v", tt.wantIs, err)
			}
		})
	}
}

func TestRaceConfig_ValidateCollectsAll(t *testing.T) {
	cfg := DefaultRaceConfig()
	cfg.TotalLaps = 5
	cfg.NumRivals = -1
	err := cfg.Validate()
	assert.ErrorContains(t, err, "totalLaps")
	assert.ErrorContains(t, err, "numRivals")
}

func TestRaceConfig_DecodeTyre(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte, any) error
		data   string
		want   TyreCompound
		valid  bool
	}{
		{"json inter", json.Unmarshal, `{"startingTyre":"inter"}`, TyreIntermediate, true},
		{"json full name", json.Unmarshal, `{"startingTyre":"intermediate"}`, TyreIntermediate, true},
		{"json soft", json.Unmarshal, `{"startingTyre":"soft"}`, TyreSoft, true},
		{"json unknown", json.Unmarshal, `{"startingTyre":"slick"}`, "slick", false},
		{"yaml inter", yaml.Unmarshal, "startingTyre: inter\n", TyreIntermediate, true},
		{"yaml unknown", yaml.Unmarshal, "startingTyre: slick\n", "slick", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRaceConfig()
			require.NoError(t, tt.decode([]byte(tt.data), &cfg))
			assert.Equal(t, tt.want, cfg.StartingTyre)
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.ErrorIs(t, cfg.Validate(), ErrUnknownTyre)
			}
		})
	}
}
