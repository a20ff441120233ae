package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
)

// LoadRaceConfig reads a yaml race configuration. Missing keys keep their
// default values. An empty file name yields the defaults.
func LoadRaceConfig(file string) (model.RaceConfig, error) {
	cfg := model.DefaultRaceConfig()
	if file == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return cfg, fmt.Errorf("read race config: %w", err)
	}
	return ParseRaceConfig(data)
}

func ParseRaceConfig(data []byte) (model.RaceConfig, error) {
	cfg := model.DefaultRaceConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse race config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
