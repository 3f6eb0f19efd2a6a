// Package config provides configuration loading and management for
// tissuetopo. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// CellTypes is the ordered cell-type vocabulary. The order matters:
	// density ties are broken toward the earliest listed type.
	CellTypes []string `yaml:"cellTypes"`

	// Pairs lists the cell-type pairs to analyze as [first, second]
	// label pairs.
	Pairs [][2]string `yaml:"pairs"`

	// Grid parameters for the density classifier
	Grid struct {
		// Resolution is the side length of the classification grid
		Resolution int `yaml:"resolution"`

		// BandwidthFactor scales the KDE covariance matrix
		BandwidthFactor float64 `yaml:"bandwidthFactor"`
	} `yaml:"grid"`

	// Witness complex parameters
	Witness struct {
		// MaxAlphaSquare truncates the witness filtration
		MaxAlphaSquare float64 `yaml:"maxAlphaSquare"`

		// LimitDimension caps the simplex dimension
		LimitDimension int `yaml:"limitDimension"`
	} `yaml:"witness"`

	// Features parameters for the statistics layer
	Features struct {
		// Dimensions, when non-empty, splits diagrams per homology
		// dimension; empty emits one aggregate block per diagram
		Dimensions []int `yaml:"dimensions"`

		// ExcludeInfinite drops infinite persistence intervals
		ExcludeInfinite bool `yaml:"excludeInfinite"`

		// MaxFiniteValue replaces infinite deaths when set and
		// ExcludeInfinite is false
		MaxFiniteValue *float64 `yaml:"maxFiniteValue"`
	} `yaml:"features"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Seed seeds the landmark/witness sampler; zero means time-based
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.CellTypes = []string{"immune", "stromal", "tumor"}
	cfg.Pairs = [][2]string{
		{"tumor", "immune"},
		{"tumor", "stromal"},
		{"immune", "stromal"},
	}

	cfg.Grid.Resolution = 100
	cfg.Grid.BandwidthFactor = 0.5

	cfg.Witness.MaxAlphaSquare = 0.1
	cfg.Witness.LimitDimension = 2

	cfg.Features.Dimensions = nil
	cfg.Features.ExcludeInfinite = true

	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
