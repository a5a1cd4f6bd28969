// Package config provides configuration loading and access for the
// particle engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Species    []SpeciesConfig    `yaml:"species"`
	RateTable  RateTableConfig    `yaml:"rate_table"`
	Mover      MoverConfig        `yaml:"mover"`
	Advance    AdvanceConfig      `yaml:"advance"`
	MergeSplit MergeSplitConfig   `yaml:"merge_split"`
	Telemetry  TelemetryConfig    `yaml:"telemetry"`
	Run        RunConfig          `yaml:"run"`
}

// SpeciesConfig describes one simulated particle species and the
// cross-section table feeding its collisions.
type SpeciesConfig struct {
	Name        string             `yaml:"name"`
	Mass        float64            `yaml:"mass"`     // kg
	NMax        int                `yaml:"n_max"`    // fixed particle-array capacity
	Collisions  []CollisionConfig  `yaml:"collisions"`
	Background  BackgroundConfig   `yaml:"background"`
}

// CollisionConfig names one collision channel and the cross-section
// file describing it.
type CollisionConfig struct {
	Type        string  `yaml:"type"` // elastic, excite, ionize, attach
	CSVPath     string  `yaml:"csv_path"`
	EnLossEV    float64 `yaml:"en_loss_ev"`
	RelMass     float64 `yaml:"rel_mass"`
}

// BackgroundConfig holds the neutral-gas background a species collides
// against.
type BackgroundConfig struct {
	Density float64 `yaml:"density"` // m^-3
}

// RateTableConfig controls the velocity-indexed rate table build.
type RateTableConfig struct {
	TableSize int     `yaml:"table_size"`
	EMaxEV    float64 `yaml:"e_max_ev"`
}

// MoverConfig selects and parameterizes the particle pusher.
type MoverConfig struct {
	Kind         string     `yaml:"kind"` // verlet or boris
	ChargeToMass float64    `yaml:"charge_to_mass"`
	B            [3]float64 `yaml:"b_field"`
}

// AdvanceConfig holds time-stepping parameters.
type AdvanceConfig struct {
	DT       float64 `yaml:"dt"`
	DTMax    float64 `yaml:"dt_max"`
	Workers  int     `yaml:"workers"` // 0 or 1 runs Advance serially
}

// MergeSplitConfig mirrors engine.MergeSplitConfig for YAML loading.
type MergeSplitConfig struct {
	Enabled          bool    `yaml:"enabled"`
	TargetWeight     float64 `yaml:"target_weight"`
	SmallRatio       float64 `yaml:"small_ratio"`
	LargeRatio       float64 `yaml:"large_ratio"`
	MaxMergeDistance float64 `yaml:"max_merge_distance"`
	EveryNSteps      int     `yaml:"every_n_steps"`
}

// TelemetryConfig holds diagnostics/export parameters.
type TelemetryConfig struct {
	HistogramBins int    `yaml:"histogram_bins"`
	CSVPath       string `yaml:"csv_path"`
	LogLevel      string `yaml:"log_level"` // debug, info, warn, error
}

// RunConfig holds top-level run control.
type RunConfig struct {
	Steps int   `yaml:"steps"`
	Seed  int64 `yaml:"seed"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error, matching the fatal-setup
// treatment the rest of the ambient stack gives unrecoverable
// configuration problems.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriteYAML marshals the configuration and writes it to path, used by
// the calibration tool to persist a parameter search's winning config.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// validate rejects configurations that would otherwise surface as a
// confusing panic deep inside engine.New.
func (c *Config) validate() error {
	if len(c.Species) == 0 {
		return fmt.Errorf("config: at least one species is required")
	}
	for _, s := range c.Species {
		if s.NMax <= 0 {
			return fmt.Errorf("config: species %q: n_max must be positive", s.Name)
		}
		if len(s.Collisions) == 0 {
			return fmt.Errorf("config: species %q: at least one collision is required", s.Name)
		}
	}
	if c.RateTable.TableSize < 2 {
		return fmt.Errorf("config: rate_table.table_size must be >= 2")
	}
	if c.Advance.DTMax <= 0 {
		return fmt.Errorf("config: advance.dt_max must be positive")
	}
	return nil
}
