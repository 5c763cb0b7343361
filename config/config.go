// Package config provides configuration loading and access for the agent and its harness.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Ranking orders accepted by RankingConfig.Order.
const (
	RankDescending = "descending"
	RankAscending  = "ascending"
)

// Config holds all agent and harness configuration parameters.
type Config struct {
	Field       FieldConfig       `yaml:"field"`
	Prediction  PredictionConfig  `yaml:"prediction"`
	Shots       ShotsConfig       `yaml:"shots"`
	Immediate   ImmediateConfig   `yaml:"immediate"`
	Boost       BoostConfig       `yaml:"boost"`
	Positioning PositioningConfig `yaml:"positioning"`
	Ranking     RankingConfig     `yaml:"ranking"`
	Harness     HarnessConfig     `yaml:"harness"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// FieldConfig holds arena dimensions.
type FieldConfig struct {
	HalfLength float64 `yaml:"half_length"` // |y| beyond this is behind a goal line
	HalfWidth  float64 `yaml:"half_width"`
	Ceiling    float64 `yaml:"ceiling"`
}

// PredictionConfig describes the forecast resolution and the sampled horizon.
type PredictionConfig struct {
	SlicesPerSecond int     `yaml:"slices_per_second"` // forecast resolution
	HorizonStart    float64 `yaml:"horizon_start"`     // first sampled offset (seconds)
	HorizonEnd      float64 `yaml:"horizon_end"`       // last sampled offset (seconds, inclusive)
	HorizonStep     float64 `yaml:"horizon_step"`      // offset increment (seconds)
}

// ShotsConfig holds thresholds for classifying forecast samples.
type ShotsConfig struct {
	GroundMaxHeight       float64 `yaml:"ground_max_height"`
	AerialMaxHeight       float64 `yaml:"aerial_max_height"`
	AerialMinBoost        float64 `yaml:"aerial_min_boost"`
	GroundMinAlignment    float64 `yaml:"ground_min_alignment"`
	AerialMinAlignment    float64 `yaml:"aerial_min_alignment"`
	BackwardApproachAngle float64 `yaml:"backward_approach_angle"` // radians
}

// ImmediateConfig holds thresholds for the present-tick tap.
type ImmediateConfig struct {
	MaxDistance  float64 `yaml:"max_distance"`
	MaxHeight    float64 `yaml:"max_height"`
	MinAlignment float64 `yaml:"min_alignment"`
}

// BoostConfig holds boost-seeking thresholds.
type BoostConfig struct {
	Enough      float64 `yaml:"enough"`       // never seek above this
	Low         float64 `yaml:"low"`          // seek below this
	BallNearCar float64 `yaml:"ball_near_car"` // suppression: ball within this of the car...
	BallNearOwn float64 `yaml:"ball_near_own"` // ...and within this of the own goal
}

// PositioningConfig holds fallback positioning parameters.
type PositioningConfig struct {
	ThreatSpeed        float64 `yaml:"threat_speed"` // ball speed toward own goal that forces defense
	DefensiveMaxDepth  float64 `yaml:"defensive_max_depth"`
	DefensiveDepthFrac float64 `yaml:"defensive_depth_frac"`
	DefensiveMaxX      float64 `yaml:"defensive_max_x"`
	OffensiveStandoff  float64 `yaml:"offensive_standoff"`
	OffensiveMaxX      float64 `yaml:"offensive_max_x"`
	OffensiveMaxY      float64 `yaml:"offensive_max_y"`
	TapRange           float64 `yaml:"tap_range"`
}

// RankingConfig selects which end of the score order the policy takes.
type RankingConfig struct {
	Order string `yaml:"order"` // "descending" (highest score first) or "ascending"
}

// HarnessConfig holds parameters of the headless simulation harness.
type HarnessConfig struct {
	TickRate         int     `yaml:"tick_rate"`
	MaxSpeed         float64 `yaml:"max_speed"`
	Gravity          float64 `yaml:"gravity"`
	BallRadius       float64 `yaml:"ball_radius"`
	Restitution      float64 `yaml:"restitution"`
	ForecastSeconds  float64 `yaml:"forecast_seconds"`
	ReachSlack       float64 `yaml:"reach_slack"` // extra seconds granted by the reachability check
	ContactRange     float64 `yaml:"contact_range"`
	ShotSpeed        float64 `yaml:"shot_speed"`
	BoostPerSecond   float64 `yaml:"boost_per_second"`
	PadRespawn       float64 `yaml:"pad_respawn"`
	ActionTimeout    float64 `yaml:"action_timeout"`
	StartBoost       float64 `yaml:"start_boost"`
	PickupRange      float64 `yaml:"pickup_range"`
	SmallPadBoost    float64 `yaml:"small_pad_boost"`
	KickoffSpeedTol  float64 `yaml:"kickoff_speed_tol"`
	ArrivalTolerance float64 `yaml:"arrival_tolerance"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of simulation per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Stride     int     // forecast slices per horizon step
	FirstIndex int     // forecast index of HorizonStart
	LastIndex  int     // forecast index of HorizonEnd
	DT         float64 // harness seconds per tick
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first configuration value that cannot drive the agent.
func (c *Config) Validate() error {
	p := c.Prediction
	switch {
	case p.SlicesPerSecond <= 0:
		return errors.New("prediction.slices_per_second must be positive")
	case p.HorizonStep <= 0:
		return errors.New("prediction.horizon_step must be positive")
	case p.HorizonStart < 0 || p.HorizonEnd < p.HorizonStart:
		return fmt.Errorf("prediction horizon [%g, %g] is inverted or negative", p.HorizonStart, p.HorizonEnd)
	case c.Shots.AerialMaxHeight < c.Shots.GroundMaxHeight:
		return errors.New("shots.aerial_max_height must not be below shots.ground_max_height")
	case c.Harness.TickRate <= 0:
		return errors.New("harness.tick_rate must be positive")
	}
	if c.Ranking.Order != RankDescending && c.Ranking.Order != RankAscending {
		return fmt.Errorf("ranking.order %q: want %q or %q", c.Ranking.Order, RankDescending, RankAscending)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	p := c.Prediction
	sps := float64(p.SlicesPerSecond)
	c.Derived.Stride = max(1, int(math.Round(p.HorizonStep*sps)))
	c.Derived.FirstIndex = int(math.Round(p.HorizonStart * sps))
	c.Derived.LastIndex = int(math.Round(p.HorizonEnd * sps))
	c.Derived.DT = 1 / float64(c.Harness.TickRate)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
