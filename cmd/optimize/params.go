// Package main tunes the agent's decision thresholds with CMA-ES against
// headless harness matches.
package main

import (
	"github.com/pthm-cable/striker/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	field func(*config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Shot classification
			{Name: "ground_min_alignment", Path: "shots.ground_min_alignment", Min: 0.0, Max: 0.9, Default: 0.5,
				field: func(c *config.Config) *float64 { return &c.Shots.GroundMinAlignment }},
			{Name: "aerial_min_alignment", Path: "shots.aerial_min_alignment", Min: 0.3, Max: 0.95, Default: 0.7,
				field: func(c *config.Config) *float64 { return &c.Shots.AerialMinAlignment }},
			{Name: "aerial_min_boost", Path: "shots.aerial_min_boost", Min: 0, Max: 80, Default: 30,
				field: func(c *config.Config) *float64 { return &c.Shots.AerialMinBoost }},
			// Present-tick tap
			{Name: "immediate_max_distance", Path: "immediate.max_distance", Min: 300, Max: 2500, Default: 1500,
				field: func(c *config.Config) *float64 { return &c.Immediate.MaxDistance }},
			{Name: "immediate_min_alignment", Path: "immediate.min_alignment", Min: -0.2, Max: 0.9, Default: 0.3,
				field: func(c *config.Config) *float64 { return &c.Immediate.MinAlignment }},
			// Boost seeking
			{Name: "boost_low", Path: "boost.low", Min: 0, Max: 60, Default: 30,
				field: func(c *config.Config) *float64 { return &c.Boost.Low }},
			{Name: "boost_enough", Path: "boost.enough", Min: 20, Max: 100, Default: 50,
				field: func(c *config.Config) *float64 { return &c.Boost.Enough }},
			// Positioning (defensive depth is locked to the field geometry)
			{Name: "threat_speed", Path: "positioning.threat_speed", Min: 100, Max: 1500, Default: 500,
				field: func(c *config.Config) *float64 { return &c.Positioning.ThreatSpeed }},
			{Name: "offensive_standoff", Path: "positioning.offensive_standoff", Min: 300, Max: 2500, Default: 1000,
				field: func(c *config.Config) *float64 { return &c.Positioning.OffensiveStandoff }},
			{Name: "tap_range", Path: "positioning.tap_range", Min: 150, Max: 1200, Default: 500,
				field: func(c *config.Config) *float64 { return &c.Positioning.TapRange }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(cfg) = v
	}
}

// ExtractFromConfig reads the current parameter values out of cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = *spec.field(cfg)
	}
	return v
}
