package main

import (
	"github.com/pthm-cable/coopkeeper/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value, taken from the base config
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the difficulty parameters, starting from base.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			// Fence
			{Name: "hole_interval", Path: "fence.spawn_interval", Min: 3, Max: 30},
			{Name: "hole_growth", Path: "fence.growth_rate", Min: 0, Max: 3},
			{Name: "max_holes", Path: "fence.max_holes", Min: 1, Max: 6},
			// Raccoons
			{Name: "raccoon_interval", Path: "raccoons.spawn_interval", Min: 5, Max: 60},
			{Name: "raccoon_speed", Path: "raccoons.speed", Min: 30, Max: 140},
			{Name: "raccoon_lifetime", Path: "raccoons.lifetime", Min: 10, Max: 60},
			// Flock
			{Name: "hunger_boldness", Path: "flock.hunger_boldness", Min: 0, Max: 6},
			{Name: "tank_block", Path: "flock.tank_block", Min: 0, Max: 2},
		},
	}
	for i, v := range pv.ExtractFromConfig(base) {
		pv.Specs[i].Default = pv.clampOne(i, v)
	}
	return pv
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
	for i := range pv.Specs {
		clamped[i] = pv.clampOne(i, v[i])
	}
	return clamped
}

func (pv *ParamVector) clampOne(i int, val float64) float64 {
	spec := pv.Specs[i]
	if val < spec.Min {
		val = spec.Min
	}
	if val > spec.Max {
		val = spec.Max
	}
	return val
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0
	next := func() float64 {
		v := clamped[i]
		i++
		return v
	}

	cfg.Fence.SpawnInterval = next()
	cfg.Fence.GrowthRate = next()
	cfg.Fence.MaxHoles = int(next() + 0.5)

	cfg.Raccoons.SpawnInterval = next()
	cfg.Raccoons.Speed = next()
	cfg.Raccoons.Lifetime = next()

	cfg.Flock.HungerBoldness = next()
	cfg.Flock.TankBlock = next()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Fence.SpawnInterval,
		cfg.Fence.GrowthRate,
		float64(cfg.Fence.MaxHoles),
		cfg.Raccoons.SpawnInterval,
		cfg.Raccoons.Speed,
		cfg.Raccoons.Lifetime,
		cfg.Flock.HungerBoldness,
		cfg.Flock.TankBlock,
	}
}
