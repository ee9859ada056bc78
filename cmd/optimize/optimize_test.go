package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	defaults := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(defaults))
	for i, spec := range pv.Specs {
		if math.Abs(back[i]-defaults[i]) > 1e-9 {
			t.Errorf("%s: %g -> %g", spec.Name, defaults[i], back[i])
		}
	}

	// Applying the extracted defaults leaves the config unchanged
	applied := config.Default()
	pv.ApplyToConfig(applied, defaults)
	got := pv.ExtractFromConfig(applied)
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-defaults[i]) > 1e-9 {
			t.Errorf("%s: applied %g, read back %g", spec.Name, defaults[i], got[i])
		}
	}
}

func TestParamVectorClamps(t *testing.T) {
	pv := NewParamVector(config.Default())
	wild := make([]float64, pv.Dim())
	for i := range wild {
		wild[i] = 1e6
	}

	cfg := config.Default()
	pv.ApplyToConfig(cfg, wild)
	if cfg.Fence.MaxHoles != 6 || cfg.Raccoons.Speed != 140 {
		t.Errorf("values not clamped: max_holes=%d raccoon_speed=%g", cfg.Fence.MaxHoles, cfg.Raccoons.Speed)
	}
}

func TestComputeFitness(t *testing.T) {
	onTarget := computeFitness(120, 120, 0)
	if onTarget != 0 {
		t.Errorf("on-target fitness = %g, want 0", onTarget)
	}
	if computeFitness(120, 120, 1) >= onTarget {
		t.Error("quality should lower fitness")
	}

	// Half and double the target are equally bad
	short := computeFitness(60, 120, 0)
	long := computeFitness(240, 120, 0)
	if math.Abs(short-long) > 1e-9 || short <= 0 {
		t.Errorf("short=%g long=%g", short, long)
	}
	if math.IsInf(computeFitness(0, 120, 0), 0) {
		t.Error("zero survival must stay finite")
	}
}

func TestComputeQuality(t *testing.T) {
	if q := computeQuality(nil); q != 0 {
		t.Errorf("no windows quality = %g", q)
	}

	window := func(holes, eggs int, p50 float64) telemetry.WindowStats {
		w := telemetry.WindowStats{WindowStart: 0, WindowEnd: 10, OpenHoles: holes, HungerP50: p50}
		w.EggsDeposited = eggs
		return w
	}

	idle := []telemetry.WindowStats{window(0, 0, 100), window(0, 0, 100), window(0, 0, 100)}
	busy := []telemetry.WindowStats{window(1, 2, 60), window(1, 1, 60), window(0, 1, 60), window(1, 2, 60)}

	qi, qb := computeQuality(idle), computeQuality(busy)
	if qb <= qi {
		t.Errorf("busy round quality %g should beat idle %g", qb, qi)
	}
	if qb < 0 || qb > 1 {
		t.Errorf("quality %g out of range", qb)
	}
}
