package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseHoles)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseFlock)
		time.Sleep(200 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	if stats.AvgStep <= 0 {
		t.Error("expected positive average step duration")
	}
	for _, phase := range []string{PhaseHoles, PhaseFlock} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
	if stats.MinStep > stats.AvgStep || stats.AvgStep > stats.MaxStep {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinStep, stats.AvgStep, stats.MaxStep)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseResolve)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.AvgStep <= 0 {
		t.Error("expected positive average step duration after window filled")
	}
	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseChecks)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseIntruders)
		time.Sleep(100 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseIntruders] <= stats.PhasePct[PhaseChecks] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)",
			stats.PhasePct[PhaseIntruders], stats.PhasePct[PhaseChecks])
	}

	row := stats.ToCSV(12.5)
	if row.WindowEnd != 12.5 || row.IntrudersPct != stats.PhasePct[PhaseIntruders] {
		t.Errorf("ToCSV = %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgStep != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS at or below ~60 with 16ms frames, got %v", stats.FPS)
	}
}
