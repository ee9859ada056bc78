package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one frame, in execution order.
const (
	PhaseHoles     = "holes"
	PhaseFlock     = "flock"
	PhaseIntruders = "intruders"
	PhaseResolve   = "resolve"
	PhaseApply     = "apply"
	PhaseChecks    = "checks"
	PhaseTelemetry = "telemetry"
)

// Phases returns every frame phase in execution order.
func Phases() []string {
	return []string{
		PhaseHoles, PhaseFlock, PhaseIntruders, PhaseResolve,
		PhaseApply, PhaseChecks, PhaseTelemetry,
	}
}

// stepSample holds timing data for a single simulation step.
type stepSample struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector tracks per-phase step timing over a rolling window.
type PerfCollector struct {
	window  []stepSample
	next    int
	filled  int
	current map[string]time.Duration

	stepStart  time.Time
	phaseStart time.Time
	phase      string

	// Render loop timing, graphics mode only
	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize steps
// (60 is one second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		window:  make([]stepSample, windowSize),
		current: make(map[string]time.Duration),
	}
}

// StartStep begins timing a simulation step.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.current = make(map[string]time.Duration)
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.phase = phase
}

// EndStep closes the running phase and records the step.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
		p.phase = ""
	}

	p.window[p.next] = stepSample{total: now.Sub(p.stepStart), phases: p.current}
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgStep time.Duration
	MinStep time.Duration
	MaxStep time.Duration

	// Average duration and share of step time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	StepsPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return out
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, s := range p.window[:p.filled] {
		total += s.total
		if i == 0 || s.total < out.MinStep {
			out.MinStep = s.total
		}
		out.MaxStep = max(out.MaxStep, s.total)
		for phase, d := range s.phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.filled)
	out.AvgStep = total / n
	for phase, sum := range sums {
		out.PhaseAvg[phase] = sum / n
		if out.AvgStep > 0 {
			out.PhasePct[phase] = float64(out.PhaseAvg[phase]) / float64(out.AvgStep) * 100
		}
	}
	if out.AvgStep > 0 {
		out.StepsPerSecond = float64(time.Second) / float64(out.AvgStep)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStep.Microseconds()),
		slog.Int64("min_step_us", s.MinStep.Microseconds()),
		slog.Int64("max_step_us", s.MaxStep.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases() {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    float64 `csv:"window_end"`
	AvgStepUS    int64   `csv:"avg_step_us"`
	MinStepUS    int64   `csv:"min_step_us"`
	MaxStepUS    int64   `csv:"max_step_us"`
	StepsPerSec  float64 `csv:"steps_per_sec"`
	FPS          float64 `csv:"fps"`
	HolesPct     float64 `csv:"holes_pct"`
	FlockPct     float64 `csv:"flock_pct"`
	IntrudersPct float64 `csv:"intruders_pct"`
	ResolvePct   float64 `csv:"resolve_pct"`
	ApplyPct     float64 `csv:"apply_pct"`
	ChecksPct    float64 `csv:"checks_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd float64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgStepUS:    s.AvgStep.Microseconds(),
		MinStepUS:    s.MinStep.Microseconds(),
		MaxStepUS:    s.MaxStep.Microseconds(),
		StepsPerSec:  s.StepsPerSecond,
		FPS:          s.FPS,
		HolesPct:     s.PhasePct[PhaseHoles],
		FlockPct:     s.PhasePct[PhaseFlock],
		IntrudersPct: s.PhasePct[PhaseIntruders],
		ResolvePct:   s.PhasePct[PhaseResolve],
		ApplyPct:     s.PhasePct[PhaseApply],
		ChecksPct:    s.PhasePct[PhaseChecks],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
