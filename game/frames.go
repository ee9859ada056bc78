package game

import "github.com/pthm-cable/coopkeeper/telemetry"

// RecordFrame marks a rendered frame for the FPS counter.
// Headless runs never call it, so their perf rows report zero FPS.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// PerfStats returns the rolling step timings for on-screen display.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}
