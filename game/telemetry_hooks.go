package game

import (
	"log/slog"

	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/telemetry"
)

// flushTelemetry closes the stats window when it is due, or always when
// final is set, and handles bookmarks.
func (g *Game) flushTelemetry(final bool) {
	if !final && !g.collector.ShouldFlush(g.elapsed) {
		return
	}

	stats := g.collector.Flush(g.elapsed, g.sample())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteWindow(stats); err != nil {
		slog.Error("failed to write window stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEnd); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	bookmarks := g.bookmarkDetector.Check(stats)
	if g.logStats {
		for _, bm := range bookmarks {
			bm.LogBookmark()
		}
	}
	if err := g.outputManager.WriteBookmarks(bookmarks); err != nil {
		slog.Error("failed to write bookmarks", "error", err)
	}
}

// sample reads the field state for a stats window.
// Captured chickens are left out of the hunger distribution.
func (g *Game) sample() telemetry.Sample {
	all := g.flock.Hungers()
	hungers := all[:0]
	for i, h := range all {
		if g.flock.Get(i).State != flock.StateCaptured {
			hungers = append(hungers, h)
		}
	}
	return telemetry.Sample{
		InCoop:    g.flock.InCoopCount(),
		Escaped:   g.flock.EscapedCount(),
		Captured:  g.flock.CapturedCount(),
		OpenHoles: g.holes.Count(),
		Raccoons:  g.spawner.Count(),
		Score:     g.score,
		Lives:     g.lives,
		Hungers:   hungers,
	}
}
