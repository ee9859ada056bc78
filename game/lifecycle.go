package game

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/pthm-cable/coopkeeper/telemetry"
)

// startRound tags a new round and starts the clock.
func (g *Game) startRound() {
	g.roundID = uuid.NewString()
	g.collector.StartRound(g.roundID)
	g.bookmarkDetector.Reset()
	g.state = StatePlaying

	slog.Info("round started",
		"round_id", g.roundID,
		"seed", g.seed,
		"lives", g.lives,
		"duration", g.cfg.Round.Duration,
	)
}

// endRound closes the round, records it, and saves a beaten high score.
func (g *Game) endRound(reason string) {
	g.flushTelemetry(true)
	g.state = StateGameOver
	g.rounds++

	stats := telemetry.RoundStats{
		RoundID:   g.roundID,
		Seed:      g.seed,
		Reason:    reason,
		Elapsed:   g.elapsed,
		Score:     g.score,
		HighScore: g.highScore,
		Lives:     g.lives,
		Counts:    g.collector.Round(),
	}

	if g.score > g.highScore {
		g.highScore = g.score
		stats.HighScore = g.score
		stats.NewHigh = true
		slog.Info("new high score", "score", humanize.Comma(int64(g.score)))
		if err := g.store.Save(context.Background(), g.score); err != nil {
			slog.Warn("failed to save high score", "error", err)
		}
	}
	g.lastRound = &stats

	slog.Info("round ended",
		"round", stats,
		"summary", humanize.Comma(int64(stats.Score))+" points, "+
			humanize.Comma(int64(stats.EggsDeposited))+" eggs in "+
			humanize.FtoaWithDigits(stats.Elapsed, 1)+"s",
	)

	if err := g.outputManager.WriteRound(stats); err != nil {
		slog.Error("failed to write round stats", "error", err)
	}
}
