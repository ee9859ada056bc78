package telemetry

import (
	"log/slog"
)

// End reasons for a round.
const (
	ReasonNoLives   = "no_lives"
	ReasonFlockLost = "flock_lost"
	ReasonTimeUp    = "time_up"
	ReasonAborted   = "aborted"
)

// RoundStats summarises one finished round.
type RoundStats struct {
	RoundID   string  `csv:"round_id"`
	Seed      int64   `csv:"seed"`
	Reason    string  `csv:"reason"`
	Elapsed   float64 `csv:"elapsed"`
	Score     int     `csv:"score"`
	HighScore int     `csv:"high_score"`
	NewHigh   bool    `csv:"new_high"`
	Lives     int     `csv:"lives"`

	Counts
}

// LogValue implements slog.LogValuer for structured logging.
func (r RoundStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("round_id", r.RoundID),
		slog.String("reason", r.Reason),
		slog.Float64("elapsed", r.Elapsed),
		slog.Int("score", r.Score),
		slog.Int("high_score", r.HighScore),
		slog.Bool("new_high", r.NewHigh),
		slog.Int("lives", r.Lives),
		slog.Int("eggs", r.EggsDeposited),
		slog.Int("escapes", r.Escapes),
		slog.Int("captures", r.Captures),
	)
}
