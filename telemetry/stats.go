package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RoundID     string  `csv:"round_id"`
	WindowStart float64 `csv:"window_start"`
	WindowEnd   float64 `csv:"window_end"`

	// Events during window
	Counts

	// Field state at window end
	InCoop    int `csv:"in_coop"`
	Escaped   int `csv:"escaped"`
	Captured  int `csv:"captured"`
	OpenHoles int `csv:"open_holes"`
	Raccoons  int `csv:"raccoons"`
	Score     int `csv:"score"`
	Lives     int `csv:"lives"`

	// Hunger distribution over uncaptured chickens
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`
}

// ComputeHungerStats calculates mean, std, and percentiles from hunger values.
func ComputeHungerStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	// Quantile needs sorted input
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("round_id", s.RoundID),
		slog.Float64("window_start", s.WindowStart),
		slog.Float64("window_end", s.WindowEnd),
		slog.Int("escapes", s.Escapes),
		slog.Int("captures", s.Captures),
		slog.Int("herds", s.Herds),
		slog.Int("repairs", s.Repairs),
		slog.Int("feeds", s.Feeds),
		slog.Int("eggs_collected", s.EggsCollected),
		slog.Int("eggs_deposited", s.EggsDeposited),
		slog.Int("neutralized", s.Neutralized),
		slog.Int("in_coop", s.InCoop),
		slog.Int("escaped", s.Escaped),
		slog.Int("captured", s.Captured),
		slog.Int("open_holes", s.OpenHoles),
		slog.Int("raccoons", s.Raccoons),
		slog.Int("score", s.Score),
		slog.Int("lives", s.Lives),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_std", s.HungerStd),
		slog.Float64("hunger_p10", s.HungerP10),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("hunger_p90", s.HungerP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
