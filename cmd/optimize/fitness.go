package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/game"
	"github.com/pthm-cable/coopkeeper/telemetry"
)

// FitnessEvaluator runs headless autopilot rounds and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	target     float64 // seconds the autopilot should survive
	maxSeconds float64 // round duration cap
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestRounds  []telemetry.RoundStats
	last        evalSummary
}

// evalSummary describes the most recent Evaluate call for progress output.
type evalSummary struct {
	survivalMean float64
	survivalStd  float64
	quality      float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, target, maxSeconds float64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		target:      target,
		maxSeconds:  maxSeconds,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestRounds returns one round summary per seed from the best evaluation.
func (fe *FitnessEvaluator) BestRounds() []telemetry.RoundStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestRounds
}

// Last returns the summary of the most recent evaluation.
func (fe *FitnessEvaluator) Last() evalSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds the results from a single round.
type runResult struct {
	round       telemetry.RoundStats
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	survival float64
	quality  float64
	round    telemetry.RoundStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runRound(x, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness:  computeFitness(result.round.Elapsed, fe.target, quality),
				survival: result.round.Elapsed,
				quality:  quality,
				round:    result.round,
			}
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	survival := make([]float64, len(results))
	quality := make([]float64, len(results))
	rounds := make([]telemetry.RoundStats, len(results))
	for i, r := range results {
		fitness[i] = r.fitness
		survival[i] = r.survival
		quality[i] = r.quality
		rounds[i] = r.round
	}

	avgFitness := stat.Mean(fitness, nil)
	survMean, survStd := stat.MeanStdDev(survival, nil)
	if len(survival) < 2 {
		survStd = 0
	}

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestRounds = rounds
	}
	fe.last = evalSummary{
		survivalMean: survMean,
		survivalStd:  survStd,
		quality:      stat.Mean(quality, nil),
	}
	fe.mu.Unlock()

	return avgFitness
}

// runRound plays one autopilot round to its end.
func (fe *FitnessEvaluator) runRound(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Round.Duration = fe.maxSeconds

	result := &runResult{}

	g, err := game.NewGameWithOptions(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		// The base config was validated at startup; parameters cannot break it
		panic(err)
	}
	defer g.Unload()

	bot := game.NewAutopilot(cfg)
	g.Update(0, game.Intent{Start: true})
	for g.State() == game.StatePlaying {
		g.Update(cfg.Physics.DT, bot.Intent(g.Snapshot()))
	}

	result.round = *g.LastRound()
	return result
}

// copyConfig returns a copy of the base config that parameters may change.
// Breeds are shared; no parameter touches them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: log(survival/target)² - 0.2 × quality
// Hitting the target length dominates; quality separates configs that
// survive equally long.
func computeFitness(survival, target, quality float64) float64 {
	survival = max(survival, 1)
	logErr := math.Log(survival / target)
	return logErr*logErr - 0.2*quality
}

// Quality component weights.
const (
	qualityWeightPressure = 0.40
	qualityWeightHunger   = 0.30
	qualityWeightEggs     = 0.30

	qualityWarmupWindows = 1    // skip first N windows (warmup)
	pressureTarget       = 0.7  // share of windows with something to fix
	hungerTarget         = 60.0 // median hunger that keeps chores going
)

// computeQuality scores how lively a round was, in [0, 1].
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var busy, hungerSum float64
	var eggs int
	var seconds float64
	for _, w := range valid {
		// 1. Pressure: windows with an open hole, raccoon or stray
		if w.OpenHoles > 0 || w.Raccoons > 0 || w.Escaped > 0 || w.HolesOpened > 0 {
			busy++
		}

		// 2. Hunger health around the target median
		hungerSum += math.Exp(-math.Pow((w.HungerP50-hungerTarget)/25, 2))

		eggs += w.EggsDeposited
		seconds += w.WindowEnd - w.WindowStart
	}
	n := float64(len(valid))

	pressure := busy / n
	pressureScore := math.Exp(-math.Pow((pressure-pressureTarget)/0.25, 2))
	hungerScore := hungerSum / n

	// 3. Egg income per minute
	eggScore := 0.0
	if seconds > 0 {
		perMinute := float64(eggs) / seconds * 60
		eggScore = 1 - math.Exp(-perMinute/3)
	}

	quality := qualityWeightPressure*pressureScore +
		qualityWeightHunger*hungerScore +
		qualityWeightEggs*eggScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
