// Package game owns one coop round: it steps every component once per
// frame, turns their results into score and lives, and runs the round
// lifecycle.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/interact"
	"github.com/pthm-cable/coopkeeper/intruders"
	"github.com/pthm-cable/coopkeeper/pickups"
	"github.com/pthm-cable/coopkeeper/spatial"
	"github.com/pthm-cable/coopkeeper/storage"
	"github.com/pthm-cable/coopkeeper/telemetry"
)

// State is the round lifecycle state.
type State uint8

const (
	StateStart State = iota
	StatePlaying
	StateGameOver
)

// String returns the display name for a State.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Intent is the normalised input for one frame.
type Intent struct {
	Move     r2.Vec // desired direction, normalised by the hero when longer than one
	Interact bool   // drop the carried item
	Start    bool   // begin a round from the start or game over screen
}

// Options holds runtime options for game initialization.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string

	// Store persists the high score. Nil keeps it in memory.
	Store storage.HighScores

	// StatsCallback, when set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete game state.
type Game struct {
	cfg   *config.Config
	rng   *rand.Rand
	seed  int64
	field spatial.Rect

	coop     *coop.Coop
	holes    *coop.HoleManager
	flock    *flock.Manager
	spawner  *intruders.Spawner
	items    *pickups.Items
	hero     *pickups.Hero
	resolver *interact.Resolver

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	store storage.HighScores

	// Round state
	state     State
	roundID   string
	tick      int
	elapsed   float64
	score     int
	lives     int
	highScore int
	rounds    int
	lastRound *telemetry.RoundStats
}

// NewGameWithOptions builds a game in the start state.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	table, err := flock.NewBreedTable(cfg.Breeds)
	if err != nil {
		return nil, fmt.Errorf("building breed table: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	store := opts.Store
	if store == nil {
		store = storage.NewMemory()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	field := spatial.Rect{Max: r2.Vec{X: cfg.Field.Width, Y: cfg.Field.Height}}
	c := coop.New(cfg.Coop)

	g := &Game{
		cfg:   cfg,
		rng:   rng,
		seed:  opts.Seed,
		field: field,

		coop:     c,
		holes:    coop.NewHoleManager(cfg.Fence, cfg.Interaction.RepairReach, c, rng),
		flock:    flock.NewManager(table, cfg.Flock, field, rng),
		spawner:  intruders.NewSpawner(cfg.Raccoons, field, rng),
		items:    pickups.NewItems(cfg.Items),
		hero:     pickups.NewHero(cfg.Hero),
		resolver: interact.NewResolver(cfg.Interaction, cfg.Derived.Armed),

		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		outputManager:    output,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,

		store: store,
	}

	if hs, err := store.Load(context.Background()); err != nil {
		slog.Warn("failed to load high score", "error", err)
	} else {
		g.highScore = hs
	}

	g.Reset()
	return g, nil
}

// Reset rebuilds the flock, fence, raccoons, items and hero for a fresh
// round. The high score survives.
func (g *Game) Reset() {
	g.flock.Reset(g.coop)
	g.holes.Reset()
	g.spawner.Reset()
	g.items.Reset()
	g.hero.Reset()

	g.state = StateStart
	g.roundID = ""
	g.tick = 0
	g.elapsed = 0
	g.score = 0
	g.lives = g.cfg.Round.Lives
}

// Update advances the game by dt seconds of input-driven play.
// Frame hitches longer than the configured maximum are clamped.
func (g *Game) Update(dt float64, in Intent) {
	if dt < 0 {
		panic(fmt.Sprintf("game: Update called with negative dt %g", dt))
	}
	dt = min(dt, g.cfg.Derived.MaxDT)

	switch g.state {
	case StateStart:
		if in.Start {
			g.startRound()
		}
	case StateGameOver:
		if in.Start {
			g.Reset()
			g.startRound()
		}
	case StatePlaying:
		g.step(dt, in)
	}
}

// Unload flushes output files. Call when done with the game.
func (g *Game) Unload() {
	if g.state == StatePlaying {
		g.endRound(telemetry.ReasonAborted)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// State returns the lifecycle state.
func (g *Game) State() State { return g.state }

// Tick returns the number of frames stepped this round.
func (g *Game) Tick() int { return g.tick }

// Elapsed returns round time in seconds.
func (g *Game) Elapsed() float64 { return g.elapsed }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Lives returns the lives left.
func (g *Game) Lives() int { return g.lives }

// HighScore returns the best score seen, including earlier runs.
func (g *Game) HighScore() int { return g.highScore }

// Rounds returns how many rounds have ended.
func (g *Game) Rounds() int { return g.rounds }

// LastRound returns the summary of the most recent finished round, or nil.
func (g *Game) LastRound() *telemetry.RoundStats { return g.lastRound }

// Config returns the game configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Flock returns the chicken manager for read-only queries.
func (g *Game) Flock() *flock.Manager { return g.flock }
