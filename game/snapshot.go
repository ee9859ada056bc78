package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/intruders"
	"github.com/pthm-cable/coopkeeper/pickups"
	"github.com/pthm-cable/coopkeeper/spatial"
	"github.com/pthm-cable/coopkeeper/telemetry"
)

// ChickenView is a read-only copy of one chicken.
type ChickenView struct {
	Index   int
	Breed   flock.Breed
	Special flock.Special
	Pos     r2.Vec
	Radius  float64
	Heading float64
	State   flock.State
	HasEgg  bool
	Hunger  float64
	Calm    bool
}

// HeroView is a read-only copy of the hero.
type HeroView struct {
	Pos      r2.Vec
	Radius   float64
	Heading  float64
	Carrying pickups.Kind
	Uses     int
	Eggs     int
}

// Snapshot is everything a renderer, HUD or bot may read for one frame.
// It shares no memory with the game.
type Snapshot struct {
	State     State
	Tick      int
	Elapsed   float64
	Timed     bool    // the round has a time limit
	Remaining float64 // seconds left, 0 when the round is unlimited
	Score     int
	HighScore int
	Lives     int

	InCoop   int
	Escaped  int
	Captured int
	Hungry   int // uncaptured chickens below the hungry threshold
	MaxHoles int

	Field        spatial.Rect
	Coop         spatial.Rect
	EscapeMargin float64
	Crate        spatial.Circle

	Chickens []ChickenView
	Holes    []coop.Hole
	Raccoons []intruders.RaccoonView
	Items    []pickups.Item
	Hero     HeroView

	LastRound *telemetry.RoundStats
}

// Snapshot copies the current frame state.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		State:     g.state,
		Tick:      g.tick,
		Elapsed:   g.elapsed,
		Score:     g.score,
		HighScore: g.highScore,
		Lives:     g.lives,

		InCoop:   g.flock.InCoopCount(),
		Escaped:  g.flock.EscapedCount(),
		Captured: g.flock.CapturedCount(),
		Hungry:   len(g.flock.DefaultHungryChickens()),
		MaxHoles: g.holes.Max(),

		Field:        g.field,
		Coop:         g.coop.Bounds(),
		EscapeMargin: g.coop.EscapeMargin(),
		Crate:        g.items.Crate(),

		Holes:    g.holes.OpenHoles(),
		Raccoons: g.spawner.Raccoons(),
		Items:    g.items.All(),
		Hero: HeroView{
			Pos:      g.hero.Pos,
			Radius:   g.hero.Radius,
			Heading:  g.hero.Heading,
			Carrying: g.hero.Carrying,
			Uses:     g.hero.Uses,
			Eggs:     g.hero.Eggs,
		},
	}
	if d := g.cfg.Round.Duration; d > 0 {
		s.Timed = true
		s.Remaining = max(d-g.elapsed, 0)
	}
	if g.lastRound != nil {
		last := *g.lastRound
		s.LastRound = &last
	}

	chickens := g.flock.Chickens()
	s.Chickens = make([]ChickenView, len(chickens))
	for i, ch := range chickens {
		s.Chickens[i] = ChickenView{
			Index:   ch.Index,
			Breed:   ch.Breed,
			Special: ch.Stats.Special,
			Pos:     ch.Pos,
			Radius:  ch.Stats.Radius,
			Heading: ch.Heading,
			State:   ch.State,
			HasEgg:  ch.HasEgg,
			Hunger:  ch.Hunger,
			Calm:    ch.CalmTimer > 0,
		}
	}
	return s
}
