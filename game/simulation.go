package game

import (
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/interact"
	"github.com/pthm-cable/coopkeeper/intruders"
	"github.com/pthm-cable/coopkeeper/telemetry"
)

// step runs one frame: holes, flock, intruders, resolver, then the effects
// of everything they reported.
func (g *Game) step(dt float64, in Intent) {
	g.perfCollector.StartStep()
	g.tick++
	g.elapsed += dt

	g.perfCollector.StartPhase(telemetry.PhaseHoles)
	if h, ok := g.holes.Update(dt); ok {
		g.collector.Record(telemetry.Event{Type: telemetry.EventHoleOpened, Time: g.elapsed, ID: h.ID})
	}
	g.items.Update(dt)
	open := g.holes.OpenHoles()

	g.perfCollector.StartPhase(telemetry.PhaseFlock)
	escaped := g.flock.Update(dt, g.coop, open, g.elapsed)

	g.perfCollector.StartPhase(telemetry.PhaseIntruders)
	spawnedBefore := g.spawner.Spawned()
	captures := g.spawner.Update(dt, g.coop, open, g.flock.Chickens())
	for i := spawnedBefore; i < g.spawner.Spawned(); i++ {
		g.collector.Record(telemetry.Event{Type: telemetry.EventRaccoonSpawned, Time: g.elapsed})
	}

	g.perfCollector.StartPhase(telemetry.PhaseResolve)
	g.hero.Move(in.Move, dt, g.field)
	outcomes := g.resolver.Resolve(interact.Scene{
		Hero:     g.hero,
		Items:    g.items,
		Holes:    g.holes,
		Chickens: g.flock.Chickens(),
		Raccoons: g.spawner,
		Interact: in.Interact,
	})

	g.perfCollector.StartPhase(telemetry.PhaseApply)
	g.applyEscapes(escaped)
	g.applyCaptures(captures)
	for _, o := range outcomes {
		g.applyOutcome(o)
	}

	g.perfCollector.StartPhase(telemetry.PhaseChecks)
	reason := g.checkRoundEnd()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry(false)

	g.perfCollector.EndStep()

	if reason != "" {
		g.endRound(reason)
	}
}

func (g *Game) applyEscapes(escaped []*flock.Chicken) {
	for _, ch := range escaped {
		g.addScore(-g.cfg.Scoring.EscapePenalty)
		g.lives--
		g.collector.Record(telemetry.NewChickenEvent(telemetry.EventEscape, g.elapsed, ch.Breed.String()))
	}
}

// applyCaptures charges one penalty per carried-off chicken.
func (g *Game) applyCaptures(captures []intruders.Capture) {
	for _, c := range captures {
		g.addScore(-g.cfg.Scoring.CapturePenalty)
		g.lives--
		ev := telemetry.NewChickenEvent(telemetry.EventCapture, g.elapsed, c.Chicken.Breed.String())
		ev.ID = c.RaccoonID
		g.collector.Record(ev)
	}
}

func (g *Game) applyOutcome(o interact.Outcome) {
	s := g.cfg.Scoring
	switch o.Kind {
	case interact.KindDeposit:
		plain := o.Count - o.Golden
		g.addScore(plain*s.EggPoints + o.Golden*s.EggPoints*s.GoldenMultiplier)
		g.collector.Record(telemetry.NewDepositEvent(g.elapsed, o.Count, o.Golden))
	case interact.KindRepair:
		g.addScore(s.RepairPoints)
		g.collector.Record(telemetry.Event{Type: telemetry.EventRepair, Time: g.elapsed, ID: o.Hole})
	case interact.KindHerd:
		g.addScore(s.HerdPoints)
		g.collector.Record(telemetry.NewChickenEvent(telemetry.EventHerd, g.elapsed, o.Chicken.Breed.String()))
	case interact.KindNeutralize:
		g.addScore(s.RaccoonPoints)
		g.collector.Record(telemetry.Event{Type: telemetry.EventNeutralize, Time: g.elapsed, ID: o.Raccoon})
	case interact.KindFeed:
		g.collector.Record(telemetry.NewChickenEvent(telemetry.EventFeed, g.elapsed, o.Chicken.Breed.String()))
	case interact.KindCollect:
		g.collector.Record(telemetry.NewChickenEvent(telemetry.EventEggCollected, g.elapsed, o.Chicken.Breed.String()))
	case interact.KindDrop:
		if o.Count > 0 {
			g.collector.Record(telemetry.Event{Type: telemetry.EventDrop, Time: g.elapsed, Count: o.Count, Golden: o.Golden})
		}
	}
}

// addScore changes the score, never letting it go below zero.
func (g *Game) addScore(delta int) {
	g.score = max(g.score+delta, 0)
}

// checkRoundEnd returns the reason the round is over, or "".
func (g *Game) checkRoundEnd() string {
	switch {
	case g.lives <= 0:
		return telemetry.ReasonNoLives
	case !g.flock.Recoverable():
		return telemetry.ReasonFlockLost
	case g.cfg.Round.Duration > 0 && g.elapsed >= g.cfg.Round.Duration:
		return telemetry.ReasonTimeUp
	}
	return ""
}
