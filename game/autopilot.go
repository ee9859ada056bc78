package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/components"
	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/intruders"
	"github.com/pthm-cable/coopkeeper/pickups"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// Autopilot is a priority bot that plays the hero in headless runs.
//
// Order of concern: raccoons, stray chickens, then chores. The chore
// decides which item the hero should hold; anything else is dropped.
type Autopilot struct {
	hungry float64
	armed  bool
}

// NewAutopilot creates a bot for the given rules.
func NewAutopilot(cfg *config.Config) *Autopilot {
	return &Autopilot{
		hungry: cfg.Flock.HungryThreshold,
		armed:  cfg.Derived.Armed,
	}
}

// Intent picks the input for the next frame.
func (a *Autopilot) Intent(s *Snapshot) Intent {
	if s.State != StatePlaying {
		return Intent{Start: true}
	}
	h := s.Hero

	if r, ok := nearestRaccoon(h.Pos, s.Raccoons); ok && (!a.armed || h.Carrying == pickups.KindHammer) {
		return toward(h.Pos, r.Pos)
	}
	if ch, ok := nearestChicken(h.Pos, s.Chickens, isStray); ok {
		return toward(h.Pos, ch.Pos)
	}

	want := a.wantedItem(s)
	switch h.Carrying {
	case pickups.KindHammer:
		if hole, ok := nearestHole(h.Pos, s.Holes); ok {
			return toward(h.Pos, hole.Pos)
		}
	case pickups.KindBasket:
		if h.Uses > 0 {
			if ch, ok := nearestChicken(h.Pos, s.Chickens, hasEgg); ok {
				return toward(h.Pos, ch.Pos)
			}
		}
		if h.Eggs > 0 {
			return toward(h.Pos, s.Crate.Center)
		}
	case pickups.KindFood:
		if ch, ok := nearestChicken(h.Pos, s.Chickens, a.isHungry); ok {
			return toward(h.Pos, ch.Pos)
		}
	case pickups.KindNone:
		if want != pickups.KindNone {
			for _, it := range s.Items {
				if it.Kind == want && it.Available {
					return toward(h.Pos, it.Home)
				}
			}
		}
		return toward(h.Pos, s.Coop.Center())
	}

	if want != pickups.KindNone && want != h.Carrying {
		return Intent{Interact: true}
	}
	return toward(h.Pos, s.Coop.Center())
}

// wantedItem returns the item the most urgent chore needs.
func (a *Autopilot) wantedItem(s *Snapshot) pickups.Kind {
	if len(s.Holes) > 0 || (a.armed && len(s.Raccoons) > 0) {
		return pickups.KindHammer
	}
	if _, ok := nearestChicken(s.Hero.Pos, s.Chickens, hasEgg); ok {
		return pickups.KindBasket
	}
	if _, ok := nearestChicken(s.Hero.Pos, s.Chickens, a.isHungry); ok {
		return pickups.KindFood
	}
	return pickups.KindNone
}

func (a *Autopilot) isHungry(ch ChickenView) bool {
	return ch.State == flock.StateInCoop && ch.Hunger < a.hungry
}

func isStray(ch ChickenView) bool {
	return ch.State == flock.StateBreaching || ch.State == flock.StateEscaped
}

func hasEgg(ch ChickenView) bool {
	return ch.State == flock.StateInCoop && ch.HasEgg
}

func toward(from, to r2.Vec) Intent {
	return Intent{Move: r2.Sub(to, from)}
}

func nearestChicken(p r2.Vec, chickens []ChickenView, keep func(ChickenView) bool) (ChickenView, bool) {
	var best ChickenView
	bestD, found := 0.0, false
	for _, ch := range chickens {
		if !keep(ch) {
			continue
		}
		if d := spatial.DistanceSq(p, ch.Pos); !found || d < bestD {
			best, bestD, found = ch, d, true
		}
	}
	return best, found
}

func nearestHole(p r2.Vec, holes []coop.Hole) (coop.Hole, bool) {
	var best coop.Hole
	bestD, found := 0.0, false
	for _, h := range holes {
		if d := spatial.DistanceSq(p, h.Pos); !found || d < bestD {
			best, bestD, found = h, d, true
		}
	}
	return best, found
}

// nearestRaccoon ignores fleeing raccoons, which can no longer be stopped.
func nearestRaccoon(p r2.Vec, raccoons []intruders.RaccoonView) (intruders.RaccoonView, bool) {
	var best intruders.RaccoonView
	bestD, found := 0.0, false
	for _, r := range raccoons {
		if r.Phase == components.PhaseFleeing {
			continue
		}
		if d := spatial.DistanceSq(p, r.Pos); !found || d < bestD {
			best, bestD, found = r, d, true
		}
	}
	return best, found
}
