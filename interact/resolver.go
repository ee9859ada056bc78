// Package interact resolves proximity interactions between the hero and
// everything else on the field.
package interact

import (
	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/intruders"
	"github.com/pthm-cable/coopkeeper/pickups"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// Kind identifies what an Outcome records.
type Kind uint8

const (
	KindPickup     Kind = iota // Item taken into the empty slot
	KindDrop                   // Carried item returned home by the interact trigger
	KindDeposit                // Basket emptied into the crate
	KindRepair                 // Fence hole patched
	KindFeed                   // Chicken fed
	KindCollect                // Egg taken from a chicken
	KindHerd                   // Breaching or escaped chicken turned back
	KindCalm                   // In-coop chicken calmed
	KindNeutralize             // Raccoon chased off
	KindUsedUp                 // Carried item spent and removed
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// KindNames returns the display names for all outcome kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{
		"pickup", "drop", "deposit", "repair", "feed",
		"collect", "herd", "calm", "neutralize", "used_up",
	}
}

// Outcome is one interaction that happened this frame.
// Fields that do not apply to Kind are zero.
type Outcome struct {
	Kind    Kind
	Chicken *flock.Chicken
	Hole    uint32
	Raccoon uint32
	Item    pickups.Kind
	Count   int // eggs deposited or lost
	Golden  int // golden eggs among Count
}

// HoleSet is the fence state the resolver repairs.
type HoleSet interface {
	OpenHoles() []coop.Hole
	Repair(id uint32, r coop.Repairer) bool
}

// RaccoonSet is the intruder state the resolver neutralizes.
type RaccoonSet interface {
	Raccoons() []intruders.RaccoonView
	Neutralize(id uint32) bool
}

// Scene is everything one Resolve call may touch.
type Scene struct {
	Hero     *pickups.Hero
	Items    *pickups.Items
	Holes    HoleSet
	Chickens []*flock.Chicken
	Raccoons RaccoonSet

	// Interact is the discrete trigger from input; it drops the carried item.
	Interact bool
}

// Resolver turns overlaps into outcomes.
type Resolver struct {
	cfg   config.InteractionConfig
	armed bool
}

// NewResolver creates a resolver. armed means neutralizing needs the hammer.
func NewResolver(cfg config.InteractionConfig, armed bool) *Resolver {
	return &Resolver{cfg: cfg, armed: armed}
}

// Resolve runs one frame of interactions.
//
// Releases (deposit, repair, chicken touches, neutralize) are judged against
// the slot as it was after the interact trigger. Pickups run afterwards, so a
// deposit and a pickup can both happen in one frame.
func (r *Resolver) Resolve(s Scene) []Outcome {
	var out []Outcome
	hero := s.Hero

	dropped := pickups.KindNone
	if s.Interact && !hero.EmptyHanded() {
		k, eggs, golden := hero.Release()
		s.Items.Return(k)
		dropped = k
		out = append(out, Outcome{Kind: KindDrop, Item: k, Count: eggs, Golden: golden})
	}

	carrying := hero.Carrying
	body := hero.Body()

	out = r.deposit(s, body, out)
	if carrying == pickups.KindHammer && s.Holes != nil {
		out = r.repair(s, out)
	}
	out = r.touchChickens(s, carrying, body, out)
	if s.Raccoons != nil {
		out = r.neutralize(s, carrying, body, out)
	}

	// Acquire phase
	if hero.EmptyHanded() {
		for _, it := range s.Items.All() {
			if !it.Available || it.Kind == dropped || !spatial.Overlap(body, it.Body()) {
				continue
			}
			if s.Items.Take(it.Kind) {
				hero.Hold(it.Kind, s.Items.Capacity(it.Kind))
				out = append(out, Outcome{Kind: KindPickup, Item: it.Kind})
				break
			}
		}
	}
	return out
}

func (r *Resolver) deposit(s Scene, body spatial.Circle, out []Outcome) []Outcome {
	hero := s.Hero
	if hero.Carrying != pickups.KindBasket || hero.Eggs == 0 {
		return out
	}
	if !spatial.Overlap(body, s.Items.Crate()) {
		return out
	}
	_, eggs, golden := hero.Release()
	s.Items.Consume(pickups.KindBasket)
	return append(out, Outcome{Kind: KindDeposit, Item: pickups.KindBasket, Count: eggs, Golden: golden})
}

func (r *Resolver) repair(s Scene, out []Outcome) []Outcome {
	hero := s.Hero
	for _, h := range s.Holes.OpenHoles() {
		if !hero.HasRepairTool() {
			break
		}
		if !s.Holes.Repair(h.ID, hero) {
			continue
		}
		out = append(out, Outcome{Kind: KindRepair, Hole: h.ID, Item: pickups.KindHammer})
		if hero.Use() {
			out = r.spend(s, out)
		}
	}
	return out
}

// touchChickens applies the carried item to each chicken the hero overlaps.
// Each chicken is handled at most once.
func (r *Resolver) touchChickens(s Scene, carrying pickups.Kind, body spatial.Circle, out []Outcome) []Outcome {
	hero := s.Hero
	for _, ch := range s.Chickens {
		if ch.State == flock.StateCaptured || !spatial.Overlap(body, ch.Body()) {
			continue
		}

		switch ch.State {
		case flock.StateBreaching, flock.StateEscaped:
			if ch.Herd() {
				out = append(out, Outcome{Kind: KindHerd, Chicken: ch})
			}
			continue
		case flock.StateInCoop:
		default:
			continue
		}

		// A spent item stops working for the rest of the frame
		if carrying != pickups.KindNone && hero.Carrying != carrying {
			continue
		}

		switch carrying {
		case pickups.KindFood:
			if hero.Uses > 0 && ch.Feed(r.cfg.FeedAmount, r.cfg.FeedBelow) {
				out = append(out, Outcome{Kind: KindFeed, Chicken: ch, Item: pickups.KindFood})
				if hero.Use() {
					out = r.spend(s, out)
				}
			}
		case pickups.KindBasket:
			if !ch.HasEgg || hero.BasketFull() {
				continue
			}
			if ch.CollectEgg() {
				hero.AddEgg(ch.Stats.Special == flock.SpecialGolden)
				out = append(out, Outcome{Kind: KindCollect, Chicken: ch, Item: pickups.KindBasket, Count: 1})
			}
		case pickups.KindNone:
			if ch.CalmTimer <= 0 && ch.Calm(r.cfg.CalmDuration) {
				out = append(out, Outcome{Kind: KindCalm, Chicken: ch})
			}
		}
	}
	return out
}

func (r *Resolver) neutralize(s Scene, carrying pickups.Kind, body spatial.Circle, out []Outcome) []Outcome {
	if r.armed && carrying != pickups.KindHammer {
		return out
	}
	for _, v := range s.Raccoons.Raccoons() {
		if !spatial.Overlap(body, v.Body()) {
			continue
		}
		if s.Raccoons.Neutralize(v.ID) {
			out = append(out, Outcome{Kind: KindNeutralize, Raccoon: v.ID})
		}
	}
	return out
}

// spend removes a used-up item from the hero's hands.
func (r *Resolver) spend(s Scene, out []Outcome) []Outcome {
	k, _, _ := s.Hero.Release()
	s.Items.Consume(k)
	return append(out, Outcome{Kind: KindUsedUp, Item: k})
}
