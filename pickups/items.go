// Package pickups holds the tools the hero carries, the egg crate, and the
// hero itself.
package pickups

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// Kind identifies an item. KindNone is an empty hand.
type Kind uint8

const (
	KindNone Kind = iota
	KindFood
	KindHammer
	KindBasket

	numKinds = 4
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// KindNames returns the display names for all kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"none", "food", "hammer", "basket"}
}

// Item is one pickup. It sits at Home while available.
type Item struct {
	Kind      Kind
	Home      r2.Vec
	Radius    float64
	Available bool
	Respawn   float64 // seconds until it reappears, when not available and not carried
	Carried   bool
}

// Body returns the item's collision circle.
func (it Item) Body() spatial.Circle {
	return spatial.Circle{Center: it.Home, Radius: it.Radius}
}

// Items owns the three pickups and the egg crate.
type Items struct {
	cfg   config.ItemsConfig
	items [numKinds]Item
	crate spatial.Circle
}

// NewItems places every item at its home.
func NewItems(cfg config.ItemsConfig) *Items {
	s := &Items{
		cfg:   cfg,
		crate: spatial.Circle{Center: vec(cfg.Crate), Radius: cfg.CrateRadius},
	}
	s.Reset()
	return s
}

func vec(p config.PointConfig) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Reset returns every item home.
func (s *Items) Reset() {
	homes := [numKinds]r2.Vec{
		KindFood:   vec(s.cfg.Food),
		KindHammer: vec(s.cfg.Hammer),
		KindBasket: vec(s.cfg.Basket),
	}
	for k := KindFood; k < numKinds; k++ {
		s.items[k] = Item{
			Kind:      k,
			Home:      homes[k],
			Radius:    s.cfg.Radius,
			Available: true,
		}
	}
}

// Update counts down respawn timers.
func (s *Items) Update(dt float64) {
	if dt < 0 {
		panic(fmt.Sprintf("pickups: Items.Update called with negative dt %g", dt))
	}
	for k := KindFood; k < numKinds; k++ {
		it := &s.items[k]
		if it.Available || it.Carried {
			continue
		}
		it.Respawn -= dt
		if it.Respawn <= 0 {
			it.Respawn = 0
			it.Available = true
		}
	}
}

// Capacity returns the uses a fresh item of kind k carries.
func (s *Items) Capacity(k Kind) int {
	switch k {
	case KindFood:
		return s.cfg.FoodPortions
	case KindHammer:
		return s.cfg.HammerUses
	case KindBasket:
		return s.cfg.BasketCapacity
	}
	return 0
}

// Get returns the item of kind k.
func (s *Items) Get(k Kind) Item {
	if k == KindNone || k >= numKinds {
		return Item{}
	}
	return s.items[k]
}

// All returns every item in kind order.
func (s *Items) All() []Item {
	out := make([]Item, 0, numKinds-1)
	for k := KindFood; k < numKinds; k++ {
		out = append(out, s.items[k])
	}
	return out
}

// Take lifts an available item off the ground.
func (s *Items) Take(k Kind) bool {
	if k == KindNone || k >= numKinds || !s.items[k].Available {
		return false
	}
	s.items[k].Available = false
	s.items[k].Carried = true
	return true
}

// Return puts a carried item straight back at its home.
func (s *Items) Return(k Kind) {
	if k == KindNone || k >= numKinds {
		return
	}
	s.items[k].Carried = false
	s.items[k].Available = true
	s.items[k].Respawn = 0
}

// Consume marks a carried item as used up. It reappears at home after the
// respawn delay.
func (s *Items) Consume(k Kind) {
	if k == KindNone || k >= numKinds {
		return
	}
	s.items[k].Carried = false
	s.items[k].Available = false
	s.items[k].Respawn = s.cfg.RespawnDelay
	if s.items[k].Respawn <= 0 {
		s.items[k].Available = true
	}
}

// Crate returns the egg deposit zone.
func (s *Items) Crate() spatial.Circle {
	return s.crate
}
