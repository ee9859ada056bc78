package pickups

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// Hero is the player character.
type Hero struct {
	cfg config.HeroConfig

	Pos     r2.Vec
	Radius  float64
	Speed   float64
	Heading float64

	Carrying Kind
	Uses     int // portions or repairs left on the carried item
	Eggs     int // eggs in a carried basket
	Golden   int // how many of Eggs came from the golden chicken
}

// NewHero places the hero at its configured start.
func NewHero(cfg config.HeroConfig) *Hero {
	h := &Hero{cfg: cfg}
	h.Reset()
	return h
}

// Reset returns the hero to the start with empty hands.
func (h *Hero) Reset() {
	*h = Hero{
		cfg:     h.cfg,
		Pos:     r2.Vec{X: h.cfg.StartX, Y: h.cfg.StartY},
		Radius:  h.cfg.Radius,
		Speed:   h.cfg.Speed,
		Heading: -math.Pi / 2,
	}
}

// Body returns the hero's collision circle.
func (h *Hero) Body() spatial.Circle {
	return spatial.Circle{Center: h.Pos, Radius: h.Radius}
}

// HasRepairTool reports whether the hero holds a hammer with uses left.
func (h *Hero) HasRepairTool() bool {
	return h.Carrying == KindHammer && h.Uses > 0
}

// EmptyHanded reports whether the carried slot is free.
func (h *Hero) EmptyHanded() bool {
	return h.Carrying == KindNone
}

// BasketFull reports whether a carried basket has no room left.
func (h *Hero) BasketFull() bool {
	return h.Carrying == KindBasket && h.Uses <= 0
}

// Move steps the hero along dir for dt seconds and keeps it on the field.
// dir is normalised when longer than one.
func (h *Hero) Move(dir r2.Vec, dt float64, field spatial.Rect) {
	if dt < 0 {
		panic(fmt.Sprintf("pickups: Hero.Move called with negative dt %g", dt))
	}
	if n := r2.Norm(dir); n > 1 {
		dir = r2.Scale(1/n, dir)
	}
	if dir.X != 0 || dir.Y != 0 {
		h.Heading = math.Atan2(dir.Y, dir.X)
	}
	next := r2.Add(h.Pos, r2.Scale(h.Speed*dt, dir))
	h.Pos = field.Inset(h.Radius).ClampPoint(next)
}

// Hold fills the empty slot with an item of kind k and uses charges.
func (h *Hero) Hold(k Kind, uses int) bool {
	if !h.EmptyHanded() || k == KindNone {
		return false
	}
	h.Carrying = k
	h.Uses = uses
	h.Eggs, h.Golden = 0, 0
	return true
}

// Use spends one charge of the carried item. Reports whether the item is
// now used up.
func (h *Hero) Use() bool {
	if h.Uses > 0 {
		h.Uses--
	}
	return h.Uses == 0
}

// AddEgg puts one egg in a carried basket.
func (h *Hero) AddEgg(golden bool) bool {
	if h.Carrying != KindBasket || h.Uses <= 0 {
		return false
	}
	h.Uses--
	h.Eggs++
	if golden {
		h.Golden++
	}
	return true
}

// Release empties the slot and returns what was held.
func (h *Hero) Release() (k Kind, eggs, golden int) {
	k, eggs, golden = h.Carrying, h.Eggs, h.Golden
	h.Carrying = KindNone
	h.Uses, h.Eggs, h.Golden = 0, 0, 0
	return k, eggs, golden
}
