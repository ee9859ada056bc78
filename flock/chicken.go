// Package flock implements the chicken entity, its state machine, and the
// manager that owns the roster for a round.
package flock

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// MaxHunger is a full chicken.
const MaxHunger = 100.0

// State is a chicken's position in its state machine.
type State uint8

const (
	StateInCoop    State = iota // Idle, feeding, laying
	StateBreaching              // Heading out through a fence hole
	StateEscaped                // Outside, past the escape threshold
	StateReturning              // Herded back toward the coop
	StateCaptured               // Carried off by a raccoon; out for the round
)

// String returns the display name for a State.
func (s State) String() string {
	switch s {
	case StateInCoop:
		return "in_coop"
	case StateBreaching:
		return "breaching"
	case StateEscaped:
		return "escaped"
	case StateReturning:
		return "returning"
	case StateCaptured:
		return "captured"
	default:
		return "unknown"
	}
}

// Transition is the edge-triggered result of one Update call.
type Transition uint8

const (
	TransitionNone     Transition = iota
	TransitionBreached // InCoop -> Breaching
	TransitionEscaped  // Breaching -> Escaped, reported on the crossing frame only
	TransitionReturned // Returning -> InCoop
	TransitionLaid     // An egg appeared
)

// Env is the per-frame context a chicken reads while updating.
// Built by the Manager once per frame.
type Env struct {
	Coop        *coop.Coop
	Holes       []coop.Hole
	TanksInCoop int // tank chickens in the coop at frame start
	GameTime    float64
	Params      config.FlockConfig
	Field       spatial.Rect

	rng   *rand.Rand
	noise opensimplex.Noise
}

// Chicken is one member of the flock.
type Chicken struct {
	Index int
	Breed Breed
	Stats BreedStats

	Pos    r2.Vec
	State  State
	InCoop bool
	HasEgg bool
	Hunger float64 // 0..MaxHunger, MaxHunger = full

	// CrossedThreshold latches when a breach passes the escape threshold and
	// clears when the chicken is herded or captured.
	CrossedThreshold bool

	EggTimer  float64 // seconds of contentment accrued toward the next egg
	CalmTimer float64 // seconds left during which breach checks are skipped

	HoleID     uint32    // hole being breached
	BreachSide coop.Side // side of that hole
	holePos    r2.Vec
	throughGap bool // reached the hole and is heading outward

	wanderTarget r2.Vec
	Heading      float64 // radians, last movement direction
}

// Body returns the chicken's collision circle.
func (c *Chicken) Body() spatial.Circle {
	return spatial.Circle{Center: c.Pos, Radius: c.Stats.Radius}
}

// IsEscaped reports whether the chicken counts as escaped.
// A chicken mid-breach that has not crossed the threshold does not.
func (c *Chicken) IsEscaped() bool {
	return !c.InCoop && c.CrossedThreshold
}

// IsTank reports whether the breed blocks breaches.
func (c *Chicken) IsTank() bool {
	return c.Stats.Special == SpecialTank
}

// BreachRate returns the per-second breach probability rate in env.
// Hungry chickens are bolder; other tanks in the coop damp the rate.
func (c *Chicken) BreachRate(env *Env) float64 {
	hungerFrac := 1 - c.Hunger/MaxHunger
	rate := c.Stats.Boldness * (1 + env.Params.HungerBoldness*hungerFrac)

	blockers := env.TanksInCoop
	if c.IsTank() && c.InCoop {
		blockers--
	}
	if blockers > 0 {
		rate /= 1 + env.Params.TankBlock*float64(blockers)
	}
	return rate
}

// Update advances the state machine by dt seconds.
func (c *Chicken) Update(dt float64, env *Env) Transition {
	if dt < 0 {
		panic(fmt.Sprintf("flock: Chicken.Update called with negative dt %g", dt))
	}
	if c.State == StateCaptured {
		return TransitionNone
	}

	c.Hunger = max(c.Hunger-c.Stats.HungerDecay*dt, 0)
	c.CalmTimer = max(c.CalmTimer-dt, 0)

	switch c.State {
	case StateInCoop:
		return c.updateInCoop(dt, env)
	case StateBreaching:
		return c.updateBreaching(dt, env)
	case StateEscaped:
		c.updateEscaped(dt, env)
	case StateReturning:
		return c.updateReturning(dt, env)
	}
	return TransitionNone
}

func (c *Chicken) updateInCoop(dt float64, env *Env) Transition {
	interior := env.Coop.Interior()

	// Wander between random interior points
	step := c.Stats.Speed * env.Params.WanderSpeed * dt
	next, arrived := spatial.MoveToward(c.Pos, c.wanderTarget, step)
	c.face(next)
	c.Pos = interior.ClampPoint(next)
	if arrived {
		c.wanderTarget = env.Coop.RandomInterior(env.rng)
	}

	result := TransitionNone

	// Eggs accrue while the chicken is content
	if !c.HasEgg && (c.Hunger >= env.Params.EggHungerFloor || c.Stats.Special == SpecialLayer) {
		c.EggTimer += dt
		if c.EggTimer >= c.Stats.EggInterval {
			c.HasEgg = true
			c.EggTimer = 0
			result = TransitionLaid
		}
	}

	if len(env.Holes) == 0 || c.CalmTimer > 0 {
		return result
	}
	chance := spatial.Clamp(c.BreachRate(env)*dt, 0, 1)
	if env.rng.Float64() >= chance {
		return result
	}
	hole, ok := nearestHole(c.Pos, env.Holes)
	if !ok {
		return result
	}
	c.BeginBreach(hole)
	return TransitionBreached
}

// BeginBreach sends an in-coop chicken toward hole.
// Returns false if the chicken is not in the coop.
func (c *Chicken) BeginBreach(hole coop.Hole) bool {
	if c.State != StateInCoop {
		return false
	}
	c.State = StateBreaching
	c.InCoop = false
	c.EggTimer = 0
	c.HoleID = hole.ID
	c.BreachSide = hole.Side
	c.holePos = hole.Pos
	c.throughGap = false
	return true
}

func (c *Chicken) updateBreaching(dt float64, env *Env) Transition {
	// A hole patched before the chicken got out leaves it inside
	if !c.throughGap && !holeOpen(c.HoleID, env.Holes) && env.Coop.Contains(c.Pos) {
		c.settle(env)
		return TransitionNone
	}

	step := c.Stats.Speed * dt
	if !c.throughGap {
		next, arrived := spatial.MoveToward(c.Pos, c.holePos, step)
		c.face(next)
		c.Pos = next
		if !arrived {
			return TransitionNone
		}
		c.throughGap = true
		return TransitionNone
	}

	normal := c.BreachSide.Normal()
	next := r2.Add(c.Pos, r2.Scale(step, normal))
	c.face(next)
	c.Pos = env.Field.ClampPoint(next)

	if env.Coop.PastThreshold(c.Pos, c.BreachSide) || c.Pos != next {
		// The field edge stops a chicken short of a threshold it cannot
		// reach; reaching the edge counts as crossing.
		c.State = StateEscaped
		c.CrossedThreshold = true
		return TransitionEscaped
	}
	return TransitionNone
}

func (c *Chicken) updateEscaped(dt float64, env *Env) {
	speed := c.Stats.Speed * env.Params.RoamSpeedScale
	if c.Stats.Special == SpecialRunner {
		speed = c.Stats.Speed
	}

	n := env.noise.Eval2(float64(c.Index)*17.31, env.GameTime*env.Params.NoiseFrequency)
	c.Heading = n * 4 * math.Pi
	next := r2.Add(c.Pos, r2.Scale(speed*dt, spatial.Heading(c.Heading)))
	next = env.Field.ClampPoint(next)

	// Roaming never re-enters the coop on its own
	if env.Coop.Contains(next) {
		q, side := env.Coop.NearestFencePoint(next)
		next = r2.Add(q, side.Normal())
	}
	c.Pos = next
}

func (c *Chicken) updateReturning(dt float64, env *Env) Transition {
	next, _ := spatial.MoveToward(c.Pos, env.Coop.Center(), c.Stats.Speed*dt)
	c.face(next)
	c.Pos = next
	if !env.Coop.Interior().Contains(c.Pos) {
		return TransitionNone
	}
	c.settle(env)
	return TransitionReturned
}

// settle puts the chicken back into the coop state.
func (c *Chicken) settle(env *Env) {
	c.State = StateInCoop
	c.InCoop = true
	c.CrossedThreshold = false
	c.throughGap = false
	c.HoleID = 0
	c.Pos = env.Coop.Interior().ClampPoint(c.Pos)
	c.wanderTarget = env.Coop.RandomInterior(env.rng)
}

// face updates the heading toward next when the chicken actually moves.
func (c *Chicken) face(next r2.Vec) {
	d := r2.Sub(next, c.Pos)
	if d.X != 0 || d.Y != 0 {
		c.Heading = math.Atan2(d.Y, d.X)
	}
}

// Feed raises hunger by amount. Only in-coop chickens below the
// refusal level eat; otherwise it is a no-op returning false.
func (c *Chicken) Feed(amount, refuseAt float64) bool {
	if c.State != StateInCoop || c.Hunger >= refuseAt {
		return false
	}
	c.Hunger = min(c.Hunger+amount, MaxHunger)
	return true
}

// CollectEgg takes the chicken's egg, if it has one and is in the coop.
func (c *Chicken) CollectEgg() bool {
	if c.State != StateInCoop || !c.HasEgg {
		return false
	}
	c.HasEgg = false
	return true
}

// Herd turns a breaching or escaped chicken back toward the coop.
func (c *Chicken) Herd() bool {
	if c.State != StateBreaching && c.State != StateEscaped {
		return false
	}
	c.State = StateReturning
	c.CrossedThreshold = false
	c.throughGap = false
	c.HoleID = 0
	return true
}

// Calm suppresses breach checks for d seconds. In-coop chickens only.
func (c *Chicken) Calm(d float64) bool {
	if c.State != StateInCoop {
		return false
	}
	c.CalmTimer = max(c.CalmTimer, d)
	return true
}

// Capture removes the chicken from play for the rest of the round.
func (c *Chicken) Capture() bool {
	if c.State == StateCaptured {
		return false
	}
	c.State = StateCaptured
	c.InCoop = false
	c.HasEgg = false
	c.CrossedThreshold = false
	c.HoleID = 0
	return true
}

func nearestHole(p r2.Vec, holes []coop.Hole) (coop.Hole, bool) {
	var best coop.Hole
	bestDist := math.Inf(1)
	found := false
	for _, h := range holes {
		if !h.Open {
			continue
		}
		if d := spatial.DistanceSq(p, h.Pos); d < bestDist {
			best, bestDist, found = h, d, true
		}
	}
	return best, found
}

func holeOpen(id uint32, holes []coop.Hole) bool {
	for _, h := range holes {
		if h.ID == id && h.Open {
			return true
		}
	}
	return false
}
