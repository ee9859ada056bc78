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

// summary is the roster state captured at the end of the last update.
// Queries read it so they never observe mid-frame mutations.
type summary struct {
	inCoop   int
	escaped  int
	captured int
	hunger   []float64
	hasEgg   []bool
	state    []State
}

// Manager owns the flock for one round.
type Manager struct {
	table  BreedTable
	params config.FlockConfig
	field  spatial.Rect
	rng    *rand.Rand
	noise  opensimplex.Noise

	chickens []*Chicken
	summary  summary
	env      Env
}

// NewManager creates a manager with an empty roster.
// Call SpawnChickens to place the flock.
func NewManager(table BreedTable, params config.FlockConfig, field spatial.Rect, rng *rand.Rand) *Manager {
	return &Manager{
		table:  table,
		params: params,
		field:  field,
		rng:    rng,
		noise:  opensimplex.NewNormalized(rng.Int63()),
	}
}

// SpawnChickens replaces the roster with one chicken of each breed placed
// in a ring around the coop center. Returns the new roster.
func (m *Manager) SpawnChickens(c *coop.Coop) []*Chicken {
	center := c.Center()
	ringMin, ringMax := c.RingBand()
	interior := c.Interior()

	m.chickens = make([]*Chicken, NumBreeds)
	for i := 0; i < NumBreeds; i++ {
		angle := 2 * math.Pi * float64(i) / NumBreeds
		radius := ringMin + m.rng.Float64()*(ringMax-ringMin)
		pos := interior.ClampPoint(r2.Add(center, r2.Scale(radius, spatial.Heading(angle))))

		b := Breed(i)
		m.chickens[i] = &Chicken{
			Index:        i,
			Breed:        b,
			Stats:        m.table[b],
			Pos:          pos,
			State:        StateInCoop,
			InCoop:       true,
			Hunger:       m.params.InitialHunger,
			wanderTarget: pos,
			Heading:      angle,
		}
	}

	m.refreshSummary()
	return m.chickens
}

// Reset is equivalent to SpawnChickens.
func (m *Manager) Reset(c *coop.Coop) []*Chicken {
	return m.SpawnChickens(c)
}

// Update advances every chicken and returns those whose breach crossed the
// escape threshold this frame, in roster order.
func (m *Manager) Update(dt float64, c *coop.Coop, holes []coop.Hole, gameTime float64) []*Chicken {
	if dt < 0 {
		panic(fmt.Sprintf("flock: Manager.Update called with negative dt %g", dt))
	}

	m.env = Env{
		Coop:        c,
		Holes:       holes,
		TanksInCoop: m.tanksInCoop(),
		GameTime:    gameTime,
		Params:      m.params,
		Field:       m.field,
		rng:         m.rng,
		noise:       m.noise,
	}

	var escaped []*Chicken
	for _, ch := range m.chickens {
		if ch.Update(dt, &m.env) == TransitionEscaped {
			escaped = append(escaped, ch)
		}
	}

	m.refreshSummary()
	return escaped
}

func (m *Manager) tanksInCoop() int {
	n := 0
	for _, ch := range m.chickens {
		if ch.IsTank() && ch.InCoop {
			n++
		}
	}
	return n
}

func (m *Manager) refreshSummary() {
	s := summary{
		hunger: make([]float64, len(m.chickens)),
		hasEgg: make([]bool, len(m.chickens)),
		state:  make([]State, len(m.chickens)),
	}
	for i, ch := range m.chickens {
		s.hunger[i] = ch.Hunger
		s.hasEgg[i] = ch.HasEgg
		s.state[i] = ch.State
		switch {
		case ch.InCoop:
			s.inCoop++
		case ch.IsEscaped():
			s.escaped++
		}
		if ch.State == StateCaptured {
			s.captured++
		}
	}
	m.summary = s
}

// Chickens returns the roster in index order.
func (m *Manager) Chickens() []*Chicken {
	return m.chickens
}

// Get returns the chicken at index i, or nil.
func (m *Manager) Get(i int) *Chicken {
	if i < 0 || i >= len(m.chickens) {
		return nil
	}
	return m.chickens[i]
}

// ByBreed returns the chicken of the given breed, or nil.
func (m *Manager) ByBreed(b Breed) *Chicken {
	for _, ch := range m.chickens {
		if ch.Breed == b {
			return ch
		}
	}
	return nil
}

// SpecialChicken returns the golden chicken, or nil if none is configured.
func (m *Manager) SpecialChicken() *Chicken {
	for _, ch := range m.chickens {
		if ch.Stats.Special == SpecialGolden {
			return ch
		}
	}
	return nil
}

// InCoopCount returns the number of chickens in the coop.
func (m *Manager) InCoopCount() int { return m.summary.inCoop }

// EscapedCount returns the number of chickens past the escape threshold.
func (m *Manager) EscapedCount() int { return m.summary.escaped }

// CapturedCount returns the number of chickens carried off.
func (m *Manager) CapturedCount() int { return m.summary.captured }

// ChickensWithEggs returns chickens holding an egg.
func (m *Manager) ChickensWithEggs() []*Chicken {
	var out []*Chicken
	for i, ok := range m.summary.hasEgg {
		if ok {
			out = append(out, m.chickens[i])
		}
	}
	return out
}

// HungryChickens returns uncaptured chickens whose hunger is below threshold.
func (m *Manager) HungryChickens(threshold float64) []*Chicken {
	var out []*Chicken
	for i, h := range m.summary.hunger {
		if h < threshold && m.summary.state[i] != StateCaptured {
			out = append(out, m.chickens[i])
		}
	}
	return out
}

// DefaultHungryChickens uses the configured hungry threshold.
func (m *Manager) DefaultHungryChickens() []*Chicken {
	return m.HungryChickens(m.params.HungryThreshold)
}

// TankChickens returns the tank-type chickens.
func (m *Manager) TankChickens() []*Chicken {
	var out []*Chicken
	for _, ch := range m.chickens {
		if ch.IsTank() {
			out = append(out, ch)
		}
	}
	return out
}

// Hungers returns the hunger values as of the last update.
func (m *Manager) Hungers() []float64 {
	out := make([]float64, len(m.summary.hunger))
	copy(out, m.summary.hunger)
	return out
}

// Recoverable reports whether any chicken can still be kept this round.
func (m *Manager) Recoverable() bool {
	return m.summary.captured < len(m.chickens)
}
