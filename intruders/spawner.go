// Package intruders runs the raccoons that raid the coop.
// Raccoons live in an ark ECS world owned by the Spawner.
package intruders

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/components"
	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// arriveEpsilon is how close a raccoon must get to count as arrived.
const arriveEpsilon = 0.5

// Capture is emitted when a raccoon carries a chicken off.
type Capture struct {
	RaccoonID uint32
	Chicken   *flock.Chicken
}

// RaccoonView is a read-only copy of one raccoon for renderers and the resolver.
type RaccoonView struct {
	ID       uint32
	Pos      r2.Vec
	Radius   float64
	Phase    components.RaccoonPhase
	Age      float64
	Carrying int
}

// Body returns the raccoon's collision circle.
func (v RaccoonView) Body() spatial.Circle {
	return spatial.Circle{Center: v.Pos, Radius: v.Radius}
}

// Spawner creates raccoons on a timer and steps them each frame.
// At most cfg.MaxConcurrent raccoons are active at once.
type Spawner struct {
	cfg   config.RaccoonConfig
	field spatial.Rect
	rng   *rand.Rand

	world *ecs.World

	// Entity mapper and filter over the raccoon archetype
	mapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Raccoon,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Raccoon,
	]

	// Individual component mappers for lookups
	posMap     *ecs.Map1[components.Position]
	raccoonMap *ecs.Map1[components.Raccoon]

	entities map[uint32]ecs.Entity
	nextID   uint32
	timer    float64
	spawned  int
}

// NewSpawner creates a spawner with no active raccoons.
func NewSpawner(cfg config.RaccoonConfig, field spatial.Rect, rng *rand.Rand) *Spawner {
	world := ecs.NewWorld()

	s := &Spawner{
		cfg:   cfg,
		field: field,
		rng:   rng,
		world: world,
		mapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Raccoon,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Raccoon,
		](world),
		posMap:     ecs.NewMap1[components.Position](world),
		raccoonMap: ecs.NewMap1[components.Raccoon](world),
		entities:   make(map[uint32]ecs.Entity),
	}
	s.Reset()
	return s
}

// Reset removes every raccoon and restarts the spawn timer.
func (s *Spawner) Reset() {
	for id, e := range s.entities {
		if s.world.Alive(e) {
			s.mapper.Remove(e)
		}
		delete(s.entities, id)
	}
	s.nextID = 1
	s.timer = s.cfg.FirstSpawnDelay
	s.spawned = 0
}

// Count returns the number of active raccoons.
func (s *Spawner) Count() int {
	return len(s.entities)
}

// Spawned returns how many raccoons have entered the field since Reset.
func (s *Spawner) Spawned() int {
	return s.spawned
}

// Spawn places a raccoon at a random field edge point.
// Skipped (false) when the concurrency cap is reached.
func (s *Spawner) Spawn() (uint32, bool) {
	w, h := s.field.Width(), s.field.Height()
	var p r2.Vec
	switch s.rng.Intn(4) {
	case 0:
		p = r2.Vec{X: s.rng.Float64() * w, Y: 0}
	case 1:
		p = r2.Vec{X: s.rng.Float64() * w, Y: h}
	case 2:
		p = r2.Vec{X: 0, Y: s.rng.Float64() * h}
	default:
		p = r2.Vec{X: w, Y: s.rng.Float64() * h}
	}
	return s.SpawnAt(r2.Add(s.field.Min, p))
}

// SpawnAt places a prowling raccoon at p.
// Skipped (false) when the concurrency cap is reached.
func (s *Spawner) SpawnAt(p r2.Vec) (uint32, bool) {
	if len(s.entities) >= s.cfg.MaxConcurrent {
		return 0, false
	}

	id := s.nextID
	s.nextID++

	pos := components.Position{X: p.X, Y: p.Y}
	vel := components.Velocity{}
	body := components.Body{Radius: s.cfg.Radius}
	rac := components.Raccoon{ID: id, Phase: components.PhaseProwling, Carrying: components.NoTarget}

	s.entities[id] = s.mapper.NewEntity(&pos, &vel, &body, &rac)
	s.spawned++
	return id, true
}

// Update spawns on the timer, moves every raccoon, and resolves captures.
// chickens is the roster; captured chickens are changed in place.
func (s *Spawner) Update(dt float64, c *coop.Coop, holes []coop.Hole, chickens []*flock.Chicken) []Capture {
	if dt < 0 {
		panic(fmt.Sprintf("intruders: Spawner.Update called with negative dt %g", dt))
	}

	s.timer -= dt
	if s.timer <= 0 {
		s.timer = max(s.cfg.SpawnInterval, 0.1)
		s.Spawn()
	}

	var captures []Capture
	var gone []uint32

	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, rac := query.Get()

		rac.Age += dt
		if rac.Age > s.cfg.Lifetime && rac.Phase != components.PhaseFleeing {
			rac.Phase = components.PhaseFleeing
		}

		from := pos.Vec()
		var next r2.Vec
		switch rac.Phase {
		case components.PhaseProwling:
			next = s.prowl(dt, rac, from, c, holes, chickens)
		case components.PhaseInside:
			next = s.hunt(dt, rac, from, c, chickens)
		case components.PhaseFleeing:
			var out bool
			next, out = s.flee(dt, rac, from, c, holes)
			if out {
				gone = append(gone, rac.ID)
			}
		}

		if dt > 0 {
			v := r2.Scale(1/dt, r2.Sub(next, from))
			vel.X, vel.Y = v.X, v.Y
		}
		pos.Set(next)

		if rac.CanCapture() {
			if ch := s.catch(rac, next, body.Radius, c, chickens); ch != nil {
				rac.Phase = components.PhaseFleeing
				rac.Carrying = ch.Index
				captures = append(captures, Capture{RaccoonID: rac.ID, Chicken: ch})
			}
		}
		if rac.Carrying != components.NoTarget && rac.Carrying < len(chickens) {
			chickens[rac.Carrying].Pos = next
		}
	}

	// Entities cannot be removed while the query is open
	for _, id := range gone {
		s.remove(id)
	}
	return captures
}

// prowl moves an outside raccoon toward the nearer of the closest open hole
// and the closest chicken outside the fence. With neither it paces the fence.
// Prowlers walk around the coop; a hole is the only way in.
func (s *Spawner) prowl(dt float64, rac *components.Raccoon, from r2.Vec, c *coop.Coop, holes []coop.Hole, chickens []*flock.Chicken) r2.Vec {
	step := s.cfg.Speed * dt

	hole, holeDist, hasHole := nearestOpenHole(from, holes)
	prey, preyDist := nearestChicken(from, chickens, func(ch *flock.Chicken) bool {
		return !c.Contains(ch.Pos)
	})

	switch {
	case hasHole && (prey == nil || holeDist <= preyDist):
		next, _ := spatial.MoveToward(from, c.Detour(from, hole.Pos, s.cfg.Radius), step)
		if spatial.Distance(next, hole.Pos) <= arriveEpsilon {
			next = hole.Pos
			rac.Phase = components.PhaseInside
			rac.HoleID = hole.ID
			rac.Entry = components.Position{X: hole.Pos.X, Y: hole.Pos.Y}
		}
		return next
	case prey != nil:
		next, _ := spatial.MoveToward(from, c.Detour(from, prey.Pos, s.cfg.Radius), step)
		return s.field.ClampPoint(next)
	default:
		fence, side := c.NearestFencePoint(from)
		// Pace just outside the fence rather than stepping onto it
		target := r2.Add(fence, r2.Scale(s.cfg.Radius, side.Normal()))
		next, _ := spatial.MoveToward(from, c.Detour(from, target, s.cfg.Radius), step)
		return next
	}
}

// hunt moves a raccoon inside the coop toward the closest chicken in it.
// An empty coop sends the raccoon away.
func (s *Spawner) hunt(dt float64, rac *components.Raccoon, from r2.Vec, c *coop.Coop, chickens []*flock.Chicken) r2.Vec {
	prey, _ := nearestChicken(from, chickens, func(ch *flock.Chicken) bool {
		return c.Contains(ch.Pos)
	})
	if prey == nil {
		rac.Phase = components.PhaseFleeing
		return from
	}
	next, _ := spatial.MoveToward(from, prey.Pos, s.cfg.InsideSpeed*dt)
	return c.Bounds().ClampPoint(next)
}

// flee moves toward the nearest field edge. Reports true once there.
// A raccoon still inside the fence first leaves through a hole.
func (s *Spawner) flee(dt float64, rac *components.Raccoon, from r2.Vec, c *coop.Coop, holes []coop.Hole) (r2.Vec, bool) {
	step := s.cfg.FleeSpeed * dt
	if c.Contains(from) {
		gap := exit(rac, from, holes)
		if spatial.Distance(from, gap) > arriveEpsilon {
			next, _ := spatial.MoveToward(from, gap, step)
			return next, false
		}
		_, side := c.NearestFencePoint(gap)
		next, _ := spatial.MoveToward(from, r2.Add(gap, r2.Scale(s.cfg.Radius, side.Normal())), step)
		return next, false
	}

	f := s.field
	target := r2.Vec{X: f.Min.X, Y: from.Y}
	best := from.X - f.Min.X
	if d := f.Max.X - from.X; d < best {
		best, target = d, r2.Vec{X: f.Max.X, Y: from.Y}
	}
	if d := from.Y - f.Min.Y; d < best {
		best, target = d, r2.Vec{X: from.X, Y: f.Min.Y}
	}
	if d := f.Max.Y - from.Y; d < best {
		target = r2.Vec{X: from.X, Y: f.Max.Y}
	}
	next, _ := spatial.MoveToward(from, c.Detour(from, target, s.cfg.Radius), step)
	return next, spatial.Distance(next, target) <= arriveEpsilon
}

// exit picks the way out for a raccoon inside the fence: the hole it came in
// by while that is open, else the nearest open hole, else the patched gap it
// entered through.
func exit(rac *components.Raccoon, from r2.Vec, holes []coop.Hole) r2.Vec {
	for _, h := range holes {
		if h.Open && h.ID == rac.HoleID {
			return h.Pos
		}
	}
	if h, _, ok := nearestOpenHole(from, holes); ok {
		return h.Pos
	}
	return rac.Entry.Vec()
}

// catch returns the first chicken in roster order the raccoon overlaps on
// its own side of the fence, marking it captured.
func (s *Spawner) catch(rac *components.Raccoon, at r2.Vec, radius float64, c *coop.Coop, chickens []*flock.Chicken) *flock.Chicken {
	body := spatial.Circle{Center: at, Radius: radius}
	inside := rac.Phase == components.PhaseInside
	for _, ch := range chickens {
		if ch.State == flock.StateCaptured || c.Contains(ch.Pos) != inside {
			continue
		}
		if !spatial.Overlap(body, ch.Body()) {
			continue
		}
		if ch.Capture() {
			return ch
		}
	}
	return nil
}

// Neutralize removes a raccoon that has not started fleeing.
// Returns false for unknown or fleeing raccoons.
func (s *Spawner) Neutralize(id uint32) bool {
	e, ok := s.entities[id]
	if !ok || !s.world.Alive(e) {
		return false
	}
	if !s.raccoonMap.Get(e).CanCapture() {
		return false
	}
	s.remove(id)
	return true
}

func (s *Spawner) remove(id uint32) {
	e, ok := s.entities[id]
	if !ok {
		return
	}
	if s.world.Alive(e) {
		s.mapper.Remove(e)
	}
	delete(s.entities, id)
}

// Raccoons returns a copy of every active raccoon ordered by ID.
func (s *Spawner) Raccoons() []RaccoonView {
	out := make([]RaccoonView, 0, len(s.entities))
	query := s.filter.Query()
	for query.Next() {
		pos, _, body, rac := query.Get()
		out = append(out, RaccoonView{
			ID:       rac.ID,
			Pos:      pos.Vec(),
			Radius:   body.Radius,
			Phase:    rac.Phase,
			Age:      rac.Age,
			Carrying: rac.Carrying,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the raccoon with the given ID.
func (s *Spawner) Get(id uint32) (RaccoonView, bool) {
	e, ok := s.entities[id]
	if !ok || !s.world.Alive(e) {
		return RaccoonView{}, false
	}
	pos := s.posMap.Get(e)
	rac := s.raccoonMap.Get(e)
	return RaccoonView{
		ID:       rac.ID,
		Pos:      pos.Vec(),
		Radius:   s.cfg.Radius,
		Phase:    rac.Phase,
		Age:      rac.Age,
		Carrying: rac.Carrying,
	}, true
}

func nearestOpenHole(p r2.Vec, holes []coop.Hole) (coop.Hole, float64, bool) {
	var best coop.Hole
	bestDist := math.Inf(1)
	found := false
	for _, h := range holes {
		if !h.Open {
			continue
		}
		if d := spatial.Distance(p, h.Pos); d < bestDist {
			best, bestDist, found = h, d, true
		}
	}
	return best, bestDist, found
}

func nearestChicken(p r2.Vec, chickens []*flock.Chicken, keep func(*flock.Chicken) bool) (*flock.Chicken, float64) {
	var best *flock.Chicken
	bestDist := math.Inf(1)
	for _, ch := range chickens {
		if ch.State == flock.StateCaptured || !keep(ch) {
			continue
		}
		if d := spatial.Distance(p, ch.Pos); d < bestDist {
			best, bestDist = ch, d
		}
	}
	return best, bestDist
}
