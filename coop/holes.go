package coop

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// maxPlacementAttempts bounds the search for a well-spaced hole position.
const maxPlacementAttempts = 8

// Hole is a breach point in the fence.
type Hole struct {
	ID     uint32
	Pos    r2.Vec
	Side   Side
	Age    float64 // seconds since the hole opened
	Radius float64
	Open   bool
}

// Circle returns the hole's interaction shape.
func (h Hole) Circle() spatial.Circle {
	return spatial.Circle{Center: h.Pos, Radius: h.Radius}
}

// Repairer is anything that can try to patch a hole.
type Repairer interface {
	Body() spatial.Circle
	HasRepairTool() bool
}

// HoleManager owns the set of open fence holes.
// At most cfg.MaxHoles holes are open at any time.
type HoleManager struct {
	cfg         config.FenceConfig
	repairReach float64
	coop        *Coop
	rng         *rand.Rand

	holes  []Hole
	nextID uint32
	timer  float64 // seconds until the next spawn attempt
}

// NewHoleManager creates a manager with no open holes.
func NewHoleManager(cfg config.FenceConfig, repairReach float64, c *Coop, rng *rand.Rand) *HoleManager {
	m := &HoleManager{
		cfg:         cfg,
		repairReach: repairReach,
		coop:        c,
		rng:         rng,
	}
	m.Reset()
	return m
}

// Reset repairs every hole and restarts the spawn timer.
func (m *HoleManager) Reset() {
	m.holes = m.holes[:0]
	m.nextID = 1
	m.timer = m.cfg.FirstSpawnDelay
}

// Update ages open holes and spawns a new one when the timer elapses.
// Returns the hole spawned this frame, if any.
func (m *HoleManager) Update(dt float64) (Hole, bool) {
	if dt < 0 {
		panic(fmt.Sprintf("coop: HoleManager.Update called with negative dt %g", dt))
	}

	for i := range m.holes {
		h := &m.holes[i]
		h.Age += dt
		h.Radius = min(h.Radius+m.cfg.GrowthRate*dt, m.cfg.MaxRadius)
	}

	m.timer -= dt
	if m.timer > 0 {
		return Hole{}, false
	}
	m.timer = m.nextInterval()

	return m.SpawnHole()
}

// nextInterval returns the spawn interval with jitter applied.
func (m *HoleManager) nextInterval() float64 {
	jitter := (m.rng.Float64()*2 - 1) * m.cfg.SpawnJitter
	return max(m.cfg.SpawnInterval+jitter, 0.1)
}

// SpawnHole opens a hole at a random fence position.
// Skipped (false) when the cap is reached or no well-spaced spot is found.
func (m *HoleManager) SpawnHole() (Hole, bool) {
	if len(m.holes) >= m.cfg.MaxHoles {
		return Hole{}, false
	}

	for range maxPlacementAttempts {
		side := Side(m.rng.Intn(4))
		length := m.coop.SideLength(side)
		margin := min(m.cfg.CornerMargin, length/2)
		t := (margin + m.rng.Float64()*(length-2*margin)) / length
		if h, ok := m.SpawnHoleAt(side, t); ok {
			return h, true
		}
	}
	return Hole{}, false
}

// SpawnHoleAt opens a hole at fraction t along side.
// Skipped (false) when the cap is reached or the spot crowds another hole.
func (m *HoleManager) SpawnHoleAt(side Side, t float64) (Hole, bool) {
	if len(m.holes) >= m.cfg.MaxHoles {
		return Hole{}, false
	}

	pos := m.coop.BoundaryPoint(side, t)
	for _, other := range m.holes {
		if spatial.Distance(pos, other.Pos) < m.cfg.MinSpacing {
			return Hole{}, false
		}
	}

	h := Hole{
		ID:     m.nextID,
		Pos:    pos,
		Side:   side,
		Radius: m.cfg.InitialRadius,
		Open:   true,
	}
	m.nextID++
	m.holes = append(m.holes, h)
	return h, true
}

// Repair patches the hole with the given ID.
// It is a no-op returning false unless the hole is open, the repairer holds
// the tool, and the repairer is within reach of the hole.
func (m *HoleManager) Repair(id uint32, r Repairer) bool {
	if !r.HasRepairTool() {
		return false
	}
	idx := m.indexOf(id)
	if idx < 0 {
		return false
	}

	body := r.Body()
	h := m.holes[idx]
	reach := body.Radius + h.Radius + m.repairReach
	if spatial.DistanceSq(body.Center, h.Pos) > reach*reach {
		return false
	}

	m.holes = append(m.holes[:idx], m.holes[idx+1:]...)
	return true
}

// OpenHoles returns a copy of the open holes ordered by ID.
func (m *HoleManager) OpenHoles() []Hole {
	out := make([]Hole, len(m.holes))
	copy(out, m.holes)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the open hole with the given ID.
func (m *HoleManager) Get(id uint32) (Hole, bool) {
	if idx := m.indexOf(id); idx >= 0 {
		return m.holes[idx], true
	}
	return Hole{}, false
}

// IsOpen reports whether the hole with the given ID is still open.
func (m *HoleManager) IsOpen(id uint32) bool {
	return m.indexOf(id) >= 0
}

// Count returns the number of open holes.
func (m *HoleManager) Count() int {
	return len(m.holes)
}

// Max returns the configured hole cap.
func (m *HoleManager) Max() int {
	return m.cfg.MaxHoles
}

func (m *HoleManager) indexOf(id uint32) int {
	for i := range m.holes {
		if m.holes[i].ID == id {
			return i
		}
	}
	return -1
}
