// Package coop holds the enclosure geometry and the fence breach subsystem.
package coop

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// Side identifies one of the four fence sides.
type Side uint8

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// String returns the display name for a Side.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Normal returns the outward unit normal of the side.
func (s Side) Normal() r2.Vec {
	switch s {
	case SideTop:
		return r2.Vec{X: 0, Y: -1}
	case SideBottom:
		return r2.Vec{X: 0, Y: 1}
	case SideLeft:
		return r2.Vec{X: -1, Y: 0}
	default:
		return r2.Vec{X: 1, Y: 0}
	}
}

// Coop is the fenced enclosure. Read-only after construction.
type Coop struct {
	bounds       spatial.Rect
	interior     spatial.Rect
	escapeMargin float64
	ringMin      float64
	ringMax      float64
}

// New builds the coop from configuration.
func New(cfg config.CoopConfig) *Coop {
	bounds := spatial.RectFromCenter(r2.Vec{X: cfg.CenterX, Y: cfg.CenterY}, cfg.HalfWidth, cfg.HalfHeight)
	return &Coop{
		bounds:       bounds,
		interior:     bounds.Inset(cfg.InsetMargin),
		escapeMargin: cfg.EscapeMargin,
		ringMin:      cfg.RingMin,
		ringMax:      cfg.RingMax,
	}
}

// Center returns the coop center.
func (c *Coop) Center() r2.Vec { return c.bounds.Center() }

// Bounds returns the fence rectangle.
func (c *Coop) Bounds() spatial.Rect { return c.bounds }

// Interior returns the area in-coop chickens are kept within.
func (c *Coop) Interior() spatial.Rect { return c.interior }

// EscapeMargin returns how far past the fence the escape threshold lies.
func (c *Coop) EscapeMargin() float64 { return c.escapeMargin }

// RingBand returns the inner and outer spawn ring radii.
func (c *Coop) RingBand() (float64, float64) { return c.ringMin, c.ringMax }

// Contains reports whether p is inside the fence.
func (c *Coop) Contains(p r2.Vec) bool { return c.bounds.Contains(p) }

// OutsideDistance returns the signed distance of p past the given side,
// measured along the side's outward normal. Negative means inside that side.
func (c *Coop) OutsideDistance(p r2.Vec, side Side) float64 {
	switch side {
	case SideTop:
		return c.bounds.Min.Y - p.Y
	case SideBottom:
		return p.Y - c.bounds.Max.Y
	case SideLeft:
		return c.bounds.Min.X - p.X
	default:
		return p.X - c.bounds.Max.X
	}
}

// PastThreshold reports whether p has crossed the escape threshold of side.
func (c *Coop) PastThreshold(p r2.Vec, side Side) bool {
	return c.OutsideDistance(p, side) >= c.escapeMargin
}

// SideLength returns the length of the given fence side.
func (c *Coop) SideLength(side Side) float64 {
	if side == SideTop || side == SideBottom {
		return c.bounds.Width()
	}
	return c.bounds.Height()
}

// BoundaryPoint returns the fence point at fraction t (0..1) along side,
// left to right for horizontal sides and top to bottom for vertical ones.
func (c *Coop) BoundaryPoint(side Side, t float64) r2.Vec {
	t = spatial.Clamp(t, 0, 1)
	b := c.bounds
	switch side {
	case SideTop:
		return r2.Vec{X: b.Min.X + t*b.Width(), Y: b.Min.Y}
	case SideBottom:
		return r2.Vec{X: b.Min.X + t*b.Width(), Y: b.Max.Y}
	case SideLeft:
		return r2.Vec{X: b.Min.X, Y: b.Min.Y + t*b.Height()}
	default:
		return r2.Vec{X: b.Max.X, Y: b.Min.Y + t*b.Height()}
	}
}

// NearestFencePoint returns the closest point on the fence line to p and the
// side it lies on.
func (c *Coop) NearestFencePoint(p r2.Vec) (r2.Vec, Side) {
	b := c.bounds
	best := SideTop
	bestDist := math.Inf(1)
	var bestPoint r2.Vec
	for _, side := range []Side{SideTop, SideBottom, SideLeft, SideRight} {
		var q r2.Vec
		switch side {
		case SideTop:
			q = r2.Vec{X: spatial.Clamp(p.X, b.Min.X, b.Max.X), Y: b.Min.Y}
		case SideBottom:
			q = r2.Vec{X: spatial.Clamp(p.X, b.Min.X, b.Max.X), Y: b.Max.Y}
		case SideLeft:
			q = r2.Vec{X: b.Min.X, Y: spatial.Clamp(p.Y, b.Min.Y, b.Max.Y)}
		case SideRight:
			q = r2.Vec{X: b.Max.X, Y: spatial.Clamp(p.Y, b.Min.Y, b.Max.Y)}
		}
		if d := spatial.DistanceSq(p, q); d < bestDist {
			bestDist = d
			best = side
			bestPoint = q
		}
	}
	return bestPoint, best
}

// RandomInterior returns a uniformly random point in the interior.
func (c *Coop) RandomInterior(rng *rand.Rand) r2.Vec {
	in := c.interior
	return r2.Vec{
		X: in.Min.X + rng.Float64()*in.Width(),
		Y: in.Min.Y + rng.Float64()*in.Height(),
	}
}

// fenceSlack keeps points on the fence line itself from counting as inside
// when testing paths against it.
const fenceSlack = 1.0

// Detour returns the next waypoint on a path from from to to that stays
// outside the fence, rounding corners at clearance. It returns to when the
// straight path is clear or no way around exists.
func (c *Coop) Detour(from, to r2.Vec, clearance float64) r2.Vec {
	solid := c.bounds.Inset(fenceSlack)
	if !solid.IntersectsSegment(from, to) {
		return to
	}

	ring := c.bounds.Inset(-clearance)
	corners := [4]r2.Vec{
		ring.Min,
		{X: ring.Max.X, Y: ring.Min.Y},
		ring.Max,
		{X: ring.Min.X, Y: ring.Max.Y},
	}

	// Remaining path length from each corner, walking the ring if needed
	var rest [4]float64
	for i, k := range corners {
		rest[i] = math.Inf(1)
		if !solid.IntersectsSegment(k, to) {
			rest[i] = spatial.Distance(k, to)
		}
	}
	for range corners {
		for i := range corners {
			for _, j := range [2]int{(i + 1) % 4, (i + 3) % 4} {
				rest[i] = min(rest[i], spatial.Distance(corners[i], corners[j])+rest[j])
			}
		}
	}

	best, bestLen := to, math.Inf(1)
	for i, k := range corners {
		if k == from || solid.IntersectsSegment(from, k) {
			continue
		}
		if l := spatial.Distance(from, k) + rest[i]; l < bestLen {
			best, bestLen = k, l
		}
	}
	return best
}
