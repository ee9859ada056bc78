// Package spatial provides the distance and overlap primitives shared by
// every entity in the play field.
package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Circle is a collision shape: a center and a radius.
type Circle struct {
	Center r2.Vec
	Radius float64
}

// Overlap reports whether two circles intersect.
// Touching circles (distance == sum of radii) do not overlap.
func Overlap(a, b Circle) bool {
	rr := a.Radius + b.Radius
	return DistanceSq(a.Center, b.Center) < rr*rr
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// DistanceSq returns the squared distance between two points.
func DistanceSq(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// MoveToward steps from toward target by at most maxStep.
// Returns the new position and whether the target was reached.
func MoveToward(from, target r2.Vec, maxStep float64) (r2.Vec, bool) {
	delta := r2.Sub(target, from)
	dist := r2.Norm(delta)
	if dist <= maxStep || dist == 0 {
		return target, true
	}
	return r2.Add(from, r2.Scale(maxStep/dist, delta)), false
}

// Heading returns the unit vector for an angle in radians.
func Heading(angle float64) r2.Vec {
	return r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Clamp clamps v between minVal and maxVal.
func Clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Rect is an axis-aligned rectangle. Min is the top-left corner.
type Rect struct {
	Min, Max r2.Vec
}

// RectFromCenter builds a rectangle from its center and half extents.
func RectFromCenter(center r2.Vec, halfW, halfH float64) Rect {
	return Rect{
		Min: r2.Vec{X: center.X - halfW, Y: center.Y - halfH},
		Max: r2.Vec{X: center.X + halfW, Y: center.Y + halfH},
	}
}

// Center returns the rectangle's center point.
func (r Rect) Center() r2.Vec {
	return r2.Scale(0.5, r2.Add(r.Min, r.Max))
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Inset shrinks the rectangle by margin on every side.
// Margins larger than half an extent collapse that axis to its center.
func (r Rect) Inset(margin float64) Rect {
	out := Rect{
		Min: r2.Vec{X: r.Min.X + margin, Y: r.Min.Y + margin},
		Max: r2.Vec{X: r.Max.X - margin, Y: r.Max.Y - margin},
	}
	c := r.Center()
	if out.Min.X > out.Max.X {
		out.Min.X, out.Max.X = c.X, c.X
	}
	if out.Min.Y > out.Max.Y {
		out.Min.Y, out.Max.Y = c.Y, c.Y
	}
	return out
}

// ClampPoint returns the point inside the rectangle closest to p.
func (r Rect) ClampPoint(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: Clamp(p.X, r.Min.X, r.Max.X),
		Y: Clamp(p.Y, r.Min.Y, r.Max.Y),
	}
}

// DistanceOutside returns how far p lies outside the rectangle, 0 if inside.
func (r Rect) DistanceOutside(p r2.Vec) float64 {
	return Distance(p, r.ClampPoint(p))
}

// IntersectsSegment reports whether the segment a-b touches r.
func (r Rect) IntersectsSegment(a, b r2.Vec) bool {
	d := r2.Sub(b, a)
	t0, t1 := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = min(t1, t)
		}
		return true
	}
	return clip(-d.X, a.X-r.Min.X) && clip(d.X, r.Max.X-a.X) &&
		clip(-d.Y, a.Y-r.Min.Y) && clip(d.Y, r.Max.Y-a.Y)
}
