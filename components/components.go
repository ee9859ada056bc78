// Package components defines ECS components for the intruder world.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's field position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Set stores v as the position.
func (p *Position) Set(v r2.Vec) { p.X, p.Y = v.X, v.Y }

// Velocity represents an entity's velocity in units per second.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// Body holds physical properties of an entity.
type Body struct {
	Radius float64
}
